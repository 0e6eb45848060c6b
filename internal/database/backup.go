package database

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BackupTimestampLayout is the timestamp embedded in backup file names.
const BackupTimestampLayout = "20060102_150405"

// BackupPath returns <stem>_backup_<timestamp><ext> next to path.
func BackupPath(path string, at time.Time) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s_backup_%s%s", stem, at.Format(BackupTimestampLayout), ext))
}

// createBackup copies path to BackupPath(path, at). An existing backup is
// never overwritten: when the name is taken, _1, _2, ... is appended to the
// stem until a free name is found. It returns the path written.
func createBackup(path string, at time.Time) (string, error) {
	base := BackupPath(path, at)
	dst := base
	for n := 1; ; n++ {
		err := backupFile(path, dst)
		if err == nil {
			return dst, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
		ext := filepath.Ext(base)
		dst = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(base, ext), n, ext)
	}
}

// backupFile copies src to a new file dst, keeping the permission bits and the
// modification time of src.
func backupFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	if err = out.Sync(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
