package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"pantry_tracker/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var oldShapeDDL = []string{
	`CREATE TABLE categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(50) NOT NULL UNIQUE
	)`,
	`CREATE TABLE products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name VARCHAR(100) NOT NULL UNIQUE,
		url VARCHAR(200) NOT NULL,
		category_id INTEGER NOT NULL REFERENCES categories(id),
		barcode VARCHAR(13) UNIQUE,
		image_front_small_url TEXT
	)`,
	`CREATE TABLE counts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id INTEGER NOT NULL UNIQUE REFERENCES products(id),
		count INTEGER NOT NULL DEFAULT 0
	)`,
	`INSERT INTO categories (name) VALUES ('Dairy'), ('Grains')`,
	`INSERT INTO products (name, url, category_id, barcode) VALUES
		('Milk', 'http://x.test/milk', 1, '12345678'),
		('Oats', 'http://x.test/oats', 2, NULL),
		('Butter', 'http://x.test/butter', 1, '4006381333931')`,
	`INSERT INTO counts (product_id, count) VALUES (1, 3), (2, 10)`,
}

type productRow struct {
	ID       int64   `db:"id"`
	Name     string  `db:"name"`
	URL      string  `db:"url"`
	Category int64   `db:"category_id"`
	Barcode  *string `db:"barcode"`
}

func storeConfig(path string) config.StoreConfig {
	return config.StoreConfig{Driver: config.DriverSQLite, Path: path}
}

// oldShapeStore writes a store that predates locations and the product
// stock/expiry columns.
func oldShapeStore(t *testing.T) config.StoreConfig {
	t.Helper()
	cfg := storeConfig(filepath.Join(t.TempDir(), "pantry_data.db"))
	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()
	for _, stmt := range oldShapeDDL {
		_, err := store.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return cfg
}

func openStore(t *testing.T, cfg config.StoreConfig) *Store {
	t.Helper()
	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func describe(t *testing.T, store *Store) Catalog {
	t.Helper()
	catalog, err := Describe(context.Background(), store, store.Dialect, PantrySchema)
	require.NoError(t, err)
	return catalog
}

func products(t *testing.T, store *Store) []productRow {
	t.Helper()
	var rows []productRow
	require.NoError(t, store.Select(&rows, "SELECT id, name, url, category_id, barcode FROM products ORDER BY id"))
	return rows
}

func newTestMigrator(cfg config.StoreConfig) *Migrator {
	m := NewMigrator(cfg, zerolog.Nop())
	m.now = func() time.Time { return time.Date(2024, time.March, 10, 14, 30, 5, 0, time.UTC) }
	return m
}

func TestMigrator_OldShapeStore(t *testing.T) {
	cfg := oldShapeStore(t)
	before := products(t, openStore(t, cfg))

	report, err := newTestMigrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"create 'locations' table",
		"add 'products.min_stock' column",
		"add 'products.location_id' column",
		"add 'products.expiry_date' column",
		"add 'products.notes' column",
	}, report.Applied)
	assert.EqualValues(t, 3, report.Products)
	assert.EqualValues(t, 1, report.Locations)

	store := openStore(t, cfg)
	var locations []struct {
		Name        string  `db:"name"`
		Description *string `db:"description"`
	}
	require.NoError(t, store.Select(&locations, "SELECT name, description FROM locations"))
	require.Len(t, locations, 1)
	assert.Equal(t, "Pantry", locations[0].Name)
	require.NotNil(t, locations[0].Description)
	assert.Equal(t, "Default storage location", *locations[0].Description)

	catalog := describe(t, store)
	for _, col := range []string{"min_stock", "location_id", "expiry_date", "notes"} {
		assert.True(t, catalog["products"][col], col)
	}

	assert.Equal(t, before, products(t, store), "existing product rows must be preserved")

	var minStocks []int
	require.NoError(t, store.Select(&minStocks, "SELECT min_stock FROM products"))
	assert.Equal(t, []int{5, 5, 5}, minStocks)

	var nulls int
	require.NoError(t, store.Get(&nulls,
		"SELECT COUNT(*) FROM products WHERE location_id IS NULL AND expiry_date IS NULL AND notes IS NULL"))
	assert.Equal(t, 3, nulls)
}

func TestMigrator_Idempotent(t *testing.T) {
	cfg := oldShapeStore(t)
	_, err := newTestMigrator(cfg).Run(context.Background())
	require.NoError(t, err)

	report, err := NewMigrator(cfg, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.Applied)
	assert.Equal(t, []string{
		"'locations' table already exists",
		"'categories' table already exists",
		"'products' table already exists",
		"'products.min_stock' column already exists",
		"'products.location_id' column already exists",
		"'products.expiry_date' column already exists",
		"'products.notes' column already exists",
		"'counts' table already exists",
	}, report.Existing)
	assert.EqualValues(t, 1, report.Locations, "seed row must not be inserted twice")
	assert.EqualValues(t, 3, report.Products)
}

func TestMigrator_Backup(t *testing.T) {
	cfg := oldShapeStore(t)

	report, err := newTestMigrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(cfg.Path), "pantry_data_backup_20240310_143005.db"), report.BackupPath)
	assert.Regexp(t, regexp.MustCompile(`pantry_data_backup_\d{8}_\d{6}\.db$`), report.BackupPath)
	_, err = os.Stat(report.BackupPath)
	require.NoError(t, err)

	backup := openStore(t, storeConfig(report.BackupPath))
	assert.Len(t, products(t, backup), 3)
	_, hasLocations := describe(t, backup)["locations"]
	assert.False(t, hasLocations, "backup is taken before any change")

	second, err := NewMigrator(cfg, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, second.BackupPath)

	var n int
	require.NoError(t, openStore(t, storeConfig(second.BackupPath)).Get(&n, "SELECT COUNT(*) FROM locations"))
	assert.Equal(t, 1, n)
}

func TestMigrator_BackupNeverOverwritten(t *testing.T) {
	cfg := oldShapeStore(t)

	first, err := newTestMigrator(cfg).Run(context.Background())
	require.NoError(t, err)
	second, err := newTestMigrator(cfg).Run(context.Background())
	require.NoError(t, err)
	third, err := newTestMigrator(cfg).Run(context.Background())
	require.NoError(t, err)

	dir := filepath.Dir(cfg.Path)
	assert.Equal(t, filepath.Join(dir, "pantry_data_backup_20240310_143005.db"), first.BackupPath)
	assert.Equal(t, filepath.Join(dir, "pantry_data_backup_20240310_143005_1.db"), second.BackupPath)
	assert.Equal(t, filepath.Join(dir, "pantry_data_backup_20240310_143005_2.db"), third.BackupPath)

	_, hasLocations := describe(t, openStore(t, storeConfig(first.BackupPath)))["locations"]
	assert.False(t, hasLocations, "first backup keeps the pre-migration store")
	_, hasLocations = describe(t, openStore(t, storeConfig(second.BackupPath)))["locations"]
	assert.True(t, hasLocations)
}

func TestMigrator_RollbackOnFailure(t *testing.T) {
	cfg := oldShapeStore(t)
	before := describe(t, openStore(t, cfg))

	injected := errors.New("disk full")
	m := newTestMigrator(cfg)
	applied := 0
	m.afterStep = func(step Step) error {
		applied++
		if step.Kind == StepAddColumn {
			return injected
		}
		return nil
	}

	report, err := m.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMigrationFailed)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 2, applied, "create locations, then the first column")
	assert.Empty(t, report.Applied)
	assert.NotEmpty(t, report.BackupPath, "backup survives a failed run")

	store := openStore(t, cfg)
	assert.Equal(t, before, describe(t, store))
	assert.Len(t, products(t, store), 3)
}

func TestMigrator_BrandNewStore(t *testing.T) {
	cfg := storeConfig(filepath.Join(t.TempDir(), "fresh.db"))

	report, err := newTestMigrator(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, report.BackupPath)
	assert.Equal(t, []string{
		"create 'locations' table",
		"create 'categories' table",
		"create 'products' table",
		"create 'counts' table",
	}, report.Applied)
	assert.EqualValues(t, 0, report.Products)
	assert.EqualValues(t, 1, report.Locations)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(cfg.Path), "*_backup_*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMigrator_UnsupportedSchema(t *testing.T) {
	cfg := storeConfig(filepath.Join(t.TempDir(), "odd.db"))
	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	_, err = store.Exec(`CREATE TABLE products (id INTEGER PRIMARY KEY, name TEXT)`)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, err = newTestMigrator(cfg).Run(context.Background())
	assert.ErrorIs(t, err, ErrMigrationFailed)
	assert.ErrorIs(t, err, ErrUnsupportedSchema)

	_, hasLocations := describe(t, openStore(t, cfg))["locations"]
	assert.False(t, hasLocations)
}

func TestDiff_PlansOnlyMissingItems(t *testing.T) {
	catalog := Catalog{
		"locations":  {"id": true, "name": true, "description": true},
		"categories": {"id": true, "name": true},
		"products": {
			"id": true, "name": true, "url": true, "category_id": true,
			"barcode": true, "image_front_small_url": true, "min_stock": true,
		},
	}

	steps, err := Diff(catalog, PantrySchema, sqliteDialect{})
	require.NoError(t, err)

	var pending []string
	for _, s := range steps {
		if !s.Existing {
			pending = append(pending, s.String())
		}
	}
	assert.Equal(t, []string{
		"add 'products.location_id' column",
		"add 'products.expiry_date' column",
		"add 'products.notes' column",
		"create 'counts' table",
	}, pending)
}

func TestCreateBackup_ExistingNameIsKept(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "pantry.db")
	require.NoError(t, os.WriteFile(src, []byte("current"), 0o600))
	at := time.Date(2023, time.January, 2, 3, 4, 5, 0, time.UTC)
	taken := BackupPath(src, at)
	require.NoError(t, os.WriteFile(taken, []byte("older"), 0o600))

	dst, err := createBackup(src, at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pantry_backup_20230102_030405_1.db"), dst)

	older, err := os.ReadFile(taken)
	require.NoError(t, err)
	assert.Equal(t, "older", string(older))
	copied, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "current", string(copied))
}

func TestBackupPath(t *testing.T) {
	at := time.Date(2023, time.January, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "/data/pantry_data_backup_20230102_030405.db", BackupPath("/data/pantry_data.db", at))
	assert.Equal(t, "store_backup_20230102_030405", BackupPath("store", at))
}
