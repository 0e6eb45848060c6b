package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"pantry_tracker/internal/config"
	"pantry_tracker/internal/database"
	"pantry_tracker/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load() // Load .env file if it exists

	cfg := config.Load()
	utils.InitLogger(utils.LoggerOptions{
		Level:   cfg.Logger.Level,
		Format:  cfg.Logger.Format,
		NoColor: cfg.Logger.NoColor,
	})

	banner := strings.Repeat("=", 60)
	fmt.Println(banner)
	fmt.Println("  Pantry Tracker - Database Migration")
	fmt.Println(banner)

	migrator := database.NewMigrator(cfg.Store, log.Logger)
	report, err := migrator.Run(context.Background())
	if err != nil {
		utils.LogError(err, "Database migration aborted")
		if report != nil && report.BackupPath != "" {
			utils.LogWarn("Restore the backup to recover", map[string]interface{}{"backup": report.BackupPath})
		}
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Database Summary:")
	fmt.Printf("   - Products: %d\n", report.Products)
	fmt.Printf("   - Locations: %d\n", report.Locations)
	if report.BackupPath != "" {
		fmt.Printf("   - Backup saved at: %s\n", report.BackupPath)
	} else {
		fmt.Println("   - Backup: none (no existing file-backed store)")
	}
	fmt.Println(banner)
	fmt.Println("  Migration Complete! You can now restart the add-on.")
	fmt.Println(banner)
}
