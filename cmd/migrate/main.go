package main

import (
	"os"

	"mdc-notebook-be/internal/config"
	"mdc-notebook-be/internal/model"
	"mdc-notebook-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	info := color.New(color.FgCyan)
	ok := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)

	cfg, err := config.Load()
	if err != nil {
		fail.Printf("Error: unable to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Connection == "" && (cfg.Database.Name == "" || cfg.Database.User == "") {
		fail.Println("Error: set DB_CONNECTION_STRING or DB_NAME and DB_USER")
		os.Exit(1)
	}

	db, err := database.NewGormDB(database.GormConfig{
		DSN:          cfg.Database.DSN(),
		MaxOpenConns: cfg.Database.MaxOpenConns,
		Production:   cfg.IsProduction(),
	})
	if err != nil {
		fail.Printf("Error: failed to connect to database: %v\n", err)
		os.Exit(1)
	}

	models := model.All()
	info.Printf("Running AutoMigrate for %d tables...\n", len(models))

	if err := database.AutoMigrate(db, models...); err != nil {
		fail.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ok.Println("Success: database migration completed")
}
