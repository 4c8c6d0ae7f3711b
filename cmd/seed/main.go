package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"mdc-notebook-be/internal/config"
	"mdc-notebook-be/internal/entity"
	"mdc-notebook-be/internal/model"
	"mdc-notebook-be/internal/repository/unitofwork"
	"mdc-notebook-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error: unable to load configuration: %v", err)
	}

	db, err := database.NewGormDB(database.GormConfig{
		DSN:          cfg.Database.DSN(),
		MaxOpenConns: cfg.Database.MaxOpenConns,
		Production:   cfg.IsProduction(),
	})
	if err != nil {
		log.Fatalf("Error: failed to connect to database: %v", err)
	}

	SeedOrganization(db)
	SeedUser(db, os.Getenv("SEED_USER_EMAIL"), os.Getenv("SEED_USER_PASSWORD"), cfg.Auth.BcryptCost)
	SeedNotebooks(db)

	color.New(color.FgGreen, color.Bold).Println("Success: seed completed")
}

// SeedOrganization creates the default organization once.
func SeedOrganization(db *gorm.DB) {
	org := model.Organization{Id: uuid.New(), Name: "MDC"}
	res := db.Where(model.Organization{Name: org.Name}).FirstOrCreate(&org)
	if res.Error != nil {
		color.Red("Failed to seed organization: %v", res.Error)
		return
	}
	color.Cyan("Organization %q ready (%d created)", org.Name, res.RowsAffected)
}

// SeedUser creates a login for local development. Skipped unless both
// SEED_USER_EMAIL and SEED_USER_PASSWORD are set.
func SeedUser(db *gorm.DB, email, password string, cost int) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		color.Yellow("Skipping user seed (SEED_USER_EMAIL / SEED_USER_PASSWORD not set)")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		color.Red("Failed to hash seed password: %v", err)
		return
	}

	username := strings.SplitN(email, "@", 2)[0]
	user := model.User{
		Id:       uuid.New(),
		FullName: username,
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	res := db.Where(model.User{Email: email}).FirstOrCreate(&user)
	if res.Error != nil {
		color.Red("Failed to seed user: %v", res.Error)
		return
	}
	color.Cyan("User %s ready (%d created)", email, res.RowsAffected)
}

// SeedNotebooks fills an empty notebooks table with a few run records so the
// dashboard has something to show.
func SeedNotebooks(db *gorm.DB) {
	count, err := unitofwork.NewUnitOfWork(db).NotebookRepository().Count(context.Background())
	if err != nil {
		color.Red("Failed to count notebooks: %v", err)
		return
	}
	if count > 0 {
		color.Yellow("Notebooks already present, skipping")
		return
	}

	now := time.Now()
	rows := func(n int64) *int64 { return &n }
	samples := []model.Notebook{
		{Id: uuid.New(), FileName: "sales_2024.csv", Status: entity.NotebookStatusSuccess, TotalRows: rows(1200), CreatedAt: now.Add(-3 * time.Hour)},
		{Id: uuid.New(), FileName: "inventory.xlsx", Status: entity.NotebookStatusSuccess, TotalRows: rows(430), CreatedAt: now.Add(-90 * time.Minute)},
		{Id: uuid.New(), FileName: "customers.csv", Status: entity.NotebookStatusFailed, CreatedAt: now.Add(-10 * time.Minute)},
	}
	if err := db.Create(&samples).Error; err != nil {
		color.Red("Failed to seed notebooks: %v", err)
		return
	}
	color.Cyan("Seeded %d notebook run records", len(samples))
}
