package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormConfig struct {
	DSN          string
	MaxOpenConns int
	Production   bool
}

// setupSQL runs before AutoMigrate. gen_random_uuid() comes from pgcrypto.
var setupSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
}

func getLogger(production bool) logger.Interface {
	level := logger.Info
	if production {
		level = logger.Warn
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  !production,
		},
	)
}

func configureConnectionPool(db *gorm.DB, maxOpen int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if maxOpen <= 0 {
		maxOpen = 10
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

func NewGormDB(cfg GormConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         getLogger(cfg.Production),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := configureConnectionPool(db, cfg.MaxOpenConns); err != nil {
		return nil, fmt.Errorf("configure pool: %w", err)
	}

	return db, nil
}

// AutoMigrate prepares extensions and creates or alters the given tables.
func AutoMigrate(db *gorm.DB, models ...interface{}) error {
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("setup %q: %w", sql, err)
		}
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
