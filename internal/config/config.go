package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Databricks DatabricksConfig
	Telemetry  TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	FrontendDistPath   string
}

type DatabaseConfig struct {
	Connection   string // full DSN, takes precedence over the parts below
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	AutoMigrate  bool
}

type AuthConfig struct {
	JWTSecret  string
	BcryptCost int
}

type DatabricksConfig struct {
	Instance     string
	Token        string
	ClusterID    string
	NotebookPath string
	Timeout      time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
}

// envSpec is the flat view of the process environment.
type envSpec struct {
	Port               string `envconfig:"PORT" default:"3000"`
	Environment        string `envconfig:"GO_ENV" default:"development"`
	LogFilePath        string `envconfig:"LOG_FILE_PATH" default:"logs/app.log"`
	CorsAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	FrontendDistPath   string `envconfig:"FRONTEND_DIST_PATH" default:"dist"`

	DBConnection   string `envconfig:"DB_CONNECTION_STRING"`
	DBHost         string `envconfig:"DB_HOST" default:"localhost"`
	DBPort         string `envconfig:"DB_PORT" default:"5432"`
	DBName         string `envconfig:"DB_NAME"`
	DBUser         string `envconfig:"DB_USER"`
	DBPassword     string `envconfig:"DB_PASSWORD"`
	DBSSLMode      string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	DBAutoMigrate  bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`

	JWTSecret  string `envconfig:"JWT_SECRET"`
	BcryptCost int    `envconfig:"BCRYPT_COST" default:"10"`

	DatabricksInstance  string        `envconfig:"DATABRICKS_INSTANCE"`
	DatabricksToken     string        `envconfig:"DATABRICKS_TOKEN"`
	DatabricksClusterID string        `envconfig:"DATABRICKS_CLUSTER_ID"`
	NotebookPath        string        `envconfig:"NOTEBOOK_PATH"`
	DatabricksTimeout   time.Duration `envconfig:"DATABRICKS_TIMEOUT" default:"60s"`

	OtelEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OtelEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4318"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var env envSpec
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	return &Config{
		App: AppConfig{
			Port:               env.Port,
			Environment:        env.Environment,
			LogFilePath:        env.LogFilePath,
			CorsAllowedOrigins: env.CorsAllowedOrigins,
			FrontendDistPath:   env.FrontendDistPath,
		},
		Database: DatabaseConfig{
			Connection:   env.DBConnection,
			Host:         env.DBHost,
			Port:         env.DBPort,
			Name:         env.DBName,
			User:         env.DBUser,
			Password:     env.DBPassword,
			SSLMode:      env.DBSSLMode,
			MaxOpenConns: env.DBMaxOpenConns,
			AutoMigrate:  env.DBAutoMigrate,
		},
		Auth: AuthConfig{
			JWTSecret:  env.JWTSecret,
			BcryptCost: env.BcryptCost,
		},
		Databricks: DatabricksConfig{
			Instance:     strings.TrimRight(env.DatabricksInstance, "/"),
			Token:        env.DatabricksToken,
			ClusterID:    env.DatabricksClusterID,
			NotebookPath: env.NotebookPath,
			Timeout:      env.DatabricksTimeout,
		},
		Telemetry: TelemetryConfig{
			Enabled:      env.OtelEnabled,
			OTLPEndpoint: env.OtelEndpoint,
		},
	}, nil
}

// Validate reports configuration the server cannot start without.
// Upstream settings are not checked here; see DatabricksConfig.Missing.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Connection == "" {
		if c.Database.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required when DB_CONNECTION_STRING is not set"))
		}
		if c.Database.User == "" {
			errs = append(errs, errors.New("DB_USER is required when DB_CONNECTION_STRING is not set"))
		}
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	return errors.Join(errs...)
}

// DSN returns the connection string for the relational store.
func (d DatabaseConfig) DSN() string {
	if d.Connection != "" {
		return d.Connection
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// Missing lists the upstream environment variables that are unset.
func (d DatabricksConfig) Missing() []string {
	var missing []string
	if d.Instance == "" {
		missing = append(missing, "DATABRICKS_INSTANCE")
	}
	if d.Token == "" {
		missing = append(missing, "DATABRICKS_TOKEN")
	}
	if d.ClusterID == "" {
		missing = append(missing, "DATABRICKS_CLUSTER_ID")
	}
	if d.NotebookPath == "" {
		missing = append(missing, "NOTEBOOK_PATH")
	}
	return missing
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
