// Package config provides configuration management for billdivider.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreBolt   = "bolt"
	StoreMemory = "memory"
)

// Config represents the application configuration.
type Config struct {
	Storage   StorageConfig
	Household HouseholdConfig
	Server    ServerConfig
	Debug     bool
}

// StorageConfig selects where the ledger document lives.
type StorageConfig struct {
	Backend  string
	Root     string
	DBPath   string
	BoltPath string
}

// HouseholdConfig describes the roommates and how amounts are shown.
type HouseholdConfig struct {
	RoommatesFile string
	Currency      string
	ExportDir     string
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string
}

// Load loads configuration from environment variables.
// It loads .env from the current directory if available, or envPath when given.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	backend := strings.ToLower(getEnvOrDefault("BILLDIVIDER_STORE", StoreSQLite))
	switch backend {
	case StoreSQLite, StoreBolt, StoreMemory:
	default:
		return nil, fmt.Errorf("invalid BILLDIVIDER_STORE: %s (expected sqlite, bolt or memory)", backend)
	}

	config := &Config{
		Storage: StorageConfig{
			Backend:  backend,
			Root:     getEnvOrDefault("BILLDIVIDER_ROOT", "./billdivider-data"),
			DBPath:   os.Getenv("BILLDIVIDER_DB_PATH"),
			BoltPath: os.Getenv("BILLDIVIDER_BOLT_PATH"),
		},
		Household: HouseholdConfig{
			RoommatesFile: os.Getenv("BILLDIVIDER_ROOMMATES"),
			Currency:      strings.ToUpper(getEnvOrDefault("BILLDIVIDER_CURRENCY", "USD")),
			ExportDir:     os.Getenv("BILLDIVIDER_EXPORT_DIR"),
		},
		Server: ServerConfig{
			Addr: getEnvOrDefault("BILLDIVIDER_ADDR", ":8080"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate checks that every required field is set.
// Fields are named by dotted path, e.g. "storage.root".
func (c *Config) Validate(required ...string) error {
	var missing []string

	for _, path := range required {
		var value string
		switch path {
		case "storage.root":
			value = c.Storage.Root
		case "storage.dbPath":
			value = c.Storage.DBPath
		case "storage.boltPath":
			value = c.Storage.BoltPath
		case "household.roommatesFile":
			value = c.Household.RoommatesFile
		case "household.currency":
			value = c.Household.Currency
		case "household.exportDir":
			value = c.Household.ExportDir
		case "server.addr":
			value = c.Server.Addr
		default:
			return fmt.Errorf("unknown configuration field: %s", path)
		}

		if value == "" {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
