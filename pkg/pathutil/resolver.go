// Package pathutil provides centralized path management for the data directory.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PathResolver manages paths for the databases, the roommate directory and
// Beancount exports.
type PathResolver struct {
	root          string
	databasePath  string
	boltPath      string
	roommatesFile string
	exportDir     string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// Root is the data directory (e.g., ~/.billdivider)
	Root string
	// DatabasePath is the SQLite database holding the ledger and export history
	DatabasePath string
	// BoltPath is the bbolt file used by the bolt store backend
	BoltPath string
	// RoommatesFile is the YAML roommate directory
	RoommatesFile string
	// ExportDir is the directory for Beancount files
	ExportDir string
}

// New creates a new PathResolver. Empty paths default to files under Root:
// billdivider.db, billdivider.bolt, roommates.yaml and ledger/.
func New(config Config) *PathResolver {
	return &PathResolver{
		root:          config.Root,
		databasePath:  orDefault(config.DatabasePath, filepath.Join(config.Root, "billdivider.db")),
		boltPath:      orDefault(config.BoltPath, filepath.Join(config.Root, "billdivider.bolt")),
		roommatesFile: orDefault(config.RoommatesFile, filepath.Join(config.Root, "roommates.yaml")),
		exportDir:     orDefault(config.ExportDir, filepath.Join(config.Root, "ledger")),
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// GetRoot returns the data directory.
func (p *PathResolver) GetRoot() string {
	return p.root
}

// GetDatabasePath returns the SQLite database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// GetBoltPath returns the bbolt database file path.
func (p *PathResolver) GetBoltPath() string {
	return p.boltPath
}

// GetRoommatesFile returns the roommate directory path.
func (p *PathResolver) GetRoommatesFile() string {
	return p.roommatesFile
}

// GetExportDir returns the Beancount export directory.
func (p *PathResolver) GetExportDir() string {
	return p.exportDir
}

// GetMonthFilePath returns the Beancount file for the month of t.
// Example: ledger/2024/2024-01.beancount
func (p *PathResolver) GetMonthFilePath(t time.Time) string {
	yearMonth := t.Format("2006-01")
	return filepath.Join(p.exportDir, t.Format("2006"), fmt.Sprintf("%s.beancount", yearMonth))
}

// EnsureDir creates a directory if it doesn't exist.
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	return p.EnsureDir(filepath.Dir(filePath))
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}
