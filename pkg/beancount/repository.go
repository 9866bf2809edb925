package beancount

import (
	"fmt"
	"os"
	"time"

	"github.com/shunichi-ikebuchi/billdivider/pkg/pathutil"
)

// Repository defines the interface for Beancount file operations.
type Repository interface {
	// AppendTransaction appends a transaction to the file of month
	AppendTransaction(month time.Time, transaction string) error

	// ReadMonthFile reads the content of a monthly file
	ReadMonthFile(month time.Time) (string, error)

	// EnsureMonthFile ensures a monthly file exists with header
	EnsureMonthFile(month time.Time) error

	// MonthFilePath returns the path of a monthly file
	MonthFilePath(month time.Time) string
}

// FileSystemRepository is a file system implementation of Repository.
type FileSystemRepository struct {
	pathResolver *pathutil.PathResolver
}

// NewFileSystemRepository creates a new FileSystemRepository.
func NewFileSystemRepository(pathResolver *pathutil.PathResolver) *FileSystemRepository {
	return &FileSystemRepository{
		pathResolver: pathResolver,
	}
}

// MonthFilePath returns the path of the file holding month.
func (r *FileSystemRepository) MonthFilePath(month time.Time) string {
	return r.pathResolver.GetMonthFilePath(month)
}

// AppendTransaction appends a transaction followed by a blank line.
// It creates the file if it doesn't exist.
func (r *FileSystemRepository) AppendTransaction(month time.Time, transaction string) error {
	if err := r.EnsureMonthFile(month); err != nil {
		return fmt.Errorf("failed to ensure month file: %w", err)
	}

	content := transaction
	if len(transaction) > 0 && transaction[len(transaction)-1] != '\n' {
		content += "\n"
	}
	content += "\n"

	f, err := os.OpenFile(r.MonthFilePath(month), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file for appending: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}

	return nil
}

// ReadMonthFile reads the content of a monthly file.
// Returns empty string if file doesn't exist.
func (r *FileSystemRepository) ReadMonthFile(month time.Time) (string, error) {
	filePath := r.MonthFilePath(month)
	if !r.pathResolver.FileExists(filePath) {
		return "", nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return string(data), nil
}

// EnsureMonthFile ensures a monthly file exists with header.
// If the file already exists, this is a no-op.
func (r *FileSystemRepository) EnsureMonthFile(month time.Time) error {
	filePath := r.MonthFilePath(month)
	if r.pathResolver.FileExists(filePath) {
		return nil
	}

	if err := r.pathResolver.EnsureParentDir(filePath); err != nil {
		return fmt.Errorf("failed to ensure parent directory: %w", err)
	}

	header := fmt.Sprintf("; billdivider export for %s\n\n", month.Format("2006-01"))
	if err := os.WriteFile(filePath, []byte(header), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
