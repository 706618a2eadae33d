// Package validation checks import files before they reach the parsers:
// disk files for the CLI importer and multipart uploads for the API.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apierrors "github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/errors"
)

// allowedUploadExtensions are the import formats the API accepts
var allowedUploadExtensions = map[string]bool{
	".xlsx": true,
	".csv":  true,
}

// FileValidator provides file validation for import sources
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateUpload checks an uploaded file's name and size before parsing.
// Returns an APIError suitable for rendering directly.
func (v *FileValidator) ValidateUpload(filename string, size, maxSize int64) error {
	base := filepath.Base(filename)
	if base == "" || base == "." || strings.ContainsAny(filename, "/\\") {
		return apierrors.ErrValidation("file", "filename must not contain path separators")
	}

	ext := strings.ToLower(filepath.Ext(base))
	if !allowedUploadExtensions[ext] {
		v.logger.Warn("Rejected upload with unsupported extension",
			slog.String("filename", base),
			slog.String("extension", ext))
		return apierrors.ErrUnsupportedFileType
	}

	if maxSize > 0 && size > maxSize {
		v.logger.Warn("Rejected oversized upload",
			slog.String("filename", base),
			slog.Int64("size", size),
			slog.Int64("max_size", maxSize))
		return apierrors.ErrUploadTooLarge
	}

	// Excel lock files slip into exports when the workbook is open
	if strings.HasPrefix(base, "~$") {
		return apierrors.ErrValidation("file", "temporary Excel lock files cannot be imported")
	}

	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateImportFile checks a disk file is an importable lead export
func (v *FileValidator) ValidateImportFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !allowedUploadExtensions[ext] {
		v.logger.Error("File is not an importable format",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not an importable format (extension: %s)", path, ext)
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Skipping temporary Excel file",
			slog.String("file", path))
		return fmt.Errorf("file %s is a temporary Excel file", path)
	}

	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	return nil
}
