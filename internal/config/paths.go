package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the resolved absolute directories the application works in.
// Relative config paths resolve against the executable directory so the
// binary behaves the same wherever it is launched from.
type Paths struct {
	BaseDir    string
	DataDir    string
	ReportsDir string
	LogsDir    string
}

// ResolvePaths turns the configured (possibly relative) directories into
// absolute ones anchored at the executable directory.
func ResolvePaths(cfg PathsConfig) (*Paths, error) {
	base, err := executableDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	return &Paths{
		BaseDir:    base,
		DataDir:    resolve(cfg.DataDir),
		ReportsDir: resolve(cfg.ReportsDir),
		LogsDir:    resolve(cfg.LogsDir),
	}, nil
}

// EnsureDirectories creates every managed directory that does not exist yet.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LeadsDir is where the persisted lead chunks live.
func (p *Paths) LeadsDir() string {
	return filepath.Join(p.DataDir, "leads")
}

// GetReportPath resolves a report file name inside the reports directory.
func (p *Paths) GetReportPath(name string) string {
	return filepath.Join(p.ReportsDir, name)
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		// Fall back to the raw path; a dangling symlink is still usable
		// as an anchor.
		resolved = exe
	}
	return filepath.Dir(resolved), nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
