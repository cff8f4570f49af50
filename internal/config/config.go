package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DBFileName is the SQLite file created inside the data directory.
const DBFileName = "homework_helper.db"

// Config holds application-wide settings that are not LLM specific.
type Config struct {
	// DataDir holds the concept-map and hints YAML files plus the
	// passages/ and exports/ directories.
	DataDir string

	// DBPath is the SQLite database file. Defaults to DataDir/homework_helper.db.
	DBPath string

	// Subject is the default subject for concept lookups and practice.
	Subject string

	// GradeLevel is used when a topic has no grade of its own.
	GradeLevel int

	// LogMode selects the logger encoder: "dev" or "prod".
	LogMode string

	// Listen is the address for the HTTP server.
	Listen string
}

// Default returns the built-in configuration rooted at the XDG data home.
func Default() (Config, error) {
	dir, err := defaultDataDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		DataDir:    dir,
		DBPath:     filepath.Join(dir, DBFileName),
		Subject:    "grammar",
		GradeLevel: 5,
		LogMode:    "dev",
		Listen:     ":8080",
	}, nil
}

// FromEnv builds a Config from HWHELPER_* environment variables, falling
// back to Default for anything unset.
func FromEnv() (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	if d := os.Getenv("HWHELPER_DATA_DIR"); d != "" {
		cfg.DataDir = d
		cfg.DBPath = filepath.Join(d, DBFileName)
	}
	if p := os.Getenv("HWHELPER_DB"); p != "" {
		cfg.DBPath = p
	}
	if s := os.Getenv("HWHELPER_SUBJECT"); s != "" {
		cfg.Subject = strings.ToLower(strings.TrimSpace(s))
	}
	if g := os.Getenv("HWHELPER_GRADE"); g != "" {
		n, err := strconv.Atoi(g)
		if err != nil {
			return Config{}, fmt.Errorf("HWHELPER_GRADE: %w", err)
		}
		cfg.GradeLevel = n
	}
	if m := os.Getenv("HWHELPER_LOG"); m != "" {
		cfg.LogMode = m
	}
	if l := os.Getenv("HWHELPER_LISTEN"); l != "" {
		cfg.Listen = l
	}
	return cfg, nil
}

// Validate checks the values that would otherwise fail late.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if c.GradeLevel < 1 || c.GradeLevel > 12 {
		return fmt.Errorf("grade level must be between 1 and 12, got %d", c.GradeLevel)
	}
	return nil
}

// PassagesDir is where saved passages live as .txt files.
func (c Config) PassagesDir() string { return filepath.Join(c.DataDir, "passages") }

// ExportsDir is where text and PDF exports are written.
func (c Config) ExportsDir() string { return filepath.Join(c.DataDir, "exports") }

// EnsureDirs creates the data, passages and exports directories and the
// parent of the database file.
func (c Config) EnsureDirs() error {
	for _, d := range []string{c.DataDir, c.PassagesDir(), c.ExportsDir(), filepath.Dir(c.DBPath)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", d, err)
		}
	}
	return nil
}

func defaultDataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "hwhelper"), nil
}
