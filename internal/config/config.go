package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the application paths and the external OCR command. All
// relative paths are resolved against DataDir.
type Config struct {
	DataDir    string   `toml:"data_dir"`
	DBFile     string   `toml:"db_file"`
	PhotosDir  string   `toml:"photos_dir"`
	CacheDir   string   `toml:"cache_dir"`
	ExportFile string   `toml:"export_file"`
	OCRCommand []string `toml:"ocr_command"`
}

func defaultsFor(dataDir string) *Config {
	return &Config{
		DataDir:    dataDir,
		DBFile:     "ponto.db",
		PhotosDir:  "time_entries",
		CacheDir:   "cache",
		ExportFile: "registros.xlsx",
		OCRCommand: []string{"tesseract", "stdout"},
	}
}

// Load reads config.toml from dataDir, keeping defaults for any field the
// file leaves unset. A missing file is not an error.
func Load(dataDir string) (*Config, error) {
	cfg := defaultsFor(dataDir)

	path := filepath.Join(dataDir, "config.toml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

func (c *Config) DBPath() string     { return c.join(c.DBFile) }
func (c *Config) PhotosPath() string { return c.join(c.PhotosDir) }
func (c *Config) CachePath() string  { return c.join(c.CacheDir) }
func (c *Config) ExportPath() string { return c.join(c.ExportFile) }

func (c *Config) join(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}
