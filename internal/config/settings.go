package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Settings holds the resolved application configuration.
type Settings struct {
	CatalogDir string
	DBPath     string
}

// Load resolves application settings from Viper with sensible defaults.
// Precedence: config file / AUDIT_ env vars via Viper, then defaults under
// ~/.local/share/degree-audit.
func Load() (*Settings, error) {
	s := &Settings{
		CatalogDir: ExpandPath(viper.GetString("catalog.dir")),
		DBPath:     ExpandPath(viper.GetString("database.path")),
	}

	if s.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		s.DBPath = filepath.Join(home, ".local", "share", "degree-audit", "audits.db")
	}

	if s.CatalogDir == "" {
		s.CatalogDir = "catalog"
	}

	return s, nil
}
