// Package config holds the viewer settings and their yaml
// serialization.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/geoview/internal/cmap"
)

const (
	DefaultMapWidth   = 72
	DefaultMapHeight  = 24
	DefaultMaxHistory = 20
)

// Config is the persisted viewer configuration.
type Config struct {
	Colormap   string `yaml:"colormap"`
	Coastlines bool   `yaml:"coastlines"`
	Gridlines  bool   `yaml:"gridlines"`
	MapWidth   int    `yaml:"map_width"`
	MapHeight  int    `yaml:"map_height"`
	// CoastlineFile is an optional shapefile drawn over rendered maps
	// when Coastlines is on.
	CoastlineFile string `yaml:"coastline_file"`
	HistoryFile   string `yaml:"history_file"`
	MaxHistory    int    `yaml:"max_history"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Colormap:    cmap.Default,
		Coastlines:  true,
		Gridlines:   true,
		MapWidth:    DefaultMapWidth,
		MapHeight:   DefaultMapHeight,
		HistoryFile: filepath.Join(dataDir(), "history.json"),
		MaxHistory:  DefaultMaxHistory,
	}
}

// dataDir is where geoview keeps its own files.
func dataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".geoview"
	}
	return filepath.Join(home, ".geoview")
}

// DefaultPath is where the viewer looks for its config file when no
// --config flag is given.
func DefaultPath() string {
	return filepath.Join(dataDir(), "config.yaml")
}

// Load reads a config file, filling unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as yaml.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) validate() error {
	if _, err := cmap.Get(c.Colormap); err != nil {
		return err
	}
	if c.MapWidth < 2 || c.MapHeight < 2 {
		return fmt.Errorf("config: map size %dx%d too small", c.MapWidth, c.MapHeight)
	}
	return nil
}
