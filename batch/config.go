// Package batch converts many documents concurrently with a bounded
// worker pool. Each input is processed independently; one failure
// never aborts the run.
package batch

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config controls a batch run. Zero values fall back to defaults.
type Config struct {
	// Workers bounds concurrent conversions. Defaults to 4.
	Workers int `yaml:"workers"`

	// OutputDir receives converted files. Defaults to the current
	// directory.
	OutputDir string `yaml:"output_dir"`

	// ImageDir receives extracted image assets, relative to
	// OutputDir. Defaults to "images".
	ImageDir string `yaml:"image_dir"`

	// FetchRemote enables downloading remote image references when
	// building packages from markdown.
	FetchRemote bool `yaml:"fetch_remote"`

	// FetchTimeout bounds each remote image download.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// Captions adds caption paragraphs under embedded images when
	// building packages from markdown.
	Captions bool `yaml:"captions"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Workers:   4,
		OutputDir: ".",
		ImageDir:  "images",
	}
}

// LoadConfig reads a YAML config file, filling unset fields with
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.ImageDir == "" {
		c.ImageDir = "images"
	}
}
