// Package config handles configuration of the command line tool.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/osuushi/cdt/advanced"
	"github.com/osuushi/cdt/predicates"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config holds all settings.
type Config struct {
	Triangulation TriangulationConfig `yaml:"triangulation"`
	Output        OutputConfig        `yaml:"output"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// TriangulationConfig holds the engine settings.
type TriangulationConfig struct {
	// Zero means seed from the clock
	Seed           int64   `yaml:"seed"`
	Predicates     string  `yaml:"predicates"`
	SkipDuplicates bool    `yaml:"skip_duplicates"`
	SampleDivisor  int     `yaml:"sample_divisor"`
	SampleRatio    float64 `yaml:"sample_ratio"`
	MinLevelSize   int     `yaml:"min_level_size"`
	ColumnFactor   float64 `yaml:"column_factor"`
}

// OutputConfig holds what gets written after triangulating.
type OutputConfig struct {
	WKTDir   string  `yaml:"wkt_dir"`
	PNG      string  `yaml:"png"`
	Scale    float64 `yaml:"scale"`
	Interior bool    `yaml:"interior"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	hcpo := advanced.DefaultHCPOParams()
	return &Config{
		Triangulation: TriangulationConfig{
			Predicates:    "fast",
			SampleDivisor: 25,
			SampleRatio:   hcpo.SampleRatio,
			MinLevelSize:  hcpo.MinSize,
			ColumnFactor:  hcpo.ColumnFactor,
		},
		Output: OutputConfig{
			Scale: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load returns the defaults overlaid with the file at path, if path is not
// empty.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := loadFromFile(cfg, path); err != nil {
		return nil, errors.Wrapf(err, "loading config from %s", path)
	}
	return cfg, nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Options translates the triangulation settings into engine options.
func (c *Config) Options(log *zap.Logger) (advanced.Options, error) {
	opts := advanced.DefaultOptions()
	t := c.Triangulation

	p, err := predicates.ByName(t.Predicates)
	if err != nil {
		return opts, err
	}
	opts.Predicates = p
	if t.Seed != 0 {
		opts.Seed = t.Seed
	} else {
		opts.Seed = time.Now().UnixNano()
	}
	if log != nil {
		opts.Logger = log
	}
	opts.SkipDuplicates = t.SkipDuplicates
	if t.SampleDivisor > 0 {
		opts.SampleDivisor = t.SampleDivisor
	}
	opts.HCPO = advanced.HCPOParams{
		SampleRatio:  t.SampleRatio,
		MinSize:      t.MinLevelSize,
		ColumnFactor: t.ColumnFactor,
	}
	return opts, nil
}
