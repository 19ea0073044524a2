package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Dir       string `yaml:"dir"`
	Level     string `yaml:"level"`
	MaxSize   int    `yaml:"max_size"` // MB
	MaxBackup int    `yaml:"max_backups"`
	MaxAge    int    `yaml:"max_age"` // days
}

// EngineConfig carries the sampling and convergence defaults handed to the
// scheduler. Zero values fall back to the documented defaults.
type EngineConfig struct {
	SamplePercent   float64 `yaml:"sample_percent"`
	NumThreads      int     `yaml:"num_threads"`
	ConfidenceLevel float64 `yaml:"confidence_level"`
	CheckInterval   int     `yaml:"check_interval"`
	MaxErrorPercent float64 `yaml:"max_error_percent"`
	BlockSize       int     `yaml:"block_size"`
	PageSize        int     `yaml:"page_size"`
	StrataCount     int     `yaml:"strata_count"`
	Seed            int64   `yaml:"seed"`
}

type Config struct {
	DataDir string       `yaml:"data_dir"`
	Engine  EngineConfig `yaml:"engine"`
	Log     LogConfig    `yaml:"log"`
}

// Default returns the engine defaults without touching the filesystem.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config and fills unset fields with defaults.
func Load(path string, logger *zap.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	logger.Info("loaded config",
		zap.String("config_path", path),
		zap.Any("config", cfg),
	)
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Engine.SamplePercent == 0 {
		c.Engine.SamplePercent = 10
	}
	if c.Engine.NumThreads == 0 {
		c.Engine.NumThreads = 4
	}
	if c.Engine.ConfidenceLevel == 0 {
		c.Engine.ConfidenceLevel = 0.95
	}
	if c.Engine.CheckInterval == 0 {
		c.Engine.CheckInterval = 10
	}
	if c.Engine.MaxErrorPercent == 0 {
		c.Engine.MaxErrorPercent = 2.0
	}
	if c.Engine.BlockSize == 0 {
		c.Engine.BlockSize = 1000
	}
	if c.Engine.PageSize == 0 {
		c.Engine.PageSize = 4096
	}
	if c.Engine.StrataCount == 0 {
		c.Engine.StrataCount = 4
	}
	if c.Engine.Seed == 0 {
		c.Engine.Seed = 42
	}
	if c.Log.Dir == "" {
		c.Log.Dir = "logs"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = 100
	}
	if c.Log.MaxBackup == 0 {
		c.Log.MaxBackup = 3
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = 7
	}
}
