// Package config loads and validates the application configuration: core
// resource limits, logging, and the defaults a new session is seeded with.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/netpack/vaitp-auditor-go/internal/logging"
	"github.com/netpack/vaitp-auditor-go/internal/model"
)

// Config holds all auditor configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Logging    LoggingConfig `yaml:"logging"`
	CoreLimits CoreLimits    `yaml:"core_limits" json:"core_limits"`

	SessionDefaults SessionDefaults `yaml:"session_defaults" json:"session_defaults"`
}

// SessionDefaults seeds a new SessionConfig's fields that are usually the
// same across sessions in one workspace.
type SessionDefaults struct {
	SamplePercentage float64                `yaml:"sample_percentage" json:"sample_percentage"`
	OutputFormat     model.OutputFormat     `yaml:"output_format" json:"output_format"`
	VerdictButtons   []model.VerdictButton  `yaml:"verdict_buttons" json:"verdict_buttons"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "vaitp-auditor",
		Version: "1.0.0",

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			DebugMode: false,
		},

		CoreLimits: CoreLimits{
			MaxMemoryMB:       500,
			MaxCacheItems:     500,
			MaxCacheBytes:     64 << 20, // 64 MiB
			MaxFileReadBytes:  50 << 20, // 50 MiB
			ChunkLineSize:     1000,
			AutoSaveIntervalS: 30,
		},

		SessionDefaults: SessionDefaults{
			SamplePercentage: 100.0,
			OutputFormat:     model.OutputCSV,
			VerdictButtons: []model.VerdictButton{
				{Key: "1", Label: "Success", Verdict: model.VerdictSuccess},
				{Key: "2", Label: "Failure - No Change", Verdict: model.VerdictFailureNoChange},
				{Key: "3", Label: "Invalid Code", Verdict: model.VerdictInvalidCode},
				{Key: "4", Label: "Wrong Vulnerability", Verdict: model.VerdictWrongVulnerability},
				{Key: "5", Label: "Partial Success", Verdict: model.VerdictPartialSuccess},
			},
		},
	}
}

// Load reads configuration from path, falling back to defaults if the file
// does not exist, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	boot := logging.Get("boot")
	boot.Debug("loading config from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			boot.Info("config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		boot.Error("failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		boot.Error("failed to parse config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	boot.Info("config loaded from %s", path)
	return cfg, nil
}

// Save writes configuration to a YAML file. Config is not on the
// crash-safety path (only SessionState checkpoints are, see
// internal/sessionstore), so a plain write is sufficient here.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if debug := os.Getenv("VAITP_AUDITOR_DEBUG"); debug == "1" || debug == "true" {
		c.Logging.DebugMode = true
	}
}

// Validate checks the configuration is internally consistent.
func (c *Config) Validate() error {
	if err := c.ValidateCoreLimits(); err != nil {
		return err
	}
	if c.SessionDefaults.SamplePercentage <= 0 || c.SessionDefaults.SamplePercentage > 100 {
		return fmt.Errorf("sample_percentage must be in (0, 100]")
	}
	return nil
}
