package config

import "fmt"

// CoreLimits holds system-wide resource limits, loaded from config and
// checked by ValidateCoreLimits. The field comments name the component each
// limit concerns; those components are built with their own defaults and do
// not read these values.
type CoreLimits struct {
	MaxMemoryMB        int `yaml:"max_memory_mb" json:"max_memory_mb"`               // Chunked Processor memory ceiling
	MaxCacheItems      int `yaml:"max_cache_items" json:"max_cache_items"`           // Content Cache item-count cap
	MaxCacheBytes      int64 `yaml:"max_cache_bytes" json:"max_cache_bytes"`         // Content Cache byte-size cap
	MaxFileReadBytes   int64 `yaml:"max_file_read_bytes" json:"max_file_read_bytes"` // per-artifact read ceiling (spreadsheet cell / file)
	ChunkLineSize      int `yaml:"chunk_line_size" json:"chunk_line_size"`           // Chunked Processor block size
	AutoSaveIntervalS  int `yaml:"auto_save_interval_s" json:"auto_save_interval_s"` // Session State Store checkpoint cadence
}

// ValidateCoreLimits checks that core limits are within acceptable ranges.
func (c *Config) ValidateCoreLimits() error {
	if c.CoreLimits.MaxMemoryMB < 64 {
		return fmt.Errorf("max_memory_mb must be >= 64 MB")
	}
	if c.CoreLimits.MaxCacheItems < 1 {
		return fmt.Errorf("max_cache_items must be >= 1")
	}
	if c.CoreLimits.MaxCacheBytes < 1 {
		return fmt.Errorf("max_cache_bytes must be >= 1")
	}
	if c.CoreLimits.MaxFileReadBytes < 1 {
		return fmt.Errorf("max_file_read_bytes must be >= 1")
	}
	if c.CoreLimits.ChunkLineSize < 1 {
		return fmt.Errorf("chunk_line_size must be >= 1")
	}
	if c.CoreLimits.AutoSaveIntervalS < 1 {
		return fmt.Errorf("auto_save_interval_s must be >= 1")
	}
	return nil
}
