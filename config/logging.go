package config

import "fmt"

// Logging configures the file log and the in-memory ring shown by the log overlay
type Logging struct {
	Enabled   bool   `yaml:"enabled"` // false disables the file log, the ring still records
	Dir       string `yaml:"dir"`
	Level     string `yaml:"level"`       // debug, info, warn, error
	MaxSizeMB int    `yaml:"max_size_mb"` // rotation threshold, 0 uses the 100 MB default
	RingLines int    `yaml:"ring_lines"`
}

// ValidLevels lists accepted log levels
var ValidLevels = []string{"debug", "info", "warn", "error"}

// Validate checks logging values
func (l Logging) Validate() error {
	valid := false
	for _, lvl := range ValidLevels {
		if l.Level == lvl {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: logging.level %q (valid: %v)", ErrInvalid, l.Level, ValidLevels)
	}
	if l.MaxSizeMB < 0 {
		return fmt.Errorf("%w: logging.max_size_mb must not be negative, got %d", ErrInvalid, l.MaxSizeMB)
	}
	if l.RingLines < 0 {
		return fmt.Errorf("%w: logging.ring_lines must not be negative, got %d", ErrInvalid, l.RingLines)
	}
	if l.Enabled && l.Dir == "" {
		return fmt.Errorf("%w: logging.dir is required when logging is enabled", ErrInvalid)
	}
	return nil
}
