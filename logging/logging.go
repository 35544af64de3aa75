// Package logging builds the application zap logger
// Output never goes to stdout or stderr since the terminal is in raw mode
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lixenwraith/vi-display/config"
)

// FileName is the log file created under the configured directory
const FileName = "vi-display.log"

// Output bundles the logger with the sinks it writes to
type Output struct {
	Logger *zap.Logger
	Ring   *Ring

	file *lumberjack.Logger
}

// Setup builds a logger teeing the rotated file (when enabled) and the in-memory ring
// Only file entries carry the session id; ring lines stay short for the overlay
func Setup(cfg config.Logging, session string) (*Output, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	ring := NewRing(cfg.RingLines, level)
	cores := []zapcore.Core{ring}

	out := &Output{Ring: ring}
	if cfg.Enabled {
		// lumberjack creates the directory lazily; fail here instead of on the first write
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		out.file = &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, FileName),
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: 1,
		}

		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		file := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(out.file), level)
		cores = append(cores, file.With([]zapcore.Field{zap.String("session", session)}))
	}

	out.Logger = zap.New(zapcore.NewTee(cores...))
	return out, nil
}

// Close flushes and closes the file sink; safe to call more than once
func (o *Output) Close() error {
	_ = o.Logger.Sync()
	if o.file != nil {
		return o.file.Close()
	}
	return nil
}
