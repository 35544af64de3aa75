package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// Ring is a zapcore.Core keeping the most recent formatted lines in memory
// Cores derived through With share the same buffer
type Ring struct {
	zapcore.LevelEnabler
	enc zapcore.Encoder
	buf *ringBuffer
}

type ringBuffer struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
}

// NewRing creates a core holding up to capacity lines at or above level
func NewRing(capacity int, level zapcore.LevelEnabler) *Ring {
	if capacity < 0 {
		capacity = 0
	}
	return &Ring{
		LevelEnabler: level,
		enc:          zapcore.NewConsoleEncoder(ringEncoderConfig()),
		buf:          &ringBuffer{lines: make([]string, capacity)},
	}
}

// ringEncoderConfig drops timestamps and callers; overlay rows are narrow
func ringEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		NameKey:          "logger",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

func (r *Ring) With(fields []zapcore.Field) zapcore.Core {
	clone := r.enc.Clone()
	for i := range fields {
		fields[i].AddTo(clone)
	}
	return &Ring{LevelEnabler: r.LevelEnabler, enc: clone, buf: r.buf}
}

func (r *Ring) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if r.Enabled(ent.Level) {
		return ce.AddCore(ent, r)
	}
	return ce
}

func (r *Ring) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	b, err := r.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	line := strings.TrimRight(b.String(), "\n")
	b.Free()
	r.buf.push(line)
	return nil
}

func (r *Ring) Sync() error {
	return nil
}

// Lines returns buffered lines, oldest first
func (r *Ring) Lines() []string {
	return r.buf.snapshot()
}

func (rb *ringBuffer) push(line string) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if len(rb.lines) == 0 {
		return
	}
	rb.lines[rb.next] = line
	rb.next++
	if rb.next == len(rb.lines) {
		rb.next = 0
		rb.full = true
	}
}

func (rb *ringBuffer) snapshot() []string {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if !rb.full {
		out := make([]string, rb.next)
		copy(out, rb.lines[:rb.next])
		return out
	}
	out := make([]string, 0, len(rb.lines))
	out = append(out, rb.lines[rb.next:]...)
	out = append(out, rb.lines[:rb.next]...)
	return out
}
