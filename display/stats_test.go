package display

import (
	"testing"
	"time"
)

func TestFrameStats(t *testing.T) {
	tests := []struct {
		name   string
		target int
		frames int
		want   int
	}{
		{"below target", 60, 42, 42},
		{"clamped to target", 30, 50, 30},
		{"single frame", 60, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFrameStats(tt.target)
			start := time.Unix(1000, 0)

			for i := 0; i < tt.frames; i++ {
				s.Tick(start.Add(time.Duration(i) * time.Millisecond))
			}
			if s.Rate() != 0 {
				t.Fatalf("Expected 0 before the window closes, got %d", s.Rate())
			}

			s.Tick(start.Add(1001 * time.Millisecond))
			if s.Rate() != tt.want {
				t.Errorf("Expected rate %d, got %d", tt.want, s.Rate())
			}
		})
	}
}

func TestFrameStatsWindowBoundary(t *testing.T) {
	s := NewFrameStats(60)
	start := time.Unix(1000, 0)

	s.Tick(start)
	s.Tick(start.Add(500 * time.Millisecond))
	// Exactly one window later does not close it
	s.Tick(start.Add(time.Second))
	if s.Rate() != 0 {
		t.Errorf("Window must stay open at exactly 1000ms, got %d", s.Rate())
	}

	s.Tick(start.Add(time.Second + time.Millisecond))
	if s.Rate() != 3 {
		t.Errorf("Expected 3, got %d", s.Rate())
	}

	s.SetTarget(2)
	s.Tick(start.Add(3 * time.Second))
	if s.Rate() != 1 {
		t.Errorf("Expected 1 frame in the second window, got %d", s.Rate())
	}
}

func TestFormatMB(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0.0"},
		{1 << 20, "1.0"},
		{1572864, "1.5"},
		{(1 << 20) - 1, "0.9"},
		{123 << 20, "123.0"},
	}
	for _, tt := range tests {
		if got := formatMB(tt.bytes); got != tt.want {
			t.Errorf("formatMB(%d) = %s, want %s", tt.bytes, got, tt.want)
		}
	}

	if got := memoryText(1<<20, 4<<20); got != "MEMORY:1.0 of 4.0 MB" {
		t.Errorf("Unexpected memory text %q", got)
	}
}

func TestRuntimeMemory(t *testing.T) {
	used, max := RuntimeMemory()
	if used == 0 || max == 0 {
		t.Fatalf("Expected non-zero memory, got used=%d max=%d", used, max)
	}
	if used > max {
		t.Errorf("Used %d exceeds max %d", used, max)
	}
}
