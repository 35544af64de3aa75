package scene

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-display/constants"
	"github.com/lixenwraith/vi-display/engine"
	"github.com/lixenwraith/vi-display/status"
)

func newBounce(t *testing.T) (*Bounce, *engine.ProcessManager, *engine.TweenManager) {
	t.Helper()
	procs := engine.NewProcessManager(nil)
	tweens := engine.NewTweenManager(nil)
	b := NewBounce(procs, tweens, 7)
	b.Resize(40, 12)
	require.NoError(t, b.Load())
	return b, procs, tweens
}

func TestBounceLoadSchedules(t *testing.T) {
	b, procs, tweens := newBounce(t)
	assert.Equal(t, constants.InitialSprites, b.Sprites())
	assert.True(t, procs.Has(spawnProcess))
	assert.Equal(t, 1, tweens.Len())

	procs.Tick(constants.SpawnInterval)
	assert.Equal(t, constants.InitialSprites+1, b.Sprites())
}

func TestBounceKeys(t *testing.T) {
	b, _, _ := newBounce(t)

	require.NoError(t, b.HandleEvent(key(' ')))
	assert.Equal(t, constants.InitialSprites+3, b.Sprites())

	require.NoError(t, b.HandleEvent(key('c')))
	assert.Equal(t, 0, b.Sprites())
}

func TestBounceSpawnCap(t *testing.T) {
	b, _, _ := newBounce(t)
	for i := 0; i < constants.MaxDemoSprites; i++ {
		require.NoError(t, b.HandleEvent(key(' ')))
	}
	assert.Equal(t, constants.MaxDemoSprites, b.Sprites())
}

func TestBounceStaysInView(t *testing.T) {
	b, _, _ := newBounce(t)
	for i := 0; i < 500; i++ {
		require.NoError(t, b.Update(33*time.Millisecond))
		for _, s := range b.sprites {
			require.GreaterOrEqual(t, s.x, 0.0)
			require.LessOrEqual(t, s.x, 39.0)
			require.GreaterOrEqual(t, s.y, 0.0)
			require.LessOrEqual(t, s.y, 11.0)
		}
	}

	b.Resize(10, 4)
	for _, s := range b.sprites {
		assert.LessOrEqual(t, s.x, 9.0)
		assert.LessOrEqual(t, s.y, 3.0)
	}
}

func TestBounceUnloadStopsScheduling(t *testing.T) {
	b, procs, tweens := newBounce(t)
	pulse := b.pulse
	require.NoError(t, b.Unload())

	assert.False(t, procs.Has(spawnProcess))
	assert.True(t, pulse.Done())
	assert.Equal(t, 0, b.Sprites())

	tweens.Advance(time.Millisecond)
	assert.Equal(t, 0, tweens.Len())
}

func TestBounceDraws(t *testing.T) {
	b, _, tweens := newBounce(t)
	tweens.Advance(100 * time.Millisecond)

	canvas := newCanvas(t, 40, 12)
	require.NoError(t, b.Draw(canvas))
	require.NoError(t, b.DrawDebug(canvas))

	drawn := 0
	w, h := canvas.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if c, ok := canvas.Buffer().Get(x, y); ok && c.Rune != 0 && c.Rune != '.' {
				drawn++
			}
		}
	}
	assert.Positive(t, drawn)
}

func TestReflect(t *testing.T) {
	tests := []struct {
		name           string
		pos, vel, lim  float64
		wantPos, wantV float64
	}{
		{"inside", 3, 1, 10, 3, 1},
		{"below zero", -2, -1, 10, 2, 1},
		{"past limit", 12, 1, 10, 8, -1},
		{"degenerate", 5, 1, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, vel := reflect(tt.pos, tt.vel, tt.lim)
			assert.InDelta(t, tt.wantPos, pos, 1e-9)
			assert.InDelta(t, tt.wantV, vel, 1e-9)
		})
	}
}

func TestControllerPublishesBounceSprites(t *testing.T) {
	reg := status.NewRegistry()
	procs := engine.NewProcessManager(reg)
	tweens := engine.NewTweenManager(reg)
	c := NewController(NewBounce(procs, tweens, 1), Options{Registry: reg})
	c.Resize(40, 12)
	c.Start()

	require.NoError(t, c.Load())
	require.NoError(t, c.AdvanceTimers(16*time.Millisecond))
	assert.EqualValues(t, constants.InitialSprites, reg.Int(constants.MetricSprites))
	assert.EqualValues(t, 1, reg.Int(constants.MetricDesktops))
	assert.EqualValues(t, 1, reg.Int(constants.MetricProcesses))
}
