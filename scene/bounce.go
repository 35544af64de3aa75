package scene

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-display/constants"
	"github.com/lixenwraith/vi-display/engine"
	"github.com/lixenwraith/vi-display/render"
)

const spawnProcess = "bounce.spawn"

var (
	spriteGlyphs  = []rune("*o+x#@")
	spritePalette = []render.RGB{
		{R: 255, G: 121, B: 198},
		{R: 139, G: 233, B: 253},
		{R: 80, G: 250, B: 123},
		{R: 241, G: 250, B: 140},
		{R: 255, G: 184, B: 108},
	}
)

type sprite struct {
	x, y   float64
	vx, vy float64
	glyph  rune
	color  render.RGB
}

// Bounce is the demo screen: glyph sprites bouncing off the view edges
// A timed process spawns sprites and a yoyo tween pulses their brightness
//
// Keys: space spawns a burst, c clears
type Bounce struct {
	procs  *engine.ProcessManager
	tweens *engine.TweenManager
	rng    *rand.Rand

	sprites []sprite
	width   int
	height  int
	pulse   *engine.Tween
	loaded  bool
}

// NewBounce creates the demo screen; procs and tweens may be nil
func NewBounce(procs *engine.ProcessManager, tweens *engine.TweenManager, seed uint64) *Bounce {
	return &Bounce{
		procs:  procs,
		tweens: tweens,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (b *Bounce) Name() string { return "bounce" }
func (b *Bounce) Sprites() int { return len(b.sprites) }

// Load seeds the initial sprites and schedules spawning and pulsing
func (b *Bounce) Load() error {
	b.loaded = true
	b.spawn(constants.InitialSprites)

	if b.procs != nil {
		b.procs.Add(spawnProcess, constants.SpawnInterval, func(time.Duration) bool {
			b.spawn(1)
			return b.loaded
		})
	}
	if b.tweens != nil {
		b.pulse = b.tweens.Start(&engine.Tween{
			From:     0.45,
			To:       1,
			Duration: constants.PulseDuration,
			Ease:     engine.EaseInOutQuad,
			Yoyo:     true,
		})
	}
	return nil
}

// Unload stops scheduling and drops sprites
func (b *Bounce) Unload() error {
	b.loaded = false
	if b.procs != nil {
		b.procs.Remove(spawnProcess)
	}
	if b.tweens != nil && b.pulse != nil {
		b.tweens.Cancel(b.pulse)
	}
	b.pulse = nil
	b.sprites = nil
	return nil
}

func (b *Bounce) HandleEvent(ev tcell.Event) error {
	key, ok := ev.(*tcell.EventKey)
	if !ok || key.Key() != tcell.KeyRune {
		return nil
	}
	switch key.Rune() {
	case ' ':
		b.spawn(3)
	case 'c':
		b.sprites = b.sprites[:0]
	}
	return nil
}

// Update moves sprites, reflecting them at the edges
func (b *Bounce) Update(elapsed time.Duration) error {
	dt := elapsed.Seconds()
	maxX := float64(b.width - 1)
	maxY := float64(b.height - 1)
	for i := range b.sprites {
		s := &b.sprites[i]
		s.x, s.vx = reflect(s.x+s.vx*dt, s.vx, maxX)
		s.y, s.vy = reflect(s.y+s.vy*dt, s.vy, maxY)
	}
	return nil
}

// reflect folds pos back into [0,limit], flipping velocity on each bounce
func reflect(pos, vel, limit float64) (float64, float64) {
	if limit <= 0 {
		return 0, vel
	}
	for pos < 0 || pos > limit {
		if pos < 0 {
			pos = -pos
		} else {
			pos = 2*limit - pos
		}
		vel = -vel
	}
	return pos, vel
}

func (b *Bounce) Draw(canvas render.Canvas) error {
	brightness := 1.0
	if b.pulse != nil && b.pulse.Value() > 0 {
		brightness = b.pulse.Value()
	}
	for _, s := range b.sprites {
		canvas.DrawCell(int(s.x+0.5), int(s.y+0.5), render.Cell{
			Rune: s.glyph,
			Fg:   render.Scale(s.color, brightness),
		})
	}
	return nil
}

// DrawDebug marks each sprite's velocity direction
func (b *Bounce) DrawDebug(canvas render.Canvas) error {
	for _, s := range b.sprites {
		dx, dy := sign(s.vx), sign(s.vy)
		canvas.DrawCell(int(s.x+0.5)+dx, int(s.y+0.5)+dy, render.Cell{Rune: '.', Fg: render.Scale(s.color, 0.5)})
	}
	return nil
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Resize clamps sprites into the new view
func (b *Bounce) Resize(width, height int) {
	b.width, b.height = width, height
	for i := range b.sprites {
		s := &b.sprites[i]
		s.x = min(max(s.x, 0), float64(max(width-1, 0)))
		s.y = min(max(s.y, 0), float64(max(height-1, 0)))
	}
}

func (b *Bounce) spawn(n int) {
	for i := 0; i < n && len(b.sprites) < constants.MaxDemoSprites; i++ {
		speed := constants.SpriteSpeedCells * (0.5 + b.rng.Float64()/2)
		angle := b.rng.Float64() * 2 * math.Pi
		b.sprites = append(b.sprites, sprite{
			x:     b.rng.Float64() * float64(max(b.width-1, 0)),
			y:     b.rng.Float64() * float64(max(b.height-1, 0)),
			vx:    speed * math.Cos(angle),
			vy:    speed * math.Sin(angle) / 2,
			glyph: spriteGlyphs[b.rng.IntN(len(spriteGlyphs))],
			color: spritePalette[b.rng.IntN(len(spritePalette))],
		})
	}
}
