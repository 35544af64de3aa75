package scene

import (
	"github.com/lixenwraith/vi-display/render"
)

const (
	emulatorKeys       = 8
	emulatorFadeFrames = 30
)

type emulatedKey struct {
	label string
	age   int
}

// Emulator echoes recent key presses along the bottom row as virtual keycaps
type Emulator struct {
	keys []emulatedKey
}

// NewEmulator creates an empty key echo
func NewEmulator() *Emulator {
	return &Emulator{keys: make([]emulatedKey, 0, emulatorKeys)}
}

// Press records a key; the oldest key drops off when full
func (e *Emulator) Press(label string) {
	if len(e.keys) == emulatorKeys {
		copy(e.keys, e.keys[1:])
		e.keys = e.keys[:emulatorKeys-1]
	}
	e.keys = append(e.keys, emulatedKey{label: label})
}

// Age fades every key by one frame and forgets expired ones
func (e *Emulator) Age() {
	live := e.keys[:0]
	for _, k := range e.keys {
		k.age++
		if k.age < emulatorFadeFrames {
			live = append(live, k)
		}
	}
	e.keys = live
}

// Labels returns the visible keys, oldest first
func (e *Emulator) Labels() []string {
	out := make([]string, len(e.keys))
	for i, k := range e.keys {
		out[i] = k.label
	}
	return out
}

// Draw renders keycaps on the last row
func (e *Emulator) Draw(canvas render.Canvas) {
	_, h := canvas.Size()
	if h == 0 {
		return
	}
	x := 1
	for _, k := range e.keys {
		fade := 1 - float64(k.age)/emulatorFadeFrames
		keycap := "[" + k.label + "]"
		canvas.DrawText(x, h-1, keycap, render.Scale(render.RGBText, fade))
		x += len([]rune(keycap)) + 1
	}
}
