package main

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-display/constants"
	"github.com/lixenwraith/vi-display/core"
	"github.com/lixenwraith/vi-display/display"
	"github.com/lixenwraith/vi-display/engine"
	"github.com/lixenwraith/vi-display/scene"
)

// pollEvents forwards terminal input to the scene and resizes to the clock goroutine
// Returns errQuit on a quit key, nil when ctx ends or the screen closes
func pollEvents(ctx context.Context, screen tcell.Screen, clock *engine.FrameClock, ctrl *scene.Controller, orch *display.Orchestrator) error {
	events := make(chan tcell.Event, constants.PostQueueSize)
	quit := make(chan struct{})
	defer close(quit)
	core.Go(func() { screen.ChannelEvents(events, quit) })

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuit(ev) {
					return errQuit
				}
				ctrl.Enqueue(ev)
			case *tcell.EventResize:
				w, h := ev.Size()
				clock.Post(func() {
					screen.Sync()
					orch.Resize(w, h)
				})
			}
		}
	}
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}
