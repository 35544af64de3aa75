package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/vi-display/audio"
	"github.com/lixenwraith/vi-display/config"
	"github.com/lixenwraith/vi-display/constants"
	"github.com/lixenwraith/vi-display/core"
	"github.com/lixenwraith/vi-display/diagfeed"
	"github.com/lixenwraith/vi-display/display"
	"github.com/lixenwraith/vi-display/engine"
	"github.com/lixenwraith/vi-display/logging"
	"github.com/lixenwraith/vi-display/scene"
	"github.com/lixenwraith/vi-display/service"
	"github.com/lixenwraith/vi-display/status"
)

const feedProcess = "diagfeed.publish"

// errQuit ends the session on a quit key
var errQuit = errors.New("quit requested")

func run(parent context.Context, cfg *config.Config) (err error) {
	if parent == nil {
		parent = context.Background()
	}
	session := uuid.NewString()

	out, err := logging.Setup(cfg.Logging, session)
	if err != nil {
		return err
	}
	defer out.Close()
	logger := out.Logger
	core.SetCrashLogger(logger)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.SetCrashScreen(screen)
	defer func() {
		core.SetCrashScreen(nil)
		screen.Fini()
	}()
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	logger.Info("session started",
		zap.Int("target_fps", cfg.Display.TargetFPS),
		zap.Bool("intro", cfg.Display.OverlayEnabled),
		zap.String("diag_addr", cfg.Diagnostics.ListenAddr))

	reg := status.NewRegistry()
	clock := engine.NewFrameClock(constants.FrameInterval(cfg.Display.TargetFPS), engine.NewMonotonicTimeProvider())
	clock.SetRegistry(reg)
	procs := engine.NewProcessManager(reg)
	tweens := engine.NewTweenManager(reg)

	ctrl := scene.NewController(
		scene.NewBounce(procs, tweens, uint64(time.Now().UnixNano())),
		scene.Options{
			Emulator: cfg.Display.Emulator,
			Debug:    cfg.Display.DebugAll,
			Registry: reg,
			Logger:   logger.Named("scene"),
		},
	)

	services := service.NewHub(logger.Named("service"))
	cues := audio.NewCues(cfg.Audio.Enabled, logger.Named("audio"))
	if err := services.Register(audio.NewService(cues)); err != nil {
		return err
	}
	if addr := cfg.Diagnostics.ListenAddr; addr != "" {
		feed := diagfeed.NewFeed(addr, reg, session, logger.Named("diagfeed"))
		if err := services.Register(feed); err != nil {
			return err
		}
		procs.Add(feedProcess, cfg.Diagnostics.PublishInterval, feed.Publisher().Process)
	}
	if err := services.InitAll(); err != nil {
		return err
	}
	if err := services.StartAll(); err != nil {
		return err
	}
	defer func() {
		if stopErr := services.StopAll(); stopErr != nil {
			logger.Warn("service shutdown", zap.Error(stopErr))
		}
	}()

	orch, err := display.NewForScreen(screen, clock, ctrl, cfg.Display, display.Deps{
		Registry:     reg,
		Logs:         out.Ring,
		Logger:       logger.Named("display"),
		Processes:    procs,
		Tweens:       tweens,
		OnSceneStart: cues.PlayChime,
	})
	if err != nil {
		return err
	}
	orch.Resize(screen.Size())

	g, ctx := errgroup.WithContext(parent)
	g.Go(core.Guard(func() error {
		return clock.Run(ctx)
	}))
	g.Go(core.Guard(func() error {
		return pollEvents(ctx, screen, clock, ctrl, orch)
	}))
	err = g.Wait()

	orch.Detach()
	orch.Close()
	if closeErr := ctrl.Close(); closeErr != nil {
		logger.Warn("scene shutdown", zap.Error(closeErr))
	}

	switch {
	case errors.Is(err, errQuit):
		logger.Info("session ended", zap.Uint64("ticks", clock.Ticks()))
	case err != nil:
		logger.Error("frame loop failed", zap.Error(err))
	}
	return err
}
