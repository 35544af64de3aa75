package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/vi-display/constants"
)

const sampleRate = beep.SampleRate(constants.AudioSampleRate)

// Cues plays short notification sounds
// Every method is safe to call when audio is disabled or the device failed to open
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	enabled     bool
	initialized bool
	logger      *zap.Logger
}

// NewCues creates a cue player; disabled players never touch the audio device
func NewCues(enabled bool, logger *zap.Logger) *Cues {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cues{
		mixer:   &beep.Mixer{},
		enabled: enabled,
		logger:  logger,
	}
}

// Initialize opens the speaker; repeated calls are no-ops
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled || c.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(constants.AudioBufferDuration)); err != nil {
		return err
	}

	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Ready reports whether sounds reach the device
func (c *Cues) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// PlayChime queues the scene start chime
func (c *Cues) PlayChime() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	// Mixer is read by the speaker goroutine
	speaker.Lock()
	c.mixer.Add(NewChime(sampleRate))
	speaker.Unlock()
	c.logger.Debug("chime queued")
}

// Cleanup drops queued sounds and stops playback
func (c *Cues) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}

	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	speaker.Clear()
	c.initialized = false
}
