package audio

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Service wraps Cues for the service hub
// A missing audio backend disables cues instead of failing startup
type Service struct {
	cues     *Cues
	disabled atomic.Bool
}

// NewService creates an audio service around cues
func NewService(cues *Cues) *Service {
	return &Service{cues: cues}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
func (s *Service) Init() error {
	return nil
}

// Start implements service.Service
// Opens the speaker; sets disabled on failure (no error returned)
func (s *Service) Start() error {
	if err := s.cues.Initialize(); err != nil {
		s.disabled.Store(true)
		s.cues.logger.Warn("audio unavailable, cues disabled", zap.Error(err))
	}
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.cues.Cleanup()
	return nil
}

// Disabled reports whether the backend failed to open
func (s *Service) Disabled() bool {
	return s.disabled.Load()
}

// Cues returns the wrapped player
func (s *Service) Cues() *Cues {
	return s.cues
}
