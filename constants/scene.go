package constants

import "time"

// Scene Demo Timing
const (
	SpawnInterval    = 2 * time.Second
	PulseDuration    = 1500 * time.Millisecond
	MaxDemoSprites   = 24
	InitialSprites   = 6
	SpriteSpeedCells = 12.0 // cells per second
)
