package constants

import "time"

// Audio Cue Timing
const (
	// AudioSampleRate is the speaker sample rate in Hz
	AudioSampleRate = 48000

	// AudioBufferDuration is the speaker buffer length
	AudioBufferDuration = 100 * time.Millisecond
)

// Chime Sound Timing
const (
	ChimeNote1Duration = 90 * time.Millisecond
	ChimeNote2Duration = 260 * time.Millisecond
	ChimeNote1Freq     = 660.0
	ChimeNote2Freq     = 990.0
	ChimeVolume        = 0.25
)
