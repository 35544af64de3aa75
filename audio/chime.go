package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/vi-display/constants"
)

// oscillator generates a sine wave for a fixed number of samples
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

// newOscillator creates a sine oscillator
func newOscillator(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		val := math.Sin(2 * math.Pi * o.phase)
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	releaseStart int
	release      int
	total        int
}

// newEnvelope shapes s over duration
func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	rel := rate.N(release)
	return &envelope{
		streamer:     s,
		attack:       rate.N(attack),
		release:      rel,
		releaseStart: max(total-rel, 0),
		total:        total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.release > 0 && e.position >= e.releaseStart {
			vol = float64(e.total-e.position) / float64(e.release)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; zero or negative volume is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// note is one enveloped sine tone
func note(freq float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	osc := newOscillator(freq, duration, rate)
	return newEnvelope(osc, duration, 5*time.Millisecond, duration/2, rate)
}

// NewChime builds the two-note rising chime played when the scene starts
func NewChime(rate beep.SampleRate) beep.Streamer {
	first := note(constants.ChimeNote1Freq, constants.ChimeNote1Duration, rate)
	second := note(constants.ChimeNote2Freq, constants.ChimeNote2Duration, rate)
	return newVolume(beep.Seq(first, second), constants.ChimeVolume)
}
