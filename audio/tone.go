// Package audio produces the terminal bell: a short shaped tone played
// through the speaker, or a screen flash when sound is off or unavailable.
package audio

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// ErrSilentTone is returned for a tone with no rate, frequency or duration
var ErrSilentTone = errors.New("tone is silent")

// Tone defaults
const (
	DefaultRate      = beep.SampleRate(48000)
	DefaultFrequency = 880.0
	DefaultDuration  = 50 * time.Millisecond
	DefaultVolume    = 0.6

	toneAttack  = 2 * time.Millisecond
	toneRelease = 30 * time.Millisecond
)

// Tone describes one bell strike
type Tone struct {
	Rate      beep.SampleRate
	Frequency float64
	Duration  time.Duration
	Volume    float64 // 0..1
}

// DefaultTone returns an 880Hz strike of 50ms
func DefaultTone() Tone {
	return Tone{
		Rate:      DefaultRate,
		Frequency: DefaultFrequency,
		Duration:  DefaultDuration,
		Volume:    DefaultVolume,
	}
}

// Samples is the number of frames the tone streams
func (t Tone) Samples() int {
	return t.Rate.N(t.Duration)
}

// Streamer builds the tone: a fundamental with a quieter octave overtone,
// each with a short attack and release
func (t Tone) Streamer() (beep.Streamer, error) {
	if t.Rate <= 0 || t.Duration <= 0 || t.Frequency <= 0 {
		return nil, fmt.Errorf("%w: rate %d, frequency %g, duration %s", ErrSilentTone, t.Rate, t.Frequency, t.Duration)
	}
	fund, err := t.partial(t.Frequency)
	if err != nil {
		return nil, err
	}
	over, err := t.partial(t.Frequency * 2)
	if err != nil {
		return nil, err
	}
	mixed := beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3))
	return newVolume(mixed, t.Volume), nil
}

func (t Tone) partial(freq float64) (beep.Streamer, error) {
	// Overtones above Nyquist are folded down an octave
	for freq >= float64(t.Rate)/2 {
		freq /= 2
	}
	sine, err := generators.SineTone(t.Rate, freq)
	if err != nil {
		return nil, err
	}
	release := min(toneRelease, t.Duration/2)
	return newEnvelope(beep.Take(t.Samples(), sine), t.Duration, toneAttack, release, t.Rate), nil
}

// envelope applies a linear attack and release to a stream
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	release      int
	totalSamples int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) *envelope {
	return &envelope{
		streamer:     s,
		attack:       rate.N(attack),
		release:      rate.N(release),
		totalSamples: rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, false
		}
		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.totalSamples - e.position; remaining <= e.release && e.release > 0 {
			vol = math.Min(vol, float64(remaining)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream by a linear gain
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Silent: true}
	}
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(vol),
	}
}
