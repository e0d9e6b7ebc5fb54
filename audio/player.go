package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Player feeds streams to the speaker through one mixer
type Player struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer creates a player for rate. No device is opened until Init
func NewPlayer(rate beep.SampleRate) *Player {
	if rate <= 0 {
		rate = DefaultRate
	}
	return &Player{rate: rate, mixer: &beep.Mixer{}}
}

// Init opens the audio device with a 100ms buffer
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Ready reports whether the device is open
func (p *Player) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Rate returns the device sample rate
func (p *Player) Rate() beep.SampleRate {
	return p.rate
}

// Play mixes s into the output. Ignored before Init
func (p *Player) Play(s beep.Streamer) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || s == nil {
		return false
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	return true
}

// Close drops queued streams and releases the device
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.mixer = &beep.Mixer{}
	p.initialized = false
}
