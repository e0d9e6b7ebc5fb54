package audio

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/gopxl/beep"
	"pkt.systems/pslog"
)

// Mode selects how the bell is signalled
type Mode int

const (
	ModeNone Mode = iota
	ModeAudio
	ModeVisual
)

func (m Mode) String() string {
	switch m {
	case ModeAudio:
		return "audio"
	case ModeVisual:
		return "visual"
	default:
		return "none"
	}
}

// ParseMode maps a config value to a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "off":
		return ModeNone, nil
	case "audio", "sound":
		return ModeAudio, nil
	case "visual", "flash":
		return ModeVisual, nil
	}
	return ModeNone, fmt.Errorf("unknown bell mode %q", s)
}

// Sink plays streams; Player is the device-backed one
type Sink interface {
	Play(s beep.Streamer) bool
}

// Bell rings on request. Audio mode falls back to the flash when the sink
// rejects the tone
type Bell struct {
	mode  Mode
	tone  Tone
	sink  Sink
	flash func()
	log   pslog.Logger

	rings   atomic.Int64
	flashes atomic.Int64
	warned  atomic.Bool
}

// BellOption configures a Bell
type BellOption func(*Bell)

// WithSink sets the audio output
func WithSink(s Sink) BellOption {
	return func(b *Bell) { b.sink = s }
}

// WithFlash sets the visual bell
func WithFlash(f func()) BellOption {
	return func(b *Bell) { b.flash = f }
}

// WithTone overrides the default tone
func WithTone(t Tone) BellOption {
	return func(b *Bell) { b.tone = t }
}

// WithLogger sets the logger
func WithLogger(l pslog.Logger) BellOption {
	return func(b *Bell) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBell creates a bell in mode
func NewBell(mode Mode, opts ...BellOption) *Bell {
	b := &Bell{mode: mode, tone: DefaultTone()}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = pslog.Ctx(context.Background())
	}
	b.log = b.log.With("component", "bell")
	return b
}

// Mode returns the configured mode
func (b *Bell) Mode() Mode {
	return b.mode
}

// Ring signals the bell once
func (b *Bell) Ring() {
	b.rings.Add(1)
	switch b.mode {
	case ModeAudio:
		if b.play() {
			return
		}
		b.doFlash()
	case ModeVisual:
		b.doFlash()
	}
}

// Rings counts Ring calls
func (b *Bell) Rings() int64 {
	return b.rings.Load()
}

// Flashes counts visual bells shown
func (b *Bell) Flashes() int64 {
	return b.flashes.Load()
}

func (b *Bell) play() bool {
	if b.sink == nil {
		return false
	}
	s, err := b.tone.Streamer()
	if err == nil && b.sink.Play(s) {
		return true
	}
	if b.warned.CompareAndSwap(false, true) {
		b.log.Warn("audio bell unavailable, using visual bell", "frequency", b.tone.Frequency, "error", err)
	}
	return false
}

func (b *Bell) doFlash() {
	if b.flash == nil {
		return
	}
	b.flashes.Add(1)
	b.flash()
}
