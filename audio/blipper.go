package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/verlet/events"
	"github.com/lixenwraith/verlet/parameter"
)

// soundKind indexes per-kind rate limiting
type soundKind int

const (
	soundImpact soundKind = iota
	soundTear
	soundCatchUp
	soundKindCount
)

// Blipper turns physics events into short sounds on a shared mixer
// Sounds of one kind closer than MinSoundGap are dropped
type Blipper struct {
	mu          sync.Mutex
	cfg         Config
	mixer       *beep.Mixer
	initialized bool
	last        [soundKindCount]time.Time

	// now is swapped in tests
	now func() time.Time
}

// NewBlipper creates a silent blipper; call Initialize to open the speaker
func NewBlipper(cfg Config) *Blipper {
	return &Blipper{
		cfg:   cfg,
		mixer: &beep.Mixer{},
		now:   time.Now,
	}
}

// Initialize sets up the speaker and starts the mixer
func (b *Blipper) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	rate := beep.SampleRate(b.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(b.mixer)
	b.initialized = true
	return nil
}

// Cleanup silences all active sounds
func (b *Blipper) Cleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	b.initialized = false
}

// Sound builds the streamer for ev, nil when the event is silent or rate limited
func (b *Blipper) Sound(ev events.Event) beep.Streamer {
	b.mu.Lock()
	defer b.mu.Unlock()

	var (
		kind soundKind
		s    beep.Streamer
	)
	switch ev.Type {
	case events.EventContactBegin:
		p, ok := ev.Payload.(*events.ContactPayload)
		if !ok {
			return nil
		}
		kind, s = soundImpact, CreateImpactSound(b.cfg, p.Speed)
	case events.EventClothTorn:
		p, ok := ev.Payload.(*events.ClothTornPayload)
		if !ok {
			return nil
		}
		kind, s = soundTear, CreateTearSound(b.cfg, p.Links)
	case events.EventCatchUp:
		kind, s = soundCatchUp, CreateCatchUpSound(b.cfg)
	default:
		return nil
	}
	if s == nil {
		return nil
	}

	now := b.now()
	if now.Sub(b.last[kind]) < parameter.MinSoundGap {
		return nil
	}
	b.last[kind] = now
	return s
}

// OnEvent plays the sound for ev if the speaker is open; reports whether a sound was queued
func (b *Blipper) OnEvent(ev events.Event) bool {
	s := b.Sound(ev)
	if s == nil {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return false
	}
	speaker.Lock()
	b.mixer.Add(s)
	speaker.Unlock()
	return true
}

// Handler adapts b to an event router of any context type
func Handler[T any](b *Blipper) events.Handler[T] {
	return events.HandlerFunc[T]{
		Types: []events.EventType{events.EventContactBegin, events.EventClothTorn, events.EventCatchUp},
		Fn:    func(_ T, ev events.Event) { b.OnEvent(ev) },
	}
}
