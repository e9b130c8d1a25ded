package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/verlet/parameter"
	"github.com/lixenwraith/verlet/vmath"
)

// Config holds sample rate and per-sound volumes in [0, 1]
type Config struct {
	SampleRate    int
	MasterVolume  float64
	ImpactVolume  float64
	TearVolume    float64
	CatchUpVolume float64
}

// DefaultConfig returns the built-in audio settings
func DefaultConfig() Config {
	return Config{
		SampleRate:    parameter.AudioSampleRate,
		MasterVolume:  parameter.MasterVolume,
		ImpactVolume:  parameter.ImpactVolume,
		TearVolume:    parameter.TearVolume,
		CatchUpVolume: parameter.CatchUpVolume,
	}
}

// CreateImpactSound generates a thud whose pitch and volume rise with closing
// speed. Nil below ImpactMinSpeed
func CreateImpactSound(cfg Config, speed float64) beep.Streamer {
	if speed < parameter.ImpactMinSpeed {
		return nil
	}
	rate := beep.SampleRate(cfg.SampleRate)
	intensity := vmath.Clamp01(speed / parameter.ImpactFullSpeed)

	tone, err := generators.SineTone(rate, parameter.ImpactBaseFreq+parameter.ImpactFreqSpan*intensity)
	if err != nil {
		return nil
	}
	body := beep.Take(rate.N(parameter.ImpactSoundDuration), tone)
	shaped := NewEnvelope(body, parameter.ImpactSoundDuration, parameter.ImpactSoundAttack, parameter.ImpactSoundRelease, rate)

	return newVolume(shaped, cfg.ImpactVolume*cfg.MasterVolume*intensity)
}

// TearDuration returns the burst length for a tear of links
func TearDuration(links int) time.Duration {
	return min(parameter.TearSoundDuration+time.Duration(links)*parameter.TearSoundPerLink, parameter.TearSoundMaxDuration)
}

// CreateTearSound generates a rip: a noise burst over a falling saw
func CreateTearSound(cfg Config, links int) beep.Streamer {
	if links <= 0 {
		return nil
	}
	rate := beep.SampleRate(cfg.SampleRate)
	d := TearDuration(links)

	noise := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, parameter.TearSoundAttack, parameter.TearSoundRelease, rate)
	saw := NewEnvelope(NewOscillator(180, d, WaveSaw, rate), d, parameter.TearSoundAttack, parameter.TearSoundRelease, rate)

	mixed := beep.Mix(
		newVolume(noise, 0.7),
		newVolume(saw, 0.3),
	)
	return newVolume(mixed, cfg.TearVolume*cfg.MasterVolume)
}

// CreateCatchUpSound generates a short low pulse
func CreateCatchUpSound(cfg Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	d := parameter.CatchUpSoundDuration

	osc := NewOscillator(parameter.CatchUpSoundFreq, d, WaveSquare, rate)
	shaped := NewEnvelope(osc, d, parameter.CatchUpSoundAttack, parameter.CatchUpSoundRelease, rate)
	return newVolume(shaped, cfg.CatchUpVolume*cfg.MasterVolume)
}
