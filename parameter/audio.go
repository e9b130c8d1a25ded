package parameter

import "time"

// Audio hardware settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond

	// MinSoundGap between consecutive sounds of the same kind
	MinSoundGap = 50 * time.Millisecond
)

// Impact sound: pitched thud scaled by closing speed
const (
	ImpactSoundDuration = 90 * time.Millisecond
	ImpactSoundAttack   = 3 * time.Millisecond
	ImpactSoundRelease  = 60 * time.Millisecond

	// ImpactMinSpeed filters resting contacts out of the mixer
	ImpactMinSpeed = 0.5
	// ImpactFullSpeed maps to full volume
	ImpactFullSpeed = 10.0

	ImpactBaseFreq = 110.0
	ImpactFreqSpan = 330.0
)

// Tear sound: noise burst lengthened by the number of links removed
const (
	TearSoundDuration    = 120 * time.Millisecond
	TearSoundPerLink     = 2 * time.Millisecond
	TearSoundMaxDuration = 400 * time.Millisecond
	TearSoundAttack      = 5 * time.Millisecond
	TearSoundRelease     = 80 * time.Millisecond
)

// Catch-up sound: low square pulse marking dropped real time
const (
	CatchUpSoundDuration = 60 * time.Millisecond
	CatchUpSoundAttack   = 2 * time.Millisecond
	CatchUpSoundRelease  = 30 * time.Millisecond
	CatchUpSoundFreq     = 55.0
)

// Default volumes in [0, 1]
const (
	MasterVolume  = 0.6
	ImpactVolume  = 0.8
	TearVolume    = 0.5
	CatchUpVolume = 0.3
)
