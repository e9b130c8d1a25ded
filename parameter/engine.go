package parameter

import "time"

// Sandbox loop timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxFrameDelta clamps wall-clock frame delta fed to the physics manager
	// A debugger pause or terminal suspend must not trigger a multi-second catch-up step
	MaxFrameDelta = 250 * time.Millisecond
)

// Event queue
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 1024

	// EventBufferMask is the bitmask for fast modulo operations (1024 - 1)
	EventBufferMask = 1023
)

// Logging
const (
	LogDir      = "logs"
	LogFileName = "sandbox.log"
	MaxLogSize  = 10 * 1024 * 1024
)
