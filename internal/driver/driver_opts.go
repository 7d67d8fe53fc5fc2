package driver

import "time"

type ClockOpt func(*Clock)

func WithTickLength(tickLength time.Duration) ClockOpt {
	return func(c *Clock) {
		c.tickLength = tickLength
	}
}

// WithShutdownTicks sets the countdown used when no tick count is given.
func WithShutdownTicks(ticks int) ClockOpt {
	return func(c *Clock) {
		c.shutdownTicks = ticks
	}
}

// WithCheckpointTicks saves every logged in character every n ticks. Zero
// disables checkpoints.
func WithCheckpointTicks(n int) ClockOpt {
	return func(c *Clock) {
		c.checkpointTicks = n
	}
}

// WithOnStop registers a callback run once the shutdown countdown ends.
func WithOnStop(fn func()) ClockOpt {
	return func(c *Clock) {
		c.onStop = fn
	}
}
