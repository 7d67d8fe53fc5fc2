package listener

type ConnectionManagerOpt func(*ConnectionManager)

// WithRateLimit sets the per-connection token bucket: burst commands at
// once, refilled at perSecond.
func WithRateLimit(burst int, perSecond float64) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		m.burst = burst
		m.refill = perSecond
	}
}

// WithMaxLineLength caps a line on line transports. Longer lines end the
// connection.
func WithMaxLineLength(n int) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		m.maxLine = n
	}
}

// WithWrapWidth sets the column text is wrapped to on line transports.
func WithWrapWidth(n int) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		m.width = n
	}
}

// WithGreeting sets the message every new connection is sent.
func WithGreeting(msg string) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		m.greeting = msg
	}
}
