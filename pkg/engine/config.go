package engine

import "time"

// Config holds configuration for the conversation engine.
type Config struct {
	// DefaultSystem is the system instruction applied when the request
	// omits one. Empty means no system instruction by default.
	DefaultSystem string

	// MaxTurns is the maximum number of model rounds per request before
	// the engine gives up with the fallback answer. Zero or negative
	// means use the default of 6.
	MaxTurns int

	// TurnTimeout bounds one model round, including stream consumption.
	// Zero or negative means use the default of 120s.
	TurnTimeout time.Duration

	// ToolTimeout bounds one tool execution. Zero or negative means use
	// the default of 30s.
	ToolTimeout time.Duration
}

func (c Config) maxTurns() int {
	if c.MaxTurns <= 0 {
		return 6
	}
	return c.MaxTurns
}

func (c Config) turnTimeout() time.Duration {
	if c.TurnTimeout <= 0 {
		return 120 * time.Second
	}
	return c.TurnTimeout
}

func (c Config) toolTimeout() time.Duration {
	if c.ToolTimeout <= 0 {
		return 30 * time.Second
	}
	return c.ToolTimeout
}
