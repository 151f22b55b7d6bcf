package llm

import (
	"errors"
	"fmt"
)

// ContentUnavailableText replaces a reply whose payload is not plain
// text. The turn still succeeds with this placeholder.
const ContentUnavailableText = "Content not available"

// ErrContentUnavailable marks a reply payload that carries no plain
// text part.
var ErrContentUnavailable = errors.New("reply content is not plain text")

// ConfigError reports a missing or invalid credential at construction
// time. It is terminal: the adapter is never built and the session
// stays non-interactive.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid llm configuration: %s", e.Reason)
}

// RunFailedError reports a backend run that reached its failed state.
// No retry is attempted.
type RunFailedError struct {
	RunID string
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("assistant run %s failed", e.RunID)
}
