package infra

import (
	"github.com/rs/zerolog"

	"server/internal/domain"
)

// EventLogger is a domain event sink that writes one structured log line per
// platform event.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger creates a sink logging to l.
func NewEventLogger(l zerolog.Logger) EventLogger {
	return EventLogger{logger: l}
}

// Emit implements domain.EventSink.
func (s EventLogger) Emit(e domain.Event) {
	s.logger.Info().
		Str("event", e.Kind()).
		Interface("payload", e).
		Msg("platform event")
}
