package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

// LogSink mirrors every notification into the structured log.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

// Emit implements Sink.
func (s *LogSink) Emit(_ context.Context, n domain.Notification) {
	s.log.Info().
		Str("notification_id", n.ID).
		Str("kind", string(n.Kind)).
		Str("title", n.Title).
		Msg(n.Message)
}
