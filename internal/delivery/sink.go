// Package delivery sends formatted digests to chat destinations.
package delivery

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Sink accepts a formatted report. Failures are logged by the sink and
// reported as false, never retried.
type Sink interface {
	SendText(ctx context.Context, destination, text string) bool
}

// LogSink writes digests to the log instead of a chat. Used for dry runs and
// when no Telegram token is configured.
type LogSink struct{}

func (LogSink) SendText(_ context.Context, destination, text string) bool {
	log.Info().Str("destination", destination).Int("length", len(text)).Msg("digest (dry run)\n" + text)
	return true
}
