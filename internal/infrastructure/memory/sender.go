package memory

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogSender stands in for the broker-backed sender in dev mode. It logs
// the code instead of delivering it and never fails.
type LogSender struct{}

func NewLogSender() *LogSender { return &LogSender{} }

func (s *LogSender) SendResetCode(ctx context.Context, email, code string) error {
	log.Info().
		Str("email", email).
		Str("code", code).
		Msg("reset code (dev sender, not delivered)")
	return nil
}
