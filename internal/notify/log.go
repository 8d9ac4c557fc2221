package notify

import (
	"context"
	"log/slog"
)

// LogSender writes alerts to the structured log only.  Default transport
// in dev, where no outbound credentials exist.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, text string) error {
	s.logger.Warn("alert", "text", text)
	return nil
}
