package notifier

import (
	"context"
	"log/slog"
)

// MockSender logs emails instead of delivering them. Used in development
// and whenever SMTP is not configured.
type MockSender struct {
	logger *slog.Logger
}

func NewMockSender(logger *slog.Logger) *MockSender {
	return &MockSender{logger: logger}
}

func (s *MockSender) Name() string {
	return "mock"
}

// Send logs the email envelope and always succeeds. The body is omitted
// because it contains the raw token link.
func (s *MockSender) Send(ctx context.Context, email *Email) error {
	s.logger.InfoContext(ctx, "mock sender: email delivered",
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
	)
	return nil
}
