package notify

import (
	"context"
	"log/slog"
	"time"
)

// LogNotifier is the last-resort delivery path for environments without an
// email provider (local development, CI). Reset links go to the log so an
// operator can relay them. Temporary passwords are never written to the
// log; the admin already holds the plaintext from the provisioning
// response.
type LogNotifier struct {
	Logger *slog.Logger
}

func (l *LogNotifier) Name() string { return "log" }

func (l *LogNotifier) SendPasswordReset(_ context.Context, to, _, resetURL string, validity time.Duration) error {
	l.Logger.Info("password reset link (email delivery unavailable)",
		slog.String("to", to),
		slog.String("reset_url", resetURL),
		slog.Duration("valid_for", validity),
	)
	return nil
}

func (l *LogNotifier) SendTemporaryPassword(_ context.Context, to, _, _ string) error {
	l.Logger.Info("temporary password issued (email delivery unavailable, not logging credential)",
		slog.String("to", to),
	)
	return nil
}
