// Package notify delivers credential material to users. Delivery is
// best-effort and ordered: configured notifiers are tried in sequence and
// the first success wins.
package notify

import (
	"context"
	"time"
)

// Notifier delivers a single message to a recipient. Implementations must
// never persist the credential material they are handed.
type Notifier interface {
	// Name identifies the notifier in logs.
	Name() string

	// SendPasswordReset delivers a reset link that stays valid for the
	// given period.
	SendPasswordReset(ctx context.Context, to, name, resetURL string, validity time.Duration) error

	// SendTemporaryPassword delivers a freshly provisioned temporary
	// password.
	SendTemporaryPassword(ctx context.Context, to, name, tempPassword string) error
}
