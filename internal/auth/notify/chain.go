package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/silverbirch/portal/pkg/slogx"
)

// ErrNoNotifiers is returned by an empty chain.
var ErrNoNotifiers = errors.New("no notifiers configured")

// Chain tries each notifier in order and stops at the first success.
// Intermediate failures are logged and swallowed; only the last notifier's
// failure is surfaced to the caller.
type Chain struct {
	notifiers []Notifier
}

// NewChain builds a chain from the given notifiers, tried in argument order.
func NewChain(notifiers ...Notifier) *Chain {
	return &Chain{notifiers: notifiers}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) SendPasswordReset(ctx context.Context, to, name, resetURL string, validity time.Duration) error {
	return c.deliver(ctx, func(n Notifier) error {
		return n.SendPasswordReset(ctx, to, name, resetURL, validity)
	})
}

func (c *Chain) SendTemporaryPassword(ctx context.Context, to, name, tempPassword string) error {
	return c.deliver(ctx, func(n Notifier) error {
		return n.SendTemporaryPassword(ctx, to, name, tempPassword)
	})
}

func (c *Chain) deliver(ctx context.Context, send func(Notifier) error) error {
	if len(c.notifiers) == 0 {
		return ErrNoNotifiers
	}

	log := slogx.FromContext(ctx)

	var err error
	for i, n := range c.notifiers {
		err = send(n)
		if err == nil {
			return nil
		}
		if i < len(c.notifiers)-1 {
			log.Warn("notifier failed, trying next",
				slog.String("notifier", n.Name()),
				slog.Any("error", err),
			)
		}
	}

	return err
}
