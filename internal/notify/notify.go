package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// MessageSender sends a plain text message to a chat.
// telegram.Router implements this.
type MessageSender interface {
	SendMessage(chatID int64, text string) error
}

// ErrTimeout is returned when a delivery attempt exceeds its time budget.
var ErrTimeout = errors.New("delivery timed out")

// Limited rate-limits deliveries and bounds each attempt with a timeout.
type Limited struct {
	sender  MessageSender
	limiter *rate.Limiter
	timeout time.Duration
}

// NewLimited allows rps sends per second with a burst of rps.
// A non-positive timeout disables the per-attempt bound.
func NewLimited(sender MessageSender, rps int, timeout time.Duration) *Limited {
	if rps <= 0 {
		rps = 1
	}
	return &Limited{
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		timeout: timeout,
	}
}

// Notify waits for a rate-limit token and sends text to chatID.
func (l *Limited) Notify(ctx context.Context, chatID int64, text string) error {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	// The underlying client call does not take a context; run it aside and
	// stop waiting once the budget is spent.
	errCh := make(chan error, 1)
	go func() { errCh <- l.sender.SendMessage(chatID, text) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrTimeout, l.timeout)
		}
		return ctx.Err()
	}
}
