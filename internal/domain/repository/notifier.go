package repository

import "context"

// Notifier delivers a formatted message to a user. Delivery failures are
// returned so the caller can log them; the core never retries.
type Notifier interface {
	Send(ctx context.Context, userID int64, text string) error
}
