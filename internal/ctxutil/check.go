// Package ctxutil provides context utility functions.
package ctxutil

import (
	"context"
	"time"
)

// Canceled returns the context error if ctx is done (Canceled or
// DeadlineExceeded), nil otherwise. Used at operation entry points.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// Sleep pauses for d or until ctx is done, whichever comes first.
// It returns the context error when interrupted.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
