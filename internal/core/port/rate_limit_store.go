package port

import (
	"context"
	"time"
)

// RateLimitStore tracks attempts inside a sliding window keyed by an
// arbitrary identifier (typically client IP plus rule name).
type RateLimitStore interface {
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
}
