package cache

import "context"

// ProcessedSessions records payment sessions whose fulfillment order has
// already been submitted, so a redelivered webhook skips resubmission. The
// fulfillment provider deduplicates by external reference regardless; this
// store just avoids the extra upstream round trip.
type ProcessedSessions interface {
	Seen(ctx context.Context, sessionID string) (bool, error)
	Mark(ctx context.Context, sessionID string) error
}
