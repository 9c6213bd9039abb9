// Package store persists transaction records. The lifecycle controller
// treats it as an opaque record store with atomic single-record reads and
// writes; TrackingCode is the sole correlation key.
package store

import (
	"context"

	"github.com/yourorg/bank-gateway/internal/gateway"
)

// Repository is the durable state surface of the gateway.
type Repository interface {
	// Create persists a new record. The tracking code must be unique.
	Create(ctx context.Context, rec *gateway.TransactionRecord) error

	// Get loads the record for a tracking code, or gateway.ErrRecordNotFound.
	Get(ctx context.Context, trackingCode string) (*gateway.TransactionRecord, error)

	// Update writes back a mutated record.
	Update(ctx context.Context, rec *gateway.TransactionRecord) error
}
