// Package domain holds the types and ports of the offer ingestion driver
package domain

import (
	"errors"
	"time"

	"sdexindex/internal/core/offer"

	"github.com/google/uuid"
)

// Stream is the ingest_cursor key for the offers feed
const Stream = "offers"

// Batch is everything one page contributes to storage
type Batch struct {
	RunID      uuid.UUID
	ObservedAt time.Time
	Offers     []offer.Offer
	Rejections []Rejection
}

// Rejection is a persisted record of one offer that failed validation
type Rejection struct {
	RawID  string
	Kind   string
	Field  string
	Value  string
	Reason string
}

// RejectionFrom flattens a FromRaw error; unknown errors keep only the reason
func RejectionFrom(err error) Rejection {
	var oe *offer.Error
	if errors.As(err, &oe) {
		return Rejection{
			RawID:  oe.RawID,
			Kind:   oe.Kind.String(),
			Field:  oe.Field,
			Value:  oe.Value,
			Reason: err.Error(),
		}
	}
	return Rejection{Kind: "unknown", Reason: err.Error()}
}

// Report summarizes one drain
type Report struct {
	RunID    uuid.UUID
	Pages    int
	Fetched  int
	Accepted int
	Rejected int
	// Cursor is the persisted cursor after the drain
	Cursor  string
	Elapsed time.Duration
	// Skipped is set when another indexer held the lease
	Skipped bool
	// More is set when MaxPages stopped the drain with pages left
	More bool
}

// Status is the current ingest position and table sizes
type Status struct {
	Stream     string     `json:"stream"`
	Cursor     string     `json:"cursor"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	Offers     int64      `json:"offers"`
	Assets     int64      `json:"assets"`
	Rejections int64      `json:"rejections"`
}
