package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Booking is one successful allocation. Rows are immutable and never deleted;
// a booking may only exist after the matching decrement committed.
type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID        string    `bun:"id,pk" json:"id"`
	EventID   string    `bun:"event_id,notnull" json:"event_id"`
	SectionID string    `bun:"section_id,notnull" json:"section_id"`
	Quantity  int       `bun:"quantity,notnull" json:"quantity"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

type AllocationRequest struct {
	EventID   string `json:"event_id"`
	SectionID string `json:"section_id"`
	Quantity  int    `json:"quantity"`
}
