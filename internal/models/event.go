package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`

	Sections []Section `bun:"rel:has-many,join:id=event_id" json:"sections"`
}

// Section is a sellable block of seats within an event. Capacity is fixed at
// creation; Remaining is the live counter and is only ever changed through the
// inventory store's conditional decrement.
type Section struct {
	bun.BaseModel `bun:"table:sections"`

	ID        string  `bun:"id,pk" json:"id"`
	EventID   string  `bun:"event_id,notnull" json:"event_id"`
	Name      string  `bun:"name,notnull" json:"name"`
	Price     float64 `bun:"price,notnull" json:"price"`
	Capacity  int     `bun:"capacity,notnull" json:"capacity"`
	Remaining int     `bun:"remaining,notnull" json:"remaining"`
}

type SectionRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Capacity int     `json:"capacity"`
}

type CreateEventRequest struct {
	Name     string           `json:"name"`
	Sections []SectionRequest `json:"sections"`
}
