package inventory

import "context"

// Store is the single serialization point for a section's remaining counter.
//
// TryDecrement succeeds only when the section exists under the given event and
// its current remaining is at least qty; it then reduces remaining by qty and
// returns the new value. The decrement is all-or-nothing: a call that returns
// models.ErrNotFound or models.ErrInsufficientCapacity leaves the counter
// untouched. qty must already be validated positive by the caller.
type Store interface {
	TryDecrement(ctx context.Context, eventID, sectionID string, qty int) (int, error)
}
