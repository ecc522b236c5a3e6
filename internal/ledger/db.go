package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"ms-boxoffice/internal/models"
)

// DB is the append-only booking ledger. Rows are never updated or deleted.
type DB struct {
	Bun *bun.DB
}

func NewDB(bunDB *bun.DB) *DB {
	return &DB{Bun: bunDB}
}

// Append records one booking. Every call writes a new row; de-duplication is
// not this layer's job.
func (d *DB) Append(ctx context.Context, booking models.Booking) error {
	_, err := d.Bun.NewInsert().Model(&booking).Exec(ctx)
	if err != nil {
		return fmt.Errorf("append booking %s: %w", booking.ID, err)
	}
	return nil
}

// List returns all bookings, newest creation time first.
func (d *DB) List(ctx context.Context) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := d.Bun.NewSelect().
		Model(&bookings).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

func (d *DB) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}
	return &booking, nil
}

// ListBySection returns the bookings of one section, newest first.
func (d *DB) ListBySection(ctx context.Context, eventID, sectionID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("event_id = ? AND section_id = ?", eventID, sectionID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings for section %s: %w", sectionID, err)
	}
	return bookings, nil
}

// SumQuantityBySection totals the allocated quantity of one section. The
// reports service uses it to check capacity - remaining against the ledger.
func (d *DB) SumQuantityBySection(ctx context.Context, eventID, sectionID string) (int, error) {
	var total sql.NullInt64
	err := d.Bun.NewSelect().
		Model((*models.Booking)(nil)).
		ColumnExpr("SUM(quantity)").
		Where("event_id = ? AND section_id = ?", eventID, sectionID).
		Scan(ctx, &total)
	if err != nil {
		return 0, fmt.Errorf("sum bookings for section %s: %w", sectionID, err)
	}
	return int(total.Int64), nil
}
