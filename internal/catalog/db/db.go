package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"ms-boxoffice/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func NewDB(bunDB *bun.DB) *DB {
	return &DB{Bun: bunDB}
}

// CreateEvent inserts the event and all its sections in one transaction, so a
// half-created event is never visible.
func (d *DB) CreateEvent(ctx context.Context, event models.Event) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&event).Exec(ctx); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		if _, err := tx.NewInsert().Model(&event.Sections).Exec(ctx); err != nil {
			return fmt.Errorf("insert sections: %w", err)
		}
		return nil
	})
}

func (d *DB) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Relation("Sections").
		Where("event.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: event %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get event %s: %w", id, err)
	}
	return &event, nil
}

func (d *DB) ListEvents(ctx context.Context) ([]models.Event, error) {
	events := []models.Event{}
	err := d.Bun.NewSelect().
		Model(&events).
		Relation("Sections").
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// GetSection fetches one section of an event, remaining included.
func (d *DB) GetSection(ctx context.Context, eventID, sectionID string) (*models.Section, error) {
	var section models.Section
	err := d.Bun.NewSelect().
		Model(&section).
		Where("id = ? AND event_id = ?", sectionID, eventID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: section %s", models.ErrNotFound, sectionID)
		}
		return nil, fmt.Errorf("get section %s: %w", sectionID, err)
	}
	return &section, nil
}
