package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"ms-boxoffice/internal/models"
)

// DB is the persistent inventory store. The decrement is a single guarded
// UPDATE, so the database serializes attempts against the same section no
// matter how many service instances share it. There is no read-then-write
// anywhere on this path: the WHERE clause is the capacity check.
type DB struct {
	Bun *bun.DB
}

func NewDB(bunDB *bun.DB) *DB {
	return &DB{Bun: bunDB}
}

func (d *DB) TryDecrement(ctx context.Context, eventID, sectionID string, qty int) (int, error) {
	var remaining int
	err := d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.Section)(nil)).
			Set("remaining = remaining - ?", qty).
			Where("id = ? AND event_id = ? AND remaining >= ?", sectionID, eventID, qty).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("decrement section %s: %w", sectionID, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("decrement section %s: %w", sectionID, err)
		}

		if rows == 0 {
			// Nothing matched: the section is missing or out of capacity.
			exists, err := tx.NewSelect().
				Model((*models.Section)(nil)).
				Where("id = ? AND event_id = ?", sectionID, eventID).
				Exists(ctx)
			if err != nil {
				return fmt.Errorf("probe section %s: %w", sectionID, err)
			}
			if !exists {
				return fmt.Errorf("%w: section %s", models.ErrNotFound, sectionID)
			}
			return fmt.Errorf("%w: section %s, requested %d", models.ErrInsufficientCapacity, sectionID, qty)
		}

		// The update's row lock holds until commit, so this reads exactly the
		// value our decrement produced.
		return tx.NewSelect().
			Model((*models.Section)(nil)).
			Column("remaining").
			Where("id = ? AND event_id = ?", sectionID, eventID).
			Scan(ctx, &remaining)
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrInsufficientCapacity) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}
	return remaining, nil
}
