package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	catalogdb "ms-boxoffice/internal/catalog/db"
	"ms-boxoffice/internal/models"
)

func setupCatalogDB(t *testing.T) *catalogdb.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	err = bunDB.ResetModel(context.Background(), (*models.Event)(nil), (*models.Section)(nil))
	require.NoError(t, err)

	t.Cleanup(func() { bunDB.Close() })
	return catalogdb.NewDB(bunDB)
}

func sampleEvent(id string, createdAt time.Time) models.Event {
	return models.Event{
		ID:        id,
		Name:      "Jazz Night",
		CreatedAt: createdAt,
		Sections: []models.Section{
			{ID: id + "-floor", EventID: id, Name: "Floor", Price: 60, Capacity: 50, Remaining: 50},
			{ID: id + "-balcony", EventID: id, Name: "Balcony", Price: 35, Capacity: 30, Remaining: 30},
		},
	}
}

func TestCreateAndGetEvent(t *testing.T) {
	db := setupCatalogDB(t)
	event := sampleEvent("e1", time.Now().UTC())
	require.NoError(t, db.CreateEvent(context.Background(), event))

	got, err := db.GetEvent(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", got.Name)
	require.Len(t, got.Sections, 2)
	for _, sec := range got.Sections {
		assert.Equal(t, "e1", sec.EventID)
		assert.Equal(t, sec.Capacity, sec.Remaining)
	}
}

func TestGetEventNotFound(t *testing.T) {
	db := setupCatalogDB(t)

	_, err := db.GetEvent(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListEventsNewestFirst(t *testing.T) {
	db := setupCatalogDB(t)
	base := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.CreateEvent(context.Background(), sampleEvent("e1", base)))
	require.NoError(t, db.CreateEvent(context.Background(), sampleEvent("e2", base.Add(time.Hour))))

	events, err := db.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e2", events[0].ID)
	assert.Equal(t, "e1", events[1].ID)
	assert.Len(t, events[0].Sections, 2)
}

func TestGetSection(t *testing.T) {
	db := setupCatalogDB(t)
	require.NoError(t, db.CreateEvent(context.Background(), sampleEvent("e1", time.Now().UTC())))

	sec, err := db.GetSection(context.Background(), "e1", "e1-floor")
	require.NoError(t, err)
	assert.Equal(t, "Floor", sec.Name)
	assert.Equal(t, 50, sec.Capacity)

	_, err = db.GetSection(context.Background(), "e1", "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Right section id, wrong event.
	_, err = db.GetSection(context.Background(), "e2", "e1-floor")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
