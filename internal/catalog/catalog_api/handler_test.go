package catalog_api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-boxoffice/internal/catalog"
	"ms-boxoffice/internal/catalog/catalog_api"
	catalogdb "ms-boxoffice/internal/catalog/db"
	"ms-boxoffice/internal/models"
)

func setupRouter(t *testing.T) *chi.Mux {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	err = bunDB.ResetModel(context.Background(), (*models.Event)(nil), (*models.Section)(nil))
	require.NoError(t, err)
	t.Cleanup(func() { bunDB.Close() })

	svc := catalog.NewService(catalogdb.NewDB(bunDB))
	handler := catalog_api.NewHandler(svc, nil)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func postEvent(t *testing.T, router http.Handler, body interface{}) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateEventEndpoint(t *testing.T) {
	router := setupRouter(t)

	rec := postEvent(t, router, models.CreateEventRequest{
		Name: "Open Air Festival",
		Sections: []models.SectionRequest{
			{Name: "Field", Price: 40, Capacity: 500},
		},
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var event models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))
	assert.NotEmpty(t, event.ID)
	require.Len(t, event.Sections, 1)
	assert.Equal(t, 500, event.Sections[0].Remaining)
}

func TestCreateEventValidationStatus(t *testing.T) {
	router := setupRouter(t)

	rec := postEvent(t, router, models.CreateEventRequest{
		Name: "Bad Event",
		Sections: []models.SectionRequest{
			{Name: "Pit", Price: 10, Capacity: 0},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateEventMalformedBody(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/events", bytes.NewReader([]byte("nonsense")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEventEndpoint(t *testing.T) {
	router := setupRouter(t)

	rec := postEvent(t, router, models.CreateEventRequest{
		Name: "Theatre Premiere",
		Sections: []models.SectionRequest{
			{Name: "Stalls", Price: 55, Capacity: 120},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, "/events/"+created.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Theatre Premiere", got.Name)
	assert.Len(t, got.Sections, 1)
}

func TestGetEventNotFoundStatus(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/events/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEventsEndpoint(t *testing.T) {
	router := setupRouter(t)

	for _, name := range []string{"First", "Second"} {
		rec := postEvent(t, router, models.CreateEventRequest{
			Name: name,
			Sections: []models.SectionRequest{
				{Name: "GA", Price: 20, Capacity: 10},
			},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var events []models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Len(t, events, 2)
}
