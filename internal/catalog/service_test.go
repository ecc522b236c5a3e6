package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ms-boxoffice/internal/catalog"
	"ms-boxoffice/internal/models"
)

type MockDB struct {
	mock.Mock
}

func (m *MockDB) CreateEvent(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockDB) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockDB) ListEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Event), args.Error(1)
}

func validRequest() models.CreateEventRequest {
	return models.CreateEventRequest{
		Name: "Summer Concert",
		Sections: []models.SectionRequest{
			{Name: "Floor", Price: 80, Capacity: 200},
			{Name: "Balcony", Price: 45, Capacity: 100},
		},
	}
}

func TestCreateEventValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateEventRequest)
	}{
		{"empty name", func(r *models.CreateEventRequest) { r.Name = "" }},
		{"no sections", func(r *models.CreateEventRequest) { r.Sections = nil }},
		{"unnamed section", func(r *models.CreateEventRequest) { r.Sections[0].Name = "" }},
		{"zero capacity", func(r *models.CreateEventRequest) { r.Sections[1].Capacity = 0 }},
		{"negative capacity", func(r *models.CreateEventRequest) { r.Sections[0].Capacity = -5 }},
		{"negative price", func(r *models.CreateEventRequest) { r.Sections[0].Price = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := new(MockDB)
			svc := catalog.NewService(db)
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.CreateEvent(context.Background(), req)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
			db.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateEventAssignsIdentityAndFullRemaining(t *testing.T) {
	db := new(MockDB)
	db.On("CreateEvent", mock.Anything, mock.AnythingOfType("models.Event")).Return(nil)
	svc := catalog.NewService(db)

	event, err := svc.CreateEvent(context.Background(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	require.Len(t, event.Sections, 2)
	for _, sec := range event.Sections {
		assert.NotEmpty(t, sec.ID)
		assert.Equal(t, event.ID, sec.EventID)
		// A new section starts fully available.
		assert.Equal(t, sec.Capacity, sec.Remaining)
	}
	db.AssertExpectations(t)
}

func TestGetEventPassesThrough(t *testing.T) {
	db := new(MockDB)
	db.On("GetEvent", mock.Anything, "missing").Return(nil, models.ErrNotFound)
	svc := catalog.NewService(db)

	_, err := svc.GetEvent(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListEventsPassesThrough(t *testing.T) {
	db := new(MockDB)
	db.On("ListEvents", mock.Anything).Return([]models.Event{{ID: "e1"}}, nil)
	svc := catalog.NewService(db)

	events, err := svc.ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].ID)
}
