package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"ms-boxoffice/internal/inventory"
	"ms-boxoffice/internal/models"
)

type LedgerLayer interface {
	Append(ctx context.Context, booking models.Booking) error
	List(ctx context.Context) ([]models.Booking, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

type KafkaPublisher interface {
	PublishBookingCreated(booking models.Booking) error
}

// BookingCache caches booking lookups. Bookings are immutable, so entries are
// never invalidated, only expired.
type BookingCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// BookingService runs one allocation attempt end to end: validate, decrement,
// record. The inventory store is the only serialization point; this service
// never reads a counter to decide anything.
type BookingService struct {
	Inventory inventory.Store
	Ledger    LedgerLayer
	Kafka     KafkaPublisher
	Cache     BookingCache
}

// ledgerAppendAttempts bounds the retry of a failed ledger append. The
// decrement is never rolled back: when all attempts fail the seat stays
// consumed and the caller gets ErrStorageFailure. Underselling by one audit
// row beats overselling a seat.
const (
	ledgerAppendAttempts = 3
	ledgerRetryDelay     = 100 * time.Millisecond
)

func NewBookingService(store inventory.Store, ledger LedgerLayer, kafka KafkaPublisher, cache BookingCache) *BookingService {
	return &BookingService{Inventory: store, Ledger: ledger, Kafka: kafka, Cache: cache}
}

func (s *BookingService) Allocate(ctx context.Context, req models.AllocationRequest) (*models.Booking, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be >= 1, got %d", models.ErrInvalidInput, req.Quantity)
	}
	if req.EventID == "" || req.SectionID == "" {
		return nil, fmt.Errorf("%w: event_id and section_id are required", models.ErrInvalidInput)
	}

	if _, err := s.Inventory.TryDecrement(ctx, req.EventID, req.SectionID, req.Quantity); err != nil {
		return nil, err
	}

	booking := models.Booking{
		ID:        uuid.NewString(),
		EventID:   req.EventID,
		SectionID: req.SectionID,
		Quantity:  req.Quantity,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.appendWithRetry(ctx, booking); err != nil {
		log.Printf("BOOKING: ledger append failed for booking %s, decrement stands: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: record booking %s: %v", models.ErrStorageFailure, booking.ID, err)
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishBookingCreated(booking); err != nil {
			log.Printf("BOOKING: kafka publish error (booking created): %v", err)
		}
	}

	return &booking, nil
}

func (s *BookingService) appendWithRetry(ctx context.Context, booking models.Booking) error {
	var err error
	for attempt := 1; attempt <= ledgerAppendAttempts; attempt++ {
		if err = s.Ledger.Append(ctx, booking); err == nil {
			return nil
		}
		if attempt < ledgerAppendAttempts {
			log.Printf("BOOKING: ledger append attempt %d/%d failed: %v", attempt, ledgerAppendAttempts, err)
			time.Sleep(ledgerRetryDelay)
		}
	}
	return err
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	cacheKey := "booking:" + id
	if s.Cache != nil {
		var cached models.Booking
		hit, err := s.Cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			log.Printf("BOOKING: cache read error for %s: %v", id, err)
		} else if hit {
			return &cached, nil
		}
	}

	booking, err := s.Ledger.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, cacheKey, booking); err != nil {
			log.Printf("BOOKING: cache write error for %s: %v", id, err)
		}
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return s.Ledger.List(ctx)
}
