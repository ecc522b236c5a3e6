package reports

import (
	"context"
	"fmt"

	"ms-boxoffice/internal/models"
)

type SectionReader interface {
	GetSection(ctx context.Context, eventID, sectionID string) (*models.Section, error)
}

type LedgerReader interface {
	ListBySection(ctx context.Context, eventID, sectionID string) ([]models.Booking, error)
	SumQuantityBySection(ctx context.Context, eventID, sectionID string) (int, error)
}

// SectionSummary is a point-in-time occupancy report for one section.
// Allocated always equals Capacity - Remaining; the ledger sum is reported
// alongside so operators can audit the two against each other.
type SectionSummary struct {
	EventID   string  `json:"event_id"`
	SectionID string  `json:"section_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Capacity  int     `json:"capacity"`
	Remaining int     `json:"remaining"`
	Allocated int     `json:"allocated"`
	Booked    int     `json:"booked"`
	Bookings  int     `json:"bookings"`
}

type Service struct {
	Sections SectionReader
	Ledger   LedgerReader
}

func NewService(sections SectionReader, ledger LedgerReader) *Service {
	return &Service{Sections: sections, Ledger: ledger}
}

func (s *Service) SectionSummary(ctx context.Context, eventID, sectionID string) (*SectionSummary, error) {
	section, err := s.Sections.GetSection(ctx, eventID, sectionID)
	if err != nil {
		return nil, err
	}

	booked, err := s.Ledger.SumQuantityBySection(ctx, eventID, sectionID)
	if err != nil {
		return nil, fmt.Errorf("section summary %s: %w", sectionID, err)
	}
	bookings, err := s.Ledger.ListBySection(ctx, eventID, sectionID)
	if err != nil {
		return nil, fmt.Errorf("section summary %s: %w", sectionID, err)
	}

	return &SectionSummary{
		EventID:   section.EventID,
		SectionID: section.ID,
		Name:      section.Name,
		Price:     section.Price,
		Capacity:  section.Capacity,
		Remaining: section.Remaining,
		Allocated: section.Capacity - section.Remaining,
		Booked:    booked,
		Bookings:  len(bookings),
	}, nil
}
