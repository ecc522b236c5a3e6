package booking_api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-boxoffice/internal/booking"
	"ms-boxoffice/internal/booking/qr"
	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/models"
	"ms-boxoffice/internal/reports"
)

type Handler struct {
	BookingService *booking.BookingService
	Reports        *reports.Service
	QRGenerator    *qr.Generator
	Logger         *logger.Logger
}

func NewHandler(service *booking.BookingService, rep *reports.Service, qrGen *qr.Generator, log *logger.Logger) *Handler {
	return &Handler{BookingService: service, Reports: rep, QRGenerator: qrGen, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", h.CreateBooking)
		r.Get("/", h.ListBookings)
		r.Get("/{bookingID}", h.GetBooking)
		r.Get("/{bookingID}/qr", h.BookingQR)
	})
	r.Get("/events/{eventID}/sections/{sectionID}/summary", h.SectionSummary)
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.AllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.BookingService.Allocate(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.Logger != nil {
		h.Logger.LogBooking("ALLOCATE", result.ID, "booking recorded")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.BookingService.ListBookings(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	result, err := h.BookingService.GetBooking(r.Context(), bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// BookingQR renders the booking as an encrypted QR PNG.
func (h *Handler) BookingQR(w http.ResponseWriter, r *http.Request) {
	if h.QRGenerator == nil {
		http.Error(w, "QR generation is not configured", http.StatusNotImplemented)
		return
	}

	bookingID := chi.URLParam(r, "bookingID")
	result, err := h.BookingService.GetBooking(r.Context(), bookingID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	png, err := h.QRGenerator.GenerateEncryptedQR(*result)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) SectionSummary(w http.ResponseWriter, r *http.Request) {
	if h.Reports == nil {
		http.Error(w, "reports are not configured", http.StatusNotImplemented)
		return
	}

	eventID := chi.URLParam(r, "eventID")
	sectionID := chi.URLParam(r, "sectionID")
	summary, err := h.Reports.SectionSummary(r.Context(), eventID, sectionID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrInsufficientCapacity):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, models.ErrStorageFailure):
		if h.Logger != nil {
			h.Logger.Error("BOOKING", err.Error())
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		if h.Logger != nil {
			h.Logger.Error("BOOKING", err.Error())
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
