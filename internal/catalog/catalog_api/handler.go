package catalog_api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-boxoffice/internal/catalog"
	"ms-boxoffice/internal/logger"
	"ms-boxoffice/internal/models"
)

type Handler struct {
	CatalogService *catalog.Service
	Logger         *logger.Logger
}

func NewHandler(service *catalog.Service, log *logger.Logger) *Handler {
	return &Handler{CatalogService: service, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Post("/", h.CreateEvent)
		r.Get("/", h.ListEvents)
		r.Get("/{eventID}", h.GetEvent)
	})
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	event, err := h.CatalogService.CreateEvent(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logInfo("CATALOG", "Created event "+event.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(event)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	event, err := h.CatalogService.GetEvent(r.Context(), eventID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(event)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.CatalogService.ListEvents(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logError("CATALOG", err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) logInfo(category, message string) {
	if h.Logger != nil {
		h.Logger.Info(category, message)
	}
}

func (h *Handler) logError(category, message string) {
	if h.Logger != nil {
		h.Logger.Error(category, message)
	}
}
