package adaptor

import (
	"net/http"

	"event-reservation/internal/dto/request"
	"event-reservation/internal/usecase"
	"event-reservation/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type VenueHandler struct {
	service usecase.VenueService
	log     *zap.Logger
}

func NewVenueHandler(service usecase.VenueService, log *zap.Logger) *VenueHandler {
	return &VenueHandler{
		service: service,
		log:     log.With(zap.String("handler", "venue")),
	}
}

// parseVenueQuery reads ?type=&min_capacity=&max_rate=&name=
func parseVenueQuery(r *http.Request) (request.VenueQuery, bool) {
	query := r.URL.Query()
	q := request.VenueQuery{
		Type:        query.Get("type"),
		MinCapacity: utils.ParseInt(query.Get("min_capacity"), 0),
		Name:        query.Get("name"),
	}

	if raw := query.Get("max_rate"); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return q, false
		}
		q.MaxRate = &rate
	}
	return q, true
}

// ListVenues handles GET /api/venues (public, active venues only)
func (h *VenueHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// ListAllVenues handles GET /api/manager/venues (includes inactive)
func (h *VenueHandler) ListAllVenues(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *VenueHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	query, ok := parseVenueQuery(r)
	if !ok {
		utils.ResponseBadRequest(w, "Invalid max_rate", nil)
		return
	}
	query.ActiveOnly = activeOnly

	venues, err := h.service.List(r.Context(), query)
	if err != nil {
		writeServiceError(w, h.log, err, "list venues")
		return
	}

	utils.ResponseSuccess(w, "success", venues)
}

// GetVenue handles GET /api/venues/{id}
func (h *VenueHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	venue, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "get venue")
		return
	}

	utils.ResponseSuccess(w, "success", venue)
}

// CreateVenue handles POST /api/manager/venues
func (h *VenueHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	var req request.VenueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	venue, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create venue")
		return
	}

	utils.ResponseCreated(w, "Venue created", venue)
}

// UpdateVenue handles PUT /api/manager/venues/{id}
func (h *VenueHandler) UpdateVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req request.VenueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	venue, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update venue")
		return
	}

	utils.ResponseSuccess(w, "Venue updated", venue)
}

// ActivateVenue handles PUT /api/manager/venues/{id}/activate
func (h *VenueHandler) ActivateVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Activate(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "activate venue")
		return
	}

	utils.ResponseSuccess(w, "Venue activated", nil)
}

// DeactivateVenue handles PUT /api/manager/venues/{id}/deactivate
func (h *VenueHandler) DeactivateVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "deactivate venue")
		return
	}

	utils.ResponseSuccess(w, "Venue deactivated", nil)
}
