package adaptor

import (
	"net/http"

	"event-reservation/internal/dto/request"
	"event-reservation/internal/usecase"
	"event-reservation/pkg/utils"

	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// ==================== PUBLIC / AUTHENTICATED ====================

// VenueDay handles GET /api/venues/{id}/availability?date=
func (h *AvailabilityHandler) VenueDay(w http.ResponseWriter, r *http.Request) {
	venueID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "date is required", nil)
		return
	}

	slots, err := h.service.VenueDay(r.Context(), venueID, date)
	if err != nil {
		writeServiceError(w, h.log, err, "get venue availability")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// CheckAvailability handles GET /api/venues/{id}/availability/check?date=&start_time=&end_time=
func (h *AvailabilityHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	venueID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.AvailabilityCheckRequest{
		Date:      query.Get("date"),
		StartTime: query.Get("start_time"),
		EndTime:   query.Get("end_time"),
	}

	result, err := h.service.CheckAvailability(r.Context(), venueID, req)
	if err != nil {
		writeServiceError(w, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// GetSlot handles GET /api/availability/slots/{id}
func (h *AvailabilityHandler) GetSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	slot, err := h.service.GetSlot(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, "get slot")
		return
	}

	utils.ResponseSuccess(w, "success", slot)
}

// Calendar handles GET /api/availability/calendar?month=2024-06&venue_id=
func (h *AvailabilityHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	venueID, err := optionalInt64(query.Get("venue_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid venue_id", nil)
		return
	}

	calendar, err := h.service.Calendar(r.Context(), query.Get("month"), venueID)
	if err != nil {
		writeServiceError(w, h.log, err, "build calendar")
		return
	}

	utils.ResponseSuccess(w, "success", calendar)
}

// Summary handles GET /api/availability/summary
func (h *AvailabilityHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "availability summary")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

// ==================== STAFF ====================

// Search handles GET /api/staff/availability?from=&to=&venue_id=&status=
func (h *AvailabilityHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	venueID, err := optionalInt64(query.Get("venue_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid venue_id", nil)
		return
	}

	slots, err := h.service.Search(r.Context(), &request.SearchSlotsRequest{
		VenueID: venueID,
		From:    query.Get("from"),
		To:      query.Get("to"),
		Status:  query.Get("status"),
	})
	if err != nil {
		writeServiceError(w, h.log, err, "search slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// CreateSlot handles POST /api/staff/availability
func (h *AvailabilityHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSlotRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	slot, err := h.service.CreateSlot(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create slot")
		return
	}

	utils.ResponseCreated(w, "Slot created", slot)
}

// CreateSlots handles POST /api/staff/availability/range
func (h *AvailabilityHandler) CreateSlots(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSlotRangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	slots, err := h.service.CreateSlots(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create slot range")
		return
	}

	utils.ResponseCreated(w, "Slots created", slots)
}

// BlockForMaintenance handles POST /api/staff/availability/maintenance
func (h *AvailabilityHandler) BlockForMaintenance(w http.ResponseWriter, r *http.Request) {
	var req request.MaintenanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	slot, err := h.service.BlockForMaintenance(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "block for maintenance")
		return
	}

	utils.ResponseCreated(w, "Venue blocked for maintenance", slot)
}

// UpdateStatus handles PUT /api/staff/availability/{id}/status
func (h *AvailabilityHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateSlotStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	slot, err := h.service.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update slot status")
		return
	}

	utils.ResponseSuccess(w, "Slot updated", slot)
}

// DeleteSlot handles DELETE /api/staff/availability/{id}
func (h *AvailabilityHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteSlot(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "delete slot")
		return
	}

	utils.ResponseSuccess(w, "Slot deleted", nil)
}

// BulkDelete handles POST /api/staff/availability/bulk-delete
func (h *AvailabilityHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req request.BulkDeleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.BulkDelete(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "bulk delete slots")
		return
	}

	utils.ResponseSuccess(w, "Slots deleted", result)
}
