package adaptor

import (
	"context"
	"net/http"

	"event-reservation/internal/dto/request"
	"event-reservation/internal/dto/response"
	"event-reservation/internal/usecase"
	"event-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetGuestBooking handles GET /api/bookings/{ref} (protected, own bookings)
func (h *BookingHandler) GetGuestBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetGuestBooking(r.Context(), userID, chi.URLParam(r, "ref"))
	if err != nil {
		writeServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel (protected, own bookings)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), userID, bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled", booking)
}

// UpdateBooking handles PUT /api/bookings/{id} (protected, own PENDING bookings)
func (h *BookingHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.UpdateBooking(r.Context(), userID, bookingID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update booking")
		return
	}

	utils.ResponseSuccess(w, "Booking updated", booking)
}

// UpdatePreferences handles PUT /api/bookings/{id}/preferences (protected, own bookings)
func (h *BookingHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req request.PreferencesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.UpdatePreferences(r.Context(), userID, bookingID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update preferences")
		return
	}

	utils.ResponseSuccess(w, "Preferences updated", booking)
}

// VerifyBooking handles GET /verify-booking?ref= (public, QR code target)
func (h *BookingHandler) VerifyBooking(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("ref")
	if ref == "" {
		utils.ResponseBadRequest(w, "ref is required", nil)
		return
	}

	result, err := h.service.VerifyBooking(r.Context(), ref)
	if err != nil {
		writeServiceError(w, h.log, err, "verify booking")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// ==================== STAFF METHODS ====================

// ListBookings handles GET /api/staff/bookings
// ?status=&venue_id=&coordinator_id=&from=&to=&catering=true
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	venueID, err := optionalInt64(query.Get("venue_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid venue_id", nil)
		return
	}
	coordinatorID, err := optionalInt64(query.Get("coordinator_id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid coordinator_id", nil)
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), request.BookingQuery{
		Status:        query.Get("status"),
		VenueID:       venueID,
		CoordinatorID: coordinatorID,
		From:          query.Get("from"),
		To:            query.Get("to"),
		WithCatering:  query.Get("catering") == "true",
	})
	if err != nil {
		writeServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBookingByID handles GET /api/staff/bookings/{id}
func (h *BookingHandler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	booking, err := h.service.GetBookingByID(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetBookingByReference handles GET /api/staff/bookings/reference/{ref}
func (h *BookingHandler) GetBookingByReference(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBookingByReference(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeServiceError(w, h.log, err, "get booking by reference")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// UpdateBookingStatus handles PUT /api/staff/bookings/{id}/status
func (h *BookingHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateBookingStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.UpdateBookingStatus(r.Context(), bookingID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking status updated", booking)
}

// ConfirmBooking handles PUT /api/staff/bookings/{id}/confirm
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.shortcut(w, r, h.service.ConfirmBooking, "confirm booking", "Booking confirmed")
}

// CompleteBooking handles PUT /api/staff/bookings/{id}/complete
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	h.shortcut(w, r, h.service.CompleteBooking, "complete booking", "Booking completed")
}

// CancelBookingByStaff handles PUT /api/staff/bookings/{id}/cancel
func (h *BookingHandler) CancelBookingByStaff(w http.ResponseWriter, r *http.Request) {
	h.shortcut(w, r, h.service.CancelBookingByStaff, "cancel booking", "Booking cancelled")
}

func (h *BookingHandler) shortcut(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, bookingID int64) (*response.BookingResponse, error),
	operation, message string,
) {
	bookingID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	booking, err := change(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, h.log, err, operation)
		return
	}

	utils.ResponseSuccess(w, message, booking)
}

// AssignCoordinator handles PUT /api/staff/bookings/{id}/coordinator
func (h *BookingHandler) AssignCoordinator(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req request.AssignCoordinatorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.AssignCoordinator(r.Context(), bookingID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "assign coordinator")
		return
	}

	utils.ResponseSuccess(w, "Coordinator assigned", booking)
}

// UpdateCoordinatorFields handles PUT /api/staff/bookings/{id}/coordinator-notes
func (h *BookingHandler) UpdateCoordinatorFields(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req request.CoordinatorUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.UpdateCoordinatorFields(r.Context(), bookingID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update coordination")
		return
	}

	utils.ResponseSuccess(w, "Coordination updated", booking)
}

// UpdateCateringFields handles PUT /api/staff/bookings/{id}/catering
func (h *BookingHandler) UpdateCateringFields(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	var req request.CateringUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.UpdateCateringFields(r.Context(), bookingID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "update catering")
		return
	}

	utils.ResponseSuccess(w, "Catering updated", booking)
}

// CheckInGuest handles PUT /api/staff/bookings/{id}/check-in
func (h *BookingHandler) CheckInGuest(w http.ResponseWriter, r *http.Request) {
	h.shortcut(w, r, h.service.CheckInGuest, "check in guest", "Guest checked in")
}

// TodaysArrivals handles GET /api/staff/bookings/arrivals/today
func (h *BookingHandler) TodaysArrivals(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.TodaysArrivals(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list arrivals")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}
