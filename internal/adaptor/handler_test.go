package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"event-reservation/internal/data/entity"
	"event-reservation/internal/dto/request"
	"event-reservation/internal/dto/response"
	"event-reservation/internal/usecase"
	"event-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", fmt.Errorf("%w: name is required", entity.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("booking 7: %w", entity.ErrNotFound), http.StatusNotFound},
		{"venue unavailable", entity.ErrVenueUnavailable, http.StatusConflict},
		{"conflict", fmt.Errorf("%w: username taken", entity.ErrConflict), http.StatusConflict},
		{"invalid state", entity.ErrInvalidState, http.StatusUnprocessableEntity},
		{"unauthorized", entity.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", entity.ErrForbidden, http.StatusForbidden},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, zap.NewNop(), tt.err, "test operation")

			assert.Equal(t, tt.code, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Status)
		})
	}
}

func TestWriteServiceError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, zap.NewNop(), errors.New("pq: password authentication failed"), "list venues")

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Internal server error", env.Message)
}

func TestWriteServiceError_VenueUnavailableMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, zap.NewNop(), fmt.Errorf("venue 3 on 2024-06-01: %w", entity.ErrVenueUnavailable), "create booking")

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "The venue is not available for the selected time", env.Message)
}

// ==================== VENUE HANDLER ====================

type fakeVenueService struct {
	usecase.VenueService
	venues  map[int64]response.VenueResponse
	created *request.VenueRequest
}

func (f *fakeVenueService) Get(_ context.Context, id int64) (*response.VenueResponse, error) {
	v, ok := f.venues[id]
	if !ok {
		return nil, fmt.Errorf("venue %d: %w", id, entity.ErrNotFound)
	}
	return &v, nil
}

func (f *fakeVenueService) Create(_ context.Context, req *request.VenueRequest) (*response.VenueResponse, error) {
	f.created = req
	return &response.VenueResponse{ID: 10, Name: req.Name, Type: entity.VenueType(req.Type), Capacity: req.Capacity, HourlyRate: req.HourlyRate, IsActive: true}, nil
}

func (f *fakeVenueService) List(_ context.Context, query request.VenueQuery) ([]response.VenueResponse, error) {
	var out []response.VenueResponse
	for _, v := range f.venues {
		if query.ActiveOnly && !v.IsActive {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func newVenueRouter(service usecase.VenueService) *chi.Mux {
	h := NewVenueHandler(service, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/api/venues", h.ListVenues)
	r.Get("/api/venues/{id}", h.GetVenue)
	r.Post("/api/manager/venues", h.CreateVenue)
	return r
}

func TestVenueHandler_GetVenue(t *testing.T) {
	service := &fakeVenueService{venues: map[int64]response.VenueResponse{
		1: {ID: 1, Name: "Grand Hall", Type: entity.VenueTypeHall, Capacity: 200, HourlyRate: decimal.NewFromInt(100), IsActive: true},
	}}
	router := newVenueRouter(service)

	tests := []struct {
		name string
		path string
		code int
	}{
		{"found", "/api/venues/1", http.StatusOK},
		{"missing", "/api/venues/99", http.StatusNotFound},
		{"bad id", "/api/venues/abc", http.StatusBadRequest},
		{"zero id", "/api/venues/0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/venues/1", nil))
	var venue response.VenueResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &venue))
	assert.Equal(t, "Grand Hall", venue.Name)
	assert.True(t, venue.HourlyRate.Equal(decimal.NewFromInt(100)))
}

func TestVenueHandler_ListVenues_RejectsBadRate(t *testing.T) {
	router := newVenueRouter(&fakeVenueService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/venues?max_rate=cheap", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVenueHandler_ListVenues_ActiveOnly(t *testing.T) {
	service := &fakeVenueService{venues: map[int64]response.VenueResponse{
		1: {ID: 1, Name: "Grand Hall", IsActive: true},
		2: {ID: 2, Name: "Old Annex", IsActive: false},
	}}
	router := newVenueRouter(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/venues", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var venues []response.VenueResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &venues))
	require.Len(t, venues, 1)
	assert.Equal(t, int64(1), venues[0].ID)
}

func TestVenueHandler_CreateVenue(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		service := &fakeVenueService{}
		router := newVenueRouter(service)

		body := `{"name":"Garden Room","type":"ROOM","capacity":40,"hourly_rate":"75.50"}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/manager/venues", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, service.created)
		assert.Equal(t, "Garden Room", service.created.Name)
		assert.True(t, service.created.HourlyRate.Equal(decimal.RequireFromString("75.50")))
	})

	t.Run("validation failure", func(t *testing.T) {
		service := &fakeVenueService{}
		router := newVenueRouter(service)

		body := `{"name":"","type":"BALLROOM","capacity":0}`
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/manager/venues", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, "Validation failed", env.Message)
		assert.NotEmpty(t, env.Errors)
		assert.Nil(t, service.created)
	})

	t.Run("malformed body", func(t *testing.T) {
		router := newVenueRouter(&fakeVenueService{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/manager/venues", strings.NewReader("{")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decodeEnvelope(t, rec).Message)
	})
}

// ==================== BOOKING HANDLER ====================

type fakeBookingService struct {
	usecase.BookingService
	createErr error
	guestID   int64
	request   *request.CreateBookingRequest
	verified  string
	checkedIn []int64
	updated   *request.UpdateBookingRequest
}

func (f *fakeBookingService) CheckInGuest(_ context.Context, bookingID int64) (*response.BookingResponse, error) {
	f.checkedIn = append(f.checkedIn, bookingID)
	if bookingID != 1 {
		return nil, fmt.Errorf("booking %d is PENDING: %w", bookingID, entity.ErrInvalidState)
	}
	return &response.BookingResponse{ID: 1, Status: entity.BookingStatusConfirmed}, nil
}

func (f *fakeBookingService) UpdateBooking(_ context.Context, guestID, bookingID int64, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	f.guestID = guestID
	f.updated = req
	return &response.BookingResponse{ID: bookingID, GuestID: guestID, VenueID: req.VenueID, Status: entity.BookingStatusPending}, nil
}

func (f *fakeBookingService) CreateBooking(_ context.Context, guestID int64, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	f.guestID = guestID
	f.request = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &response.BookingResponse{
		ID:            1,
		ReferenceCode: "20240520-100000-AB12CD",
		GuestID:       guestID,
		VenueID:       req.VenueID,
		Status:        entity.BookingStatusPending,
		TotalCost:     decimal.NewFromInt(300),
	}, nil
}

func (f *fakeBookingService) VerifyBooking(_ context.Context, ref string) (*response.BookingVerificationResponse, error) {
	f.verified = ref
	return nil, fmt.Errorf("booking %s: %w", ref, entity.ErrNotFound)
}

const createBookingBody = `{
	"venue_id": 1,
	"event_type": "Wedding",
	"event_date": "2024-06-01",
	"start_time": "14:00",
	"end_time": "17:00",
	"guest_count": 80
}`

func postBooking(handler http.HandlerFunc, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(utils.SetUserContext(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		service := &fakeBookingService{}
		h := NewBookingHandler(service, zap.NewNop())

		rec := postBooking(h.CreateBooking, createBookingBody, 42)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, int64(42), service.guestID)
		assert.Equal(t, "Wedding", service.request.EventType)

		var booking response.BookingResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &booking))
		assert.Equal(t, "20240520-100000-AB12CD", booking.ReferenceCode)
		assert.Equal(t, entity.BookingStatusPending, booking.Status)
	})

	t.Run("requires authentication", func(t *testing.T) {
		service := &fakeBookingService{}
		h := NewBookingHandler(service, zap.NewNop())

		rec := postBooking(h.CreateBooking, createBookingBody, 0)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, service.request)
	})

	t.Run("bad time format", func(t *testing.T) {
		service := &fakeBookingService{}
		h := NewBookingHandler(service, zap.NewNop())

		body := strings.Replace(createBookingBody, `"14:00"`, `"2pm"`, 1)
		rec := postBooking(h.CreateBooking, body, 42)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, service.request)
	})

	t.Run("venue taken", func(t *testing.T) {
		service := &fakeBookingService{createErr: entity.ErrVenueUnavailable}
		h := NewBookingHandler(service, zap.NewNop())

		rec := postBooking(h.CreateBooking, createBookingBody, 42)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "The venue is not available for the selected time", decodeEnvelope(t, rec).Message)
	})
}

func TestBookingHandler_VerifyBooking(t *testing.T) {
	service := &fakeBookingService{}
	h := NewBookingHandler(service, zap.NewNop())

	rec := httptest.NewRecorder()
	h.VerifyBooking(rec, httptest.NewRequest(http.MethodGet, "/verify-booking", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, service.verified)

	rec = httptest.NewRecorder()
	h.VerifyBooking(rec, httptest.NewRequest(http.MethodGet, "/verify-booking?ref=NOPE", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOPE", service.verified)
}

func TestBookingHandler_CheckInGuest(t *testing.T) {
	service := &fakeBookingService{}
	h := NewBookingHandler(service, zap.NewNop())
	router := chi.NewRouter()
	router.Put("/api/staff/bookings/{id}/check-in", h.CheckInGuest)

	tests := []struct {
		name string
		path string
		code int
	}{
		{"confirmed", "/api/staff/bookings/1/check-in", http.StatusOK},
		{"not confirmed", "/api/staff/bookings/2/check-in", http.StatusUnprocessableEntity},
		{"bad id", "/api/staff/bookings/abc/check-in", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, tt.path, nil))
			assert.Equal(t, tt.code, rec.Code)
		})
	}

	assert.Equal(t, []int64{1, 2}, service.checkedIn)
}

func TestBookingHandler_UpdateBooking(t *testing.T) {
	service := &fakeBookingService{}
	h := NewBookingHandler(service, zap.NewNop())
	router := chi.NewRouter()
	router.Put("/api/bookings/{id}", h.UpdateBooking)

	req := httptest.NewRequest(http.MethodPut, "/api/bookings/7", strings.NewReader(createBookingBody))
	req = req.WithContext(utils.SetUserContext(req.Context(), 42))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), service.guestID)
	require.NotNil(t, service.updated)
	assert.Equal(t, 80, service.updated.GuestCount)

	var booking response.BookingResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &booking))
	assert.Equal(t, int64(7), booking.ID)
}
