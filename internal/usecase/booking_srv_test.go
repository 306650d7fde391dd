package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"event-reservation/internal/data/entity"
	"event-reservation/internal/dto/request"
	"event-reservation/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingRequest(venueID int64, date, start, end string) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		VenueID:    venueID,
		EventType:  "Wedding",
		EventDate:  date,
		StartTime:  start,
		EndTime:    end,
		GuestCount: 80,
	}
}

func TestCreateBooking_OverlappingAvailableSlotRejected(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"starts inside", "10:00", "13:00"},
		{"ends inside", "08:00", "10:00"},
		{"contained", "10:00", "11:00"},
		{"contains", "08:00", "13:00"},
		{"identical", "09:00", "12:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			venue := f.addVenue("Grand Hall", "100.00", true)
			f.slots.seed(venue.ID, day("2024-06-01"), tod("09:00"), tod("12:00"), entity.AvailabilityAvailable)
			svc := f.bookingService(false, nil)

			resp, err := svc.CreateBooking(context.Background(), 1, bookingRequest(venue.ID, "2024-06-01", tt.start, tt.end))

			assert.ErrorIs(t, err, entity.ErrVenueUnavailable)
			assert.Nil(t, resp)
			assert.Empty(t, f.bookings.bookings)
		})
	}
}

func TestCreateBooking_TouchingWindowsBothSucceed(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	svc := f.bookingService(false, nil)

	first, err := svc.CreateBooking(context.Background(), 1, bookingRequest(venue.ID, "2024-06-01", "09:00", "12:00"))
	require.NoError(t, err)
	second, err := svc.CreateBooking(context.Background(), 2, bookingRequest(venue.ID, "2024-06-01", "12:00", "15:00"))
	require.NoError(t, err)

	assert.NotEqual(t, first.ReferenceCode, second.ReferenceCode)
	assert.Len(t, f.slots.withStatus(entity.AvailabilityBooked), 2)
}

func TestCreateBooking_DoubleBookingRejected(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	svc := f.bookingService(false, nil)

	_, err := svc.CreateBooking(context.Background(), 1, bookingRequest(venue.ID, "2024-06-01", "14:00", "17:00"))
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), 2, bookingRequest(venue.ID, "2024-06-01", "16:00", "18:00"))
	assert.ErrorIs(t, err, entity.ErrVenueUnavailable)
	assert.Len(t, f.bookings.bookings, 1)
}

func TestCreateBooking_IdenticalBlockedWindowRejected(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	f.slots.seed(venue.ID, day("2024-06-01"), tod("14:00"), tod("17:00"), entity.AvailabilityBlocked)
	svc := f.bookingService(false, nil)

	_, err := svc.CreateBooking(context.Background(), 1, bookingRequest(venue.ID, "2024-06-01", "14:00", "17:00"))

	assert.ErrorIs(t, err, entity.ErrVenueUnavailable)
}

func TestCreateBooking_CostReferenceAndSlot(t *testing.T) {
	tests := []struct {
		name     string
		end      string
		wantCost string
	}{
		{"three whole hours", "17:00", "300"},
		{"partial hour truncated", "16:30", "200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			venue := f.addVenue("Grand Hall", "100.00", true)
			svc := f.bookingService(false, nil)

			resp, err := svc.CreateBooking(context.Background(), 7, bookingRequest(venue.ID, "2024-06-01", "14:00", tt.end))
			require.NoError(t, err)

			assert.Equal(t, tt.wantCost, resp.TotalCost.String())
			assert.Equal(t, entity.BookingStatusPending, resp.Status)
			assert.Equal(t, "Grand Hall", resp.VenueName)
			assert.True(t, utils.IsValidReferenceCode(resp.ReferenceCode), resp.ReferenceCode)
			assert.True(t, strings.HasPrefix(resp.ReferenceCode, "20240520-100000-"))
			assert.Equal(t, "https://hotel.test/verify-booking?ref="+resp.ReferenceCode, resp.QRPayload)

			booked := f.slots.withStatus(entity.AvailabilityBooked)
			require.Len(t, booked, 1)
			require.NotNil(t, booked[0].BookingID)
			assert.Equal(t, resp.ID, *booked[0].BookingID)
			assert.Equal(t, tod("14:00"), booked[0].StartTime)
			assert.GreaterOrEqual(t, f.slots.locks, 1)
		})
	}
}

func TestCreateBooking_SavesPreferences(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Garden Room", "50.00", true)
	svc := f.bookingService(false, nil)

	theme := "Rustic"
	req := bookingRequest(venue.ID, "2024-06-01", "18:00", "22:00")
	req.Decor = &request.DecorPreferencesReq{Theme: &theme}
	req.Catering = &request.CateringPreferencesReq{}

	resp, err := svc.CreateBooking(context.Background(), 1, req)
	require.NoError(t, err)

	require.NotNil(t, resp.Decor)
	assert.Equal(t, "Rustic", *resp.Decor.Theme)
	require.NotNil(t, resp.Catering)
	assert.Equal(t, entity.ServingBuffet, resp.Catering.ServingStyle)
	assert.Contains(t, f.prefs.catering, resp.ID)
}

func TestCreateBooking_ReferenceCodeRetries(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	svc := f.bookingService(false, nil)

	calls := 0
	f.bookings.existsFn = func(code string) bool {
		calls++
		return calls < 3
	}

	resp, err := svc.CreateBooking(context.Background(), 1, bookingRequest(venue.ID, "2024-06-01", "09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, utils.IsValidReferenceCode(resp.ReferenceCode))
}

func TestCreateBooking_ReferenceCodeExhausted(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	svc := f.bookingService(false, nil)
	f.bookings.existsFn = func(string) bool { return true }

	_, err := svc.CreateBooking(context.Background(), 1, bookingRequest(venue.ID, "2024-06-01", "09:00", "10:00"))

	assert.ErrorIs(t, err, entity.ErrConflict)
	assert.Empty(t, f.bookings.bookings)
}

func TestCreateBooking_InputErrors(t *testing.T) {
	f := newFixture()
	active := f.addVenue("Grand Hall", "100.00", true)
	inactive := f.addVenue("Old Hall", "100.00", false)
	svc := f.bookingService(false, nil)

	tests := []struct {
		name    string
		req     *request.CreateBookingRequest
		wantErr error
	}{
		{"unknown venue", bookingRequest(99, "2024-06-01", "09:00", "10:00"), entity.ErrNotFound},
		{"inactive venue", bookingRequest(inactive.ID, "2024-06-01", "09:00", "10:00"), entity.ErrInvalidState},
		{"end before start", bookingRequest(active.ID, "2024-06-01", "12:00", "10:00"), entity.ErrValidation},
		{"zero length", bookingRequest(active.ID, "2024-06-01", "10:00", "10:00"), entity.ErrValidation},
		{"past date", bookingRequest(active.ID, "2024-01-01", "09:00", "10:00"), entity.ErrValidation},
		{"blank event type", func() *request.CreateBookingRequest {
			r := bookingRequest(active.ID, "2024-06-01", "09:00", "10:00")
			r.EventType = "   "
			return r
		}(), entity.ErrValidation},
		{"over capacity", func() *request.CreateBookingRequest {
			r := bookingRequest(active.ID, "2024-06-01", "09:00", "10:00")
			r.GuestCount = 500
			return r
		}(), entity.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBooking(context.Background(), 1, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateBooking_NotificationFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	f.users.add("manager", true, entity.RoleGeneralManager)
	f.notifications.createErr = errors.New("notifications table locked")
	publisher := &recordingPublisher{err: errors.New("broker down")}
	svc := f.bookingService(false, publisher)

	resp, err := svc.CreateBooking(context.Background(), 1, bookingRequest(venue.ID, "2024-06-01", "09:00", "10:00"))

	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, []string{"booking.pending"}, publisher.keys)
}

func TestCreateBooking_NotifiesGuestAndStaff(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	guest := f.users.add("guest", true, entity.RoleGuest)
	manager := f.users.add("manager", true, entity.RoleGeneralManager)
	coordinator := f.users.add("coord", true, entity.RoleEventCoordinator)
	svc := f.bookingService(false, nil)

	resp, err := svc.CreateBooking(context.Background(), guest.ID, bookingRequest(venue.ID, "2024-06-01", "09:00", "10:00"))
	require.NoError(t, err)

	guestInbox := f.notifications.forRecipient(guest.ID)
	require.Len(t, guestInbox, 1)
	assert.Contains(t, guestInbox[0].Message, resp.ReferenceCode)
	assert.Equal(t, entity.AlertBookingConfirmation, guestInbox[0].AlertType)

	managerInbox := f.notifications.forRecipient(manager.ID)
	require.Len(t, managerInbox, 1)
	assert.Contains(t, managerInbox[0].Message, "Guest Tester")

	coordinatorInbox := f.notifications.forRecipient(coordinator.ID)
	require.Len(t, coordinatorInbox, 1)
	assert.Contains(t, coordinatorInbox[0].Message, "Wedding on 2024-06-01")
}

func TestUpdateBookingStatus_CancelThenReconfirmUnguarded(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	svc := f.bookingService(false, nil)
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, 1, bookingRequest(venue.ID, "2024-06-01", "14:00", "17:00"))
	require.NoError(t, err)

	_, err = svc.ConfirmBooking(ctx, created.ID)
	require.NoError(t, err)

	cancelled, err := svc.CancelBookingByStaff(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, cancelled.Status)
	assert.Empty(t, f.slots.withStatus(entity.AvailabilityBooked), "cancelling releases the booked slot")

	// No transition guard in the default mode: CANCELLED -> CONFIRMED is accepted.
	reconfirmed, err := svc.UpdateBookingStatus(ctx, created.ID, &request.UpdateBookingStatusRequest{Status: "CONFIRMED"})
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, reconfirmed.Status)
	assert.Len(t, f.slots.withStatus(entity.AvailabilityBooked), 1, "re-activation reserves the window again")
}

func TestUpdateBookingStatus_ReconfirmFailsWhenWindowTaken(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	svc := f.bookingService(false, nil)
	ctx := context.Background()

	first, err := svc.CreateBooking(ctx, 1, bookingRequest(venue.ID, "2024-06-01", "14:00", "17:00"))
	require.NoError(t, err)
	_, err = svc.CancelBookingByStaff(ctx, first.ID)
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, 2, bookingRequest(venue.ID, "2024-06-01", "15:00", "16:00"))
	require.NoError(t, err)

	_, err = svc.ConfirmBooking(ctx, first.ID)
	assert.ErrorIs(t, err, entity.ErrVenueUnavailable)
	assert.Equal(t, entity.BookingStatusCancelled, f.bookings.bookings[first.ID].Status)
}

func TestUpdateBookingStatus_GuardedTransitions(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	svc := f.bookingService(true, nil)
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, 1, bookingRequest(venue.ID, "2024-06-01", "14:00", "17:00"))
	require.NoError(t, err)

	_, err = svc.CompleteBooking(ctx, created.ID)
	assert.ErrorIs(t, err, entity.ErrInvalidState, "PENDING cannot jump to COMPLETED")

	_, err = svc.ConfirmBooking(ctx, created.ID)
	require.NoError(t, err)
	_, err = svc.CancelBookingByStaff(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.ConfirmBooking(ctx, created.ID)
	assert.ErrorIs(t, err, entity.ErrInvalidState, "CANCELLED is terminal")
}

func TestUpdateBookingStatus_Errors(t *testing.T) {
	f := newFixture()
	svc := f.bookingService(false, nil)

	_, err := svc.ConfirmBooking(context.Background(), 404)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = svc.UpdateBookingStatus(context.Background(), 1, &request.UpdateBookingStatusRequest{Status: "ARCHIVED"})
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestUpdateBookingStatus_PublishesEvent(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	publisher := &recordingPublisher{}
	svc := f.bookingService(false, publisher)

	created, err := svc.CreateBooking(context.Background(), 1, bookingRequest(venue.ID, "2024-06-01", "14:00", "17:00"))
	require.NoError(t, err)
	_, err = svc.ConfirmBooking(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"booking.pending", "booking.confirmed"}, publisher.keys)
}

func TestCancelBooking_ByGuest(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	svc := f.bookingService(false, nil)
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, 1, bookingRequest(venue.ID, "2024-06-01", "14:00", "17:00"))
	require.NoError(t, err)

	_, err = svc.CancelBooking(ctx, 2, created.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)

	resp, err := svc.CancelBooking(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, resp.Status)

	_, err = svc.CancelBooking(ctx, 1, created.ID)
	assert.ErrorIs(t, err, entity.ErrInvalidState)
}

func TestVerifyBooking(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	svc := f.bookingService(false, nil)

	created, err := svc.CreateBooking(context.Background(), 1, bookingRequest(venue.ID, "2024-06-01", "14:00", "17:00"))
	require.NoError(t, err)

	resp, err := svc.VerifyBooking(context.Background(), created.ReferenceCode)
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, "Grand Hall", resp.VenueName)

	_, err = svc.VerifyBooking(context.Background(), "not-a-code")
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = svc.VerifyBooking(context.Background(), "20240101-000000-ZZZZZZ")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestGetUserBookings_Paginates(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	svc := f.bookingService(false, nil)

	for _, start := range []string{"08:00", "10:00", "12:00"} {
		end := tod(start) + 60
		_, err := svc.CreateBooking(context.Background(), 5, bookingRequest(venue.ID, "2024-06-01", start, end.String()))
		require.NoError(t, err)
	}

	page, err := svc.GetUserBookings(context.Background(), 5, &request.PaginatedRequest{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}

func TestAssignCoordinator(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	coordinator := f.users.add("coord", true, entity.RoleEventCoordinator)
	receptionist := f.users.add("desk", true, entity.RoleReceptionist)
	svc := f.bookingService(false, nil)

	created, err := svc.CreateBooking(context.Background(), 1, bookingRequest(venue.ID, "2024-06-01", "14:00", "17:00"))
	require.NoError(t, err)

	_, err = svc.AssignCoordinator(context.Background(), created.ID, &request.AssignCoordinatorRequest{CoordinatorID: receptionist.ID})
	assert.ErrorIs(t, err, entity.ErrValidation)

	resp, err := svc.AssignCoordinator(context.Background(), created.ID, &request.AssignCoordinatorRequest{CoordinatorID: coordinator.ID})
	require.NoError(t, err)
	require.NotNil(t, resp.AssignedCoordinatorID)
	assert.Equal(t, coordinator.ID, *resp.AssignedCoordinatorID)

	inbox := f.notifications.forRecipient(coordinator.ID)
	require.NotEmpty(t, inbox)
	assert.Contains(t, inbox[0].Message, "assigned to booking "+created.ReferenceCode)
}

// staleBookingReads serves the booking as it looked before a concurrent
// staff change; only LockByID sees the committed row.
type staleBookingReads struct {
	*memBookings
	stale map[int64]entity.Booking
}

func (s *staleBookingReads) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	if b, ok := s.stale[id]; ok {
		return &b, nil
	}
	return s.memBookings.FindByID(ctx, id)
}

func TestCancelBooking_StatusCheckedOnLockedRow(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	svc := f.bookingService(false, nil)
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, 1, bookingRequest(venue.ID, "2024-06-01", "14:00", "17:00"))
	require.NoError(t, err)
	stale := *f.bookings.bookings[created.ID]
	f.bookings.bookings[created.ID].Status = entity.BookingStatusCompleted
	f.repo.Booking = &staleBookingReads{memBookings: f.bookings, stale: map[int64]entity.Booking{created.ID: stale}}
	txBefore, locksBefore := f.tx.calls, f.bookings.locks

	_, err = svc.CancelBooking(ctx, 1, created.ID)

	assert.ErrorIs(t, err, entity.ErrInvalidState)
	assert.Equal(t, entity.BookingStatusCompleted, f.bookings.bookings[created.ID].Status)
	assert.Len(t, f.slots.withStatus(entity.AvailabilityBooked), 1)
	assert.Equal(t, txBefore+1, f.tx.calls)
	assert.Equal(t, locksBefore+1, f.bookings.locks)
}

func updateRequest(venueID int64, date, start, end string) *request.UpdateBookingRequest {
	return &request.UpdateBookingRequest{
		VenueID:    venueID,
		EventType:  "Anniversary",
		EventDate:  date,
		StartTime:  start,
		EndTime:    end,
		GuestCount: 60,
	}
}

func TestUpdateBooking_MovesSlotAndRecalculatesCost(t *testing.T) {
	f := newFixture()
	hall := f.addVenue("Grand Hall", "100.00", true)
	garden := f.addVenue("Rose Garden", "150.00", true)
	manager := f.users.add("manager", true, entity.RoleGeneralManager)
	svc := f.bookingService(false, nil)
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, 1, bookingRequest(hall.ID, "2024-06-01", "14:00", "17:00"))
	require.NoError(t, err)

	req := updateRequest(garden.ID, "2024-06-02", "10:00", "12:30")
	req.SpecialRequests = utils.StringPtr("Step-free access")
	resp, err := svc.UpdateBooking(ctx, 1, created.ID, req)
	require.NoError(t, err)

	assert.Equal(t, garden.ID, resp.VenueID)
	assert.Equal(t, "Rose Garden", resp.VenueName)
	assert.Equal(t, "Anniversary", resp.EventType)
	assert.Equal(t, 60, resp.GuestCount)
	assert.Equal(t, "300.00", resp.TotalCost.StringFixed(2), "partial hours are not billed")
	assert.Equal(t, entity.BookingStatusPending, resp.Status)

	stored := f.bookings.bookings[created.ID]
	assert.Equal(t, day("2024-06-02"), stored.EventDate)
	assert.Equal(t, "Step-free access", utils.DerefString(stored.SpecialRequests))

	booked := f.slots.withStatus(entity.AvailabilityBooked)
	require.Len(t, booked, 1)
	assert.Equal(t, garden.ID, booked[0].VenueID)
	assert.Equal(t, tod("10:00"), booked[0].StartTime)
	assert.Equal(t, tod("12:30"), booked[0].EndTime)
	assert.Equal(t, created.ID, *booked[0].BookingID)

	var changes int
	for _, n := range f.notifications.forRecipient(manager.ID) {
		if n.AlertType == entity.AlertBookingChange {
			changes++
			assert.Contains(t, n.Message, created.ReferenceCode)
		}
	}
	assert.Equal(t, 1, changes)
}

func TestUpdateBooking_ShiftOverOwnSlot(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	svc := f.bookingService(false, nil)
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, 1, bookingRequest(venue.ID, "2024-06-01", "14:00", "17:00"))
	require.NoError(t, err)

	resp, err := svc.UpdateBooking(ctx, 1, created.ID, updateRequest(venue.ID, "2024-06-01", "15:00", "19:00"))
	require.NoError(t, err)
	assert.Equal(t, "400.00", resp.TotalCost.StringFixed(2))

	booked := f.slots.withStatus(entity.AvailabilityBooked)
	require.Len(t, booked, 1)
	assert.Equal(t, tod("15:00"), booked[0].StartTime)
	assert.Equal(t, tod("19:00"), booked[0].EndTime)
}

func TestUpdateBooking_Errors(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, *bookingService, int64, int64) {
		f := newFixture()
		venue := f.addVenue("Grand Hall", "100.00", true)
		svc := f.bookingService(false, nil)
		created, err := svc.CreateBooking(ctx, 1, bookingRequest(venue.ID, "2024-06-01", "14:00", "17:00"))
		require.NoError(t, err)
		return f, svc, venue.ID, created.ID
	}

	t.Run("another guest", func(t *testing.T) {
		_, svc, venueID, bookingID := setup(t)
		_, err := svc.UpdateBooking(ctx, 2, bookingID, updateRequest(venueID, "2024-06-01", "09:00", "10:00"))
		assert.ErrorIs(t, err, entity.ErrForbidden)
	})

	t.Run("confirmed booking", func(t *testing.T) {
		_, svc, venueID, bookingID := setup(t)
		_, err := svc.ConfirmBooking(ctx, bookingID)
		require.NoError(t, err)

		_, err = svc.UpdateBooking(ctx, 1, bookingID, updateRequest(venueID, "2024-06-01", "09:00", "10:00"))
		assert.ErrorIs(t, err, entity.ErrInvalidState)
	})

	t.Run("window taken by another booking", func(t *testing.T) {
		f, svc, venueID, bookingID := setup(t)
		_, err := svc.CreateBooking(ctx, 2, bookingRequest(venueID, "2024-06-03", "10:00", "12:00"))
		require.NoError(t, err)

		_, err = svc.UpdateBooking(ctx, 1, bookingID, updateRequest(venueID, "2024-06-03", "11:00", "13:00"))
		assert.ErrorIs(t, err, entity.ErrVenueUnavailable)

		stored := f.bookings.bookings[bookingID]
		assert.Equal(t, day("2024-06-01"), stored.EventDate)
		assert.Equal(t, tod("14:00"), stored.StartTime)
		assert.Len(t, f.slots.withStatus(entity.AvailabilityBooked), 2)
	})

	t.Run("over capacity", func(t *testing.T) {
		_, svc, venueID, bookingID := setup(t)
		req := updateRequest(venueID, "2024-06-01", "09:00", "10:00")
		req.GuestCount = 500
		_, err := svc.UpdateBooking(ctx, 1, bookingID, req)
		assert.ErrorIs(t, err, entity.ErrValidation)
	})

	t.Run("inactive venue", func(t *testing.T) {
		f, svc, _, bookingID := setup(t)
		closed := f.addVenue("Old Wing", "80.00", false)
		_, err := svc.UpdateBooking(ctx, 1, bookingID, updateRequest(closed.ID, "2024-06-01", "09:00", "10:00"))
		assert.ErrorIs(t, err, entity.ErrInvalidState)
	})

	t.Run("past date", func(t *testing.T) {
		_, svc, venueID, bookingID := setup(t)
		_, err := svc.UpdateBooking(ctx, 1, bookingID, updateRequest(venueID, "2024-05-01", "09:00", "10:00"))
		assert.ErrorIs(t, err, entity.ErrValidation)
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, svc, venueID, _ := setup(t)
		_, err := svc.UpdateBooking(ctx, 1, 404, updateRequest(venueID, "2024-06-01", "09:00", "10:00"))
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})
}

func alertsOfType(items []*entity.Notification, alertType entity.AlertType) []*entity.Notification {
	var out []*entity.Notification
	for _, n := range items {
		if n.AlertType == alertType {
			out = append(out, n)
		}
	}
	return out
}

func TestCheckInGuest(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	first := f.users.add("coord-a", true, entity.RoleEventCoordinator)
	second := f.users.add("coord-b", true, entity.RoleEventCoordinator)
	svc := f.bookingService(false, nil)
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, 1, bookingRequest(venue.ID, "2024-05-20", "14:00", "17:00"))
	require.NoError(t, err)

	_, err = svc.CheckInGuest(ctx, created.ID)
	assert.ErrorIs(t, err, entity.ErrInvalidState, "PENDING bookings cannot check in")

	_, err = svc.ConfirmBooking(ctx, created.ID)
	require.NoError(t, err)

	resp, err := svc.CheckInGuest(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)
	assert.Len(t, alertsOfType(f.notifications.forRecipient(first.ID), entity.AlertGuestArrival), 1)
	assert.Len(t, alertsOfType(f.notifications.forRecipient(second.ID), entity.AlertGuestArrival), 1)

	_, err = svc.AssignCoordinator(ctx, created.ID, &request.AssignCoordinatorRequest{CoordinatorID: second.ID})
	require.NoError(t, err)

	_, err = svc.CheckInGuest(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, alertsOfType(f.notifications.forRecipient(first.ID), entity.AlertGuestArrival), 1)
	arrivals := alertsOfType(f.notifications.forRecipient(second.ID), entity.AlertGuestArrival)
	assert.Len(t, arrivals, 2)
	assert.Contains(t, arrivals[0].Message, created.ReferenceCode)

	_, err = svc.CheckInGuest(ctx, 404)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestTodaysArrivals(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	svc := f.bookingService(false, nil)
	ctx := context.Background()

	today, err := svc.CreateBooking(ctx, 1, bookingRequest(venue.ID, "2024-05-20", "14:00", "17:00"))
	require.NoError(t, err)
	_, err = svc.ConfirmBooking(ctx, today.ID)
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, 2, bookingRequest(venue.ID, "2024-05-20", "18:00", "20:00"))
	require.NoError(t, err)

	tomorrow, err := svc.CreateBooking(ctx, 3, bookingRequest(venue.ID, "2024-05-21", "14:00", "17:00"))
	require.NoError(t, err)
	_, err = svc.ConfirmBooking(ctx, tomorrow.ID)
	require.NoError(t, err)

	arrivals, err := svc.TodaysArrivals(ctx)
	require.NoError(t, err)
	require.Len(t, arrivals, 1)
	assert.Equal(t, today.ReferenceCode, arrivals[0].ReferenceCode)
}

func TestStaffFieldUpdates_NotifyManagers(t *testing.T) {
	f := newFixture()
	venue := f.addVenue("Grand Hall", "100.00", true)
	manager := f.users.add("manager", true, entity.RoleGeneralManager)
	svc := f.bookingService(false, nil)
	ctx := context.Background()

	created, err := svc.CreateBooking(ctx, 1, bookingRequest(venue.ID, "2024-06-01", "14:00", "17:00"))
	require.NoError(t, err)

	resp, err := svc.UpdateCoordinatorFields(ctx, created.ID, &request.CoordinatorUpdateRequest{
		CoordinatorNotes: utils.StringPtr("Stage set, chairs in rows"),
		SetupStatus:      utils.StringPtr("COMPLETE"),
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETE", utils.DerefString(resp.SetupStatus))

	setup := alertsOfType(f.notifications.forRecipient(manager.ID), entity.AlertSetupComplete)
	require.Len(t, setup, 1)
	assert.Contains(t, setup[0].Message, created.ReferenceCode)

	_, err = svc.UpdateCateringFields(ctx, created.ID, &request.CateringUpdateRequest{
		CateringStatus: utils.StringPtr("CONFIRMED"),
	})
	require.NoError(t, err)

	catering := alertsOfType(f.notifications.forRecipient(manager.ID), entity.AlertCateringConfirmed)
	require.Len(t, catering, 1)
	assert.Contains(t, catering[0].Message, created.ReferenceCode)

	_, err = svc.UpdateCateringFields(ctx, 404, &request.CateringUpdateRequest{})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
