package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-reservation/internal/data/entity"
	"event-reservation/internal/data/repository"
	"event-reservation/internal/dto/request"
	"event-reservation/internal/dto/response"
	"event-reservation/pkg/database"
	"event-reservation/pkg/metrics"
	"event-reservation/pkg/utils"

	"go.uber.org/zap"
)

type BookingService interface {
	// Guest endpoints
	CreateBooking(ctx context.Context, guestID int64, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, guestID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetGuestBooking(ctx context.Context, guestID int64, referenceCode string) (*response.BookingResponse, error)
	UpdateBooking(ctx context.Context, guestID, bookingID int64, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, guestID, bookingID int64) (*response.BookingResponse, error)
	UpdatePreferences(ctx context.Context, guestID, bookingID int64, req *request.PreferencesRequest) (*response.BookingResponse, error)

	// Public verification behind the QR code
	VerifyBooking(ctx context.Context, referenceCode string) (*response.BookingVerificationResponse, error)

	// Staff endpoints
	GetBookingByID(ctx context.Context, bookingID int64) (*response.BookingResponse, error)
	GetBookingByReference(ctx context.Context, referenceCode string) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, query request.BookingQuery) ([]response.BookingResponse, error)
	UpdateBookingStatus(ctx context.Context, bookingID int64, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
	ConfirmBooking(ctx context.Context, bookingID int64) (*response.BookingResponse, error)
	CompleteBooking(ctx context.Context, bookingID int64) (*response.BookingResponse, error)
	CancelBookingByStaff(ctx context.Context, bookingID int64) (*response.BookingResponse, error)
	AssignCoordinator(ctx context.Context, bookingID int64, req *request.AssignCoordinatorRequest) (*response.BookingResponse, error)
	UpdateCoordinatorFields(ctx context.Context, bookingID int64, req *request.CoordinatorUpdateRequest) (*response.BookingResponse, error)
	UpdateCateringFields(ctx context.Context, bookingID int64, req *request.CateringUpdateRequest) (*response.BookingResponse, error)

	// Reception desk
	CheckInGuest(ctx context.Context, bookingID int64) (*response.BookingResponse, error)
	TodaysArrivals(ctx context.Context) ([]response.BookingResponse, error)
}

type bookingService struct {
	repo          *repository.Repository
	tx            database.Transactor
	dispatcher    *StatusDispatcher
	notifications NotificationService
	config        utils.BookingConfig
	baseURL       string
	log           *zap.Logger
	now           func() time.Time
}

func NewBookingService(
	repo *repository.Repository,
	tx database.Transactor,
	dispatcher *StatusDispatcher,
	notifications NotificationService,
	config *utils.Config,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:          repo,
		tx:            tx,
		dispatcher:    dispatcher,
		notifications: notifications,
		config:        config.Booking,
		baseURL:       strings.TrimRight(config.App.BaseURL, "/"),
		log:           log.With(zap.String("service", "booking")),
		now:           time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, guestID int64, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// 1. Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	w, err := parseWindow(req.VenueID, req.EventDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if w.date.Before(utils.TruncateDay(s.now())) {
		return nil, fmt.Errorf("%w: event_date must not be in the past", entity.ErrValidation)
	}

	// 2. Venue must exist and accept bookings
	venue, err := s.bookableVenue(ctx, req.VenueID, req.GuestCount)
	if err != nil {
		return nil, err
	}

	booking := &entity.Booking{
		GuestID:         guestID,
		VenueID:         venue.ID,
		EventType:       strings.TrimSpace(req.EventType),
		EventDate:       w.date,
		StartTime:       w.start,
		EndTime:         w.end,
		GuestCount:      req.GuestCount,
		TotalCost:       entity.CalculateTotalCost(venue.HourlyRate, w.start, w.end),
		Status:          entity.BookingStatusPending,
		SpecialRequests: req.SpecialRequests,
	}

	var (
		decor    *entity.DecorPreferences
		catering *entity.CateringPreferences
	)

	// 3. Check, persist and reserve in one transaction under the venue-day lock
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.Availability.LockVenueDay(ctx, w.venueID, w.date)
		if err != nil {
			return err
		}
		if err := checkBookable(existing, w.start, w.end); err != nil {
			return err
		}

		code, err := s.newReferenceCode(ctx)
		if err != nil {
			return err
		}
		booking.ReferenceCode = code
		booking.QRPayload = utils.VerificationURL(s.baseURL, code)

		if err := s.repo.Booking.Create(ctx, booking); err != nil {
			return err
		}

		if decor, catering, err = s.savePreferences(ctx, booking.ID, req.Decor, req.Catering); err != nil {
			return err
		}

		return s.reserveSlot(ctx, booking, existing)
	})
	if err != nil {
		metrics.BookingsCreated.WithLabelValues(createResult(err)).Inc()
		if !errors.Is(err, entity.ErrVenueUnavailable) {
			s.log.Error("Failed to create booking", zap.Error(err), zap.Int64("venue_id", venue.ID))
		}
		return nil, err
	}
	metrics.BookingsCreated.WithLabelValues("created").Inc()

	// 4. Side effects run after commit and never fail the booking
	s.dispatcher.Dispatch(ctx, booking)

	s.log.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.String("reference_code", booking.ReferenceCode),
		zap.String("total_cost", booking.TotalCost.StringFixed(2)))

	resp := response.BookingToResponse(booking)
	resp.VenueName = venue.Name
	resp.Decor = response.DecorToResponse(decor)
	resp.Catering = response.CateringToResponse(catering)
	return &resp, nil
}

func (s *bookingService) bookableVenue(ctx context.Context, venueID int64, guestCount int) (*entity.Venue, error) {
	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("find venue %d: %w", venueID, err)
	}
	if venue == nil {
		return nil, fmt.Errorf("venue %d: %w", venueID, entity.ErrNotFound)
	}
	if !venue.IsActive {
		return nil, fmt.Errorf("venue %d is inactive: %w", venue.ID, entity.ErrInvalidState)
	}
	if guestCount > venue.Capacity {
		return nil, fmt.Errorf("%w: guest_count exceeds venue capacity of %d", entity.ErrValidation, venue.Capacity)
	}
	return venue, nil
}

func createResult(err error) string {
	switch {
	case errors.Is(err, entity.ErrVenueUnavailable):
		return "unavailable"
	case errors.Is(err, entity.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

// checkBookable rejects a window that overlaps an AVAILABLE slot or an
// existing booking of the same venue day.
func checkBookable(slots []*entity.AvailabilitySlot, start, end entity.TimeOfDay) error {
	if conflicts := entity.FindConflicts(slots, start, end, entity.AvailabilityAvailable); len(conflicts) > 0 {
		return fmt.Errorf("overlaps slot %d: %w", conflicts[0].ID, entity.ErrVenueUnavailable)
	}
	if conflicts := entity.FindConflicts(slots, start, end, entity.AvailabilityBooked); len(conflicts) > 0 {
		return fmt.Errorf("overlaps booked slot %d: %w", conflicts[0].ID, entity.ErrVenueUnavailable)
	}
	return nil
}

// reserveSlot turns the first overlapping AVAILABLE slot into the booking's
// BOOKED slot, or records a new BOOKED slot for the exact window.
func (s *bookingService) reserveSlot(ctx context.Context, booking *entity.Booking, existing []*entity.AvailabilitySlot) error {
	bookingID := booking.ID

	if open := entity.FindConflicts(existing, booking.StartTime, booking.EndTime, entity.AvailabilityAvailable); len(open) > 0 {
		slot := open[0]
		slot.Status = entity.AvailabilityBooked
		slot.BookingID = &bookingID
		return s.repo.Availability.Update(ctx, slot)
	}

	slot := &entity.AvailabilitySlot{
		VenueID:   booking.VenueID,
		Date:      booking.EventDate,
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
		Status:    entity.AvailabilityBooked,
		BookingID: &bookingID,
	}
	if err := s.repo.Availability.Create(ctx, slot); err != nil {
		// a slot with identical bounds already holds this time
		if errors.Is(err, entity.ErrConflict) {
			return fmt.Errorf("window already recorded for venue %d: %w", booking.VenueID, entity.ErrVenueUnavailable)
		}
		return err
	}
	return nil
}

func (s *bookingService) newReferenceCode(ctx context.Context) (string, error) {
	attempts := s.config.ReferenceAttempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		code := utils.GenerateReferenceCode(s.now())
		exists, err := s.repo.Booking.ExistsByReferenceCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		s.log.Warn("Reference code collision, retrying", zap.String("reference_code", code))
	}

	return "", fmt.Errorf("no unique reference code after %d attempts: %w", attempts, entity.ErrConflict)
}

func (s *bookingService) savePreferences(
	ctx context.Context,
	bookingID int64,
	decorReq *request.DecorPreferencesReq,
	cateringReq *request.CateringPreferencesReq,
) (*entity.DecorPreferences, *entity.CateringPreferences, error) {
	var (
		decor    *entity.DecorPreferences
		catering *entity.CateringPreferences
	)

	if decorReq != nil {
		decor = &entity.DecorPreferences{
			BookingID:           bookingID,
			Theme:               decorReq.Theme,
			ColorScheme:         decorReq.ColorScheme,
			FlowerArrangements:  decorReq.FlowerArrangements,
			LightingPreferences: decorReq.LightingPreferences,
			AdditionalRequests:  decorReq.AdditionalRequests,
		}
		if err := s.repo.Preference.SaveDecor(ctx, decor); err != nil {
			return nil, nil, err
		}
	}

	if cateringReq != nil {
		catering = &entity.CateringPreferences{
			BookingID:           bookingID,
			CuisineType:         cateringReq.CuisineType,
			DietaryRestrictions: cateringReq.DietaryRestrictions,
			SpecialDishes:       cateringReq.SpecialDishes,
			BeveragePreferences: cateringReq.BeveragePreferences,
			ServingStyle:        entity.ServingStyle(cateringReq.ServingStyle),
		}
		if cateringReq.MealType != nil {
			meal := entity.MealType(*cateringReq.MealType)
			catering.MealType = &meal
		}
		if catering.ServingStyle == "" {
			catering.ServingStyle = entity.ServingBuffet
		}
		if err := s.repo.Preference.SaveCatering(ctx, catering); err != nil {
			return nil, nil, err
		}
	}

	return decor, catering, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID int64, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}
	return s.respondStatus(ctx, bookingID, entity.BookingStatus(req.Status), nil)
}

func (s *bookingService) ConfirmBooking(ctx context.Context, bookingID int64) (*response.BookingResponse, error) {
	return s.respondStatus(ctx, bookingID, entity.BookingStatusConfirmed, nil)
}

func (s *bookingService) CompleteBooking(ctx context.Context, bookingID int64) (*response.BookingResponse, error) {
	return s.respondStatus(ctx, bookingID, entity.BookingStatusCompleted, nil)
}

func (s *bookingService) CancelBookingByStaff(ctx context.Context, bookingID int64) (*response.BookingResponse, error) {
	return s.respondStatus(ctx, bookingID, entity.BookingStatusCancelled, nil)
}

// CancelBooking lets a guest cancel their own PENDING or CONFIRMED booking.
func (s *bookingService) CancelBooking(ctx context.Context, guestID, bookingID int64) (*response.BookingResponse, error) {
	return s.respondStatus(ctx, bookingID, entity.BookingStatusCancelled, func(booking *entity.Booking) error {
		if booking.GuestID != guestID {
			return fmt.Errorf("booking %d belongs to another guest: %w", bookingID, entity.ErrForbidden)
		}
		if !booking.Status.Cancellable() {
			return fmt.Errorf("booking %d is %s: %w", bookingID, booking.Status, entity.ErrInvalidState)
		}
		return nil
	})
}

func (s *bookingService) respondStatus(ctx context.Context, bookingID int64, status entity.BookingStatus, guard func(*entity.Booking) error) (*response.BookingResponse, error) {
	booking, err := s.changeStatus(ctx, bookingID, status, guard)
	if err != nil {
		return nil, err
	}
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// changeStatus overwrites the booking status and keeps the BOOKED slot in
// step: cancelling releases it, leaving CANCELLED reserves the window again.
// Transitions are only checked when EnforceTransitions is set. A non-nil
// guard sees the locked row before anything is written.
func (s *bookingService) changeStatus(
	ctx context.Context,
	bookingID int64,
	status entity.BookingStatus,
	guard func(*entity.Booking) error,
) (*entity.Booking, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown booking status %q", entity.ErrValidation, status)
	}

	var booking *entity.Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.lockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(booking); err != nil {
				return err
			}
		}

		previous := booking.Status
		if s.config.EnforceTransitions && !previous.CanTransitionTo(status) {
			return fmt.Errorf("booking %d cannot move from %s to %s: %w", bookingID, previous, status, entity.ErrInvalidState)
		}

		switch {
		case status == entity.BookingStatusCancelled && previous != entity.BookingStatusCancelled:
			released, err := s.repo.Availability.DeleteBookedByBookingID(ctx, booking.ID)
			if err != nil {
				return err
			}
			s.log.Debug("Released booked slots", zap.Int64("booking_id", booking.ID), zap.Int64("slots", released))

		case previous == entity.BookingStatusCancelled && status != entity.BookingStatusCancelled:
			existing, err := s.repo.Availability.LockVenueDay(ctx, booking.VenueID, booking.EventDate)
			if err != nil {
				return err
			}
			if err := checkBookable(existing, booking.StartTime, booking.EndTime); err != nil {
				return err
			}
			if err := s.reserveSlot(ctx, booking, existing); err != nil {
				return err
			}
		}

		if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, status); err != nil {
			return err
		}
		booking.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingStatusChanges.WithLabelValues(string(status)).Inc()
	s.dispatcher.Dispatch(ctx, booking)

	s.log.Info("Booking status updated",
		zap.Int64("booking_id", booking.ID),
		zap.String("reference_code", booking.ReferenceCode),
		zap.String("status", string(status)))
	return booking, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, guestID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	limit := req.Limit()
	page := req.Page
	if page < 1 {
		page = 1
	}

	bookings, err := s.repo.Booking.FindByGuestID(ctx, guestID, limit, utils.CalculateOffset(page, limit))
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Booking.CountByGuestID(ctx, guestID)
	if err != nil {
		return nil, err
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), page, limit, total), nil
}

func (s *bookingService) GetGuestBooking(ctx context.Context, guestID int64, referenceCode string) (*response.BookingResponse, error) {
	booking, err := s.findByReference(ctx, referenceCode)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != guestID {
		return nil, fmt.Errorf("booking %s belongs to another guest: %w", referenceCode, entity.ErrForbidden)
	}
	return s.detail(ctx, booking)
}

func (s *bookingService) UpdatePreferences(ctx context.Context, guestID, bookingID int64, req *request.PreferencesRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	var booking *entity.Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.lockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.GuestID != guestID {
			return fmt.Errorf("booking %d belongs to another guest: %w", bookingID, entity.ErrForbidden)
		}
		if !booking.Status.Cancellable() {
			return fmt.Errorf("booking %d is %s: %w", bookingID, booking.Status, entity.ErrInvalidState)
		}

		_, _, err = s.savePreferences(ctx, booking.ID, req.Decor, req.Catering)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.detail(ctx, booking)
}

// UpdateBooking moves a PENDING booking to new details. The BOOKED slot
// follows the booking and the total cost is recalculated.
func (s *bookingService) UpdateBooking(ctx context.Context, guestID, bookingID int64, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	w, err := parseWindow(req.VenueID, req.EventDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if w.date.Before(utils.TruncateDay(s.now())) {
		return nil, fmt.Errorf("%w: event_date must not be in the past", entity.ErrValidation)
	}

	venue, err := s.bookableVenue(ctx, req.VenueID, req.GuestCount)
	if err != nil {
		return nil, err
	}

	var booking *entity.Booking
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		booking, err = s.lockBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.GuestID != guestID {
			return fmt.Errorf("booking %d belongs to another guest: %w", bookingID, entity.ErrForbidden)
		}
		if booking.Status != entity.BookingStatusPending {
			return fmt.Errorf("booking %d is %s, only PENDING can be edited: %w", bookingID, booking.Status, entity.ErrInvalidState)
		}

		locked, err := s.repo.Availability.LockVenueDay(ctx, w.venueID, w.date)
		if err != nil {
			return err
		}
		// the booking's own slot does not count against its new window
		existing := make([]*entity.AvailabilitySlot, 0, len(locked))
		for _, slot := range locked {
			if slot.BookingID != nil && *slot.BookingID == booking.ID {
				continue
			}
			existing = append(existing, slot)
		}
		if err := checkBookable(existing, w.start, w.end); err != nil {
			return err
		}

		if _, err := s.repo.Availability.DeleteBookedByBookingID(ctx, booking.ID); err != nil {
			return err
		}

		booking.VenueID = venue.ID
		booking.EventType = strings.TrimSpace(req.EventType)
		booking.EventDate = w.date
		booking.StartTime = w.start
		booking.EndTime = w.end
		booking.GuestCount = req.GuestCount
		booking.SpecialRequests = req.SpecialRequests
		booking.TotalCost = entity.CalculateTotalCost(venue.HourlyRate, w.start, w.end)

		if err := s.repo.Booking.UpdateDetails(ctx, booking); err != nil {
			return err
		}
		if _, _, err := s.savePreferences(ctx, booking.ID, req.Decor, req.Catering); err != nil {
			return err
		}

		return s.reserveSlot(ctx, booking, existing)
	})
	if err != nil {
		s.log.Warn("Failed to update booking", zap.Error(err), zap.Int64("booking_id", bookingID))
		return nil, err
	}

	s.notifyManagers(ctx, booking,
		fmt.Sprintf("Booking %s was changed to %s %s-%s", booking.ReferenceCode,
			booking.EventDate.Format(utils.DateLayout), booking.StartTime, booking.EndTime),
		entity.AlertBookingChange)

	s.log.Info("Booking updated",
		zap.Int64("booking_id", booking.ID),
		zap.String("reference_code", booking.ReferenceCode),
		zap.String("total_cost", booking.TotalCost.StringFixed(2)))
	return s.detail(ctx, booking)
}

func (s *bookingService) VerifyBooking(ctx context.Context, referenceCode string) (*response.BookingVerificationResponse, error) {
	if !utils.IsValidReferenceCode(referenceCode) {
		return nil, fmt.Errorf("%w: malformed reference code", entity.ErrValidation)
	}

	booking, err := s.findByReference(ctx, referenceCode)
	if err != nil {
		return nil, err
	}

	resp := &response.BookingVerificationResponse{
		ReferenceCode: booking.ReferenceCode,
		Valid:         booking.Status != entity.BookingStatusCancelled,
		Status:        booking.Status,
		EventType:     booking.EventType,
		EventDate:     booking.EventDate.Format(utils.DateLayout),
		StartTime:     booking.StartTime,
		EndTime:       booking.EndTime,
	}
	if venue, err := s.repo.Venue.FindByID(ctx, booking.VenueID); err == nil && venue != nil {
		resp.VenueName = venue.Name
	}
	return resp, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID int64) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, booking)
}

func (s *bookingService) GetBookingByReference(ctx context.Context, referenceCode string) (*response.BookingResponse, error) {
	booking, err := s.findByReference(ctx, referenceCode)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, booking)
}

func (s *bookingService) ListBookings(ctx context.Context, query request.BookingQuery) ([]response.BookingResponse, error) {
	filter := entity.BookingFilter{
		VenueID:       query.VenueID,
		CoordinatorID: query.CoordinatorID,
		WithCatering:  query.WithCatering,
	}

	if query.Status != "" {
		status := entity.BookingStatus(strings.ToUpper(query.Status))
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown booking status %q", entity.ErrValidation, query.Status)
		}
		filter.Status = status
	}
	if query.From != "" {
		from, err := utils.ParseDate(query.From)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := utils.ParseDate(query.To)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
		}
		filter.To = &to
	}

	bookings, err := s.repo.Booking.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) AssignCoordinator(ctx context.Context, bookingID int64, req *request.AssignCoordinatorRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	coordinator, err := s.repo.User.FindByID(ctx, req.CoordinatorID)
	if err != nil {
		return nil, fmt.Errorf("find coordinator %d: %w", req.CoordinatorID, err)
	}
	if coordinator == nil {
		return nil, fmt.Errorf("coordinator %d: %w", req.CoordinatorID, entity.ErrNotFound)
	}
	if !coordinator.HasRole(entity.RoleEventCoordinator) {
		return nil, fmt.Errorf("%w: user %d is not an event coordinator", entity.ErrValidation, coordinator.ID)
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	booking.AssignedCoordinatorID = &coordinator.ID
	if err := s.repo.Booking.UpdateStaffFields(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.notifications.Notify(ctx, coordinator.ID,
		fmt.Sprintf("You have been assigned to booking %s on %s", booking.ReferenceCode, booking.EventDate.Format(utils.DateLayout)),
		entity.AlertCoordination); err != nil {
		s.log.Warn("Failed to notify coordinator", zap.Error(err), zap.Int64("coordinator_id", coordinator.ID))
	}

	s.log.Info("Coordinator assigned", zap.Int64("booking_id", booking.ID), zap.Int64("coordinator_id", coordinator.ID))
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) UpdateCoordinatorFields(ctx context.Context, bookingID int64, req *request.CoordinatorUpdateRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	booking.CoordinatorNotes = req.CoordinatorNotes
	booking.SetupStatus = req.SetupStatus

	if err := s.repo.Booking.UpdateStaffFields(ctx, booking); err != nil {
		return nil, err
	}

	s.notifyManagers(ctx, booking,
		fmt.Sprintf("Room setup completed for booking %s", booking.ReferenceCode),
		entity.AlertSetupComplete)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) UpdateCateringFields(ctx context.Context, bookingID int64, req *request.CateringUpdateRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	booking.CateringNotes = req.CateringNotes
	booking.CateringStatus = req.CateringStatus

	if err := s.repo.Booking.UpdateStaffFields(ctx, booking); err != nil {
		return nil, err
	}

	s.notifyManagers(ctx, booking,
		fmt.Sprintf("Catering confirmed for booking %s", booking.ReferenceCode),
		entity.AlertCateringConfirmed)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) notifyManagers(ctx context.Context, booking *entity.Booking, message string, alertType entity.AlertType) {
	if _, err := s.notifications.NotifyRole(ctx, entity.RoleGeneralManager, message, alertType); err != nil {
		s.log.Warn("Failed to notify managers",
			zap.Error(err),
			zap.Int64("booking_id", booking.ID),
			zap.String("alert_type", string(alertType)))
	}
}

// CheckInGuest records a guest's arrival at the desk. Only CONFIRMED
// bookings can be checked in; the assigned coordinator is told, or every
// event coordinator when nobody is assigned yet.
func (s *bookingService) CheckInGuest(ctx context.Context, bookingID int64) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != entity.BookingStatusConfirmed {
		return nil, fmt.Errorf("booking %d is %s, only CONFIRMED can check in: %w", bookingID, booking.Status, entity.ErrInvalidState)
	}

	message := fmt.Sprintf("Guest has arrived for booking %s", booking.ReferenceCode)
	if booking.AssignedCoordinatorID != nil {
		err = s.notifications.Notify(ctx, *booking.AssignedCoordinatorID, message, entity.AlertGuestArrival)
	} else {
		_, err = s.notifications.NotifyRole(ctx, entity.RoleEventCoordinator, message, entity.AlertGuestArrival)
	}
	if err != nil {
		s.log.Warn("Failed to announce guest arrival", zap.Error(err), zap.Int64("booking_id", booking.ID))
	}

	s.log.Info("Guest checked in", zap.Int64("booking_id", booking.ID), zap.String("reference_code", booking.ReferenceCode))
	return s.detail(ctx, booking)
}

// TodaysArrivals lists the CONFIRMED bookings taking place today.
func (s *bookingService) TodaysArrivals(ctx context.Context) ([]response.BookingResponse, error) {
	today := utils.TruncateDay(s.now())

	bookings, err := s.repo.Booking.FindAll(ctx, entity.BookingFilter{
		Status: entity.BookingStatusConfirmed,
		From:   &today,
		To:     &today,
	})
	if err != nil {
		return nil, err
	}
	return response.BookingsToResponse(bookings), nil
}

// detail loads the venue name and preferences around a booking.
func (s *bookingService) detail(ctx context.Context, booking *entity.Booking) (*response.BookingResponse, error) {
	resp := response.BookingToResponse(booking)

	venue, err := s.repo.Venue.FindByID(ctx, booking.VenueID)
	if err != nil {
		return nil, err
	}
	if venue != nil {
		resp.VenueName = venue.Name
	}

	decor, err := s.repo.Preference.FindDecorByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	catering, err := s.repo.Preference.FindCateringByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	resp.Decor = response.DecorToResponse(decor)
	resp.Catering = response.CateringToResponse(catering)

	return &resp, nil
}

func (s *bookingService) findBooking(ctx context.Context, bookingID int64) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find booking %d: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %d: %w", bookingID, entity.ErrNotFound)
	}
	return booking, nil
}

func (s *bookingService) lockBooking(ctx context.Context, bookingID int64) (*entity.Booking, error) {
	booking, err := s.repo.Booking.LockByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("lock booking %d: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %d: %w", bookingID, entity.ErrNotFound)
	}
	return booking, nil
}

func (s *bookingService) findByReference(ctx context.Context, referenceCode string) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByReferenceCode(ctx, referenceCode)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", referenceCode, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", referenceCode, entity.ErrNotFound)
	}
	return booking, nil
}
