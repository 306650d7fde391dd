package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-reservation/internal/data/entity"
	"event-reservation/internal/data/repository"
	"event-reservation/pkg/metrics"
	"event-reservation/pkg/utils"

	"go.uber.org/zap"
)

// StatusHandler runs the side effects of a booking entering a status.
type StatusHandler func(ctx context.Context, booking *entity.Booking) error

// EventPublisher publishes integration events. *rabbitmq.Publisher satisfies it.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// BookingEvent is the payload published on booking.<status>.
type BookingEvent struct {
	BookingID     int64                `json:"booking_id"`
	ReferenceCode string               `json:"reference_code"`
	Status        entity.BookingStatus `json:"status"`
	GuestID       int64                `json:"guest_id"`
	VenueID       int64                `json:"venue_id"`
	EventDate     string               `json:"event_date"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// StrategyKey names the handler for a status, e.g. "confirmedBookingStrategy".
func StrategyKey(status entity.BookingStatus) string {
	return strings.ToLower(string(status)) + "BookingStrategy"
}

// StatusDispatcher looks up a handler by StrategyKey and runs it. Handler
// failures are logged and never returned to the caller.
type StatusDispatcher struct {
	handlers  map[string]StatusHandler
	publisher EventPublisher
	log       *zap.Logger
}

func NewStatusDispatcher(
	repo *repository.Repository,
	notifications NotificationService,
	publisher EventPublisher,
	log *zap.Logger,
) *StatusDispatcher {
	s := &bookingStrategies{
		repo:          repo,
		notifications: notifications,
		log:           log.With(zap.String("service", "booking_strategy")),
	}

	return NewStatusDispatcherWithHandlers(map[string]StatusHandler{
		StrategyKey(entity.BookingStatusPending):   s.pending,
		StrategyKey(entity.BookingStatusConfirmed): s.confirmed,
		StrategyKey(entity.BookingStatusCancelled): s.cancelled,
		StrategyKey(entity.BookingStatusCompleted): s.completed,
	}, publisher, log)
}

func NewStatusDispatcherWithHandlers(handlers map[string]StatusHandler, publisher EventPublisher, log *zap.Logger) *StatusDispatcher {
	return &StatusDispatcher{
		handlers:  handlers,
		publisher: publisher,
		log:       log.With(zap.String("service", "dispatcher")),
	}
}

func (d *StatusDispatcher) Dispatch(ctx context.Context, booking *entity.Booking) {
	if booking == nil || booking.Status == "" {
		d.log.Warn("Booking or booking status is empty, skipping dispatch")
		return
	}

	key := StrategyKey(booking.Status)
	handler, ok := d.handlers[key]
	if !ok {
		metrics.StatusDispatches.WithLabelValues(key, "missing").Inc()
		d.log.Warn("No strategy found for booking status",
			zap.String("status", string(booking.Status)),
			zap.String("reference_code", booking.ReferenceCode))
	} else if err := d.run(ctx, handler, booking); err != nil {
		metrics.StatusDispatches.WithLabelValues(key, "error").Inc()
		d.log.Error("Error processing booking status",
			zap.Error(err),
			zap.String("strategy", key),
			zap.String("reference_code", booking.ReferenceCode))
	} else {
		metrics.StatusDispatches.WithLabelValues(key, "ok").Inc()
	}

	d.publish(booking)
}

func (d *StatusDispatcher) run(ctx context.Context, handler StatusHandler, booking *entity.Booking) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy panic: %v", r)
		}
	}()
	return handler(ctx, booking)
}

func (d *StatusDispatcher) publish(booking *entity.Booking) {
	if d.publisher == nil {
		return
	}

	event := BookingEvent{
		BookingID:     booking.ID,
		ReferenceCode: booking.ReferenceCode,
		Status:        booking.Status,
		GuestID:       booking.GuestID,
		VenueID:       booking.VenueID,
		EventDate:     booking.EventDate.Format(utils.DateLayout),
		OccurredAt:    time.Now().UTC(),
	}

	routingKey := "booking." + strings.ToLower(string(booking.Status))
	if err := d.publisher.Publish(routingKey, event); err != nil {
		d.log.Warn("Failed to publish booking event",
			zap.Error(err),
			zap.String("routing_key", routingKey),
			zap.String("reference_code", booking.ReferenceCode))
	}
}

// bookingStrategies holds the built-in notification fan-out per status.
type bookingStrategies struct {
	repo          *repository.Repository
	notifications NotificationService
	log           *zap.Logger
}

func (s *bookingStrategies) guestName(ctx context.Context, guestID int64) string {
	guest, err := s.repo.User.FindByID(ctx, guestID)
	if err != nil || guest == nil {
		return "guest"
	}
	return guest.FullName()
}

// notifyRole delivers to a role and keeps going on failure; the error is
// reported together with the others.
func (s *bookingStrategies) notifyRole(ctx context.Context, role entity.RoleName, message string, alertType entity.AlertType) error {
	_, err := s.notifications.NotifyRole(ctx, role, message, alertType)
	return err
}

func (s *bookingStrategies) pending(ctx context.Context, b *entity.Booking) error {
	s.log.Info("Processing pending booking", zap.String("reference_code", b.ReferenceCode))

	return errors.Join(
		s.notifications.Notify(ctx, b.GuestID,
			fmt.Sprintf("Your booking %s has been created and is pending confirmation. We will review your request and get back to you soon.", b.ReferenceCode),
			entity.AlertBookingConfirmation),
		s.notifyRole(ctx, entity.RoleGeneralManager,
			fmt.Sprintf("New booking request: %s from %s", b.ReferenceCode, s.guestName(ctx, b.GuestID)),
			entity.AlertCoordination),
		s.notifyRole(ctx, entity.RoleEventCoordinator,
			fmt.Sprintf("New booking request: %s for %s on %s", b.ReferenceCode, b.EventType, b.EventDate.Format(utils.DateLayout)),
			entity.AlertCoordination),
	)
}

func (s *bookingStrategies) confirmed(ctx context.Context, b *entity.Booking) error {
	s.log.Info("Processing confirmed booking", zap.String("reference_code", b.ReferenceCode))

	return errors.Join(
		s.notifications.Notify(ctx, b.GuestID,
			fmt.Sprintf("Your booking %s is confirmed.", b.ReferenceCode),
			entity.AlertBookingConfirmation),
		s.notifyRole(ctx, entity.RoleEventCoordinator,
			fmt.Sprintf("A booking has been confirmed: %s", b.ReferenceCode),
			entity.AlertCoordination),
		s.notifyRole(ctx, entity.RoleCateringTeamLeader,
			fmt.Sprintf("Catering required for booking: %s", b.ReferenceCode),
			entity.AlertCateringConfirmed),
	)
}

func (s *bookingStrategies) cancelled(ctx context.Context, b *entity.Booking) error {
	s.log.Info("Processing cancelled booking", zap.String("reference_code", b.ReferenceCode))

	staffMessage := fmt.Sprintf("Booking %s was cancelled.", b.ReferenceCode)
	return errors.Join(
		s.notifications.Notify(ctx, b.GuestID,
			fmt.Sprintf("Your booking %s has been cancelled.", b.ReferenceCode),
			entity.AlertBookingCancellation),
		s.notifyRole(ctx, entity.RoleGeneralManager, staffMessage, entity.AlertBookingCancellation),
		s.notifyRole(ctx, entity.RoleEventCoordinator, staffMessage, entity.AlertBookingCancellation),
	)
}

func (s *bookingStrategies) completed(ctx context.Context, b *entity.Booking) error {
	s.log.Info("Processing completed booking", zap.String("reference_code", b.ReferenceCode))

	return s.notifications.Notify(ctx, b.GuestID,
		fmt.Sprintf("Thank you for celebrating with us. Booking %s is now complete.", b.ReferenceCode),
		entity.AlertBookingChange)
}
