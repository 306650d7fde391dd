package usecase

import (
	"event-reservation/internal/data/repository"
	"event-reservation/pkg/database"
	"event-reservation/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	User         UserService
	Venue        VenueService
	Availability AvailabilityService
	Booking      BookingService
	Notification NotificationService
	Dispatcher   *StatusDispatcher
}

// NewService wires every service over the shared repositories. publisher may
// be nil when no broker is configured.
func NewService(
	repo *repository.Repository,
	tx database.Transactor,
	publisher EventPublisher,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	notifications := NewNotificationService(repo, log)
	dispatcher := NewStatusDispatcher(repo, notifications, publisher, log)

	return &Service{
		Auth:         NewAuthService(repo, tx, config, log),
		User:         NewUserService(repo, log),
		Venue:        NewVenueService(repo, log),
		Availability: NewAvailabilityService(repo, tx, log),
		Booking:      NewBookingService(repo, tx, dispatcher, notifications, config, log),
		Notification: notifications,
		Dispatcher:   dispatcher,
	}
}
