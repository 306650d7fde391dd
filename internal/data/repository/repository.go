package repository

import (
	"errors"
	"time"

	"event-reservation/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	Venue        VenueRepository
	Availability AvailabilityRepository
	Booking      BookingRepository
	Preference   PreferenceRepository
	Notification NotificationRepository
}

// NewRepository builds every repository over db. When venueCache is non-nil
// venue lookups are served through it.
func NewRepository(db database.PgxIface, venueCache KeyValueCache, venueTTL time.Duration, log *zap.Logger) *Repository {
	var venues VenueRepository = NewVenueRepository(db, log)
	if venueCache != nil {
		venues = NewCachedVenueRepository(venues, venueCache, venueTTL, log)
	}

	return &Repository{
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Venue:        venues,
		Availability: NewAvailabilityRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Preference:   NewPreferenceRepository(db, log),
		Notification: NewNotificationRepository(db, log),
	}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
