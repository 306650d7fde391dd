package wire

import (
	"event-reservation/internal/adaptor"
	"event-reservation/internal/data/entity"
	"event-reservation/internal/data/repository"
	"event-reservation/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /verify-booking?ref=20240520-100000-AB12CD (target of the QR code)
	r.Get("/verify-booking", bookingHandler.VerifyBooking)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/api/bookings", bookingHandler.CreateBooking)
		r.Get("/api/bookings/{ref}", bookingHandler.GetGuestBooking)
		r.Put("/api/bookings/{id}", bookingHandler.UpdateBooking)
		r.Put("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
		r.Put("/api/bookings/{id}/preferences", bookingHandler.UpdatePreferences)

		// GET /api/user/bookings?page=1&per_page=10
		r.Get("/api/user/bookings", bookingHandler.GetUserBookings)
	})

	// ==================== STAFF ROUTES ====================
	r.Route("/api/staff/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(repo.User, log, staffRoles...))

			r.Get("/", bookingHandler.ListBookings)
			r.Get("/arrivals/today", bookingHandler.TodaysArrivals)
			r.Get("/{id}", bookingHandler.GetBookingByID)
			r.Get("/reference/{ref}", bookingHandler.GetBookingByReference)
			r.Put("/{id}/status", bookingHandler.UpdateBookingStatus)
			r.Put("/{id}/confirm", bookingHandler.ConfirmBooking)
			r.Put("/{id}/complete", bookingHandler.CompleteBooking)
			r.Put("/{id}/cancel", bookingHandler.CancelBookingByStaff)
		})

		r.With(middleware.RequireRole(repo.User, log, entity.RoleGeneralManager)).
			Put("/{id}/coordinator", bookingHandler.AssignCoordinator)

		r.With(middleware.RequireRole(repo.User, log, entity.RoleGeneralManager, entity.RoleEventCoordinator)).
			Put("/{id}/coordinator-notes", bookingHandler.UpdateCoordinatorFields)

		r.With(middleware.RequireRole(repo.User, log, entity.RoleGeneralManager, entity.RoleCateringTeamLeader)).
			Put("/{id}/catering", bookingHandler.UpdateCateringFields)

		r.With(middleware.RequireRole(repo.User, log, entity.RoleGeneralManager, entity.RoleReceptionist)).
			Put("/{id}/check-in", bookingHandler.CheckInGuest)
	})
}
