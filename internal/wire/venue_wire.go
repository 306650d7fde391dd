package wire

import (
	"event-reservation/internal/adaptor"
	"event-reservation/internal/data/entity"
	"event-reservation/internal/data/repository"
	"event-reservation/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireVenue(
	r chi.Router,
	venueHandler *adaptor.VenueHandler,
	availabilityHandler *adaptor.AvailabilityHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/venues", func(r chi.Router) {
		r.Get("/", venueHandler.ListVenues)
		r.Get("/{id}", venueHandler.GetVenue)

		// GET /api/venues/{id}/availability?date=2024-06-01
		r.Get("/{id}/availability", availabilityHandler.VenueDay)
		// GET /api/venues/{id}/availability/check?date=2024-06-01&start_time=14:00&end_time=17:00
		r.Get("/{id}/availability/check", availabilityHandler.CheckAvailability)
	})

	// ==================== MANAGER ROUTES ====================
	r.Route("/api/manager/venues", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(repo.User, log, entity.RoleGeneralManager))

		r.Get("/", venueHandler.ListAllVenues)
		r.Post("/", venueHandler.CreateVenue)
		r.Put("/{id}", venueHandler.UpdateVenue)
		r.Put("/{id}/activate", venueHandler.ActivateVenue)
		r.Put("/{id}/deactivate", venueHandler.DeactivateVenue)
	})
}
