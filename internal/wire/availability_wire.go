package wire

import (
	"event-reservation/internal/adaptor"
	"event-reservation/internal/data/repository"
	"event-reservation/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAvailability(
	r chi.Router,
	availabilityHandler *adaptor.AvailabilityHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Route("/api/availability", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// GET /api/availability/calendar?month=2024-06&venue_id=3
		r.Get("/calendar", availabilityHandler.Calendar)
		r.Get("/summary", availabilityHandler.Summary)
		r.Get("/slots/{id}", availabilityHandler.GetSlot)
	})

	// ==================== STAFF ROUTES ====================
	r.Route("/api/staff/availability", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(repo.User, log, staffRoles...))

		r.Get("/", availabilityHandler.Search)
		r.Post("/", availabilityHandler.CreateSlot)
		r.Post("/range", availabilityHandler.CreateSlots)
		r.Post("/maintenance", availabilityHandler.BlockForMaintenance)
		r.Post("/bulk-delete", availabilityHandler.BulkDelete)
		r.Put("/{id}/status", availabilityHandler.UpdateStatus)
		r.Delete("/{id}", availabilityHandler.DeleteSlot)
	})
}
