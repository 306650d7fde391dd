package wire

import (
	"event-reservation/internal/adaptor"
	"event-reservation/internal/data/entity"
	"event-reservation/internal/data/repository"
	"event-reservation/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures profile routes and manager-only role management.
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED USER ROUTES ====================
	r.Route("/api/user", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/profile", userHandler.GetProfile)
		r.Put("/profile", userHandler.UpdateProfile)
		r.Put("/password", userHandler.ChangePassword)
	})

	// ==================== MANAGER ROUTES ====================
	r.With(
		middleware.AuthSession(repo.Session, log),
		middleware.RequireRole(repo.User, log, entity.RoleGeneralManager),
	).Route("/api/manager/users", func(r chi.Router) {
		// GET /api/manager/users?role=EVENT_COORDINATOR
		r.Get("/", userHandler.ListByRole)
		r.Post("/{id}/roles", userHandler.AssignRole)
		r.Delete("/{id}/roles", userHandler.RemoveRole)
		r.Put("/{id}/activate", userHandler.Activate)
		r.Put("/{id}/deactivate", userHandler.Deactivate)
	})
}
