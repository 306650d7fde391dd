package wire

import (
	"event-reservation/internal/adaptor"
	"event-reservation/internal/data/entity"
	"event-reservation/internal/data/repository"
	"event-reservation/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireNotification(
	r chi.Router,
	notificationHandler *adaptor.NotificationHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// GET /api/notifications?filter=unread
		r.Get("/", notificationHandler.ListMine)
		r.Get("/unread-count", notificationHandler.UnreadCount)
		r.Put("/read-all", notificationHandler.MarkAllAsRead)
		r.Put("/{id}/read", notificationHandler.MarkAsRead)
		r.Delete("/{id}", notificationHandler.Delete)
		r.Post("/bulk-delete", notificationHandler.BulkDelete)
		r.Delete("/", notificationHandler.DeleteAll)
	})

	// ==================== STAFF ROUTES ====================
	r.With(
		middleware.AuthSession(repo.Session, log),
		middleware.RequireRole(repo.User, log,
			entity.RoleGeneralManager,
			entity.RoleEventCoordinator,
			entity.RoleReceptionist,
			entity.RoleCateringTeamLeader,
			entity.RoleMarketingExecutive,
		),
	).Post("/api/staff/notifications", notificationHandler.Compose)

	// ==================== MANAGER ROUTES ====================
	// DELETE /api/manager/notifications/cleanup?days=30
	r.With(
		middleware.AuthSession(repo.Session, log),
		middleware.RequireRole(repo.User, log, entity.RoleGeneralManager),
	).Delete("/api/manager/notifications/cleanup", notificationHandler.Cleanup)
}
