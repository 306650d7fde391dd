package adaptor

import (
	"net/http"
	"time"

	"event-reservation/internal/dto/request"
	"event-reservation/internal/dto/response"
	"event-reservation/internal/usecase"
	"event-reservation/pkg/utils"

	"go.uber.org/zap"
)

type NotificationHandler struct {
	service   usecase.NotificationService
	retention time.Duration
	log       *zap.Logger
}

func NewNotificationHandler(service usecase.NotificationService, retention time.Duration, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service:   service,
		retention: retention,
		log:       log.With(zap.String("handler", "notification")),
	}
}

// ListMine handles GET /api/notifications?filter=all|unread|read
func (h *NotificationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListMine(r.Context(), userID, r.URL.Query().Get("filter"))
	if err != nil {
		writeServiceError(w, h.log, err, "list notifications")
		return
	}

	utils.ResponseSuccess(w, "success", items)
}

// UnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "count unread notifications")
		return
	}

	utils.ResponseSuccess(w, "success", response.CountResponse{Count: count})
}

// MarkAsRead handles PUT /api/notifications/{id}/read
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.MarkAsRead(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.log, err, "mark notification read")
		return
	}

	utils.ResponseSuccess(w, "Notification marked as read", nil)
}

// MarkAllAsRead handles PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	count, err := h.service.MarkAllAsRead(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "mark all notifications read")
		return
	}

	utils.ResponseSuccess(w, "Notifications marked as read", response.CountResponse{Count: count})
}

// Delete handles DELETE /api/notifications/{id}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		writeServiceError(w, h.log, err, "delete notification")
		return
	}

	utils.ResponseSuccess(w, "Notification deleted", nil)
}

// BulkDelete handles POST /api/notifications/bulk-delete
func (h *NotificationHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.BulkDeleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.BulkDelete(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "bulk delete notifications")
		return
	}

	utils.ResponseSuccess(w, "Notifications deleted", result)
}

// DeleteAll handles DELETE /api/notifications
func (h *NotificationHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	count, err := h.service.DeleteAll(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.log, err, "delete all notifications")
		return
	}

	utils.ResponseSuccess(w, "Notifications deleted", response.CountResponse{Count: count})
}

// Compose handles POST /api/staff/notifications
func (h *NotificationHandler) Compose(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.ComposeNotificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sent, err := h.service.Compose(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "compose notification")
		return
	}

	utils.ResponseCreated(w, "Notification sent", response.CountResponse{Count: int64(sent)})
}

// Cleanup handles POST /api/manager/notifications/cleanup?days=
func (h *NotificationHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	retention := h.retention
	if days := utils.ParseInt(r.URL.Query().Get("days"), 0); days > 0 {
		retention = time.Duration(days) * 24 * time.Hour
	}

	deleted, err := h.service.Cleanup(r.Context(), retention)
	if err != nil {
		writeServiceError(w, h.log, err, "clean up notifications")
		return
	}

	utils.ResponseSuccess(w, "Old notifications removed", response.CountResponse{Count: deleted})
}
