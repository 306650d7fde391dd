package response

import (
	"time"

	"event-reservation/internal/data/entity"
)

type NotificationResponse struct {
	ID         int64             `json:"id"`
	SenderID   *int64            `json:"sender_id,omitempty"`
	SenderType entity.SenderType `json:"sender_type"`
	Message    string            `json:"message"`
	AlertType  entity.AlertType  `json:"alert_type"`
	IsRead     bool              `json:"is_read"`
	ReadAt     *time.Time        `json:"read_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

func NotificationsToResponse(items []*entity.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(items))
	for i, n := range items {
		out[i] = NotificationResponse{
			ID:         n.ID,
			SenderID:   n.SenderID,
			SenderType: n.SenderType,
			Message:    n.Message,
			AlertType:  n.AlertType,
			IsRead:     n.IsRead,
			ReadAt:     n.ReadAt,
			CreatedAt:  n.CreatedAt,
		}
	}
	return out
}

type CountResponse struct {
	Count int64 `json:"count"`
}
