package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-reservation/internal/data/entity"
	"event-reservation/internal/data/repository"
	"event-reservation/internal/dto/request"
	"event-reservation/internal/dto/response"
	"event-reservation/pkg/metrics"
	"event-reservation/pkg/utils"

	"go.uber.org/zap"
)

// Read filters accepted by ListMine.
const (
	FilterAll    = "all"
	FilterUnread = "unread"
	FilterRead   = "read"
)

type NotificationService interface {
	// System delivery, used by booking status handlers
	Notify(ctx context.Context, recipientID int64, message string, alertType entity.AlertType) error
	NotifyRole(ctx context.Context, role entity.RoleName, message string, alertType entity.AlertType) (int, error)

	// Staff composition
	Compose(ctx context.Context, senderID int64, req *request.ComposeNotificationRequest) (int, error)

	// Recipient inbox
	ListMine(ctx context.Context, userID int64, filter string) ([]response.NotificationResponse, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, notificationID int64) error
	BulkDelete(ctx context.Context, userID int64, req *request.BulkDeleteRequest) (*response.BulkDeleteResponse, error)
	DeleteAll(ctx context.Context, userID int64) (int64, error)

	// Retention
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
}

type notificationService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewNotificationService(repo *repository.Repository, log *zap.Logger) NotificationService {
	return &notificationService{
		repo: repo,
		log:  log.With(zap.String("service", "notification")),
		now:  time.Now,
	}
}

func (s *notificationService) Notify(ctx context.Context, recipientID int64, message string, alertType entity.AlertType) error {
	return s.send(ctx, recipientID, nil, message, alertType)
}

func (s *notificationService) send(ctx context.Context, recipientID int64, senderID *int64, message string, alertType entity.AlertType) error {
	n := &entity.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		SenderType:  entity.SenderSystem,
		Message:     message,
		AlertType:   alertType,
	}
	if senderID != nil {
		n.SenderType = entity.SenderStaff
	}

	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.log.Error("Failed to send notification",
			zap.Error(err),
			zap.Int64("recipient_id", recipientID),
			zap.String("alert_type", string(alertType)))
		return fmt.Errorf("notify user %d: %w", recipientID, err)
	}
	return nil
}

// NotifyRole delivers to every active holder of role and returns how many
// deliveries succeeded. Failures are joined into the returned error.
func (s *notificationService) NotifyRole(ctx context.Context, role entity.RoleName, message string, alertType entity.AlertType) (int, error) {
	return s.fanOut(ctx, role, nil, message, alertType)
}

func (s *notificationService) fanOut(ctx context.Context, role entity.RoleName, senderID *int64, message string, alertType entity.AlertType) (int, error) {
	users, err := s.repo.User.FindByRole(ctx, role)
	if err != nil {
		return 0, fmt.Errorf("find users with role %s: %w", role, err)
	}

	sent := 0
	var errs []error
	for _, u := range users {
		if !u.IsActive {
			continue
		}
		if err := s.send(ctx, u.ID, senderID, message, alertType); err != nil {
			errs = append(errs, err)
			continue
		}
		sent++
	}

	return sent, errors.Join(errs...)
}

// Compose sends a staff message to exactly one of a user or a role.
func (s *notificationService) Compose(ctx context.Context, senderID int64, req *request.ComposeNotificationRequest) (int, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Compose validation failed", zap.Any("errors", errs))
		return 0, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}
	if (req.RecipientID == nil) == (req.Role == "") {
		return 0, fmt.Errorf("%w: exactly one of recipient_id or role is required", entity.ErrValidation)
	}

	alertType := entity.AlertType(req.AlertType)

	if req.RecipientID != nil {
		recipient, err := s.repo.User.FindByID(ctx, *req.RecipientID)
		if err != nil {
			return 0, fmt.Errorf("find recipient %d: %w", *req.RecipientID, err)
		}
		if recipient == nil {
			return 0, fmt.Errorf("recipient %d: %w", *req.RecipientID, entity.ErrNotFound)
		}
		if err := s.send(ctx, recipient.ID, &senderID, req.Message, alertType); err != nil {
			return 0, err
		}
		s.log.Info("Notification composed", zap.Int64("sender_id", senderID), zap.Int64("recipient_id", recipient.ID))
		return 1, nil
	}

	sent, err := s.fanOut(ctx, entity.RoleName(req.Role), &senderID, req.Message, alertType)
	if err != nil {
		s.log.Warn("Role notification partially failed", zap.Error(err), zap.String("role", req.Role))
	}
	s.log.Info("Notification composed", zap.Int64("sender_id", senderID), zap.String("role", req.Role), zap.Int("sent", sent))
	return sent, nil
}

func (s *notificationService) ListMine(ctx context.Context, userID int64, filter string) ([]response.NotificationResponse, error) {
	var read *bool
	switch filter {
	case "", FilterAll:
	case FilterUnread:
		v := false
		read = &v
	case FilterRead:
		v := true
		read = &v
	default:
		return nil, fmt.Errorf("%w: unknown filter %q", entity.ErrValidation, filter)
	}

	items, err := s.repo.Notification.FindByRecipient(ctx, userID, read)
	if err != nil {
		return nil, err
	}
	return response.NotificationsToResponse(items), nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.Notification.CountUnread(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int64) error {
	return s.repo.Notification.MarkAsRead(ctx, notificationID, userID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.Notification.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, userID, notificationID int64) error {
	n, err := s.repo.Notification.FindByID(ctx, notificationID)
	if err != nil {
		return fmt.Errorf("find notification %d: %w", notificationID, err)
	}
	if n == nil {
		return fmt.Errorf("notification %d: %w", notificationID, entity.ErrNotFound)
	}
	if n.RecipientID != userID {
		return fmt.Errorf("notification %d belongs to another user: %w", notificationID, entity.ErrForbidden)
	}

	return s.repo.Notification.Delete(ctx, notificationID)
}

func (s *notificationService) BulkDelete(ctx context.Context, userID int64, req *request.BulkDeleteRequest) (*response.BulkDeleteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}

	deleted := 0
	for _, id := range req.IDs {
		if err := s.Delete(ctx, userID, id); err != nil {
			s.log.Warn("Failed to delete notification", zap.Error(err), zap.Int64("notification_id", id))
			continue
		}
		deleted++
	}

	return &response.BulkDeleteResponse{Requested: len(req.IDs), Deleted: deleted}, nil
}

func (s *notificationService) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	return s.repo.Notification.DeleteAllForRecipient(ctx, userID)
}

// Cleanup purges notifications created before now minus retention.
func (s *notificationService) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("%w: retention must be positive", entity.ErrValidation)
	}

	cutoff := s.now().Add(-retention)
	deleted, err := s.repo.Notification.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error("Notification cleanup failed", zap.Error(err))
		return 0, err
	}

	metrics.NotificationsPurged.Add(float64(deleted))
	s.log.Info("Old notifications removed", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	return deleted, nil
}
