package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-reservation/internal/data/entity"
	"event-reservation/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	FindByID(ctx context.Context, id int64) (*entity.Notification, error)
	// FindByRecipient lists newest first; read filters on is_read when non-nil.
	FindByRecipient(ctx context.Context, recipientID int64, read *bool) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, recipientID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, recipientID int64) error
	MarkAllAsRead(ctx context.Context, recipientID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteAllForRecipient(ctx context.Context, recipientID int64) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewNotificationRepository(db database.PgxIface, log *zap.Logger) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: log.With(zap.String("repository", "notification")),
	}
}

const notificationColumns = `id, recipient_id, sender_id, sender_type, message, alert_type,
	is_read, read_at, created_at`

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	var n entity.Notification
	err := row.Scan(
		&n.ID,
		&n.RecipientID,
		&n.SenderID,
		&n.SenderType,
		&n.Message,
		&n.AlertType,
		&n.IsRead,
		&n.ReadAt,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (recipient_id, sender_id, sender_type, message, alert_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		n.RecipientID,
		n.SenderID,
		n.SenderType,
		n.Message,
		n.AlertType,
	).Scan(&n.ID, &n.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create notification",
			zap.Error(err),
			zap.Int64("recipient_id", n.RecipientID),
			zap.String("alert_type", string(n.AlertType)),
		)
		return fmt.Errorf("create notification for user %d: %w", n.RecipientID, err)
	}

	return nil
}

func (r *notificationRepository) FindByID(ctx context.Context, id int64) (*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	n, err := scanNotification(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find notification", zap.Error(err), zap.Int64("notification_id", id))
		return nil, fmt.Errorf("find notification %d: %w", id, err)
	}

	return n, nil
}

func (r *notificationRepository) FindByRecipient(ctx context.Context, recipientID int64, read *bool) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1`
	args := []any{recipientID}
	if read != nil {
		query += ` AND is_read = $2`
		args = append(args, *read)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list notifications", zap.Error(err), zap.Int64("recipient_id", recipientID))
		return nil, fmt.Errorf("list notifications for user %d: %w", recipientID, err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			r.log.Error("Failed to scan notification row", zap.Error(err))
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`, recipientID,
	).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count unread notifications", zap.Error(err), zap.Int64("recipient_id", recipientID))
		return 0, fmt.Errorf("count unread notifications for user %d: %w", recipientID, err)
	}
	return count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, recipientID int64) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE id = $1 AND recipient_id = $2
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, recipientID)
	if err != nil {
		r.log.Error("Failed to mark notification read", zap.Error(err), zap.Int64("notification_id", id))
		return fmt.Errorf("mark notification %d read: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification %d: %w", id, entity.ErrNotFound)
	}

	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID int64) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE recipient_id = $1 AND is_read = FALSE
	`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, recipientID)
	if err != nil {
		r.log.Error("Failed to mark all notifications read", zap.Error(err), zap.Int64("recipient_id", recipientID))
		return 0, fmt.Errorf("mark all notifications read for user %d: %w", recipientID, err)
	}

	return result.RowsAffected(), nil
}

func (r *notificationRepository) Delete(ctx context.Context, id int64) error {
	result, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete notification", zap.Error(err), zap.Int64("notification_id", id))
		return fmt.Errorf("delete notification %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification %d: %w", id, entity.ErrNotFound)
	}

	return nil
}

func (r *notificationRepository) DeleteAllForRecipient(ctx context.Context, recipientID int64) (int64, error) {
	result, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM notifications WHERE recipient_id = $1`, recipientID)
	if err != nil {
		r.log.Error("Failed to delete notifications", zap.Error(err), zap.Int64("recipient_id", recipientID))
		return 0, fmt.Errorf("delete notifications for user %d: %w", recipientID, err)
	}

	return result.RowsAffected(), nil
}

func (r *notificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM notifications WHERE created_at < $1`, cutoff)
	if err != nil {
		r.log.Error("Failed to purge notifications", zap.Error(err), zap.Time("cutoff", cutoff))
		return 0, fmt.Errorf("purge notifications before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	return result.RowsAffected(), nil
}
