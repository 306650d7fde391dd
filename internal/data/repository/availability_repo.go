package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-reservation/internal/data/entity"
	"event-reservation/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type AvailabilityRepository interface {
	Create(ctx context.Context, slot *entity.AvailabilitySlot) error
	FindByID(ctx context.Context, id int64) (*entity.AvailabilitySlot, error)
	FindByVenueAndDate(ctx context.Context, venueID int64, date time.Time) ([]*entity.AvailabilitySlot, error)
	Search(ctx context.Context, filter entity.SlotFilter) ([]*entity.AvailabilitySlot, error)
	Update(ctx context.Context, slot *entity.AvailabilitySlot) error
	Delete(ctx context.Context, id int64) error
	DeleteBookedByBookingID(ctx context.Context, bookingID int64) (int64, error)

	// LockVenueDay serializes writers of one venue-date until the surrounding
	// transaction ends, then returns that day's slots locked FOR UPDATE.
	LockVenueDay(ctx context.Context, venueID int64, date time.Time) ([]*entity.AvailabilitySlot, error)
}

type availabilityRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAvailabilityRepository(db database.PgxIface, log *zap.Logger) AvailabilityRepository {
	return &availabilityRepository{
		db:  db,
		log: log.With(zap.String("repository", "availability")),
	}
}

const slotColumns = `id, venue_id, date, start_time, end_time, status, booking_id, notes,
	maintenance_reason, created_at, updated_at`

func scanSlot(row pgx.Row) (*entity.AvailabilitySlot, error) {
	var s entity.AvailabilitySlot
	err := row.Scan(
		&s.ID,
		&s.VenueID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.Status,
		&s.BookingID,
		&s.Notes,
		&s.MaintenanceReason,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *availabilityRepository) scanSlots(rows pgx.Rows) ([]*entity.AvailabilitySlot, error) {
	defer rows.Close()

	var slots []*entity.AvailabilitySlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			r.log.Error("Failed to scan slot row", zap.Error(err))
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func (r *availabilityRepository) Create(ctx context.Context, slot *entity.AvailabilitySlot) error {
	query := `
		INSERT INTO venue_availability (venue_id, date, start_time, end_time, status,
		                                booking_id, notes, maintenance_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		slot.VenueID,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
		slot.Status,
		slot.BookingID,
		slot.Notes,
		slot.MaintenanceReason,
	).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)

	if isUniqueViolation(err) {
		return fmt.Errorf("slot %s %s-%s for venue %d already exists: %w",
			slot.Date.Format("2006-01-02"), slot.StartTime, slot.EndTime, slot.VenueID, entity.ErrConflict)
	}
	if err != nil {
		r.log.Error("Failed to create slot",
			zap.Error(err),
			zap.Int64("venue_id", slot.VenueID),
			zap.Time("date", slot.Date),
		)
		return fmt.Errorf("create slot for venue %d: %w", slot.VenueID, err)
	}

	return nil
}

func (r *availabilityRepository) FindByID(ctx context.Context, id int64) (*entity.AvailabilitySlot, error) {
	query := `SELECT ` + slotColumns + ` FROM venue_availability WHERE id = $1`

	slot, err := scanSlot(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find slot by ID", zap.Error(err), zap.Int64("slot_id", id))
		return nil, fmt.Errorf("find slot by ID %d: %w", id, err)
	}

	return slot, nil
}

func (r *availabilityRepository) FindByVenueAndDate(ctx context.Context, venueID int64, date time.Time) ([]*entity.AvailabilitySlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM venue_availability
		WHERE venue_id = $1 AND date = $2
		ORDER BY start_time
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, venueID, date)
	if err != nil {
		r.log.Error("Failed to find slots for venue day", zap.Error(err), zap.Int64("venue_id", venueID))
		return nil, fmt.Errorf("find slots for venue %d: %w", venueID, err)
	}

	return r.scanSlots(rows)
}

func (r *availabilityRepository) LockVenueDay(ctx context.Context, venueID int64, date time.Time) ([]*entity.AvailabilitySlot, error) {
	conn := database.Conn(ctx, r.db)

	dayKey := int32(date.Year()*10000 + int(date.Month())*100 + date.Day())
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, int32(venueID), dayKey); err != nil {
		r.log.Error("Failed to lock venue day", zap.Error(err), zap.Int64("venue_id", venueID))
		return nil, fmt.Errorf("lock venue %d day: %w", venueID, err)
	}

	query := `
		SELECT ` + slotColumns + `
		FROM venue_availability
		WHERE venue_id = $1 AND date = $2
		ORDER BY start_time
		FOR UPDATE
	`

	rows, err := conn.Query(ctx, query, venueID, date)
	if err != nil {
		r.log.Error("Failed to lock slots for venue day", zap.Error(err), zap.Int64("venue_id", venueID))
		return nil, fmt.Errorf("lock slots for venue %d: %w", venueID, err)
	}

	return r.scanSlots(rows)
}

func (r *availabilityRepository) Search(ctx context.Context, filter entity.SlotFilter) ([]*entity.AvailabilitySlot, error) {
	args := []any{filter.From, filter.To}
	conditions := []string{"date >= $1", "date <= $2"}

	if filter.VenueID != nil {
		args = append(args, *filter.VenueID)
		conditions = append(conditions, fmt.Sprintf("venue_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + slotColumns + ` FROM venue_availability WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY date, venue_id, start_time`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to search slots", zap.Error(err))
		return nil, fmt.Errorf("search slots: %w", err)
	}

	return r.scanSlots(rows)
}

func (r *availabilityRepository) Update(ctx context.Context, slot *entity.AvailabilitySlot) error {
	query := `
		UPDATE venue_availability
		SET status = $2, booking_id = $3, notes = $4, maintenance_reason = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		slot.ID,
		slot.Status,
		slot.BookingID,
		slot.Notes,
		slot.MaintenanceReason,
	).Scan(&slot.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("slot %d: %w", slot.ID, entity.ErrNotFound)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("slot %d is already booked: %w", slot.ID, entity.ErrConflict)
	}
	if err != nil {
		r.log.Error("Failed to update slot", zap.Error(err), zap.Int64("slot_id", slot.ID))
		return fmt.Errorf("update slot %d: %w", slot.ID, err)
	}

	return nil
}

// Delete removes a slot unless it is BOOKED at the moment the statement runs.
func (r *availabilityRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM venue_availability WHERE id = $1 AND status <> $2`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, entity.AvailabilityBooked)
	if err != nil {
		r.log.Error("Failed to delete slot", zap.Error(err), zap.Int64("slot_id", id))
		return fmt.Errorf("delete slot %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		slot, err := r.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if slot == nil {
			return fmt.Errorf("slot %d: %w", id, entity.ErrNotFound)
		}
		return fmt.Errorf("slot %d is booked and cannot be deleted: %w", id, entity.ErrInvalidState)
	}

	return nil
}

func (r *availabilityRepository) DeleteBookedByBookingID(ctx context.Context, bookingID int64) (int64, error) {
	query := `DELETE FROM venue_availability WHERE booking_id = $1 AND status = $2`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, bookingID, entity.AvailabilityBooked)
	if err != nil {
		r.log.Error("Failed to release booked slots", zap.Error(err), zap.Int64("booking_id", bookingID))
		return 0, fmt.Errorf("release slots of booking %d: %w", bookingID, err)
	}

	return result.RowsAffected(), nil
}
