package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"event-reservation/internal/data/entity"
	"event-reservation/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id int64) (*entity.Booking, error)
	LockByID(ctx context.Context, id int64) (*entity.Booking, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*entity.Booking, error)
	FindByReferenceCode(ctx context.Context, code string) (*entity.Booking, error)
	ExistsByReferenceCode(ctx context.Context, code string) (bool, error)
	FindByGuestID(ctx context.Context, guestID int64, limit, offset int) ([]*entity.Booking, error)
	CountByGuestID(ctx context.Context, guestID int64) (int64, error)
	FindAll(ctx context.Context, filter entity.BookingFilter) ([]*entity.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error
	UpdateStaffFields(ctx context.Context, booking *entity.Booking) error
	UpdateDetails(ctx context.Context, booking *entity.Booking) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, guest_id, venue_id, event_type, event_date, start_time, end_time,
	guest_count, total_cost, status, reference_code, qr_payload, special_requests,
	assigned_coordinator_id, coordinator_notes, setup_status, catering_notes,
	catering_status, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.GuestID,
		&b.VenueID,
		&b.EventType,
		&b.EventDate,
		&b.StartTime,
		&b.EndTime,
		&b.GuestCount,
		&b.TotalCost,
		&b.Status,
		&b.ReferenceCode,
		&b.QRPayload,
		&b.SpecialRequests,
		&b.AssignedCoordinatorID,
		&b.CoordinatorNotes,
		&b.SetupStatus,
		&b.CateringNotes,
		&b.CateringStatus,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) scanBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (guest_id, venue_id, event_type, event_date, start_time, end_time,
		                      guest_count, total_cost, status, reference_code, qr_payload,
		                      special_requests)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		booking.GuestID,
		booking.VenueID,
		booking.EventType,
		booking.EventDate,
		booking.StartTime,
		booking.EndTime,
		booking.GuestCount,
		booking.TotalCost,
		booking.Status,
		booking.ReferenceCode,
		booking.QRPayload,
		booking.SpecialRequests,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if isUniqueViolation(err) {
		return fmt.Errorf("reference code %s already used: %w", booking.ReferenceCode, entity.ErrConflict)
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("reference_code", booking.ReferenceCode),
			zap.Int64("guest_id", booking.GuestID),
		)
		return fmt.Errorf("create booking %s: %w", booking.ReferenceCode, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID", zap.Error(err), zap.Int64("booking_id", id))
		return nil, fmt.Errorf("find booking by ID %d: %w", id, err)
	}

	return booking, nil
}

// LockByID reads a booking with a row lock held until the surrounding
// transaction ends. Outside a transaction it behaves like FindByID.
func (r *bookingRepository) LockByID(ctx context.Context, id int64) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	booking, err := scanBooking(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock booking", zap.Error(err), zap.Int64("booking_id", id))
		return nil, fmt.Errorf("lock booking %d: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByIDs(ctx context.Context, ids []int64) ([]*entity.Booking, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ANY($1)`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find bookings by IDs", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find bookings by IDs: %w", err)
	}

	return r.scanBookings(rows)
}

func (r *bookingRepository) FindByReferenceCode(ctx context.Context, code string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference_code = $1`

	booking, err := scanBooking(database.Conn(ctx, r.db).QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by reference", zap.Error(err), zap.String("reference_code", code))
		return nil, fmt.Errorf("find booking by reference %s: %w", code, err)
	}

	return booking, nil
}

func (r *bookingRepository) ExistsByReferenceCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE reference_code = $1)`, code,
	).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check reference code", zap.Error(err), zap.String("reference_code", code))
		return false, fmt.Errorf("check reference code %s: %w", code, err)
	}
	return exists, nil
}

func (r *bookingRepository) FindByGuestID(ctx context.Context, guestID int64, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE guest_id = $1
		ORDER BY event_date DESC, start_time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, guestID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by guest",
			zap.Error(err),
			zap.Int64("guest_id", guestID),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by guest %d: %w", guestID, err)
	}

	return r.scanBookings(rows)
}

func (r *bookingRepository) CountByGuestID(ctx context.Context, guestID int64) (int64, error) {
	var total int64
	err := database.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE guest_id = $1`, guestID,
	).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count bookings by guest", zap.Error(err), zap.Int64("guest_id", guestID))
		return 0, fmt.Errorf("count bookings by guest %d: %w", guestID, err)
	}
	return total, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, filter entity.BookingFilter) ([]*entity.Booking, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.VenueID != nil {
		args = append(args, *filter.VenueID)
		conditions = append(conditions, fmt.Sprintf("venue_id = $%d", len(args)))
	}
	if filter.CoordinatorID != nil {
		args = append(args, *filter.CoordinatorID)
		conditions = append(conditions, fmt.Sprintf("assigned_coordinator_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("event_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("event_date <= $%d", len(args)))
	}
	if filter.WithCatering {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM catering_preferences cp WHERE cp.booking_id = bookings.id)")
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY event_date, start_time"

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return r.scanBookings(rows)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.Int64("booking_id", id),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %d status: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %d: %w", id, entity.ErrNotFound)
	}

	return nil
}

func (r *bookingRepository) UpdateStaffFields(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET assigned_coordinator_id = $2, coordinator_notes = $3, setup_status = $4,
		    catering_notes = $5, catering_status = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		booking.ID,
		booking.AssignedCoordinatorID,
		booking.CoordinatorNotes,
		booking.SetupStatus,
		booking.CateringNotes,
		booking.CateringStatus,
	).Scan(&booking.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("booking %d: %w", booking.ID, entity.ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to update booking", zap.Error(err), zap.Int64("booking_id", booking.ID))
		return fmt.Errorf("update booking %d: %w", booking.ID, err)
	}

	return nil
}

func (r *bookingRepository) UpdateDetails(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET venue_id = $2, event_type = $3, event_date = $4, start_time = $5, end_time = $6,
		    guest_count = $7, total_cost = $8, special_requests = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		booking.ID,
		booking.VenueID,
		booking.EventType,
		booking.EventDate,
		booking.StartTime,
		booking.EndTime,
		booking.GuestCount,
		booking.TotalCost,
		booking.SpecialRequests,
	).Scan(&booking.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("booking %d: %w", booking.ID, entity.ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to update booking details", zap.Error(err), zap.Int64("booking_id", booking.ID))
		return fmt.Errorf("update booking %d details: %w", booking.ID, err)
	}

	return nil
}
