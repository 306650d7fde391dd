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

type VenueRepository interface {
	Create(ctx context.Context, venue *entity.Venue) error
	FindByID(ctx context.Context, id int64) (*entity.Venue, error)
	FindAll(ctx context.Context, filter entity.VenueFilter) ([]*entity.Venue, error)
	Update(ctx context.Context, venue *entity.Venue) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type venueRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVenueRepository(db database.PgxIface, log *zap.Logger) VenueRepository {
	return &venueRepository{
		db:  db,
		log: log.With(zap.String("repository", "venue")),
	}
}

const venueColumns = `id, name, type, capacity, description, hourly_rate, is_active, created_at, updated_at`

func scanVenue(row pgx.Row) (*entity.Venue, error) {
	var v entity.Venue
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Type,
		&v.Capacity,
		&v.Description,
		&v.HourlyRate,
		&v.IsActive,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *venueRepository) Create(ctx context.Context, venue *entity.Venue) error {
	query := `
		INSERT INTO venues (name, type, capacity, description, hourly_rate, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		venue.Name,
		venue.Type,
		venue.Capacity,
		venue.Description,
		venue.HourlyRate,
		venue.IsActive,
	).Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)

	if err != nil {
		r.log.Error("Failed to create venue", zap.Error(err), zap.String("name", venue.Name))
		return fmt.Errorf("create venue %s: %w", venue.Name, err)
	}

	return nil
}

func (r *venueRepository) FindByID(ctx context.Context, id int64) (*entity.Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`

	venue, err := scanVenue(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find venue by ID", zap.Error(err), zap.Int64("venue_id", id))
		return nil, fmt.Errorf("find venue by ID %d: %w", id, err)
	}

	return venue, nil
}

func (r *venueRepository) FindAll(ctx context.Context, filter entity.VenueFilter) ([]*entity.Venue, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.MinCapacity > 0 {
		args = append(args, filter.MinCapacity)
		conditions = append(conditions, fmt.Sprintf("capacity >= $%d", len(args)))
	}
	if filter.MaxRate != nil {
		args = append(args, *filter.MaxRate)
		conditions = append(conditions, fmt.Sprintf("hourly_rate <= $%d", len(args)))
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	query := `SELECT ` + venueColumns + ` FROM venues`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name"

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list venues", zap.Error(err))
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()

	var venues []*entity.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			r.log.Error("Failed to scan venue row", zap.Error(err))
			return nil, fmt.Errorf("scan venue: %w", err)
		}
		venues = append(venues, venue)
	}

	return venues, rows.Err()
}

func (r *venueRepository) Update(ctx context.Context, venue *entity.Venue) error {
	query := `
		UPDATE venues
		SET name = $2, type = $3, capacity = $4, description = $5,
		    hourly_rate = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		venue.ID,
		venue.Name,
		venue.Type,
		venue.Capacity,
		venue.Description,
		venue.HourlyRate,
	).Scan(&venue.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("venue %d: %w", venue.ID, entity.ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to update venue", zap.Error(err), zap.Int64("venue_id", venue.ID))
		return fmt.Errorf("update venue %d: %w", venue.ID, err)
	}

	return nil
}

func (r *venueRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE venues SET is_active = $2, updated_at = NOW() WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, active)
	if err != nil {
		r.log.Error("Failed to change venue state", zap.Error(err), zap.Int64("venue_id", id))
		return fmt.Errorf("set venue %d active=%t: %w", id, active, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("venue %d: %w", id, entity.ErrNotFound)
	}

	return nil
}
