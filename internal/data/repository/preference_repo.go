package repository

import (
	"context"
	"errors"
	"fmt"

	"event-reservation/internal/data/entity"
	"event-reservation/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PreferenceRepository stores the decor and catering preferences owned by a booking.
type PreferenceRepository interface {
	SaveDecor(ctx context.Context, prefs *entity.DecorPreferences) error
	FindDecorByBookingID(ctx context.Context, bookingID int64) (*entity.DecorPreferences, error)
	SaveCatering(ctx context.Context, prefs *entity.CateringPreferences) error
	FindCateringByBookingID(ctx context.Context, bookingID int64) (*entity.CateringPreferences, error)
}

type preferenceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPreferenceRepository(db database.PgxIface, log *zap.Logger) PreferenceRepository {
	return &preferenceRepository{
		db:  db,
		log: log.With(zap.String("repository", "preference")),
	}
}

// SaveDecor inserts or replaces the booking's decor preferences.
func (r *preferenceRepository) SaveDecor(ctx context.Context, prefs *entity.DecorPreferences) error {
	query := `
		INSERT INTO decor_preferences (booking_id, theme, color_scheme, flower_arrangements,
		                               lighting_preferences, additional_requests)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (booking_id) DO UPDATE
		SET theme = EXCLUDED.theme,
		    color_scheme = EXCLUDED.color_scheme,
		    flower_arrangements = EXCLUDED.flower_arrangements,
		    lighting_preferences = EXCLUDED.lighting_preferences,
		    additional_requests = EXCLUDED.additional_requests
		RETURNING id
	`

	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		prefs.BookingID,
		prefs.Theme,
		prefs.ColorScheme,
		prefs.FlowerArrangements,
		prefs.LightingPreferences,
		prefs.AdditionalRequests,
	).Scan(&prefs.ID)

	if err != nil {
		r.log.Error("Failed to save decor preferences", zap.Error(err), zap.Int64("booking_id", prefs.BookingID))
		return fmt.Errorf("save decor preferences for booking %d: %w", prefs.BookingID, err)
	}

	return nil
}

func (r *preferenceRepository) FindDecorByBookingID(ctx context.Context, bookingID int64) (*entity.DecorPreferences, error) {
	query := `
		SELECT id, booking_id, theme, color_scheme, flower_arrangements,
		       lighting_preferences, additional_requests
		FROM decor_preferences
		WHERE booking_id = $1
	`

	var p entity.DecorPreferences
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, bookingID).Scan(
		&p.ID,
		&p.BookingID,
		&p.Theme,
		&p.ColorScheme,
		&p.FlowerArrangements,
		&p.LightingPreferences,
		&p.AdditionalRequests,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find decor preferences", zap.Error(err), zap.Int64("booking_id", bookingID))
		return nil, fmt.Errorf("find decor preferences for booking %d: %w", bookingID, err)
	}

	return &p, nil
}

// SaveCatering inserts or replaces the booking's catering preferences.
func (r *preferenceRepository) SaveCatering(ctx context.Context, prefs *entity.CateringPreferences) error {
	if prefs.ServingStyle == "" {
		prefs.ServingStyle = entity.ServingBuffet
	}

	query := `
		INSERT INTO catering_preferences (booking_id, meal_type, cuisine_type, dietary_restrictions,
		                                  special_dishes, beverage_preferences, serving_style)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (booking_id) DO UPDATE
		SET meal_type = EXCLUDED.meal_type,
		    cuisine_type = EXCLUDED.cuisine_type,
		    dietary_restrictions = EXCLUDED.dietary_restrictions,
		    special_dishes = EXCLUDED.special_dishes,
		    beverage_preferences = EXCLUDED.beverage_preferences,
		    serving_style = EXCLUDED.serving_style
		RETURNING id
	`

	err := database.Conn(ctx, r.db).QueryRow(ctx, query,
		prefs.BookingID,
		prefs.MealType,
		prefs.CuisineType,
		prefs.DietaryRestrictions,
		prefs.SpecialDishes,
		prefs.BeveragePreferences,
		prefs.ServingStyle,
	).Scan(&prefs.ID)

	if err != nil {
		r.log.Error("Failed to save catering preferences", zap.Error(err), zap.Int64("booking_id", prefs.BookingID))
		return fmt.Errorf("save catering preferences for booking %d: %w", prefs.BookingID, err)
	}

	return nil
}

func (r *preferenceRepository) FindCateringByBookingID(ctx context.Context, bookingID int64) (*entity.CateringPreferences, error) {
	query := `
		SELECT id, booking_id, meal_type, cuisine_type, dietary_restrictions,
		       special_dishes, beverage_preferences, serving_style
		FROM catering_preferences
		WHERE booking_id = $1
	`

	var p entity.CateringPreferences
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, bookingID).Scan(
		&p.ID,
		&p.BookingID,
		&p.MealType,
		&p.CuisineType,
		&p.DietaryRestrictions,
		&p.SpecialDishes,
		&p.BeveragePreferences,
		&p.ServingStyle,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find catering preferences", zap.Error(err), zap.Int64("booking_id", bookingID))
		return nil, fmt.Errorf("find catering preferences for booking %d: %w", bookingID, err)
	}

	return &p, nil
}
