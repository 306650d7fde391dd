package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"event-reservation/internal/data/entity"
	"event-reservation/internal/data/repository"
	"event-reservation/internal/dto/request"
	"event-reservation/internal/dto/response"
	"event-reservation/pkg/utils"

	"go.uber.org/zap"
)

type VenueService interface {
	Create(ctx context.Context, req *request.VenueRequest) (*response.VenueResponse, error)
	Update(ctx context.Context, id int64, req *request.VenueRequest) (*response.VenueResponse, error)
	Activate(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*response.VenueResponse, error)
	List(ctx context.Context, query request.VenueQuery) ([]response.VenueResponse, error)
}

type venueService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewVenueService(repo *repository.Repository, log *zap.Logger) VenueService {
	return &venueService{
		repo: repo,
		log:  log.With(zap.String("service", "venue")),
	}
}

func (s *venueService) validate(req *request.VenueRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Venue validation failed", zap.Any("errors", errs))
		return fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}
	if !req.HourlyRate.IsPositive() {
		return fmt.Errorf("%w: hourly_rate must be greater than 0", entity.ErrValidation)
	}
	return nil
}

func (s *venueService) Create(ctx context.Context, req *request.VenueRequest) (*response.VenueResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	venue := &entity.Venue{
		Name:        strings.TrimSpace(req.Name),
		Type:        entity.VenueType(req.Type),
		Capacity:    req.Capacity,
		Description: req.Description,
		HourlyRate:  req.HourlyRate,
		IsActive:    true,
	}

	if err := s.repo.Venue.Create(ctx, venue); err != nil {
		s.log.Error("Failed to create venue", zap.Error(err), zap.String("name", venue.Name))
		return nil, fmt.Errorf("create venue: %w", err)
	}

	s.log.Info("Venue created", zap.Int64("venue_id", venue.ID), zap.String("name", venue.Name))
	resp := response.VenueToResponse(venue)
	return &resp, nil
}

func (s *venueService) Update(ctx context.Context, id int64, req *request.VenueRequest) (*response.VenueResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	venue, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	venue.Name = strings.TrimSpace(req.Name)
	venue.Type = entity.VenueType(req.Type)
	venue.Capacity = req.Capacity
	venue.Description = req.Description
	venue.HourlyRate = req.HourlyRate

	if err := s.repo.Venue.Update(ctx, venue); err != nil {
		return nil, err
	}

	resp := response.VenueToResponse(venue)
	return &resp, nil
}

func (s *venueService) Activate(ctx context.Context, id int64) error {
	return s.setActive(ctx, id, true)
}

// Deactivate hides a venue from new bookings. Venues are never hard-deleted.
func (s *venueService) Deactivate(ctx context.Context, id int64) error {
	return s.setActive(ctx, id, false)
}

func (s *venueService) setActive(ctx context.Context, id int64, active bool) error {
	if err := s.repo.Venue.SetActive(ctx, id, active); err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			s.log.Error("Failed to change venue state", zap.Error(err), zap.Int64("venue_id", id))
		}
		return err
	}
	s.log.Info("Venue state changed", zap.Int64("venue_id", id), zap.Bool("active", active))
	return nil
}

func (s *venueService) Get(ctx context.Context, id int64) (*response.VenueResponse, error) {
	venue, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := response.VenueToResponse(venue)
	return &resp, nil
}

func (s *venueService) List(ctx context.Context, query request.VenueQuery) ([]response.VenueResponse, error) {
	filter := entity.VenueFilter{
		ActiveOnly:  query.ActiveOnly,
		MinCapacity: query.MinCapacity,
		MaxRate:     query.MaxRate,
		Name:        strings.TrimSpace(query.Name),
	}
	if query.Type != "" {
		t := entity.VenueType(strings.ToUpper(query.Type))
		if t != entity.VenueTypeRoom && t != entity.VenueTypeHall {
			return nil, fmt.Errorf("%w: unknown venue type %q", entity.ErrValidation, query.Type)
		}
		filter.Type = t
	}

	venues, err := s.repo.Venue.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list venues", zap.Error(err))
		return nil, fmt.Errorf("list venues: %w", err)
	}
	return response.VenuesToResponse(venues), nil
}

func (s *venueService) find(ctx context.Context, id int64) (*entity.Venue, error) {
	venue, err := s.repo.Venue.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find venue %d: %w", id, err)
	}
	if venue == nil {
		return nil, fmt.Errorf("venue %d: %w", id, entity.ErrNotFound)
	}
	return venue, nil
}
