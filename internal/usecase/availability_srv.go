package usecase

import (
	"context"
	"fmt"
	"time"

	"event-reservation/internal/data/entity"
	"event-reservation/internal/data/repository"
	"event-reservation/internal/dto/request"
	"event-reservation/internal/dto/response"
	"event-reservation/pkg/database"
	"event-reservation/pkg/utils"

	"go.uber.org/zap"
)

// maxSlotRangeDays caps how many days one range request may populate.
const maxSlotRangeDays = 366

type AvailabilityService interface {
	// Staff writes
	CreateSlot(ctx context.Context, req *request.CreateSlotRequest) (*response.SlotResponse, error)
	CreateSlots(ctx context.Context, req *request.CreateSlotRangeRequest) ([]response.SlotResponse, error)
	BlockForMaintenance(ctx context.Context, req *request.MaintenanceRequest) (*response.SlotResponse, error)
	UpdateStatus(ctx context.Context, slotID int64, req *request.UpdateSlotStatusRequest) (*response.SlotResponse, error)
	DeleteSlot(ctx context.Context, slotID int64) error
	BulkDelete(ctx context.Context, req *request.BulkDeleteRequest) (*response.BulkDeleteResponse, error)

	// Reads
	GetSlot(ctx context.Context, slotID int64) (*response.SlotResponse, error)
	IsVenueAvailable(ctx context.Context, venueID int64, date time.Time, start, end entity.TimeOfDay) (bool, error)
	CheckAvailability(ctx context.Context, venueID int64, req *request.AvailabilityCheckRequest) (*response.AvailabilityCheckResponse, error)
	VenueDay(ctx context.Context, venueID int64, date string) ([]response.SlotResponse, error)
	Search(ctx context.Context, req *request.SearchSlotsRequest) ([]response.SlotResponse, error)
	Calendar(ctx context.Context, month string, venueID *int64) (*response.CalendarResponse, error)
	Summary(ctx context.Context) (*response.AvailabilitySummaryResponse, error)
}

type availabilityService struct {
	repo *repository.Repository
	tx   database.Transactor
	log  *zap.Logger
	now  func() time.Time
}

func NewAvailabilityService(repo *repository.Repository, tx database.Transactor, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		tx:   tx,
		log:  log.With(zap.String("service", "availability")),
		now:  time.Now,
	}
}

// slotWindow is a parsed and checked venue/date/time request.
type slotWindow struct {
	venueID int64
	date    time.Time
	start   entity.TimeOfDay
	end     entity.TimeOfDay
}

func parseWindow(venueID int64, date, start, end string) (slotWindow, error) {
	d, err := utils.ParseDate(date)
	if err != nil {
		return slotWindow{}, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}
	s, err := entity.ParseTimeOfDay(start)
	if err != nil {
		return slotWindow{}, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}
	e, err := entity.ParseTimeOfDay(end)
	if err != nil {
		return slotWindow{}, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}
	if s >= e {
		return slotWindow{}, fmt.Errorf("%w: start_time must be before end_time", entity.ErrValidation)
	}
	return slotWindow{venueID: venueID, date: d, start: s, end: e}, nil
}

func (s *availabilityService) validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Availability validation failed", zap.Any("errors", errs))
		return fmt.Errorf("%w: %s", entity.ErrValidation, utils.FormatValidationErrors(errs))
	}
	return nil
}

func (s *availabilityService) requireVenue(ctx context.Context, venueID int64) error {
	venue, err := s.repo.Venue.FindByID(ctx, venueID)
	if err != nil {
		return fmt.Errorf("find venue %d: %w", venueID, err)
	}
	if venue == nil {
		return fmt.Errorf("venue %d: %w", venueID, entity.ErrNotFound)
	}
	return nil
}

func (s *availabilityService) CreateSlot(ctx context.Context, req *request.CreateSlotRequest) (*response.SlotResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	w, err := parseWindow(req.VenueID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if err := s.requireVenue(ctx, w.venueID); err != nil {
		return nil, err
	}

	slot, err := s.createBlocked(ctx, w, req.Notes)
	if err != nil {
		return nil, err
	}

	resp := response.SlotToResponse(slot)
	return &resp, nil
}

// createBlocked stores a manually created slot. Manual slots block time; they
// are rejected only when an AVAILABLE slot already covers part of the window.
func (s *availabilityService) createBlocked(ctx context.Context, w slotWindow, notes *string) (*entity.AvailabilitySlot, error) {
	slot := &entity.AvailabilitySlot{
		VenueID:   w.venueID,
		Date:      w.date,
		StartTime: w.start,
		EndTime:   w.end,
		Status:    entity.AvailabilityBlocked,
		Notes:     notes,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.repo.Availability.LockVenueDay(ctx, w.venueID, w.date)
		if err != nil {
			return err
		}
		if conflicts := entity.FindConflicts(existing, w.start, w.end, entity.AvailabilityAvailable); len(conflicts) > 0 {
			return fmt.Errorf("time slot overlaps available slot %d: %w", conflicts[0].ID, entity.ErrConflict)
		}
		return s.repo.Availability.Create(ctx, slot)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Availability slot created (BLOCKED)",
		zap.Int64("venue_id", w.venueID),
		zap.String("date", w.date.Format(utils.DateLayout)),
		zap.Int64("slot_id", slot.ID))
	return slot, nil
}

// CreateSlots creates one slot per day of the inclusive range. Days that fail
// are logged and skipped.
func (s *availabilityService) CreateSlots(ctx context.Context, req *request.CreateSlotRangeRequest) ([]response.SlotResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	first, err := parseWindow(req.VenueID, req.StartDate, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	last, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}
	if last.Before(first.date) {
		return nil, fmt.Errorf("%w: end_date must not be before start_date", entity.ErrValidation)
	}
	if last.Sub(first.date) >= maxSlotRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: date range exceeds %d days", entity.ErrValidation, maxSlotRangeDays)
	}
	if err := s.requireVenue(ctx, first.venueID); err != nil {
		return nil, err
	}

	created := make([]response.SlotResponse, 0)
	for day := first.date; !day.After(last); day = day.AddDate(0, 0, 1) {
		w := first
		w.date = day
		slot, err := s.createBlocked(ctx, w, req.Notes)
		if err != nil {
			s.log.Warn("Failed to create slot",
				zap.Error(err),
				zap.Int64("venue_id", w.venueID),
				zap.String("date", day.Format(utils.DateLayout)))
			continue
		}
		created = append(created, response.SlotToResponse(slot))
	}

	return created, nil
}

func (s *availabilityService) BlockForMaintenance(ctx context.Context, req *request.MaintenanceRequest) (*response.SlotResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	w, err := parseWindow(req.VenueID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if err := s.requireVenue(ctx, w.venueID); err != nil {
		return nil, err
	}

	reason := req.Reason
	slot := &entity.AvailabilitySlot{
		VenueID:           w.venueID,
		Date:              w.date,
		StartTime:         w.start,
		EndTime:           w.end,
		Status:            entity.AvailabilityMaintenance,
		Notes:             req.Notes,
		MaintenanceReason: &reason,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Availability.LockVenueDay(ctx, w.venueID, w.date); err != nil {
			return err
		}
		return s.repo.Availability.Create(ctx, slot)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Venue blocked for maintenance",
		zap.Int64("venue_id", w.venueID),
		zap.String("date", w.date.Format(utils.DateLayout)))

	resp := response.SlotToResponse(slot)
	return &resp, nil
}

// UpdateStatus overwrites the slot's status and annotations without any
// transition check.
func (s *availabilityService) UpdateStatus(ctx context.Context, slotID int64, req *request.UpdateSlotStatusRequest) (*response.SlotResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	slot, err := s.findSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	slot.Status = entity.AvailabilityStatus(req.Status)
	slot.BookingID = req.BookingID
	slot.Notes = req.Notes
	slot.MaintenanceReason = req.MaintenanceReason

	if err := s.repo.Availability.Update(ctx, slot); err != nil {
		return nil, err
	}

	s.log.Info("Availability status updated", zap.Int64("slot_id", slotID), zap.String("status", req.Status))
	resp := response.SlotToResponse(slot)
	return &resp, nil
}

func (s *availabilityService) DeleteSlot(ctx context.Context, slotID int64) error {
	slot, err := s.findSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if slot.Status == entity.AvailabilityBooked {
		return fmt.Errorf("slot %d is booked and cannot be deleted: %w", slotID, entity.ErrInvalidState)
	}

	if err := s.repo.Availability.Delete(ctx, slotID); err != nil {
		return err
	}

	s.log.Info("Availability slot deleted", zap.Int64("slot_id", slotID))
	return nil
}

// BulkDelete deletes what it can and reports how many slots went away.
func (s *availabilityService) BulkDelete(ctx context.Context, req *request.BulkDeleteRequest) (*response.BulkDeleteResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	deleted := 0
	for _, id := range req.IDs {
		if err := s.DeleteSlot(ctx, id); err != nil {
			s.log.Warn("Failed to delete slot", zap.Error(err), zap.Int64("slot_id", id))
			continue
		}
		deleted++
	}

	return &response.BulkDeleteResponse{Requested: len(req.IDs), Deleted: deleted}, nil
}

func (s *availabilityService) GetSlot(ctx context.Context, slotID int64) (*response.SlotResponse, error) {
	slot, err := s.findSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	resp := response.SlotToResponse(slot)
	return &resp, nil
}

// IsVenueAvailable is true when no AVAILABLE slot overlaps the window.
func (s *availabilityService) IsVenueAvailable(ctx context.Context, venueID int64, date time.Time, start, end entity.TimeOfDay) (bool, error) {
	slots, err := s.repo.Availability.FindByVenueAndDate(ctx, venueID, date)
	if err != nil {
		return false, err
	}
	return len(entity.FindConflicts(slots, start, end, entity.AvailabilityAvailable)) == 0, nil
}

func (s *availabilityService) CheckAvailability(ctx context.Context, venueID int64, req *request.AvailabilityCheckRequest) (*response.AvailabilityCheckResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	w, err := parseWindow(venueID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if err := s.requireVenue(ctx, venueID); err != nil {
		return nil, err
	}

	available, err := s.IsVenueAvailable(ctx, venueID, w.date, w.start, w.end)
	if err != nil {
		return nil, err
	}

	return &response.AvailabilityCheckResponse{
		VenueID:   venueID,
		Date:      req.Date,
		StartTime: w.start.String(),
		EndTime:   w.end.String(),
		Available: available,
	}, nil
}

// VenueDay lists a venue's AVAILABLE slots on a date. Bookings treat those
// windows as taken, so this is what a guest has to plan around.
func (s *availabilityService) VenueDay(ctx context.Context, venueID int64, date string) ([]response.SlotResponse, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}

	slots, err := s.repo.Availability.Search(ctx, entity.SlotFilter{
		VenueID: &venueID,
		From:    day,
		To:      day,
		Status:  entity.AvailabilityAvailable,
	})
	if err != nil {
		return nil, err
	}
	return response.SlotsToResponse(slots), nil
}

func (s *availabilityService) Search(ctx context.Context, req *request.SearchSlotsRequest) ([]response.SlotResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	from, err := utils.ParseDate(req.From)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}
	to, err := utils.ParseDate(req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrValidation, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to must not be before from", entity.ErrValidation)
	}

	slots, err := s.repo.Availability.Search(ctx, entity.SlotFilter{
		VenueID: req.VenueID,
		From:    from,
		To:      to,
		Status:  entity.AvailabilityStatus(req.Status),
	})
	if err != nil {
		return nil, err
	}
	return response.SlotsToResponse(slots), nil
}

// Calendar returns the month's unavailable slots grouped by date. BOOKED
// entries carry the booking's reference code and event type.
func (s *availabilityService) Calendar(ctx context.Context, month string, venueID *int64) (*response.CalendarResponse, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid month %q", entity.ErrValidation, month)
	}
	end := start.AddDate(0, 1, -1)

	slots, err := s.repo.Availability.Search(ctx, entity.SlotFilter{VenueID: venueID, From: start, To: end})
	if err != nil {
		return nil, err
	}

	var bookingIDs []int64
	unavailable := make([]*entity.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Status == entity.AvailabilityAvailable {
			continue
		}
		unavailable = append(unavailable, slot)
		if slot.Status == entity.AvailabilityBooked && slot.BookingID != nil {
			bookingIDs = append(bookingIDs, *slot.BookingID)
		}
	}

	bookings := make(map[int64]*entity.Booking, len(bookingIDs))
	if len(bookingIDs) > 0 {
		found, err := s.repo.Booking.FindByIDs(ctx, bookingIDs)
		if err != nil {
			return nil, err
		}
		for _, b := range found {
			bookings[b.ID] = b
		}
	}

	resp := &response.CalendarResponse{
		Month: start.Format("2006-01"),
		Days:  make(map[string][]response.CalendarEntry),
	}
	for _, slot := range unavailable {
		entry := response.CalendarEntry{SlotResponse: response.SlotToResponse(slot)}
		if slot.BookingID != nil {
			if b, ok := bookings[*slot.BookingID]; ok {
				entry.ReferenceCode = b.ReferenceCode
				entry.EventType = b.EventType
			}
		}
		day := slot.Date.Format(utils.DateLayout)
		resp.Days[day] = append(resp.Days[day], entry)
	}

	s.log.Debug("Calendar built", zap.String("month", resp.Month), zap.Int("slots", len(unavailable)))
	return resp, nil
}

// Summary counts today's slots and the BOOKED slots of the coming week.
// Total slots today leaves BLOCKED slots out.
func (s *availabilityService) Summary(ctx context.Context) (*response.AvailabilitySummaryResponse, error) {
	today := utils.TruncateDay(s.now())

	todays, err := s.repo.Availability.Search(ctx, entity.SlotFilter{From: today, To: today})
	if err != nil {
		return nil, err
	}

	summary := &response.AvailabilitySummaryResponse{}
	for _, slot := range todays {
		switch slot.Status {
		case entity.AvailabilityAvailable:
			summary.AvailableToday++
			summary.TotalSlotsToday++
		case entity.AvailabilityBooked:
			summary.TotalSlotsToday++
		case entity.AvailabilityMaintenance:
			summary.MaintenanceToday++
			summary.TotalSlotsToday++
		}
	}

	upcoming, err := s.repo.Availability.Search(ctx, entity.SlotFilter{
		From:   today,
		To:     today.AddDate(0, 0, 7),
		Status: entity.AvailabilityBooked,
	})
	if err != nil {
		return nil, err
	}
	summary.UpcomingBookings = len(upcoming)

	return summary, nil
}

func (s *availabilityService) findSlot(ctx context.Context, slotID int64) (*entity.AvailabilitySlot, error) {
	slot, err := s.repo.Availability.FindByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("find slot %d: %w", slotID, err)
	}
	if slot == nil {
		return nil, fmt.Errorf("slot %d: %w", slotID, entity.ErrNotFound)
	}
	return slot, nil
}
