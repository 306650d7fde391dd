package entity

import "time"

type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "AVAILABLE"
	AvailabilityBooked      AvailabilityStatus = "BOOKED"
	AvailabilityMaintenance AvailabilityStatus = "MAINTENANCE"
	AvailabilityBlocked     AvailabilityStatus = "BLOCKED"
)

func (s AvailabilityStatus) Valid() bool {
	switch s {
	case AvailabilityAvailable, AvailabilityBooked, AvailabilityMaintenance, AvailabilityBlocked:
		return true
	}
	return false
}

// AvailabilitySlot is one time window of a venue on a date.
type AvailabilitySlot struct {
	Base
	VenueID           int64              `db:"venue_id"`
	Date              time.Time          `db:"date"`
	StartTime         TimeOfDay          `db:"start_time"`
	EndTime           TimeOfDay          `db:"end_time"`
	Status            AvailabilityStatus `db:"status"`
	BookingID         *int64             `db:"booking_id"`
	Notes             *string            `db:"notes"`
	MaintenanceReason *string            `db:"maintenance_reason"`
}

// Overlaps reports whether the window [start, end) intersects the window
// [existingStart, existingEnd). Windows that only touch do not overlap.
func Overlaps(existingStart, existingEnd, start, end TimeOfDay) bool {
	return (existingStart <= start && start < existingEnd) ||
		(existingStart < end && end <= existingEnd) ||
		(start <= existingStart && existingEnd <= end)
}

func (s *AvailabilitySlot) Overlaps(start, end TimeOfDay) bool {
	return Overlaps(s.StartTime, s.EndTime, start, end)
}

// FindConflicts returns the slots with the given status that overlap [start, end).
func FindConflicts(slots []*AvailabilitySlot, start, end TimeOfDay, status AvailabilityStatus) []*AvailabilitySlot {
	var conflicts []*AvailabilitySlot
	for _, slot := range slots {
		if slot.Status == status && slot.Overlaps(start, end) {
			conflicts = append(conflicts, slot)
		}
	}
	return conflicts
}

// SlotFilter selects slots for search, calendar and summary views.
type SlotFilter struct {
	VenueID *int64
	From    time.Time
	To      time.Time
	Status  AvailabilityStatus
}
