package response

import (
	"event-reservation/internal/data/entity"
	"event-reservation/pkg/utils"
)

type SlotResponse struct {
	ID                int64                     `json:"id"`
	VenueID           int64                     `json:"venue_id"`
	Date              string                    `json:"date"`
	StartTime         entity.TimeOfDay          `json:"start_time"`
	EndTime           entity.TimeOfDay          `json:"end_time"`
	Status            entity.AvailabilityStatus `json:"status"`
	BookingID         *int64                    `json:"booking_id,omitempty"`
	Notes             *string                   `json:"notes,omitempty"`
	MaintenanceReason *string                   `json:"maintenance_reason,omitempty"`
}

func SlotToResponse(s *entity.AvailabilitySlot) SlotResponse {
	return SlotResponse{
		ID:                s.ID,
		VenueID:           s.VenueID,
		Date:              s.Date.Format(utils.DateLayout),
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
		Status:            s.Status,
		BookingID:         s.BookingID,
		Notes:             s.Notes,
		MaintenanceReason: s.MaintenanceReason,
	}
}

func SlotsToResponse(slots []*entity.AvailabilitySlot) []SlotResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotToResponse(s)
	}
	return out
}

type AvailabilityCheckResponse struct {
	VenueID   int64  `json:"venue_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

// CalendarEntry is a non-available slot shown on the staff calendar.
type CalendarEntry struct {
	SlotResponse
	ReferenceCode string `json:"reference_code,omitempty"`
	EventType     string `json:"event_type,omitempty"`
}

type CalendarResponse struct {
	Month string                     `json:"month"`
	Days  map[string][]CalendarEntry `json:"days"`
}

type AvailabilitySummaryResponse struct {
	AvailableToday   int `json:"available_today"`
	TotalSlotsToday  int `json:"total_slots_today"`
	MaintenanceToday int `json:"maintenance_today"`
	UpcomingBookings int `json:"upcoming_bookings"`
}

type BulkDeleteResponse struct {
	Requested int `json:"requested"`
	Deleted   int `json:"deleted"`
}
