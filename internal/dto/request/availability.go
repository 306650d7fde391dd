package request

type CreateSlotRequest struct {
	VenueID   int64   `json:"venue_id" validate:"required,gt=0"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string  `json:"end_time" validate:"required,datetime=15:04"`
	Notes     *string `json:"notes,omitempty"`
}

type CreateSlotRangeRequest struct {
	VenueID   int64   `json:"venue_id" validate:"required,gt=0"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	StartTime string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string  `json:"end_time" validate:"required,datetime=15:04"`
	Notes     *string `json:"notes,omitempty"`
}

type MaintenanceRequest struct {
	VenueID   int64   `json:"venue_id" validate:"required,gt=0"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string  `json:"end_time" validate:"required,datetime=15:04"`
	Reason    string  `json:"reason" validate:"required,notblank"`
	Notes     *string `json:"notes,omitempty"`
}

type UpdateSlotStatusRequest struct {
	Status            string  `json:"status" validate:"required,oneof=AVAILABLE BOOKED MAINTENANCE BLOCKED"`
	BookingID         *int64  `json:"booking_id,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	MaintenanceReason *string `json:"maintenance_reason,omitempty"`
}

type BulkDeleteRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
}

type SearchSlotsRequest struct {
	VenueID *int64 `json:"venue_id,omitempty"`
	From    string `json:"from" validate:"required,datetime=2006-01-02"`
	To      string `json:"to" validate:"required,datetime=2006-01-02"`
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE BOOKED MAINTENANCE BLOCKED"`
}

type AvailabilityCheckRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}
