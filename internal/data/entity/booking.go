package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransitionTo follows PENDING -> CONFIRMED -> COMPLETED with
// cancellation allowed from PENDING and CONFIRMED.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether a guest may still cancel.
func (s BookingStatus) Cancellable() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type Booking struct {
	Base
	GuestID               int64           `db:"guest_id"`
	VenueID               int64           `db:"venue_id"`
	EventType             string          `db:"event_type"`
	EventDate             time.Time       `db:"event_date"`
	StartTime             TimeOfDay       `db:"start_time"`
	EndTime               TimeOfDay       `db:"end_time"`
	GuestCount            int             `db:"guest_count"`
	TotalCost             decimal.Decimal `db:"total_cost"`
	Status                BookingStatus   `db:"status"`
	ReferenceCode         string          `db:"reference_code"`
	QRPayload             string          `db:"qr_payload"`
	SpecialRequests       *string         `db:"special_requests"`
	AssignedCoordinatorID *int64          `db:"assigned_coordinator_id"`
	CoordinatorNotes      *string         `db:"coordinator_notes"`
	SetupStatus           *string         `db:"setup_status"`
	CateringNotes         *string         `db:"catering_notes"`
	CateringStatus        *string         `db:"catering_status"`
}

// CalculateTotalCost charges the hourly rate for each complete hour booked.
// Partial hours are not billed.
func CalculateTotalCost(hourlyRate decimal.Decimal, start, end TimeOfDay) decimal.Decimal {
	return hourlyRate.Mul(decimal.NewFromInt(WholeHoursBetween(start, end)))
}

// BookingFilter selects staff booking listings; zero values are ignored.
type BookingFilter struct {
	Status        BookingStatus
	VenueID       *int64
	CoordinatorID *int64
	From          *time.Time
	To            *time.Time
	WithCatering  bool
}
