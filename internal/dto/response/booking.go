package response

import (
	"time"

	"event-reservation/internal/data/entity"
	"event-reservation/pkg/utils"

	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID                    int64                `json:"id"`
	ReferenceCode         string               `json:"reference_code"`
	GuestID               int64                `json:"guest_id"`
	VenueID               int64                `json:"venue_id"`
	VenueName             string               `json:"venue_name,omitempty"`
	EventType             string               `json:"event_type"`
	EventDate             string               `json:"event_date"`
	StartTime             entity.TimeOfDay     `json:"start_time"`
	EndTime               entity.TimeOfDay     `json:"end_time"`
	GuestCount            int                  `json:"guest_count"`
	TotalCost             decimal.Decimal      `json:"total_cost"`
	Status                entity.BookingStatus `json:"status"`
	QRPayload             string               `json:"qr_payload"`
	SpecialRequests       *string              `json:"special_requests,omitempty"`
	AssignedCoordinatorID *int64               `json:"assigned_coordinator_id,omitempty"`
	CoordinatorNotes      *string              `json:"coordinator_notes,omitempty"`
	SetupStatus           *string              `json:"setup_status,omitempty"`
	CateringNotes         *string              `json:"catering_notes,omitempty"`
	CateringStatus        *string              `json:"catering_status,omitempty"`
	Decor                 *DecorResponse       `json:"decor,omitempty"`
	Catering              *CateringResponse    `json:"catering,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
}

type DecorResponse struct {
	Theme               *string `json:"theme,omitempty"`
	ColorScheme         *string `json:"color_scheme,omitempty"`
	FlowerArrangements  *string `json:"flower_arrangements,omitempty"`
	LightingPreferences *string `json:"lighting_preferences,omitempty"`
	AdditionalRequests  *string `json:"additional_requests,omitempty"`
}

type CateringResponse struct {
	MealType            *entity.MealType    `json:"meal_type,omitempty"`
	CuisineType         *string             `json:"cuisine_type,omitempty"`
	DietaryRestrictions *string             `json:"dietary_restrictions,omitempty"`
	SpecialDishes       *string             `json:"special_dishes,omitempty"`
	BeveragePreferences *string             `json:"beverage_preferences,omitempty"`
	ServingStyle        entity.ServingStyle `json:"serving_style"`
}

// BookingVerificationResponse is the public view behind a QR code scan.
type BookingVerificationResponse struct {
	ReferenceCode string               `json:"reference_code"`
	Valid         bool                 `json:"valid"`
	Status        entity.BookingStatus `json:"status"`
	VenueName     string               `json:"venue_name,omitempty"`
	EventType     string               `json:"event_type"`
	EventDate     string               `json:"event_date"`
	StartTime     entity.TimeOfDay     `json:"start_time"`
	EndTime       entity.TimeOfDay     `json:"end_time"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:                    b.ID,
		ReferenceCode:         b.ReferenceCode,
		GuestID:               b.GuestID,
		VenueID:               b.VenueID,
		EventType:             b.EventType,
		EventDate:             b.EventDate.Format(utils.DateLayout),
		StartTime:             b.StartTime,
		EndTime:               b.EndTime,
		GuestCount:            b.GuestCount,
		TotalCost:             b.TotalCost,
		Status:                b.Status,
		QRPayload:             b.QRPayload,
		SpecialRequests:       b.SpecialRequests,
		AssignedCoordinatorID: b.AssignedCoordinatorID,
		CoordinatorNotes:      b.CoordinatorNotes,
		SetupStatus:           b.SetupStatus,
		CateringNotes:         b.CateringNotes,
		CateringStatus:        b.CateringStatus,
		CreatedAt:             b.CreatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = BookingToResponse(b)
	}
	return out
}

func DecorToResponse(p *entity.DecorPreferences) *DecorResponse {
	if p == nil {
		return nil
	}
	return &DecorResponse{
		Theme:               p.Theme,
		ColorScheme:         p.ColorScheme,
		FlowerArrangements:  p.FlowerArrangements,
		LightingPreferences: p.LightingPreferences,
		AdditionalRequests:  p.AdditionalRequests,
	}
}

func CateringToResponse(p *entity.CateringPreferences) *CateringResponse {
	if p == nil {
		return nil
	}
	return &CateringResponse{
		MealType:            p.MealType,
		CuisineType:         p.CuisineType,
		DietaryRestrictions: p.DietaryRestrictions,
		SpecialDishes:       p.SpecialDishes,
		BeveragePreferences: p.BeveragePreferences,
		ServingStyle:        p.ServingStyle,
	}
}
