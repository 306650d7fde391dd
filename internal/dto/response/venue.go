package response

import (
	"event-reservation/internal/data/entity"

	"github.com/shopspring/decimal"
)

type VenueResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Type        entity.VenueType `json:"type"`
	Capacity    int              `json:"capacity"`
	Description *string          `json:"description,omitempty"`
	HourlyRate  decimal.Decimal  `json:"hourly_rate"`
	IsActive    bool             `json:"is_active"`
}

func VenueToResponse(v *entity.Venue) VenueResponse {
	return VenueResponse{
		ID:          v.ID,
		Name:        v.Name,
		Type:        v.Type,
		Capacity:    v.Capacity,
		Description: v.Description,
		HourlyRate:  v.HourlyRate,
		IsActive:    v.IsActive,
	}
}

func VenuesToResponse(venues []*entity.Venue) []VenueResponse {
	out := make([]VenueResponse, len(venues))
	for i, v := range venues {
		out[i] = VenueToResponse(v)
	}
	return out
}
