package request

import "github.com/shopspring/decimal"

type VenueRequest struct {
	Name        string          `json:"name" validate:"required,notblank,max=100"`
	Type        string          `json:"type" validate:"required,oneof=ROOM HALL"`
	Capacity    int             `json:"capacity" validate:"required,gt=0"`
	Description *string         `json:"description,omitempty"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
}

// VenueQuery carries the optional listing filters from the query string.
type VenueQuery struct {
	Type        string
	MinCapacity int
	MaxRate     *decimal.Decimal
	Name        string
	ActiveOnly  bool
}
