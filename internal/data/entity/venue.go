package entity

import "github.com/shopspring/decimal"

type VenueType string

const (
	VenueTypeRoom VenueType = "ROOM"
	VenueTypeHall VenueType = "HALL"
)

type Venue struct {
	Base
	Name        string          `db:"name" json:"name"`
	Type        VenueType       `db:"type" json:"type"`
	Capacity    int             `db:"capacity" json:"capacity"`
	Description *string         `db:"description" json:"description,omitempty"`
	HourlyRate  decimal.Decimal `db:"hourly_rate" json:"hourly_rate"`
	IsActive    bool            `db:"is_active" json:"is_active"`
}

// VenueFilter narrows venue listings; zero values are ignored.
type VenueFilter struct {
	ActiveOnly  bool
	Type        VenueType
	MinCapacity int
	MaxRate     *decimal.Decimal
	Name        string
}
