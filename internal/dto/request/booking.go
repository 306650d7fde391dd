package request

type CreateBookingRequest struct {
	VenueID         int64                   `json:"venue_id" validate:"required,gt=0"`
	EventType       string                  `json:"event_type" validate:"required,notblank,max=100"`
	EventDate       string                  `json:"event_date" validate:"required,datetime=2006-01-02"`
	StartTime       string                  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime         string                  `json:"end_time" validate:"required,datetime=15:04"`
	GuestCount      int                     `json:"guest_count" validate:"required,gte=1"`
	SpecialRequests *string                 `json:"special_requests,omitempty"`
	Decor           *DecorPreferencesReq    `json:"decor,omitempty"`
	Catering        *CateringPreferencesReq `json:"catering,omitempty"`
}

type DecorPreferencesReq struct {
	Theme               *string `json:"theme,omitempty" validate:"omitempty,max=100"`
	ColorScheme         *string `json:"color_scheme,omitempty" validate:"omitempty,max=100"`
	FlowerArrangements  *string `json:"flower_arrangements,omitempty"`
	LightingPreferences *string `json:"lighting_preferences,omitempty"`
	AdditionalRequests  *string `json:"additional_requests,omitempty"`
}

type CateringPreferencesReq struct {
	MealType            *string `json:"meal_type,omitempty" validate:"omitempty,oneof=BREAKFAST LUNCH DINNER SNACKS COCKTAILS"`
	CuisineType         *string `json:"cuisine_type,omitempty" validate:"omitempty,max=100"`
	DietaryRestrictions *string `json:"dietary_restrictions,omitempty"`
	SpecialDishes       *string `json:"special_dishes,omitempty"`
	BeveragePreferences *string `json:"beverage_preferences,omitempty"`
	ServingStyle        string  `json:"serving_style,omitempty" validate:"omitempty,oneof=BUFFET PLATED FAMILY_STYLE COCKTAIL"`
}

// UpdateBookingRequest replaces the editable details of a PENDING booking.
// Preferences are only touched when present.
type UpdateBookingRequest struct {
	VenueID         int64                   `json:"venue_id" validate:"required,gt=0"`
	EventType       string                  `json:"event_type" validate:"required,notblank,max=100"`
	EventDate       string                  `json:"event_date" validate:"required,datetime=2006-01-02"`
	StartTime       string                  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime         string                  `json:"end_time" validate:"required,datetime=15:04"`
	GuestCount      int                     `json:"guest_count" validate:"required,gte=1"`
	SpecialRequests *string                 `json:"special_requests,omitempty"`
	Decor           *DecorPreferencesReq    `json:"decor,omitempty"`
	Catering        *CateringPreferencesReq `json:"catering,omitempty"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
}

type AssignCoordinatorRequest struct {
	CoordinatorID int64 `json:"coordinator_id" validate:"required,gt=0"`
}

type CoordinatorUpdateRequest struct {
	CoordinatorNotes *string `json:"coordinator_notes,omitempty"`
	SetupStatus      *string `json:"setup_status,omitempty" validate:"omitempty,max=50"`
}

type CateringUpdateRequest struct {
	CateringNotes  *string `json:"catering_notes,omitempty"`
	CateringStatus *string `json:"catering_status,omitempty" validate:"omitempty,max=50"`
}

type PreferencesRequest struct {
	Decor    *DecorPreferencesReq    `json:"decor,omitempty"`
	Catering *CateringPreferencesReq `json:"catering,omitempty"`
}

// BookingQuery holds staff listing filters; empty fields are ignored.
type BookingQuery struct {
	Status        string
	VenueID       *int64
	CoordinatorID *int64
	From          string
	To            string
	WithCatering  bool
}
