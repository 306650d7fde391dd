package entity

type MealType string

const (
	MealBreakfast MealType = "BREAKFAST"
	MealLunch     MealType = "LUNCH"
	MealDinner    MealType = "DINNER"
	MealSnacks    MealType = "SNACKS"
	MealCocktails MealType = "COCKTAILS"
)

type ServingStyle string

const (
	ServingBuffet      ServingStyle = "BUFFET"
	ServingPlated      ServingStyle = "PLATED"
	ServingFamilyStyle ServingStyle = "FAMILY_STYLE"
	ServingCocktail    ServingStyle = "COCKTAIL"
)

type DecorPreferences struct {
	ID                  int64   `db:"id"`
	BookingID           int64   `db:"booking_id"`
	Theme               *string `db:"theme"`
	ColorScheme         *string `db:"color_scheme"`
	FlowerArrangements  *string `db:"flower_arrangements"`
	LightingPreferences *string `db:"lighting_preferences"`
	AdditionalRequests  *string `db:"additional_requests"`
}

type CateringPreferences struct {
	ID                  int64        `db:"id"`
	BookingID           int64        `db:"booking_id"`
	MealType            *MealType    `db:"meal_type"`
	CuisineType         *string      `db:"cuisine_type"`
	DietaryRestrictions *string      `db:"dietary_restrictions"`
	SpecialDishes       *string      `db:"special_dishes"`
	BeveragePreferences *string      `db:"beverage_preferences"`
	ServingStyle        ServingStyle `db:"serving_style"`
}
