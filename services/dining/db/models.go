package db

import "database/sql"

type Cycle struct {
	CycleID         int64
	CycleName       string
	CycleIdentifier string
	StartDate       string
}

type Day struct {
	DayID   int64
	DayName string
	CycleID int64
}

type MealType struct {
	MealTypeID   int64
	MealTypeName string
}

type Location struct {
	LocationID   int64
	LocationName string
}

type MenuItem struct {
	ItemID      int64
	ItemName    string
	Description sql.NullString
}

type Allergen struct {
	AllergenID   int64
	AllergenCode string
	Description  string
}

type MenuAvailability struct {
	AvailabilityID int64
	DayID          int64
	MealTypeID     int64
	LocationID     int64
	ItemID         int64
}

type MenuItemAllergen struct {
	AvailabilityID int64
	AllergenID     int64
}

type AlwaysAvailable struct {
	MealTypeID int64
	ItemID     int64
}
