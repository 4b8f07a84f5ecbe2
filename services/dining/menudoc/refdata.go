package menudoc

// Closed vocabularies of the dining program. The extractor uses these to
// tell meal/location markers apart from noise and the ingestion engine
// seeds them as reference rows.

var MealTypes = []string{"Breakfast", "Brunch", "Lunch", "Dinner"}

var Locations = []string{"Beachside", "Hillside", "Parkside"}

// SeedAllergens is the legend the dining program has published for
// years; the scraped legend is merged over it so a missing or partial
// legend section never leaves codes unresolvable.
var SeedAllergens = map[string]string{
	"E":  "Eggs",
	"M":  "Milk",
	"W":  "Wheat",
	"S":  "Soy",
	"P":  "Peanuts",
	"TN": "Tree Nuts",
	"F":  "Fish",
	"SF": "Crustacean",
	"SS": "Sesame Seeds",
}

// DaysOfWeek in schedule order; every cycle owns one Day row per entry.
var DaysOfWeek = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}
