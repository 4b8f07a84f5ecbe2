// Package menudoc holds the canonical in-memory representation of a
// scraped dining schedule. The JSON layout (top-level keys "Cycle Dates",
// "Always Available", "Daily Menus", "Allergens") is the stable contract
// between the scraper and the ingestion engine and doubles as a replay
// artifact for debugging.
package menudoc

import (
	"encoding/json"
	"os"
)

// CycleDateEntry is one row of a cycle-date table: the week it starts
// and which menu cycle is active that week.
type CycleDateEntry struct {
	WeekOf    string `json:"week_of"`
	MenuCycle string `json:"menu_cycle"`
}

// DayMenu maps meal name -> location name -> item name -> allergen codes.
// A repeated item name within one (meal, location) is last-write-wins.
type DayMenu map[string]map[string]map[string][]string

type Document struct {
	// cycle-date table title -> rows
	CycleDates map[string][]CycleDateEntry `json:"Cycle Dates"`
	// meal name -> item names offered every day
	AlwaysAvailable map[string][]string `json:"Always Available"`
	// cycle label (e.g. "Cycle 1 Menu") -> day name -> menu
	DailyMenus map[string]map[string]DayMenu `json:"Daily Menus"`
	// allergen code -> description
	Allergens map[string]string `json:"Allergens"`
}

func New() Document {
	return Document{
		CycleDates:      map[string][]CycleDateEntry{},
		AlwaysAvailable: map[string][]string{},
		DailyMenus:      map[string]map[string]DayMenu{},
		Allergens:       map[string]string{},
	}
}

func Load(path string) (Document, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	doc := New()
	err = json.Unmarshal(contents, &doc)
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (d Document) Save(path string) error {
	contents, err := json.MarshalIndent(d, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}
