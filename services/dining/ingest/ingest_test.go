package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"beachdining-backend/lib/testutil"
	"beachdining-backend/lib/timezone"
	"beachdining-backend/services/dining/db"
	"beachdining-backend/services/dining/menudoc"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 8, 26, 0, 0, 0, 0, timezone.Location)

func testDocument() menudoc.Document {
	doc := menudoc.New()
	doc.CycleDates["Fall 2024 Cycle Dates"] = []menudoc.CycleDateEntry{
		{WeekOf: "Aug 26", MenuCycle: "1"},
		{WeekOf: "Sept 2", MenuCycle: "2"},
	}
	doc.AlwaysAvailable["Breakfast"] = []string{"Bagels", "Fresh Fruit"}
	doc.DailyMenus["Cycle 2 Menu"] = map[string]menudoc.DayMenu{
		"Monday": {
			"Dinner": {
				"Hillside": {
					"Grilled Chicken": {"M"},
					"Steamed Rice":    {},
				},
				"Beachside": {
					"Pasta Primavera": {"W"},
				},
			},
		},
	}
	doc.Allergens["E"] = "Eggs"
	return doc
}

var allTables = []string{
	"cycle", "day", "meal_type", "location", "menu_item",
	"allergen", "menu_availability", "menu_item_allergen", "always_available",
}

func countAllRows(t *testing.T, database *sql.DB) map[string]int {
	counts := map[string]int{}
	for _, table := range allTables {
		var n int
		err := database.QueryRow(fmt.Sprintf("SELECT count(*) FROM %s", table)).Scan(&n)
		require.NoError(t, err)
		counts[table] = n
	}
	return counts
}

func TestIngestIdempotence(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/dining/ingest",
		DbSchema: db.Schema,
	})
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	doc := testDocument()

	report1, err := Ingest(ctx, setup.DB, doc, Options{Epoch: epoch})
	require.NoError(t, err)
	require.Equal(t, 0, report1.Errors())
	require.Equal(t, 3, report1.Inserted)
	snapshot1 := countAllRows(t, setup.DB)

	report2, err := Ingest(ctx, setup.DB, doc, Options{Epoch: epoch})
	require.NoError(t, err)
	require.Equal(t, 0, report2.Errors())
	require.Equal(t, 0, report2.Inserted)
	require.Equal(t, 3, report2.Skipped)
	snapshot2 := countAllRows(t, setup.DB)

	require.Equal(t, snapshot1, snapshot2)
}

func TestIngestCreatesSevenDaysPerCycle(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/dining/ingest",
		DbSchema: db.Schema,
	})
	defer cleanup()

	ctx := context.Background()
	_, err := Ingest(ctx, setup.DB, testDocument(), Options{Epoch: epoch})
	require.NoError(t, err)

	var cycles, days int
	require.NoError(t, setup.DB.QueryRow("SELECT count(*) FROM cycle").Scan(&cycles))
	require.NoError(t, setup.DB.QueryRow("SELECT count(*) FROM day").Scan(&days))
	require.Equal(t, 2, cycles)
	require.Equal(t, 14, days)
}

func TestIngestNormalizesCycleIdentifiers(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/dining/ingest",
		DbSchema: db.Schema,
	})
	defer cleanup()

	ctx := context.Background()
	_, err := Ingest(ctx, setup.DB, testDocument(), Options{Epoch: epoch})
	require.NoError(t, err)

	// menu_cycle "1" and "2" land on the resolver's 0-based space
	rows, err := setup.DB.Query("SELECT cycle_identifier FROM cycle ORDER BY cycle_id")
	require.NoError(t, err)
	defer rows.Close()
	var identifiers []string
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		identifiers = append(identifiers, id)
	}
	require.Equal(t, []string{"0", "1"}, identifiers)
}

func TestIngestUnknownLocation(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/dining/ingest",
		DbSchema: db.Schema,
	})
	defer cleanup()

	ctx := context.Background()
	doc := testDocument()
	doc.DailyMenus["Cycle 2 Menu"]["Monday"]["Dinner"]["Moonside"] = map[string][]string{
		"Space Cake": {},
	}

	report, err := Ingest(ctx, setup.DB, doc, Options{Epoch: epoch})
	require.NoError(t, err)
	require.Equal(t, 1, report.Errors())
	// the rest of the day survives
	require.Equal(t, 3, report.Inserted)
	require.ErrorContains(t, report.Failures[0].Err, "Moonside")
}

func TestIngestBadWeekOfDate(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/dining/ingest",
		DbSchema: db.Schema,
	})
	defer cleanup()

	ctx := context.Background()
	doc := testDocument()
	doc.CycleDates["Fall 2024 Cycle Dates"] = append(
		doc.CycleDates["Fall 2024 Cycle Dates"],
		menudoc.CycleDateEntry{WeekOf: "sometime soon", MenuCycle: "3"},
	)

	report, err := Ingest(ctx, setup.DB, doc, Options{Epoch: epoch})
	require.NoError(t, err)
	// the malformed entry is fatal for that one entry only
	require.Equal(t, 1, report.Errors())

	var cycles int
	require.NoError(t, setup.DB.QueryRow("SELECT count(*) FROM cycle").Scan(&cycles))
	require.Equal(t, 2, cycles)
}

func TestIngestAllergensOnlyOnFreshAvailability(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/dining/ingest",
		DbSchema: db.Schema,
	})
	defer cleanup()

	ctx := context.Background()
	doc := testDocument()
	_, err := Ingest(ctx, setup.DB, doc, Options{Epoch: epoch})
	require.NoError(t, err)

	var junctions1 int
	require.NoError(t, setup.DB.QueryRow("SELECT count(*) FROM menu_item_allergen").Scan(&junctions1))

	// a second run with extra codes on an existing fact must not touch
	// its associations
	doc.DailyMenus["Cycle 2 Menu"]["Monday"]["Dinner"]["Hillside"]["Grilled Chicken"] = []string{"M", "S"}
	_, err = Ingest(ctx, setup.DB, doc, Options{Epoch: epoch})
	require.NoError(t, err)

	var junctions2 int
	require.NoError(t, setup.DB.QueryRow("SELECT count(*) FROM menu_item_allergen").Scan(&junctions2))
	require.Equal(t, junctions1, junctions2)
}

func TestCycleIdentifierFromLabel(t *testing.T) {
	id, err := cycleIdentifierFromLabel("Cycle 2 Menu")
	require.NoError(t, err)
	require.Equal(t, "1", id)

	_, err = cycleIdentifierFromLabel("Weekend Specials")
	require.Error(t, err)
}
