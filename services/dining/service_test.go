package dining

import (
	"context"
	"testing"
	"time"

	"beachdining-backend/lib/testutil"
	"beachdining-backend/lib/timezone"
	"beachdining-backend/services/dining/db"
	"beachdining-backend/services/dining/ingest"
	"beachdining-backend/services/dining/menudoc"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2024, 8, 26, 0, 0, 0, 0, timezone.Location)

func setupIngestedService(t *testing.T) (Service, func()) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/dining",
		DbSchema: db.Schema,
	})

	doc := menudoc.New()
	doc.CycleDates["Fall 2024 Cycle Dates"] = []menudoc.CycleDateEntry{
		{WeekOf: "Aug 26", MenuCycle: "1"},
		{WeekOf: "Sept 2", MenuCycle: "2"},
	}
	doc.AlwaysAvailable["Breakfast"] = []string{"Bagels"}
	doc.DailyMenus["Cycle 2 Menu"] = map[string]menudoc.DayMenu{
		"Monday": {
			"Dinner": {
				"Hillside": {
					"Grilled Chicken": {"M"},
				},
				"Beachside": {
					"Pasta Primavera": {"W"},
				},
			},
		},
	}

	report, err := ingest.Ingest(context.Background(), setup.DB, doc, ingest.Options{Epoch: testEpoch})
	require.NoError(t, err)
	require.Equal(t, 0, report.Errors())

	return NewService(setup.DB, ResolverConfig{
		Epoch:      testEpoch,
		CycleCount: 5,
	}), cleanup
}

func (s Service) locationIdByName(t *testing.T, name string) int64 {
	locations, err := s.GetLocations(context.Background())
	require.NoError(t, err)
	for _, l := range locations {
		if l.LocationName == name {
			return l.LocationID
		}
	}
	t.Fatalf("no location named %q", name)
	return 0
}

func TestQueryMenuFiltered(t *testing.T) {
	svc, cleanup := setupIngestedService(t)
	defer cleanup()
	ctx := context.Background()

	// 2024-09-02 is one week past the epoch: second cycle, Monday
	hillside := svc.locationIdByName(t, "Hillside")
	menu, err := svc.QueryMenu(ctx, "2024-09-02", []int64{hillside}, nil)
	require.NoError(t, err)

	want := map[string]map[string][]MealItem{
		"Hillside": {
			"Dinner": {
				{ItemName: "Grilled Chicken", Allergens: []string{"Milk"}},
			},
		},
	}
	if diff := cmp.Diff(want, menu); diff != "" {
		t.Fatalf("menu mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryMenuUnfiltered(t *testing.T) {
	svc, cleanup := setupIngestedService(t)
	defer cleanup()

	menu, err := svc.QueryMenu(context.Background(), "2024-09-02", nil, nil)
	require.NoError(t, err)
	require.Contains(t, menu, "Hillside")
	require.Contains(t, menu, "Beachside")
	require.Len(t, menu["Beachside"]["Dinner"], 1)
	require.Equal(t, "Pasta Primavera", menu["Beachside"]["Dinner"][0].ItemName)
}

func TestGetMenuItemsRows(t *testing.T) {
	svc, cleanup := setupIngestedService(t)
	defer cleanup()

	rows, err := svc.GetMenuItems(context.Background(), "2024-09-02", nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Equal(t, "Dinner", row.MealType)
		require.NotZero(t, row.LocationID)
		require.NotZero(t, row.MealTypeID)
	}
}

func TestQueryMenuOutOfSchedule(t *testing.T) {
	svc, cleanup := setupIngestedService(t)
	defer cleanup()

	// resolves to a cycle identifier that was never ingested; an empty
	// result, not an error
	menu, err := svc.QueryMenu(context.Background(), "2024-09-09", nil, nil)
	require.NoError(t, err)
	require.Empty(t, menu)
}

func TestQueryMenuInvalidDate(t *testing.T) {
	svc, cleanup := setupIngestedService(t)
	defer cleanup()

	_, err := svc.QueryMenu(context.Background(), "next tuesday", nil, nil)
	require.Error(t, err)
}

func TestGetAlwaysAvailableItems(t *testing.T) {
	svc, cleanup := setupIngestedService(t)
	defer cleanup()

	items, err := svc.GetAlwaysAvailableItems(context.Background())
	require.NoError(t, err)
	require.Equal(t, []AlwaysAvailableItem{
		{ItemName: "Bagels", MealType: "Breakfast"},
	}, items)
}

func TestReferenceGetters(t *testing.T) {
	svc, cleanup := setupIngestedService(t)
	defer cleanup()
	ctx := context.Background()

	locations, err := svc.GetLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, len(menudoc.Locations))

	meals, err := svc.GetMealTypes(ctx)
	require.NoError(t, err)
	require.Len(t, meals, len(menudoc.MealTypes))

	days, err := svc.GetDays(ctx)
	require.NoError(t, err)
	require.Len(t, days, 14)

	allergens, err := svc.GetAllergens(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(allergens), len(menudoc.SeedAllergens))
}
