package scraper

import (
	"context"
	"strings"
	"testing"

	"beachdining-backend/services/dining/menudoc"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func nameSet(names ...string) map[string]bool {
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	return set
}

var testMeals = nameSet("Breakfast", "Brunch", "Lunch", "Dinner")
var testLocations = nameSet("Beachside", "Hillside", "Parkside")

func TestWalkDayTokens(t *testing.T) {
	tokens := []token{
		{tokenBold, "Breakfast"},
		{tokenItalic, "Beachside"},
		{tokenLine, "Scrambled Eggs"},
		{tokenItalic, "E"},
		{tokenLine, "Oatmeal"},
		{tokenItalic, "Hillside"},
		{tokenLine, "Pancakes"},
		{tokenItalic, "E M W"},
		{tokenBold, "Dinner"},
		{tokenItalic, "Hillside"},
		{tokenLine, "Grilled Chicken"},
		{tokenItalic, "M"},
	}

	menu := walkDayTokens(tokens, testMeals, testLocations)

	want := menudoc.DayMenu{
		"Breakfast": {
			"Beachside": {
				"Scrambled Eggs": {"E"},
				"Oatmeal":        {},
			},
			"Hillside": {
				"Pancakes": {"E", "M", "W"},
			},
		},
		"Dinner": {
			"Hillside": {
				"Grilled Chicken": {"M"},
			},
		},
	}
	if diff := cmp.Diff(want, menu); diff != "" {
		t.Fatalf("menu mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkDayTokensItemBeforeMarkers(t *testing.T) {
	// an item line before any meal/location marker is skipped and must
	// not disturb the rest of the day
	tokens := []token{
		{tokenLine, "Mystery Meat"},
		{tokenBold, "Lunch"},
		{tokenItalic, "Parkside"},
		{tokenLine, "Tacos"},
	}

	menu := walkDayTokens(tokens, testMeals, testLocations)

	want := menudoc.DayMenu{
		"Lunch": {
			"Parkside": {
				"Tacos": {},
			},
		},
	}
	if diff := cmp.Diff(want, menu); diff != "" {
		t.Fatalf("menu mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkDayTokensLastWriteWins(t *testing.T) {
	tokens := []token{
		{tokenBold, "Lunch"},
		{tokenItalic, "Beachside"},
		{tokenLine, "Pizza"},
		{tokenItalic, "M W"},
		{tokenLine, "Pizza"},
	}

	menu := walkDayTokens(tokens, testMeals, testLocations)
	require.Equal(t, []string{}, menu["Lunch"]["Beachside"]["Pizza"])
}

func TestWalkDayTokensUnknownBoldSkipped(t *testing.T) {
	tokens := []token{
		{tokenBold, "Lunch"},
		{tokenItalic, "Beachside"},
		{tokenBold, "Chef's Note"},
		{tokenLine, "Burrito Bowl"},
	}

	menu := walkDayTokens(tokens, testMeals, testLocations)
	require.Contains(t, menu["Lunch"]["Beachside"], "Burrito Bowl")
}

func TestWalkDayTokensAllergenNotAdjacent(t *testing.T) {
	// an italic that is not immediately after an item line attaches to
	// nothing
	tokens := []token{
		{tokenBold, "Dinner"},
		{tokenItalic, "Hillside"},
		{tokenLine, "Stir Fry"},
		{tokenBold, "Dinner"},
		{tokenItalic, "S"},
	}

	menu := walkDayTokens(tokens, testMeals, testLocations)
	require.Equal(t, []string{}, menu["Dinner"]["Hillside"]["Stir Fry"])
}

const testPage = `
<div class="field__item">
	<div class="card-wrap">
		<h2 class="accordion-heading">Hours of Operation</h2>
		<div id="accordion-99999"><p>8am to 8pm</p></div>
	</div>
</div>
<div class="field__item">
	<div class="card-wrap">
		<h2 class="accordion-heading">Fall 2024 Cycle Dates</h2>
		<div id="accordion-10541566">
			<table><tbody>
				<tr><td>Aug 26</td><td>1</td></tr>
				<tr><td>Sept 2</td><td>2</td></tr>
			</tbody></table>
		</div>
	</div>
</div>
<div class="field__item">
	<div class="card-wrap">
		<h2 class="accordion-heading">Always Available</h2>
		<div id="accordion-10541616">
			<h3>Breakfast always includes:</h3>
			<ul><li>Bagels</li><li>Fresh Fruit</li></ul>
			<h3>Lunch always includes:</h3>
			<ul><li>Salad Bar</li></ul>
		</div>
	</div>
</div>
<div class="field__item"><h2>Cycle 1 Menu</h2></div>
<div class="field__item">
	<div class="card-wrap">
		<h2 class="accordion-heading">Monday Menu</h2>
		<div id="accordion-20001">
			<p><strong>Breakfast</strong></p>
			<p><em>Beachside</em></p>
			<p>Scrambled Eggs <em>E</em></p>
			<p>Oatmeal</p>
			<p><strong>Dinner</strong></p>
			<p><em>Hillside</em></p>
			<p>Grilled Chicken <em>M</em></p>
		</div>
	</div>
</div>
<div class="field__item">
	<div class="card-wrap">
		<h2 class="accordion-heading">Allergen Identification</h2>
		<div id="accordion-10541941">
			<div class="card-body row">
				<p><strong>E</strong> = Eggs</p>
				<p><strong>TN</strong> = Tree Nuts</p>
			</div>
		</div>
	</div>
</div>
`

func TestExtractDocument(t *testing.T) {
	page, err := goquery.NewDocumentFromReader(strings.NewReader(testPage))
	require.NoError(t, err)

	doc := ExtractDocument(context.Background(), page)

	wantCycleDates := map[string][]menudoc.CycleDateEntry{
		"Fall 2024 Cycle Dates": {
			{WeekOf: "Aug 26", MenuCycle: "1"},
			{WeekOf: "Sept 2", MenuCycle: "2"},
		},
	}
	if diff := cmp.Diff(wantCycleDates, doc.CycleDates); diff != "" {
		t.Fatalf("cycle dates mismatch (-want +got):\n%s", diff)
	}

	wantAlways := map[string][]string{
		"Breakfast": {"Bagels", "Fresh Fruit"},
		"Lunch":     {"Salad Bar"},
	}
	if diff := cmp.Diff(wantAlways, doc.AlwaysAvailable); diff != "" {
		t.Fatalf("always available mismatch (-want +got):\n%s", diff)
	}

	wantDaily := map[string]map[string]menudoc.DayMenu{
		"Cycle 1 Menu": {
			"Monday": {
				"Breakfast": {
					"Beachside": {
						"Scrambled Eggs": {"E"},
						"Oatmeal":        {},
					},
				},
				"Dinner": {
					"Hillside": {
						"Grilled Chicken": {"M"},
					},
				},
			},
		},
	}
	if diff := cmp.Diff(wantDaily, doc.DailyMenus); diff != "" {
		t.Fatalf("daily menus mismatch (-want +got):\n%s", diff)
	}

	wantAllergens := map[string]string{
		"E":  "Eggs",
		"TN": "Tree Nuts",
	}
	if diff := cmp.Diff(wantAllergens, doc.Allergens); diff != "" {
		t.Fatalf("allergen legend mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractDocumentDropsUnclassifiedSilently(t *testing.T) {
	page, err := goquery.NewDocumentFromReader(strings.NewReader(testPage))
	require.NoError(t, err)

	doc := ExtractDocument(context.Background(), page)

	// the hours block appears nowhere in the document
	for title := range doc.CycleDates {
		require.NotContains(t, title, "Hours")
	}
	require.NotContains(t, doc.DailyMenus, "Hours of Operation")
}
