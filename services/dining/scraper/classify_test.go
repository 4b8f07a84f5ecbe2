package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestClassifyByHeadingAndId(t *testing.T) {
	blocks := []Block{
		{Heading: "Hours of Operation", ID: "accordion-99999"},
		{Heading: "Fall 2024 Cycle Dates", ID: "accordion-10541566"},
		{Heading: "Daily Offerings", ID: "accordion-10541616"},
		{Heading: "Cycle 1 Menu", ID: ""},
		{Heading: "Monday Menu", ID: "accordion-20001"},
		{Heading: "Tuesday Menu", ID: "accordion-20002"},
		{Heading: "Cycle 2 Menu", ID: ""},
		{Heading: "Monday Menu", ID: "accordion-20011"},
		{Heading: "Allergen Identification", ID: "accordion-10541941"},
	}

	sections := Classify(blocks)
	require.Len(t, sections, len(blocks))

	require.Equal(t, RoleUnclassified, sections[0].Role)
	require.Equal(t, RoleCycleDates, sections[1].Role)
	require.Equal(t, RoleAlwaysAvailable, sections[2].Role)

	require.Equal(t, RoleDailyMenuCycle, sections[3].Role)
	require.Equal(t, "Cycle 1 Menu", sections[3].Cycle)
	require.Equal(t, RoleDailyMenuCycle, sections[4].Role)
	require.Equal(t, "Cycle 1 Menu", sections[4].Cycle)
	require.Equal(t, "Cycle 1 Menu", sections[5].Cycle)

	require.Equal(t, "Cycle 2 Menu", sections[6].Cycle)
	require.Equal(t, "Cycle 2 Menu", sections[7].Cycle)

	require.Equal(t, RoleAllergenLegend, sections[8].Role)
}

func TestClassifyCycleDatesByHeadingKeyword(t *testing.T) {
	sections := Classify([]Block{
		{Heading: "Spring 2025 Cycle Dates", ID: "accordion-55555"},
	})
	require.Equal(t, RoleCycleDates, sections[0].Role)
}

func TestCollectBlocks(t *testing.T) {
	page := `
	<div class="field__item">
		<div class="card-wrap">
			<h2 class="accordion-heading">Fall 2024 Cycle Dates</h2>
			<div id="accordion-10541566"></div>
		</div>
	</div>
	<div class="field__item"><h2>Cycle 1 Menu</h2></div>
	<div class="field__item">
		<div class="card-wrap">
			<h2 class="accordion-heading">Monday  Menu</h2>
			<div id="accordion-20001"></div>
		</div>
		<div class="card-wrap">
			<h2 class="accordion-heading">Tuesday Menu</h2>
			<div id="accordion-20002"></div>
		</div>
	</div>
	`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	blocks := CollectBlocks(doc)
	require.Len(t, blocks, 4)

	require.Equal(t, "Fall 2024 Cycle Dates", blocks[0].Heading)
	require.Equal(t, "accordion-10541566", blocks[0].ID)
	require.Equal(t, "Cycle 1 Menu", blocks[1].Heading)
	// inner whitespace collapses
	require.Equal(t, "Monday Menu", blocks[2].Heading)
	require.Equal(t, "accordion-20002", blocks[3].ID)
}
