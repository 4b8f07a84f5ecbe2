package scraper

import (
	"regexp"
	"strings"

	"beachdining-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type SectionRole int

const (
	RoleUnclassified SectionRole = iota
	RoleCycleDates
	RoleAlwaysAvailable
	RoleDailyMenuCycle
	RoleAllergenLegend
)

// block identifiers the page has used for its special sections; the CMS
// assigns them once and they survive content edits
var cycleDateBlockIds = []string{"accordion-10541566", "accordion-10885581"}

const alwaysAvailableBlockId = "accordion-10541616"
const allergenLegendBlockId = "accordion-10541941"

// Block is one top-level markup block: its heading text, its stable
// block identifier (may be empty) and the markup it spans.
type Block struct {
	Heading string
	ID      string
	Sel     *goquery.Selection
}

// Section is a block tagged with its semantic role. For
// RoleDailyMenuCycle, Cycle carries the owning cycle label; the
// "Cycle N Menu" heading block itself is tagged with the role too and
// is distinguishable by Heading == Cycle.
type Section struct {
	Role  SectionRole
	Cycle string
	Block Block
}

// CollectBlocks walks the page's field items in document order and
// flattens them into heading+id blocks. Accordion cards nested inside a
// field item each become their own block.
func CollectBlocks(doc *goquery.Document) []Block {
	var blocks []Block

	doc.Find("div.field__item").Each(func(_ int, item *goquery.Selection) {
		cards := item.Find("div.card-wrap")
		if cards.Length() > 0 {
			cards.Each(func(_ int, card *goquery.Selection) {
				heading := htmlutil.CleanText(card.Find("h2.accordion-heading").First().Text())
				id := card.Find("div[id]").First().AttrOr("id", "")
				blocks = append(blocks, Block{
					Heading: heading,
					ID:      id,
					Sel:     card,
				})
			})
			return
		}

		heading := htmlutil.CleanText(item.Find("h2").First().Text())
		id := item.AttrOr("id", "")
		if id == "" {
			id = item.Find("div[id]").First().AttrOr("id", "")
		}
		if heading == "" && id == "" {
			return
		}
		blocks = append(blocks, Block{
			Heading: heading,
			ID:      id,
			Sel:     item,
		})
	})

	return blocks
}

var cycleHeadingRegex = regexp.MustCompile(`^Cycle\s+\d+\s+Menu`)

// Classify tags each block with exactly one role. A block matching no
// rule is tagged RoleUnclassified and silently ignored downstream; this
// is a known lossy behavior, not an error.
func Classify(blocks []Block) []Section {
	sections := make([]Section, 0, len(blocks))

	currentCycle := ""
	for _, block := range blocks {
		switch {
		case strings.Contains(block.Heading, "Cycle Dates") || matchesAnyId(block.ID, cycleDateBlockIds):
			sections = append(sections, Section{Role: RoleCycleDates, Block: block})

		case strings.Contains(block.ID, alwaysAvailableBlockId):
			sections = append(sections, Section{Role: RoleAlwaysAvailable, Block: block})

		case cycleHeadingRegex.MatchString(block.Heading):
			currentCycle = block.Heading
			sections = append(sections, Section{Role: RoleDailyMenuCycle, Cycle: currentCycle, Block: block})

		case strings.Contains(block.ID, allergenLegendBlockId):
			sections = append(sections, Section{Role: RoleAllergenLegend, Block: block})

		case currentCycle != "":
			// sibling blocks after a cycle heading are that cycle's day menus
			sections = append(sections, Section{Role: RoleDailyMenuCycle, Cycle: currentCycle, Block: block})

		default:
			sections = append(sections, Section{Role: RoleUnclassified, Block: block})
		}
	}

	return sections
}

func matchesAnyId(id string, known []string) bool {
	for _, k := range known {
		if strings.Contains(id, k) {
			return true
		}
	}
	return false
}
