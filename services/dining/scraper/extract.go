package scraper

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"beachdining-backend/lib/htmlutil"
	"beachdining-backend/services/dining/menudoc"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html"
)

// ExtractDocument classifies the page's blocks and assembles the full
// schedule document. Unclassified blocks are dropped without comment.
func ExtractDocument(ctx context.Context, page *goquery.Document) menudoc.Document {
	ctx, span := tracer.Start(ctx, "ExtractDocument")
	defer span.End()

	doc := menudoc.New()
	sections := Classify(CollectBlocks(page))

	for _, section := range sections {
		switch section.Role {
		case RoleCycleDates:
			doc.CycleDates[section.Block.Heading] = extractCycleDates(section.Block)

		case RoleAlwaysAvailable:
			extractAlwaysAvailable(section.Block, doc.AlwaysAvailable)

		case RoleAllergenLegend:
			for code, desc := range extractAllergenLegend(section.Block) {
				doc.Allergens[code] = desc
			}

		case RoleDailyMenuCycle:
			if _, ok := doc.DailyMenus[section.Cycle]; !ok {
				doc.DailyMenus[section.Cycle] = map[string]menudoc.DayMenu{}
			}
			if section.Block.Heading == section.Cycle {
				// the "Cycle N Menu" heading block itself carries no days
				continue
			}
			dayName, menu := extractDayMenu(section.Block)
			if dayName == "" {
				slog.DebugContext(ctx, "skipping day block with empty heading", "cycle", section.Cycle)
				continue
			}
			doc.DailyMenus[section.Cycle][dayName] = menu
		}
	}

	span.SetAttributes(
		attribute.Int("cycle_date_tables", len(doc.CycleDates)),
		attribute.Int("daily_menu_cycles", len(doc.DailyMenus)),
		attribute.Int("allergen_codes", len(doc.Allergens)),
	)
	return doc
}

// extractCycleDates reads the week-of/menu-cycle table body.
func extractCycleDates(block Block) []menudoc.CycleDateEntry {
	entries := []menudoc.CycleDateEntry{}

	block.Sel.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		columns := row.Find("td")
		if columns.Length() < 2 {
			return
		}
		entries = append(entries, menudoc.CycleDateEntry{
			WeekOf:    htmlutil.CleanText(columns.Eq(0).Text()),
			MenuCycle: htmlutil.CleanText(columns.Eq(1).Text()),
		})
	})

	return entries
}

// extractAlwaysAvailable reads "X always includes:" headings, each
// followed by a list of items.
func extractAlwaysAvailable(block Block, into map[string][]string) {
	block.Sel.Find("h3").Each(func(_ int, heading *goquery.Selection) {
		meal := htmlutil.CleanText(heading.Text())
		meal = strings.TrimSuffix(meal, " always includes:")

		list := heading.NextAllFiltered("ul").First()
		if list.Length() == 0 {
			return
		}

		var items []string
		list.Find("li").Each(func(_ int, li *goquery.Selection) {
			item := htmlutil.CleanText(li.Text())
			if item != "" {
				items = append(items, item)
			}
		})
		into[meal] = items
	})
}

// extractAllergenLegend reads "<strong>CODE</strong> = Description"
// lines out of the legend card.
func extractAllergenLegend(block Block) map[string]string {
	legend := map[string]string{}

	body := block.Sel.Find("div.card-body").First()
	if body.Length() == 0 {
		body = block.Sel
	}

	body.Find("p strong").Each(func(_ int, strong *goquery.Selection) {
		code := htmlutil.CleanText(strong.Text())
		if code == "" {
			return
		}

		node := strong.Nodes[0]
		sibling := node.NextSibling
		if sibling == nil || sibling.Type != html.TextNode {
			return
		}
		desc := htmlutil.CleanText(strings.Trim(sibling.Data, "= "))
		if desc != "" {
			legend[code] = desc
		}
	})

	return legend
}

// The sibling walk below reconstructs meal -> location -> item nesting
// from a flat run of inline tags: bold opens a meal, italic opens a
// location (or, immediately after an item line, carries its allergen
// codes), and a paragraph's own text is one menu item.

type tokenKind int

const (
	tokenBold tokenKind = iota
	tokenItalic
	tokenLine
)

type token struct {
	kind tokenKind
	text string
}

var inlineExclude = map[string]bool{"strong": true, "b": true, "em": true, "i": true}

// flattenDayBlock linearizes a day card's descendant inline nodes into
// typed tokens in document order. A paragraph that carries trailing
// italic markers yields its item token immediately followed by a single
// italic token holding the marker text, preserving sibling adjacency
// for the state machine.
func flattenDayBlock(sel *goquery.Selection) []token {
	var tokens []token
	for _, root := range sel.Nodes {
		flattenNode(root, &tokens)
	}
	return tokens
}

func flattenNode(node *html.Node, tokens *[]token) {
	if node.Type == html.ElementNode {
		switch node.Data {
		case "strong", "b":
			*tokens = append(*tokens, token{kind: tokenBold, text: htmlutil.CleanText(htmlutil.GetText(node))})
			return
		case "em", "i":
			*tokens = append(*tokens, token{kind: tokenItalic, text: htmlutil.CleanText(htmlutil.GetText(node))})
			return
		case "p", "li":
			flattenParagraph(node, tokens)
			return
		}
	}

	child := node.FirstChild
	for child != nil {
		flattenNode(child, tokens)
		child = child.NextSibling
	}
}

func flattenParagraph(node *html.Node, tokens *[]token) {
	own := htmlutil.CleanText(htmlutil.GetOwnText(node, inlineExclude))

	// bolds nested in the paragraph still open meals
	child := node.FirstChild
	var italics []string
	for child != nil {
		if child.Type == html.ElementNode {
			switch child.Data {
			case "strong", "b":
				*tokens = append(*tokens, token{kind: tokenBold, text: htmlutil.CleanText(htmlutil.GetText(child))})
			case "em", "i":
				italics = append(italics, htmlutil.CleanText(htmlutil.GetText(child)))
			}
		}
		child = child.NextSibling
	}

	if own != "" {
		*tokens = append(*tokens, token{kind: tokenLine, text: own})
	}
	if len(italics) > 0 {
		*tokens = append(*tokens, token{kind: tokenItalic, text: strings.Join(italics, " ")})
	}
}

var allergenCodeRegex = regexp.MustCompile(`\b[A-Z]{1,2}(?:-[A-Z]+)?\b`)

// walkDayTokens runs the two-state sibling walk. Tokens appearing
// before both a meal and a location are set are skipped without error;
// a repeated item name within one (meal, location) is last-write-wins.
func walkDayTokens(tokens []token, mealTypes, locations map[string]bool) menudoc.DayMenu {
	menu := menudoc.DayMenu{}

	currentMeal := ""
	currentLocation := ""
	// name of the item token seen immediately before, for allergen attachment
	lastItem := ""

	for _, tok := range tokens {
		switch tok.kind {
		case tokenBold:
			lastItem = ""
			if !mealTypes[tok.text] {
				continue
			}
			currentMeal = tok.text
			currentLocation = ""
			if _, ok := menu[currentMeal]; !ok {
				menu[currentMeal] = map[string]map[string][]string{}
			}

		case tokenItalic:
			if locations[tok.text] {
				lastItem = ""
				currentLocation = tok.text
				if currentMeal != "" {
					if _, ok := menu[currentMeal][currentLocation]; !ok {
						menu[currentMeal][currentLocation] = map[string][]string{}
					}
				}
				continue
			}
			if lastItem != "" {
				codes := allergenCodeRegex.FindAllString(tok.text, -1)
				if len(codes) > 0 {
					menu[currentMeal][currentLocation][lastItem] = codes
				}
				lastItem = ""
			}

		case tokenLine:
			lastItem = ""
			if tok.text == "" {
				continue
			}
			if currentMeal == "" || currentLocation == "" {
				// item line before any meal/location marker: extraction
				// anomaly, skipped
				continue
			}
			menu[currentMeal][currentLocation][tok.text] = []string{}
			lastItem = tok.text
		}
	}

	return menu
}

// extractDayMenu reads one day's card: the day name is the first
// whitespace-delimited token of the heading, the body is the sibling
// walk.
func extractDayMenu(block Block) (string, menudoc.DayMenu) {
	fields := strings.Fields(block.Heading)
	if len(fields) == 0 {
		return "", nil
	}
	dayName := fields[0]

	mealTypes := map[string]bool{}
	for _, m := range menudoc.MealTypes {
		mealTypes[m] = true
	}
	locations := map[string]bool{}
	for _, l := range menudoc.Locations {
		locations[l] = true
	}

	tokens := flattenDayBlock(block.Sel)
	return dayName, walkDayTokens(tokens, mealTypes, locations)
}
