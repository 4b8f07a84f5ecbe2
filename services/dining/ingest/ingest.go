// Package ingest upserts a scraped schedule document into the
// relational store. Runs are idempotent: every entity is keyed on its
// natural unique constraint and re-running over the same document
// produces zero net new rows.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"beachdining-backend/services/dining/db"
	"beachdining-backend/services/dining/menudoc"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/dining/ingest")

type Options struct {
	// Epoch anchors the cycle rotation. Ingestion only needs it as the
	// fallback year for cycle-date tables whose title carries none.
	Epoch time.Time
}

func Ingest(ctx context.Context, database *sql.DB, doc menudoc.Document, opts Options) (Report, error) {
	ctx, span := tracer.Start(ctx, "Ingest")
	defer span.End()

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to begin transaction")
		return Report{}, err
	}
	defer tx.Rollback()

	run := ingestRun{
		qry:    db.New(database).WithTx(tx),
		report: &Report{},
	}

	err = run.ingestCycleDates(ctx, doc.CycleDates, opts.Epoch)
	if err != nil {
		return *run.report, err
	}
	err = run.seedReferenceData(ctx, doc.Allergens)
	if err != nil {
		return *run.report, err
	}
	err = run.ingestAlwaysAvailable(ctx, doc.AlwaysAvailable)
	if err != nil {
		return *run.report, err
	}
	err = run.ingestDailyMenus(ctx, doc.DailyMenus)
	if err != nil {
		return *run.report, err
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to commit ingestion")
		return *run.report, err
	}

	span.SetAttributes(
		attribute.Int("items_processed", run.report.ItemsProcessed),
		attribute.Int("inserted", run.report.Inserted),
		attribute.Int("skipped", run.report.Skipped),
		attribute.Int("errors", run.report.Errors()),
	)
	return *run.report, nil
}

type ingestRun struct {
	qry    *db.Queries
	report *Report
}

var yearRegex = regexp.MustCompile(`\b\d{4}\b`)

// the page writes "Sept", time.Parse wants "Sep"
func fixMonthAbbr(weekOf string) string {
	return strings.ReplaceAll(weekOf, "Sept", "Sep")
}

func (r ingestRun) ingestCycleDates(ctx context.Context, tables map[string][]menudoc.CycleDateEntry, epoch time.Time) error {
	for title, entries := range tables {
		year := yearRegex.FindString(title)
		if year == "" {
			if !epoch.IsZero() {
				year = strconv.Itoa(epoch.Year())
			} else {
				year = "2024"
			}
		}

		for _, entry := range entries {
			weekOf := fixMonthAbbr(entry.WeekOf)
			startDate, err := time.Parse("Jan 2 2006", fmt.Sprintf("%s %s", weekOf, year))
			if err != nil {
				// a malformed week-of string kills this one entry only
				r.report.fail(ItemResult{
					Cycle: title,
					Item:  entry.WeekOf,
					Err:   fmt.Errorf("failed to parse week-of date: %w", err),
				})
				slog.WarnContext(ctx, "skipping cycle-date entry", "table", title, "week_of", entry.WeekOf, "err", err)
				continue
			}

			identifier := normalizeCycleIdentifier(entry.MenuCycle)
			err = r.qry.CreateCycle(ctx, db.CreateCycleParams{
				CycleName:       title,
				CycleIdentifier: identifier,
				StartDate:       startDate.Format("2006-01-02"),
			})
			if err != nil {
				return err
			}
			cycleID, err := r.qry.GetCycleId(ctx, db.GetCycleIdParams{
				CycleName:       title,
				CycleIdentifier: identifier,
			})
			if err != nil {
				return err
			}

			for _, day := range menudoc.DaysOfWeek {
				err = r.qry.CreateDay(ctx, db.CreateDayParams{
					DayName: day,
					CycleID: cycleID,
				})
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r ingestRun) seedReferenceData(ctx context.Context, scrapedAllergens map[string]string) error {
	for _, meal := range menudoc.MealTypes {
		err := r.qry.CreateMealType(ctx, meal)
		if err != nil {
			return err
		}
	}
	for _, location := range menudoc.Locations {
		err := r.qry.CreateLocation(ctx, location)
		if err != nil {
			return err
		}
	}

	legend := map[string]string{}
	for code, desc := range menudoc.SeedAllergens {
		legend[code] = desc
	}
	for code, desc := range scrapedAllergens {
		legend[code] = desc
	}
	for code, desc := range legend {
		err := r.qry.CreateAllergen(ctx, db.CreateAllergenParams{
			AllergenCode: code,
			Description:  desc,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r ingestRun) ingestAlwaysAvailable(ctx context.Context, sections map[string][]string) error {
	for meal, items := range sections {
		mealTypeID, err := r.qry.GetMealTypeId(ctx, meal)
		if err == sql.ErrNoRows {
			for _, item := range items {
				r.report.fail(ItemResult{
					Meal: meal,
					Item: item,
					Err:  fmt.Errorf("unknown meal type %q", meal),
				})
			}
			slog.WarnContext(ctx, "skipping always-available section with unknown meal type", "meal", meal)
			continue
		}
		if err != nil {
			return err
		}

		for _, item := range items {
			err = r.qry.CreateMenuItem(ctx, item)
			if err != nil {
				return err
			}
			itemID, err := r.qry.GetMenuItemId(ctx, item)
			if err != nil {
				return err
			}
			err = r.qry.CreateAlwaysAvailable(ctx, db.CreateAlwaysAvailableParams{
				MealTypeID: mealTypeID,
				ItemID:     itemID,
			})
			if err != nil {
				return err
			}
			r.report.ItemsProcessed++
		}
	}
	return nil
}

func (r ingestRun) ingestDailyMenus(ctx context.Context, cycles map[string]map[string]menudoc.DayMenu) error {
	for label, days := range cycles {
		identifier, err := cycleIdentifierFromLabel(label)
		if err != nil {
			r.failSubtree(days, ItemResult{Cycle: label, Err: err})
			slog.WarnContext(ctx, "skipping daily menu with unparseable cycle label", "label", label, "err", err)
			continue
		}

		cycleID, err := r.qry.GetCycleIdByIdentifier(ctx, identifier)
		if err == sql.ErrNoRows {
			r.failSubtree(days, ItemResult{
				Cycle: label,
				Err:   fmt.Errorf("no cycle row for identifier %q", identifier),
			})
			slog.WarnContext(ctx, "skipping daily menu with unresolvable cycle", "label", label, "identifier", identifier)
			continue
		}
		if err != nil {
			return err
		}

		for day, meals := range days {
			err := r.ingestDay(ctx, label, cycleID, day, meals)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (r ingestRun) ingestDay(ctx context.Context, label string, cycleID int64, day string, meals menudoc.DayMenu) error {
	dayID, err := r.qry.GetDayId(ctx, db.GetDayIdParams{
		DayName: day,
		CycleID: cycleID,
	})
	if err == sql.ErrNoRows {
		for meal, locations := range meals {
			for location, items := range locations {
				for item := range items {
					r.report.fail(ItemResult{
						Cycle: label, Day: day, Meal: meal, Location: location, Item: item,
						Err: fmt.Errorf("no day row for %q", day),
					})
				}
			}
		}
		slog.WarnContext(ctx, "skipping day with unresolvable day row", "cycle", label, "day", day)
		return nil
	}
	if err != nil {
		return err
	}

	for meal, locations := range meals {
		mealTypeID, err := r.qry.GetMealTypeId(ctx, meal)
		if err == sql.ErrNoRows {
			for location, items := range locations {
				for item := range items {
					r.report.fail(ItemResult{
						Cycle: label, Day: day, Meal: meal, Location: location, Item: item,
						Err: fmt.Errorf("unknown meal type %q", meal),
					})
				}
			}
			slog.WarnContext(ctx, "skipping meal with unknown meal type", "cycle", label, "day", day, "meal", meal)
			continue
		}
		if err != nil {
			return err
		}

		for location, items := range locations {
			locationID, err := r.qry.GetLocationId(ctx, location)
			if err == sql.ErrNoRows {
				for item := range items {
					r.report.fail(ItemResult{
						Cycle: label, Day: day, Meal: meal, Location: location, Item: item,
						Err: fmt.Errorf("unknown location %q", location),
					})
				}
				slog.WarnContext(ctx, "skipping location with unknown name", "cycle", label, "day", day, "location", location)
				continue
			}
			if err != nil {
				return err
			}

			for item, allergenCodes := range items {
				err := r.ingestItem(ctx, itemKeys{
					label: label, day: day, meal: meal, location: location, item: item,
					dayID: dayID, mealTypeID: mealTypeID, locationID: locationID,
				}, allergenCodes)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

type itemKeys struct {
	label, day, meal, location, item string
	dayID, mealTypeID, locationID    int64
}

func (r ingestRun) ingestItem(ctx context.Context, keys itemKeys, allergenCodes []string) error {
	err := r.qry.CreateMenuItem(ctx, keys.item)
	if err != nil {
		return err
	}
	itemID, err := r.qry.GetMenuItemId(ctx, keys.item)
	if err != nil {
		return err
	}

	created, err := r.qry.CreateAvailability(ctx, db.CreateAvailabilityParams{
		DayID:      keys.dayID,
		MealTypeID: keys.mealTypeID,
		LocationID: keys.locationID,
		ItemID:     itemID,
	})
	if err != nil {
		return err
	}

	if !created {
		r.report.skip()
		return nil
	}

	// allergen associations are only written when the availability row
	// is new; a pre-existing row already carries them
	availabilityID, err := r.qry.GetAvailabilityId(ctx, db.GetAvailabilityIdParams{
		DayID:      keys.dayID,
		MealTypeID: keys.mealTypeID,
		LocationID: keys.locationID,
		ItemID:     itemID,
	})
	if err != nil {
		return err
	}

	for _, code := range allergenCodes {
		allergenID, err := r.qry.GetAllergenId(ctx, code)
		if err == sql.ErrNoRows {
			slog.WarnContext(ctx, "unknown allergen code on item", "code", code, "item", keys.item)
			continue
		}
		if err != nil {
			return err
		}
		err = r.qry.CreateMenuItemAllergen(ctx, db.CreateMenuItemAllergenParams{
			AvailabilityID: availabilityID,
			AllergenID:     allergenID,
		})
		if err != nil {
			return err
		}
	}

	r.report.insert()
	return nil
}

func (r ingestRun) failSubtree(days map[string]menudoc.DayMenu, base ItemResult) {
	for day, meals := range days {
		for meal, locations := range meals {
			for location, items := range locations {
				for item := range items {
					result := base
					result.Day = day
					result.Meal = meal
					result.Location = location
					result.Item = item
					r.report.fail(result)
				}
			}
		}
	}
}

var cycleLabelRegex = regexp.MustCompile(`Cycle\s+(\d+)`)

// cycleIdentifierFromLabel maps "Cycle N Menu" onto the canonical
// 0-based identifier space shared with the resolver.
func cycleIdentifierFromLabel(label string) (string, error) {
	groups := cycleLabelRegex.FindStringSubmatch(label)
	if len(groups) < 2 {
		return "", fmt.Errorf("no cycle number in label %q", label)
	}
	n, err := strconv.Atoi(groups[1])
	if err != nil {
		return "", err
	}
	return normalizeCycleNumber(n), nil
}

// normalizeCycleIdentifier maps a cycle-date table's menu-cycle column
// value ("1".."N") onto the 0-based identifier space. Non-numeric
// values pass through untouched.
func normalizeCycleIdentifier(raw string) string {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	return normalizeCycleNumber(n)
}

func normalizeCycleNumber(n int) string {
	return strconv.Itoa(n - 1)
}
