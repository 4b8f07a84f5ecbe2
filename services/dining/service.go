// Package dining answers point-in-time menu queries against the
// relational schedule. It is the read interface an external API layer
// consumes; dates outside the configured schedule horizon come back as
// empty results, never errors.
package dining

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"beachdining-backend/services/dining/cycle"
	"beachdining-backend/services/dining/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/dining")

// ResolverConfig anchors the cycle rotation; both values are deployment
// configuration calibrated against known ground truth, not constants.
type ResolverConfig struct {
	Epoch      time.Time
	CycleCount int
}

type Service struct {
	db  *sql.DB
	qry *db.Queries
	cfg ResolverConfig
}

func NewService(database *sql.DB, cfg ResolverConfig) Service {
	return Service{
		db:  database,
		qry: db.New(database),
		cfg: cfg,
	}
}

type AllergenInfo struct {
	ID          int64  `json:"id"`
	Description string `json:"name"`
}

type MenuItemRow struct {
	ItemName   string         `json:"item_name"`
	Location   string         `json:"location"`
	LocationID int64          `json:"location_id"`
	MealType   string         `json:"meal_type"`
	MealTypeID int64          `json:"meal_type_id"`
	Allergens  []AllergenInfo `json:"allergens"`
}

// GetMenuItems resolves the date onto the cycle rotation and returns
// the flat availability rows for that day, optionally filtered by
// location and meal type ids. Date format: YYYY-MM-DD.
func (s Service) GetMenuItems(ctx context.Context, date string, locationIDs, mealTypeIDs []int64) ([]MenuItemRow, error) {
	ctx, span := tracer.Start(ctx, "GetMenuItems")
	defer span.End()
	span.SetAttributes(attribute.String("date", date))

	dayID, ok, err := s.resolveDayId(ctx, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !ok {
		return []MenuItemRow{}, nil
	}

	rows, err := s.qry.ListAvailabilityForDay(ctx, dayID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	locationFilter := idSet(locationIDs)
	mealFilter := idSet(mealTypeIDs)

	result := []MenuItemRow{}
	for _, row := range rows {
		if locationFilter != nil && !locationFilter[row.LocationID] {
			continue
		}
		if mealFilter != nil && !mealFilter[row.MealTypeID] {
			continue
		}

		allergens, err := s.qry.ListAllergensForAvailability(ctx, row.AvailabilityID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		allergenInfo := []AllergenInfo{}
		for _, a := range allergens {
			allergenInfo = append(allergenInfo, AllergenInfo{
				ID:          a.AllergenID,
				Description: a.Description,
			})
		}

		result = append(result, MenuItemRow{
			ItemName:   row.ItemName,
			Location:   row.LocationName,
			LocationID: row.LocationID,
			MealType:   row.MealTypeName,
			MealTypeID: row.MealTypeID,
			Allergens:  allergenInfo,
		})
	}

	return result, nil
}

type MealItem struct {
	ItemName  string   `json:"item_name"`
	Allergens []string `json:"allergens"`
}

// QueryMenu is GetMenuItems re-projected into the nested
// location -> meal -> items shape. Allergens appear as descriptions.
func (s Service) QueryMenu(ctx context.Context, date string, locationIDs, mealTypeIDs []int64) (map[string]map[string][]MealItem, error) {
	ctx, span := tracer.Start(ctx, "QueryMenu")
	defer span.End()

	rows, err := s.GetMenuItems(ctx, date, locationIDs, mealTypeIDs)
	if err != nil {
		return nil, err
	}

	result := map[string]map[string][]MealItem{}
	for _, row := range rows {
		if _, ok := result[row.Location]; !ok {
			result[row.Location] = map[string][]MealItem{}
		}
		allergens := []string{}
		for _, a := range row.Allergens {
			allergens = append(allergens, a.Description)
		}
		result[row.Location][row.MealType] = append(result[row.Location][row.MealType], MealItem{
			ItemName:  row.ItemName,
			Allergens: allergens,
		})
	}

	return result, nil
}

// resolveDayId maps a YYYY-MM-DD date onto its day row, if any. A date
// resolving to no configured cycle or day is a normal outcome.
func (s Service) resolveDayId(ctx context.Context, date string) (int64, bool, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, false, err
	}

	identifier, dayName := cycle.Resolve(parsed, s.cfg.Epoch, s.cfg.CycleCount)

	cycleID, err := s.qry.GetCycleIdByIdentifier(ctx, identifier)
	if err == sql.ErrNoRows {
		slog.DebugContext(ctx, "no cycle for resolved identifier", "date", date, "identifier", identifier)
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	dayID, err := s.qry.GetDayId(ctx, db.GetDayIdParams{
		DayName: dayName,
		CycleID: cycleID,
	})
	if err == sql.ErrNoRows {
		slog.DebugContext(ctx, "no day for resolved cycle", "date", date, "day", dayName, "cycle_id", cycleID)
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return dayID, true, nil
}

func idSet(ids []int64) map[int64]bool {
	if len(ids) == 0 {
		return nil
	}
	set := map[int64]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return set
}

type AlwaysAvailableItem struct {
	ItemName string `json:"item_name"`
	MealType string `json:"meal_type"`
}

func (s Service) GetAlwaysAvailableItems(ctx context.Context) ([]AlwaysAvailableItem, error) {
	ctx, span := tracer.Start(ctx, "GetAlwaysAvailableItems")
	defer span.End()

	rows, err := s.qry.ListAlwaysAvailable(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := []AlwaysAvailableItem{}
	for _, row := range rows {
		result = append(result, AlwaysAvailableItem{
			ItemName: row.ItemName,
			MealType: row.MealTypeName,
		})
	}
	return result, nil
}

func (s Service) GetLocations(ctx context.Context) ([]db.Location, error) {
	ctx, span := tracer.Start(ctx, "GetLocations")
	defer span.End()

	rows, err := s.qry.ListLocations(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return rows, nil
}

func (s Service) GetMealTypes(ctx context.Context) ([]db.MealType, error) {
	ctx, span := tracer.Start(ctx, "GetMealTypes")
	defer span.End()

	rows, err := s.qry.ListMealTypes(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return rows, nil
}

func (s Service) GetDays(ctx context.Context) ([]db.Day, error) {
	ctx, span := tracer.Start(ctx, "GetDays")
	defer span.End()

	rows, err := s.qry.ListDays(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return rows, nil
}

func (s Service) GetAllergens(ctx context.Context) ([]db.Allergen, error) {
	ctx, span := tracer.Start(ctx, "GetAllergens")
	defer span.End()

	rows, err := s.qry.ListAllergens(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return rows, nil
}
