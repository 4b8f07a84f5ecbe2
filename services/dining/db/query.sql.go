package db

import "context"

// insert-or-ignore plus read-back pairs: reference rows are append-only,
// so callers upsert with Create* and resolve ids with Get*. Create
// methods on the availability fact report whether the row was newly
// created so allergen junctions are only written once.

const createCycle = `
INSERT INTO cycle (cycle_name, cycle_identifier, start_date)
VALUES (?, ?, ?)
ON CONFLICT (cycle_name, cycle_identifier) DO NOTHING
`

type CreateCycleParams struct {
	CycleName       string
	CycleIdentifier string
	StartDate       string
}

func (q *Queries) CreateCycle(ctx context.Context, arg CreateCycleParams) error {
	_, err := q.db.ExecContext(ctx, createCycle, arg.CycleName, arg.CycleIdentifier, arg.StartDate)
	return err
}

const getCycleId = `
SELECT cycle_id FROM cycle WHERE cycle_name = ? AND cycle_identifier = ?
`

type GetCycleIdParams struct {
	CycleName       string
	CycleIdentifier string
}

func (q *Queries) GetCycleId(ctx context.Context, arg GetCycleIdParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, getCycleId, arg.CycleName, arg.CycleIdentifier)
	var cycleID int64
	err := row.Scan(&cycleID)
	return cycleID, err
}

const getCycleIdByIdentifier = `
SELECT cycle_id FROM cycle WHERE cycle_identifier = ? ORDER BY cycle_id LIMIT 1
`

func (q *Queries) GetCycleIdByIdentifier(ctx context.Context, cycleIdentifier string) (int64, error) {
	row := q.db.QueryRowContext(ctx, getCycleIdByIdentifier, cycleIdentifier)
	var cycleID int64
	err := row.Scan(&cycleID)
	return cycleID, err
}

const createDay = `
INSERT INTO day (day_name, cycle_id)
VALUES (?, ?)
ON CONFLICT (day_name, cycle_id) DO NOTHING
`

type CreateDayParams struct {
	DayName string
	CycleID int64
}

func (q *Queries) CreateDay(ctx context.Context, arg CreateDayParams) error {
	_, err := q.db.ExecContext(ctx, createDay, arg.DayName, arg.CycleID)
	return err
}

const getDayId = `
SELECT day_id FROM day WHERE day_name = ? AND cycle_id = ?
`

type GetDayIdParams struct {
	DayName string
	CycleID int64
}

func (q *Queries) GetDayId(ctx context.Context, arg GetDayIdParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, getDayId, arg.DayName, arg.CycleID)
	var dayID int64
	err := row.Scan(&dayID)
	return dayID, err
}

const listDays = `
SELECT day_id, day_name, cycle_id FROM day ORDER BY day_id
`

func (q *Queries) ListDays(ctx context.Context) ([]Day, error) {
	rows, err := q.db.QueryContext(ctx, listDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Day
	for rows.Next() {
		var i Day
		if err := rows.Scan(&i.DayID, &i.DayName, &i.CycleID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createMealType = `
INSERT INTO meal_type (meal_type_name)
VALUES (?)
ON CONFLICT (meal_type_name) DO NOTHING
`

func (q *Queries) CreateMealType(ctx context.Context, mealTypeName string) error {
	_, err := q.db.ExecContext(ctx, createMealType, mealTypeName)
	return err
}

const getMealTypeId = `
SELECT meal_type_id FROM meal_type WHERE meal_type_name = ?
`

func (q *Queries) GetMealTypeId(ctx context.Context, mealTypeName string) (int64, error) {
	row := q.db.QueryRowContext(ctx, getMealTypeId, mealTypeName)
	var mealTypeID int64
	err := row.Scan(&mealTypeID)
	return mealTypeID, err
}

const listMealTypes = `
SELECT meal_type_id, meal_type_name FROM meal_type ORDER BY meal_type_id
`

func (q *Queries) ListMealTypes(ctx context.Context) ([]MealType, error) {
	rows, err := q.db.QueryContext(ctx, listMealTypes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MealType
	for rows.Next() {
		var i MealType
		if err := rows.Scan(&i.MealTypeID, &i.MealTypeName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createLocation = `
INSERT INTO location (location_name)
VALUES (?)
ON CONFLICT (location_name) DO NOTHING
`

func (q *Queries) CreateLocation(ctx context.Context, locationName string) error {
	_, err := q.db.ExecContext(ctx, createLocation, locationName)
	return err
}

const getLocationId = `
SELECT location_id FROM location WHERE location_name = ?
`

func (q *Queries) GetLocationId(ctx context.Context, locationName string) (int64, error) {
	row := q.db.QueryRowContext(ctx, getLocationId, locationName)
	var locationID int64
	err := row.Scan(&locationID)
	return locationID, err
}

const listLocations = `
SELECT location_id, location_name FROM location ORDER BY location_id
`

func (q *Queries) ListLocations(ctx context.Context) ([]Location, error) {
	rows, err := q.db.QueryContext(ctx, listLocations)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Location
	for rows.Next() {
		var i Location
		if err := rows.Scan(&i.LocationID, &i.LocationName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createMenuItem = `
INSERT INTO menu_item (item_name)
VALUES (?)
ON CONFLICT (item_name) DO NOTHING
`

func (q *Queries) CreateMenuItem(ctx context.Context, itemName string) error {
	_, err := q.db.ExecContext(ctx, createMenuItem, itemName)
	return err
}

const getMenuItemId = `
SELECT item_id FROM menu_item WHERE item_name = ?
`

func (q *Queries) GetMenuItemId(ctx context.Context, itemName string) (int64, error) {
	row := q.db.QueryRowContext(ctx, getMenuItemId, itemName)
	var itemID int64
	err := row.Scan(&itemID)
	return itemID, err
}

const createAllergen = `
INSERT INTO allergen (allergen_code, description)
VALUES (?, ?)
ON CONFLICT (allergen_code) DO NOTHING
`

type CreateAllergenParams struct {
	AllergenCode string
	Description  string
}

func (q *Queries) CreateAllergen(ctx context.Context, arg CreateAllergenParams) error {
	_, err := q.db.ExecContext(ctx, createAllergen, arg.AllergenCode, arg.Description)
	return err
}

const getAllergenId = `
SELECT allergen_id FROM allergen WHERE allergen_code = ?
`

func (q *Queries) GetAllergenId(ctx context.Context, allergenCode string) (int64, error) {
	row := q.db.QueryRowContext(ctx, getAllergenId, allergenCode)
	var allergenID int64
	err := row.Scan(&allergenID)
	return allergenID, err
}

const listAllergens = `
SELECT allergen_id, allergen_code, description FROM allergen ORDER BY allergen_id
`

func (q *Queries) ListAllergens(ctx context.Context) ([]Allergen, error) {
	rows, err := q.db.QueryContext(ctx, listAllergens)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Allergen
	for rows.Next() {
		var i Allergen
		if err := rows.Scan(&i.AllergenID, &i.AllergenCode, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createAlwaysAvailable = `
INSERT INTO always_available (meal_type_id, item_id)
VALUES (?, ?)
ON CONFLICT (meal_type_id, item_id) DO NOTHING
`

type CreateAlwaysAvailableParams struct {
	MealTypeID int64
	ItemID     int64
}

func (q *Queries) CreateAlwaysAvailable(ctx context.Context, arg CreateAlwaysAvailableParams) error {
	_, err := q.db.ExecContext(ctx, createAlwaysAvailable, arg.MealTypeID, arg.ItemID)
	return err
}

const listAlwaysAvailable = `
SELECT menu_item.item_name, meal_type.meal_type_name
FROM always_available
JOIN menu_item ON menu_item.item_id = always_available.item_id
JOIN meal_type ON meal_type.meal_type_id = always_available.meal_type_id
ORDER BY meal_type.meal_type_id, menu_item.item_name
`

type ListAlwaysAvailableRow struct {
	ItemName     string
	MealTypeName string
}

func (q *Queries) ListAlwaysAvailable(ctx context.Context) ([]ListAlwaysAvailableRow, error) {
	rows, err := q.db.QueryContext(ctx, listAlwaysAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListAlwaysAvailableRow
	for rows.Next() {
		var i ListAlwaysAvailableRow
		if err := rows.Scan(&i.ItemName, &i.MealTypeName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createAvailability = `
INSERT INTO menu_availability (day_id, meal_type_id, location_id, item_id)
VALUES (?, ?, ?, ?)
ON CONFLICT (day_id, meal_type_id, location_id, item_id) DO NOTHING
`

type CreateAvailabilityParams struct {
	DayID      int64
	MealTypeID int64
	LocationID int64
	ItemID     int64
}

// CreateAvailability upserts a (day, meal, location, item) fact and
// reports whether the row was newly created rather than pre-existing.
func (q *Queries) CreateAvailability(ctx context.Context, arg CreateAvailabilityParams) (bool, error) {
	result, err := q.db.ExecContext(ctx, createAvailability, arg.DayID, arg.MealTypeID, arg.LocationID, arg.ItemID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

const getAvailabilityId = `
SELECT availability_id FROM menu_availability
WHERE day_id = ? AND meal_type_id = ? AND location_id = ? AND item_id = ?
`

type GetAvailabilityIdParams struct {
	DayID      int64
	MealTypeID int64
	LocationID int64
	ItemID     int64
}

func (q *Queries) GetAvailabilityId(ctx context.Context, arg GetAvailabilityIdParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, getAvailabilityId, arg.DayID, arg.MealTypeID, arg.LocationID, arg.ItemID)
	var availabilityID int64
	err := row.Scan(&availabilityID)
	return availabilityID, err
}

const createMenuItemAllergen = `
INSERT INTO menu_item_allergen (availability_id, allergen_id)
VALUES (?, ?)
ON CONFLICT (availability_id, allergen_id) DO NOTHING
`

type CreateMenuItemAllergenParams struct {
	AvailabilityID int64
	AllergenID     int64
}

func (q *Queries) CreateMenuItemAllergen(ctx context.Context, arg CreateMenuItemAllergenParams) error {
	_, err := q.db.ExecContext(ctx, createMenuItemAllergen, arg.AvailabilityID, arg.AllergenID)
	return err
}

const listAvailabilityForDay = `
SELECT menu_availability.availability_id,
       menu_item.item_name,
       location.location_id, location.location_name,
       meal_type.meal_type_id, meal_type.meal_type_name
FROM menu_availability
JOIN menu_item ON menu_item.item_id = menu_availability.item_id
JOIN location ON location.location_id = menu_availability.location_id
JOIN meal_type ON meal_type.meal_type_id = menu_availability.meal_type_id
WHERE menu_availability.day_id = ?
ORDER BY menu_availability.availability_id
`

type ListAvailabilityForDayRow struct {
	AvailabilityID int64
	ItemName       string
	LocationID     int64
	LocationName   string
	MealTypeID     int64
	MealTypeName   string
}

func (q *Queries) ListAvailabilityForDay(ctx context.Context, dayID int64) ([]ListAvailabilityForDayRow, error) {
	rows, err := q.db.QueryContext(ctx, listAvailabilityForDay, dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListAvailabilityForDayRow
	for rows.Next() {
		var i ListAvailabilityForDayRow
		if err := rows.Scan(
			&i.AvailabilityID,
			&i.ItemName,
			&i.LocationID,
			&i.LocationName,
			&i.MealTypeID,
			&i.MealTypeName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listAllergensForAvailability = `
SELECT allergen.allergen_id, allergen.allergen_code, allergen.description
FROM menu_item_allergen
JOIN allergen ON allergen.allergen_id = menu_item_allergen.allergen_id
WHERE menu_item_allergen.availability_id = ?
ORDER BY allergen.allergen_id
`

func (q *Queries) ListAllergensForAvailability(ctx context.Context, availabilityID int64) ([]Allergen, error) {
	rows, err := q.db.QueryContext(ctx, listAllergensForAvailability, availabilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Allergen
	for rows.Next() {
		var i Allergen
		if err := rows.Scan(&i.AllergenID, &i.AllergenCode, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
