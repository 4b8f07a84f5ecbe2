package commands

import (
	"os"

	"beachdining-backend/lib/serviceutil"
	"beachdining-backend/lib/sqliteutil"
	"beachdining-backend/services/dining"
	"beachdining-backend/services/dining/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	refCmd.AddCommand(refLocationsCmd)
	refCmd.AddCommand(refMealsCmd)
	refCmd.AddCommand(refAllergensCmd)
	refCmd.AddCommand(refAlwaysCmd)
	refCmd.AddCommand(refDaysCmd)
	rootCmd.AddCommand(refCmd)
}

var refCmd = &cobra.Command{
	Use:   "ref",
	Short: "Prints reference data known to the database.",
}

func openService() (dining.Service, func()) {
	cfg := readConfig()
	database, err := sqliteutil.OpenDB(db.Schema, cfg.Db)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	return dining.NewService(database, cfg.resolver()), func() {
		database.Close()
	}
}

func renderTable(header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(header)
	t.AppendRows(rows)
	t.SetStyle(table.StyleRounded)
	t.Render()
}

var refLocationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Prints the known dining locations.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, cleanup := openService()
		defer cleanup()

		locations, err := svc.GetLocations(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list locations", err)
		}
		rows := []table.Row{}
		for _, l := range locations {
			rows = append(rows, table.Row{l.LocationID, l.LocationName})
		}
		renderTable(table.Row{"ID", "Location"}, rows)
	},
}

var refMealsCmd = &cobra.Command{
	Use:   "meals",
	Short: "Prints the known meal types.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, cleanup := openService()
		defer cleanup()

		meals, err := svc.GetMealTypes(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list meal types", err)
		}
		rows := []table.Row{}
		for _, m := range meals {
			rows = append(rows, table.Row{m.MealTypeID, m.MealTypeName})
		}
		renderTable(table.Row{"ID", "Meal"}, rows)
	},
}

var refAllergensCmd = &cobra.Command{
	Use:   "allergens",
	Short: "Prints the allergen legend.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, cleanup := openService()
		defer cleanup()

		allergens, err := svc.GetAllergens(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list allergens", err)
		}
		rows := []table.Row{}
		for _, a := range allergens {
			rows = append(rows, table.Row{a.AllergenCode, a.Description})
		}
		renderTable(table.Row{"Code", "Allergen"}, rows)
	},
}

var refDaysCmd = &cobra.Command{
	Use:   "days",
	Short: "Prints the day rows per ingested cycle.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, cleanup := openService()
		defer cleanup()

		days, err := svc.GetDays(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list days", err)
		}
		rows := []table.Row{}
		for _, d := range days {
			rows = append(rows, table.Row{d.DayID, d.DayName, d.CycleID})
		}
		renderTable(table.Row{"ID", "Day", "Cycle ID"}, rows)
	},
}

var refAlwaysCmd = &cobra.Command{
	Use:   "always",
	Short: "Prints the items always available per meal.",
	Run: func(cmd *cobra.Command, args []string) {
		svc, cleanup := openService()
		defer cleanup()

		items, err := svc.GetAlwaysAvailableItems(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list always available items", err)
		}
		rows := []table.Row{}
		for _, item := range items {
			rows = append(rows, table.Row{item.MealType, item.ItemName})
		}
		renderTable(table.Row{"Meal", "Item"}, rows)
	},
}
