package commands

import (
	"os"
	"strings"

	"beachdining-backend/lib/serviceutil"
	"beachdining-backend/lib/sqliteutil"
	"beachdining-backend/lib/timezone"
	"beachdining-backend/services/dining"
	"beachdining-backend/services/dining/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var queryLocations *[]string
var queryMeals *[]string

func init() {
	queryLocations = queryCmd.Flags().StringSlice("location", nil, "Only show these locations.")
	queryMeals = queryCmd.Flags().StringSlice("meal", nil, "Only show these meal types.")
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query [date] [--location <name>] [--meal <name>]",
	Short: "Prints the menu for a date (defaults to today).",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		date := timezone.Now().Format("2006-01-02")
		if len(args) > 0 {
			date = args[0]
		}

		database, err := sqliteutil.OpenDB(db.Schema, cfg.Db)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		svc := dining.NewService(database, cfg.resolver())

		locationIDs, err := resolveLocationIds(cmd, svc, *queryLocations)
		if err != nil {
			serviceutil.Fatal("failed to resolve location filter", err)
		}
		mealTypeIDs, err := resolveMealTypeIds(cmd, svc, *queryMeals)
		if err != nil {
			serviceutil.Fatal("failed to resolve meal type filter", err)
		}

		rows, err := svc.GetMenuItems(cmd.Context(), date, locationIDs, mealTypeIDs)
		if err != nil {
			serviceutil.Fatal("failed to query menu", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetTitle("Menu for %s", date)
		t.AppendHeader(table.Row{"Location", "Meal", "Item", "Allergens"})
		for _, row := range rows {
			allergens := []string{}
			for _, a := range row.Allergens {
				allergens = append(allergens, a.Description)
			}
			t.AppendRow(table.Row{
				row.Location,
				row.MealType,
				row.ItemName,
				strings.Join(allergens, ", "),
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

func resolveLocationIds(cmd *cobra.Command, svc dining.Service, names []string) ([]int64, error) {
	if len(names) == 0 {
		return nil, nil
	}
	locations, err := svc.GetLocations(cmd.Context())
	if err != nil {
		return nil, err
	}
	ids := []int64{}
	for _, name := range names {
		for _, l := range locations {
			if strings.EqualFold(l.LocationName, name) {
				ids = append(ids, l.LocationID)
			}
		}
	}
	return ids, nil
}

func resolveMealTypeIds(cmd *cobra.Command, svc dining.Service, names []string) ([]int64, error) {
	if len(names) == 0 {
		return nil, nil
	}
	meals, err := svc.GetMealTypes(cmd.Context())
	if err != nil {
		return nil, err
	}
	ids := []int64{}
	for _, name := range names {
		for _, m := range meals {
			if strings.EqualFold(m.MealTypeName, name) {
				ids = append(ids, m.MealTypeID)
			}
		}
	}
	return ids, nil
}
