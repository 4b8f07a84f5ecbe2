package commands

import (
	"log/slog"
	"time"

	"beachdining-backend/lib/serviceutil"
	"beachdining-backend/lib/sqliteutil"
	"beachdining-backend/services/dining/db"
	"beachdining-backend/services/dining/ingest"
	"beachdining-backend/services/dining/scraper"

	"github.com/spf13/cobra"
)

var scrapeOut *string
var scrapeIngest *bool

func init() {
	scrapeOut = scrapeCmd.Flags().String("out", "menu.json", "The file to write the scraped document to.")
	scrapeIngest = scrapeCmd.Flags().Bool("ingest", false, "Also ingest the scraped document into the database.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--out <path/to/menu.json>] [--ingest]",
	Short: "Scrapes the dining menu page and writes the document to a file.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		client := scraper.NewClient(scraper.ClientOptions{
			PageUrl: cfg.SourceUrl,
		})

		t1 := time.Now()
		doc, err := client.Scrape(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to scrape menu page", err)
		}
		t2 := time.Now()
		slog.Info("scraping time", "seconds", t2.Sub(t1).Seconds())

		err = doc.Save(*scrapeOut)
		if err != nil {
			serviceutil.Fatal("failed to write document", err)
		}
		slog.Info("wrote scraped document", "path", *scrapeOut)

		if !*scrapeIngest {
			return
		}

		database, err := sqliteutil.OpenDB(db.Schema, cfg.Db)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer database.Close()

		report, err := ingest.Ingest(cmd.Context(), database, doc, ingest.Options{
			Epoch: cfg.epochTime(),
		})
		if err != nil {
			serviceutil.Fatal("failed to ingest document", err)
		}
		logReport(report)
	},
}

func logReport(report ingest.Report) {
	slog.Info(
		"ingestion report",
		"processed", report.ItemsProcessed,
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"errors", report.Errors(),
	)
	for _, failure := range report.Failures {
		slog.Warn(
			"ingestion failure",
			"cycle", failure.Cycle,
			"day", failure.Day,
			"meal", failure.Meal,
			"location", failure.Location,
			"item", failure.Item,
			"err", failure.Err,
		)
	}
}
