package commands

import (
	"beachdining-backend/lib/serviceutil"
	"beachdining-backend/lib/sqliteutil"
	"beachdining-backend/services/dining/db"
	"beachdining-backend/services/dining/ingest"
	"beachdining-backend/services/dining/menudoc"

	"github.com/spf13/cobra"
)

var ingestDoc *string

func init() {
	ingestDoc = ingestCmd.Flags().String("doc", "menu.json", "The scraped document to ingest.")
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [--doc <path/to/menu.json>]",
	Short: "Ingests a previously scraped document into the database.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()

		doc, err := menudoc.Load(*ingestDoc)
		if err != nil {
			serviceutil.Fatal("failed to read document", err)
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
