package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"beachdining-backend/lib/configutil"
	"beachdining-backend/lib/serviceutil"
	"beachdining-backend/lib/sqliteutil"
	"beachdining-backend/lib/telemetry"
	"beachdining-backend/lib/timezone"
	"beachdining-backend/services/dining/db"
	"beachdining-backend/services/dining/ingest"
	"beachdining-backend/services/dining/scraper"

	"github.com/robfig/cron/v3"
)

type daemon struct {
	// a slow scrape must never overlap the next scheduled run
	mu     sync.Mutex
	client scraper.Client
	db     *sql.DB
	epoch  time.Time
	config Config
}

func (d *daemon) refresh(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, err := d.client.Scrape(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to scrape menu page", "err", err)
		return
	}

	if d.config.SnapshotPath != "" {
		err = doc.Save(d.config.SnapshotPath)
		if err != nil {
			slog.WarnContext(ctx, "failed to write snapshot", "path", d.config.SnapshotPath, "err", err)
		}
	}

	report, err := ingest.Ingest(ctx, d.db, doc, ingest.Options{Epoch: d.epoch})
	if err != nil {
		slog.ErrorContext(ctx, "failed to ingest document", "err", err)
		return
	}
	slog.InfoContext(
		ctx, "refreshed menu database",
		"processed", report.ItemsProcessed,
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"errors", report.Errors(),
	)
	for _, failure := range report.Failures {
		slog.WarnContext(
			ctx, "ingestion failure",
			"cycle", failure.Cycle,
			"day", failure.Day,
			"meal", failure.Meal,
			"location", failure.Location,
			"item", failure.Item,
			"err", failure.Err,
		)
	}
}

// the cycle math anchors on Mondays; a misconfigured epoch would shift
// every resolved day of the week
func parseEpoch(raw string) (time.Time, error) {
	epoch, err := time.ParseInLocation("2006-01-02", raw, timezone.Location)
	if err != nil {
		return time.Time{}, err
	}
	if epoch.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("epoch %s is a %s, expected a Monday", raw, epoch.Weekday())
	}
	return epoch, nil
}

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.SetupFromEnv(ctx, "diningd")
	telemetry.InitSlog(false)
	telemetry.InstrumentPerfStats(ctx)

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to load configuration", err)
	}
	config = config.withDefaults()

	epoch, err := parseEpoch(config.Epoch)
	if err != nil {
		serviceutil.Fatal("invalid epoch", err)
	}

	database, err := sqliteutil.OpenDB(db.Schema, config.Db)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	defer database.Close()

	d := &daemon{
		client: scraper.NewClient(scraper.ClientOptions{
			PageUrl: config.SourceUrl,
		}),
		db:     database,
		epoch:  epoch,
		config: config,
	}

	cronner := cron.New(cron.WithLocation(timezone.Location))
	_, err = cronner.AddFunc(config.Schedule, func() {
		d.refresh(ctx)
	})
	if err != nil {
		serviceutil.Fatal("failed to schedule refresh job", err)
	}
	cronner.Start()
	defer cronner.Stop()

	slog.InfoContext(ctx, "diningd started", "schedule", config.Schedule, "db", config.Db)
	d.refresh(ctx)

	<-ctx.Done()
}
