package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"beachdining-backend/lib/configutil"
	"beachdining-backend/lib/serviceutil"
	"beachdining-backend/lib/timezone"
	"beachdining-backend/services/dining"

	"github.com/spf13/cobra"
)

type Config struct {
	SourceUrl string `json:"source_url"`
	// Monday of a week whose cycle assignment is known, YYYY-MM-DD
	Epoch      string `json:"epoch"`
	CycleCount int    `json:"cycle_count"`
	Db         string `json:"db"`
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.SourceUrl == "" {
		cfg.SourceUrl = "https://www.csulb.edu/beach-shops/residential-dining-menus"
	}
	if cfg.Epoch == "" {
		cfg.Epoch = "2024-08-26"
	}
	if cfg.CycleCount == 0 {
		cfg.CycleCount = 5
	}
	if cfg.Db == "" {
		cfg.Db = "dining.db"
	}
	return cfg
}

func (c Config) epochTime() time.Time {
	epoch, err := time.ParseInLocation("2006-01-02", c.Epoch, timezone.Location)
	if err != nil {
		serviceutil.Fatal("failed to parse epoch date", err)
	}
	return epoch
}

func (c Config) resolver() dining.ResolverConfig {
	return dining.ResolverConfig{
		Epoch:      c.epochTime(),
		CycleCount: c.CycleCount,
	}
}

var rootCmd = &cobra.Command{
	Use:   "dining-cli",
	Short: "dining-cli scrapes, ingests and queries the residential dining menus.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
