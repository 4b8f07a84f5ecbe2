package main

type Config struct {
	SourceUrl string `json:"source_url"`
	// Monday of a week whose cycle assignment is known, YYYY-MM-DD
	Epoch      string `json:"epoch"`
	CycleCount int    `json:"cycle_count"`
	Db         string `json:"db"`
	// cron spec for the refresh job; defaults to Monday 5am
	Schedule string `json:"schedule"`
	// if set, every scraped document is also written here
	SnapshotPath string `json:"snapshot_path"`
}

func (c Config) withDefaults() Config {
	if c.SourceUrl == "" {
		c.SourceUrl = "https://www.csulb.edu/beach-shops/residential-dining-menus"
	}
	if c.Epoch == "" {
		c.Epoch = "2024-08-26"
	}
	if c.CycleCount == 0 {
		c.CycleCount = 5
	}
	if c.Db == "" {
		c.Db = "dining.db"
	}
	if c.Schedule == "" {
		c.Schedule = "0 5 * * 1"
	}
	return c
}
