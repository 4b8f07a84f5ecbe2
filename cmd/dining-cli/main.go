package main

import (
	"beachdining-backend/cmd/dining-cli/commands"
	"beachdining-backend/lib/telemetry"
	"context"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "dining-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
