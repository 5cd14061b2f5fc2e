package main

import (
	"context"
	"trustharvest/cmd/trustharvest/commands"
	"trustharvest/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "trustharvest")
	telemetry.InitSlog(false)
	commands.ExecuteContext(context.Background())
}
