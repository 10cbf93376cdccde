package main

import (
	"context"
	"os"

	"shelfstats-backend/cmd/shelf-cli/commands"
	"shelfstats-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)
	tel, err := telemetry.SetupFromEnv(context.Background(), "shelf-cli")
	if err == nil {
		defer tel.Shutdown(context.Background())
	} else if !os.IsNotExist(err) {
		panic(err)
	}
	commands.ExecuteContext(context.Background())
}
