package main

import (
	"context"
	"log/slog"
	"os"
	"steamdoc/cmd/steamdoc/commands"
	"steamdoc/lib/serviceutil"
	"steamdoc/lib/telemetry"
	"time"
)

func main() {
	telemetry.InitSlog(false)

	ctx := context.Background()
	t, err := telemetry.SetupFromEnv(ctx, "steamdoc")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}

	code := commands.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	err = t.Shutdown(shutdownCtx)
	if err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}

	os.Exit(code)
}
