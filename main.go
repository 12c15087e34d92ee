package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: GetLogLevelFromEnv(),
	})))

	app, err := NewApp(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create app", "error", err)
		os.Exit(1)
	}

	err = app.Run(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to run app", "error", err)
		os.Exit(1)
	}
}
