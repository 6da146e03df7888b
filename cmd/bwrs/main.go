package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/jack-weilage/bwrs/internal/client/cli"
	"github.com/jack-weilage/bwrs/internal/client/config"
	"github.com/jack-weilage/bwrs/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	// Diagnostics go to stderr so they do not interleave with the prompt.
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
