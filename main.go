package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/raine/pricesnap/internal/capture"
	"github.com/raine/pricesnap/internal/classifier"
	"github.com/raine/pricesnap/internal/config"
	"github.com/raine/pricesnap/internal/pricing"
	"github.com/raine/pricesnap/internal/ui"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Try to load existing config.env file
	config.LoadEnvFile()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fatalf("invalid configuration: %v", err)
	}

	// The terminal belongs to the client, so logs only go to the file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		fatalf("failed to open log file: %v", err)
	}
	defer logFile.Close()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: logFile, NoColor: true})
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}
	log.Info().Str("logFile", cfg.LogFile).Msg("logging to file")

	// Create context that cancels on SIGINT or SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	inputs := os.Args[1:]
	interactive := ui.IsInteractiveTerminal()

	if !cfg.RemoteConfigured() && !cfg.LocalOnly && interactive && len(inputs) == 0 {
		if !ui.RunSetupWizard(ctx, cfg) {
			os.Exit(1)
		}
		cfg = config.Load()
	}

	svc, cls, err := pricing.FromConfig(ctx, cfg)
	if err != nil {
		fatalf("failed to initialize pricing service: %v", err)
	}
	if c, ok := cls.(io.Closer); ok {
		defer c.Close()
	}

	downloader := capture.NewImageDownloader().WithTimeout(cfg.DownloadTimeout)
	app := ui.NewApp(svc, os.Stdout, cfg.MaxImageBytes, downloader)

	// Images given as arguments are priced once without the interactive flow
	if len(inputs) > 0 {
		if failed := app.PrintReports(ctx, inputs); failed > 0 {
			os.Exit(1)
		}
		return
	}
	if !interactive {
		fatalf("no image given and not running in an interactive terminal\nusage: %s [image-path|url|data-uri|camera[:N]]...", os.Args[0])
	}

	g, gctx := errgroup.WithContext(ctx)

	// Run the client loop; leaving it ends the program
	g.Go(func() error {
		defer cancel()
		return app.Run(gctx)
	})

	// Load the on-device model while the user is on the welcome screen
	if w, ok := cls.(classifier.Warmer); ok {
		g.Go(func() error {
			if err := w.Warmup(gctx); err != nil {
				log.Warn().Err(err).Msg("classifier warm-up failed")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("shutdown with error")
		fatalf("%v", err)
	}
	log.Info().Msg("shutdown complete")
}
