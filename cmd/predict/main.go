package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/raine/pricesnap/internal/capture"
	"github.com/raine/pricesnap/internal/classifier"
	"github.com/raine/pricesnap/internal/config"
	"github.com/raine/pricesnap/internal/estimate"
	"github.com/raine/pricesnap/internal/pricing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	provider := flag.String("provider", "", "vision provider: openai or gemini (default from PREDICTION_PROVIDER)")
	localOnly := flag.Bool("local", false, "skip the vision model and use the local classifier")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <image-path|url|data-uri|camera[:N]>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	config.LoadEnvFile()
	cfg := config.Load()
	if *provider != "" {
		cfg.Provider = *provider
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	downloader := capture.NewImageDownloader().WithTimeout(cfg.DownloadTimeout)
	src, err := capture.Resolve(flag.Arg(0), cfg.MaxImageBytes, downloader)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid image argument")
	}
	img, err := src.Capture(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to capture image")
	}

	var svc *pricing.Service
	var cls classifier.Classifier
	if *localOnly {
		cls = pricing.NewClassifier(cfg)
		svc = pricing.NewService(nil, estimate.NewLocalPredictor(cls, nil), pricing.WithLocalTimeout(cfg.LocalTimeout))
	} else {
		svc, cls, err = pricing.FromConfig(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize pricing service")
		}
	}
	if c, ok := cls.(io.Closer); ok {
		defer c.Close()
	}

	report := svc.Analyze(ctx, img)
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode report")
	}
	fmt.Println(string(out))
}
