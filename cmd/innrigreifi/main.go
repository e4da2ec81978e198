package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aronth/innrigreifi/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		inputPath     string
		outputPath    string
		pdfPath       string
		configPath    string
		maxConcurrent int
		timeout       time.Duration
		verbose       bool
	)

	flag.StringVar(&inputPath, "input", "", "HTML invoice file or directory of them")
	flag.StringVar(&outputPath, "output", app.DefaultOutputPath, "Path to write JSON results ('-' for stdout)")
	flag.StringVar(&pdfPath, "pdf", "", "Optional path to write a PDF summary")
	flag.StringVar(&configPath, "config", os.Getenv("INNRIGREIFI_CONFIG"), "Optional YAML/JSON config file")
	flag.IntVar(&maxConcurrent, "max.concurrent", app.DefaultMaxConcurrent, "Maximum concurrent parses (0 = unbounded)")
	flag.DurationVar(&timeout, "timeout", app.DefaultTimeout, "Per-file parse timeout (0 disables)")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	cfg := app.Config{
		InputPath:     inputPath,
		OutputPath:    outputPath,
		PDFPath:       pdfPath,
		MaxConcurrent: maxConcurrent,
		Timeout:       timeout,
		Verbose:       verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(2)
		}
		app.ApplyFileConfig(&cfg, fc)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(context.Background())
}
