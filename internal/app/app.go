package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/aronth/innrigreifi/internal/batch"
	"github.com/aronth/innrigreifi/internal/invoice"
	"github.com/aronth/innrigreifi/internal/parse"
	"github.com/aronth/innrigreifi/internal/report"
)

// App wires the parser and bulk runner behind a Config.
type App struct {
	cfg    Config
	runner *batch.Runner
}

func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return &App{
		cfg: cfg,
		runner: &batch.Runner{
			Parser:        parse.New(),
			MaxConcurrent: cfg.MaxConcurrent,
			Timeout:       cfg.Timeout,
		},
	}, nil
}

// Output is the JSON document written after a run.
type Output struct {
	Parsed   int               `json:"parsed"`
	Failed   int               `json:"failed"`
	Invoices []invoice.Invoice `json:"invoices"`
	Failures []Failure         `json:"failures,omitempty"`
}

type Failure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Run parses the configured input and writes the JSON result, plus the PDF
// summary when requested. Individual file failures are reported in the
// output, not returned as errors.
func (a *App) Run(ctx context.Context) error {
	jobs, err := a.loadJobs()
	if err != nil {
		return err
	}
	log.Info().Int("files", len(jobs)).Msg("starting parse run")

	sum := a.runner.Run(ctx, jobs)

	out := Output{Parsed: sum.Parsed, Failed: sum.Failed}
	for _, res := range sum.Results {
		if res.Err != nil {
			out.Failures = append(out.Failures, Failure{File: res.Name, Error: res.Err.Error()})
			continue
		}
		out.Invoices = append(out.Invoices, res.Invoice)
	}

	if err := a.writeOutput(out); err != nil {
		return err
	}
	if a.cfg.PDFPath != "" {
		if err := report.WriteSummary(out.Invoices, a.cfg.PDFPath); err != nil {
			return err
		}
		log.Info().Str("path", a.cfg.PDFPath).Msg("wrote pdf summary")
	}
	return nil
}

func (a *App) loadJobs() ([]batch.Job, error) {
	fi, err := os.Stat(a.cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if fi.IsDir() {
		return batch.LoadDir(a.cfg.InputPath)
	}
	b, err := os.ReadFile(a.cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return []batch.Job{{Name: fi.Name(), Content: string(b)}}, nil
}

// writeOutput marshals the run result. "-" writes to stdout.
func (a *App) writeOutput(out Output) error {
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	b = append(b, '\n')
	if a.cfg.OutputPath == "-" {
		_, err = os.Stdout.Write(b)
		return err
	}
	if err := os.WriteFile(a.cfg.OutputPath, b, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("path", a.cfg.OutputPath).Msg("wrote parse results")
	return nil
}
