package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aronth/innrigreifi/internal/invoice"
	"github.com/aronth/innrigreifi/internal/parse"
)

// Job is one document to parse, carrying its content and the name used for
// invoice-number fallback and reporting.
type Job struct {
	Name    string
	Content string
}

// Result pairs one job with its outcome. Err is set only for catastrophic
// failures (blank input, timeout); partially extracted documents succeed.
type Result struct {
	Name    string
	Invoice invoice.Invoice
	Err     error
}

// Summary aggregates a bulk run. Results keeps the input order regardless of
// completion order.
type Summary struct {
	Results []Result
	Parsed  int
	Failed  int
}

// Runner parses jobs concurrently through a shared Parser.
type Runner struct {
	Parser *parse.Parser

	// MaxConcurrent bounds the number of in-flight parses. Zero or
	// negative means unbounded.
	MaxConcurrent int

	// Timeout is the per-job wall clock budget. Zero disables it.
	Timeout time.Duration

	limiter     chan struct{}
	limiterOnce sync.Once
}

func (r *Runner) acquire() {
	if r.MaxConcurrent <= 0 {
		return
	}
	r.limiterOnce.Do(func() {
		r.limiter = make(chan struct{}, r.MaxConcurrent)
	})
	r.limiter <- struct{}{}
}

func (r *Runner) release() {
	if r.MaxConcurrent <= 0 || r.limiter == nil {
		return
	}
	select {
	case <-r.limiter:
	default:
	}
}

// Run parses all jobs and blocks until every worker finishes. A cancelled
// ctx fails the remaining jobs instead of abandoning them silently.
func (r *Runner) Run(ctx context.Context, jobs []Job) Summary {
	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(i int, job Job) {
			defer wg.Done()
			r.acquire()
			defer r.release()
			results[i] = r.runOne(ctx, job)
		}(i, job)
	}
	wg.Wait()

	s := Summary{Results: results}
	for _, res := range results {
		if res.Err != nil {
			s.Failed++
		} else {
			s.Parsed++
		}
	}
	log.Info().Int("parsed", s.Parsed).Int("failed", s.Failed).Msg("bulk parse finished")
	return s
}

// runOne enforces the per-job timeout from the outside: the parse itself has
// no cancellation points, so we wait on whichever finishes first.
func (r *Runner) runOne(ctx context.Context, job Job) Result {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	done := make(chan Result, 1)
	go func() {
		inv, err := r.Parser.Parse(job.Content, job.Name)
		done <- Result{Name: job.Name, Invoice: inv, Err: err}
	}()

	select {
	case res := <-done:
		if res.Err != nil {
			log.Warn().Str("file", job.Name).Err(res.Err).Msg("parse failed")
		}
		return res
	case <-ctx.Done():
		log.Warn().Str("file", job.Name).Err(ctx.Err()).Msg("parse abandoned")
		return Result{Name: job.Name, Err: fmt.Errorf("parse %s: %w", job.Name, ctx.Err())}
	}
}

// LoadDir reads every .html/.htm file directly under dir into jobs, sorted
// by name for a stable run order.
func LoadDir(dir string) ([]Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var jobs []Job
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".html", ".htm":
		default:
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		jobs = append(jobs, Job{Name: e.Name(), Content: string(b)})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs, nil
}
