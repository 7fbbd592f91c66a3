// Package batch extracts several report documents in parallel. Every document
// gets its own parser, and a document that fails leaves the others untouched.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/huntreport/internal/pdf"
	"github.com/a3tai/huntreport/internal/report/diag"
	"github.com/a3tai/huntreport/internal/table"
)

// Extractor reads one report document. *pdf.Service implements it.
type Extractor interface {
	ExtractHarvest(ctx context.Context, req pdf.HarvestExtractRequest) (*pdf.HarvestExtractResult, error)
	ExtractDraw(ctx context.Context, req pdf.DrawExtractRequest) (*pdf.DrawExtractResult, error)
}

// Job selects one document and the extractor to run on it
type Job struct {
	Path string
	Kind string
}

// DocumentResult is the outcome of one job. Err is set when the document was
// rejected; Table is nil in that case.
type DocumentResult struct {
	Path     string
	Kind     string
	Table    *table.Table
	Warnings []*diag.Error
	Err      error
	Elapsed  time.Duration
}

// Runner fans jobs out over a bounded number of workers
type Runner struct {
	extractor Extractor
	workers   int
	anchor    string
	logger    logrus.FieldLogger
}

// NewRunner creates a runner. workers below one is treated as one.
func NewRunner(extractor Extractor, workers int, anchor string, logger logrus.FieldLogger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Runner{
		extractor: extractor,
		workers:   workers,
		anchor:    anchor,
		logger:    logger,
	}
}

// Run processes jobs and returns one result per job in job order. Document
// failures are reported in the results; the returned error is only set when
// ctx is cancelled, in which case unscheduled jobs carry ctx.Err().
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]DocumentResult, error) {
	runID := uuid.New()
	logger := r.logger.WithField("run_id", runID.String())
	logger.WithFields(logrus.Fields{"documents": len(jobs), "workers": r.workers}).Info("batch started")

	results := make([]DocumentResult, len(jobs))
	for i, job := range jobs {
		results[i] = DocumentResult{Path: job.Path, Kind: job.Kind}
	}

	// Workers never return an error so one document cannot cancel its siblings
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	scheduled := 0
	for i := range jobs {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = r.process(gCtx, jobs[i], logger)
			return nil
		})
		scheduled++
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		for i := scheduled; i < len(jobs); i++ {
			results[i].Err = err
		}
		logger.WithError(err).Warn("batch cancelled")
		return results, err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	logger.WithFields(logrus.Fields{"documents": len(jobs), "failed": failed}).Info("batch finished")

	return results, nil
}

// process runs the extractor that matches the job kind
func (r *Runner) process(ctx context.Context, job Job, logger logrus.FieldLogger) DocumentResult {
	start := time.Now()
	res := DocumentResult{Path: job.Path, Kind: job.Kind}
	docLogger := logger.WithFields(logrus.Fields{"source": filepath.Base(job.Path), "kind": job.Kind})

	switch job.Kind {
	case pdf.KindHarvest:
		out, err := r.extractor.ExtractHarvest(ctx, pdf.HarvestExtractRequest{Path: job.Path, Anchor: r.anchor})
		if err != nil {
			res.Err = err
			break
		}
		res.Table = table.FromHarvest(pdf.KindHarvest, out.Rows)
	case pdf.KindDraw:
		out, err := r.extractor.ExtractDraw(ctx, pdf.DrawExtractRequest{Path: job.Path})
		if err != nil {
			res.Err = err
			break
		}
		res.Table = table.FromDraw(pdf.KindDraw, out.Records)
		res.Warnings = out.Warnings
	default:
		res.Err = fmt.Errorf("unsupported report kind %q for %s", job.Kind, job.Path)
	}
	res.Elapsed = time.Since(start)

	if res.Err != nil {
		docLogger.WithError(res.Err).Error("document rejected")
		return res
	}
	docLogger.WithFields(logrus.Fields{
		"rows":     res.Table.Len(),
		"warnings": len(res.Warnings),
		"elapsed":  res.Elapsed,
	}).Info("document extracted")
	return res
}

// Combine appends the tables of every successful result of one kind, in job
// order. It returns nil when no result of that kind succeeded.
func Combine(results []DocumentResult, kind string) (*table.Table, error) {
	var combined *table.Table
	for _, res := range results {
		if res.Kind != kind || res.Err != nil || res.Table == nil {
			continue
		}
		if combined == nil {
			combined = &table.Table{Name: kind, Columns: append([]string(nil), res.Table.Columns...)}
		}
		if err := combined.Append(res.Table); err != nil {
			return nil, fmt.Errorf("failed to combine %s: %w", res.Path, err)
		}
	}
	return combined, nil
}

// Failures returns the results that carry an error
func Failures(results []DocumentResult) []DocumentResult {
	var out []DocumentResult
	for _, res := range results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// JobsFor builds one job per file, all of the same kind
func JobsFor(kind string, paths []string) []Job {
	jobs := make([]Job, 0, len(paths))
	for _, p := range paths {
		jobs = append(jobs, Job{Path: p, Kind: kind})
	}
	return jobs
}
