package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/huntreport/internal/batch"
	"github.com/a3tai/huntreport/internal/config"
	"github.com/a3tai/huntreport/internal/logging"
	"github.com/a3tai/huntreport/internal/pdf"
	"github.com/a3tai/huntreport/internal/store"
	"github.com/a3tai/huntreport/internal/table"
)

// app bundles what every subcommand needs
type app struct {
	cfg     *config.Config
	logger  *logrus.Logger
	service *pdf.Service
}

// newApp loads configuration for mode and builds the logger and report service
func newApp(mode string) (*app, error) {
	cfg, err := loader.Load(mode)
	if err != nil {
		return nil, err
	}
	if version != "dev" {
		cfg.Version = version
	}

	logger := logging.New(cfg)
	if cfg.IsDebug() {
		logger.Debugf("Starting with configuration: %s", cfg.String())
	}

	service, err := pdf.NewService(cfg.MaxFileSize, cfg.Directory, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create report service: %w", err)
	}

	return &app{cfg: cfg, logger: logger, service: service}, nil
}

// contextOrBackground guards against commands executed without a context
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// jobs returns one job per argument, or every report of kind found in the
// report directory when no arguments are given
func (a *app) jobs(kind string, args []string) ([]batch.Job, error) {
	if len(args) > 0 {
		return batch.JobsFor(kind, args), nil
	}

	files, err := a.service.FindReports(kind)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s reports found in %s", kind, a.cfg.Directory)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return batch.JobsFor(kind, paths), nil
}

// extract runs the jobs, writes the combined table and reports failed documents.
// Successful documents are written even when others fail.
func (a *app) extract(ctx context.Context, kind string, jobs []batch.Job, outName string) error {
	runner := batch.NewRunner(a.service, a.cfg.Workers, a.cfg.Anchor, a.logger)
	results, err := runner.Run(ctx, jobs)
	if err != nil {
		return err
	}

	for _, res := range results {
		for _, w := range res.Warnings {
			a.logger.WithField("source", filepath.Base(res.Path)).Warn(w.Error())
		}
	}

	combined, err := batch.Combine(results, kind)
	if err != nil {
		return err
	}
	if combined != nil {
		if err := a.writeTable(combined, outName); err != nil {
			return err
		}
		if err := a.storeResults(ctx, kind, combined); err != nil {
			return err
		}
	}

	if failures := batch.Failures(results); len(failures) > 0 {
		for _, f := range failures {
			a.logger.WithField("source", filepath.Base(f.Path)).Errorf("document rejected: %v", f.Err)
		}
		return fmt.Errorf("%d of %d documents failed", len(failures), len(results))
	}
	return nil
}

// writeTable writes t as CSV into the output directory
func (a *app) writeTable(t *table.Table, name string) error {
	if err := a.cfg.EnsureOutputDir(); err != nil {
		return err
	}

	path := filepath.Join(a.cfg.OutputDir, name)
	if err := table.WriteCSVFile(path, t); err != nil {
		return err
	}
	a.logger.WithFields(logrus.Fields{"path": path, "rows": t.Len()}).Info("table written")
	return nil
}

// storeResults writes the combined table to PostgreSQL when a database is
// configured. Harvest rows replace those of their year, one replace per year,
// so reruns do not duplicate and same-year documents are kept together.
func (a *app) storeResults(ctx context.Context, kind string, combined *table.Table) error {
	if !a.cfg.HasDatabase() {
		return nil
	}

	var years []*table.Table
	yearColumn := combined.Columns[len(combined.Columns)-1]
	if kind == pdf.KindHarvest {
		var err error
		if years, err = combined.Partition(yearColumn); err != nil {
			return err
		}
	}

	sink, err := store.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer sink.Close()

	if kind != pdf.KindHarvest {
		return a.write(ctx, sink, combined)
	}

	for _, part := range years {
		year := part.Rows[0][len(part.Columns)-1]
		n, err := sink.Replace(ctx, part, yearColumn, year)
		if err != nil {
			return err
		}
		a.logger.WithFields(logrus.Fields{"table": part.Name, "year": year, "rows": n}).Info("rows stored")
	}
	return nil
}

// storeTable appends t to PostgreSQL when a database is configured
func (a *app) storeTable(ctx context.Context, t *table.Table) error {
	if !a.cfg.HasDatabase() {
		return nil
	}

	sink, err := store.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer sink.Close()

	return a.write(ctx, sink, t)
}

func (a *app) write(ctx context.Context, sink *store.Sink, t *table.Table) error {
	n, err := sink.Write(ctx, t)
	if err != nil {
		return err
	}
	a.logger.WithFields(logrus.Fields{"table": t.Name, "rows": n}).Info("rows stored")
	return nil
}
