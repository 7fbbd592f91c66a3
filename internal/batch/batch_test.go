package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/huntreport/internal/pdf"
	"github.com/a3tai/huntreport/internal/report/diag"
	"github.com/a3tai/huntreport/internal/report/draw"
	"github.com/a3tai/huntreport/internal/report/harvest"
)

// fakeExtractor returns canned results keyed by path
type fakeExtractor struct {
	harvest map[string][]harvest.Row
	draws   map[string]*pdf.DrawExtractResult
	errs    map[string]error
	delay   time.Duration

	mu      sync.Mutex
	calls   []string
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (f *fakeExtractor) enter(path string) func() {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()

	n := f.active.Add(1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return func() { f.active.Add(-1) }
}

func (f *fakeExtractor) ExtractHarvest(_ context.Context, req pdf.HarvestExtractRequest) (*pdf.HarvestExtractResult, error) {
	defer f.enter(req.Path)()
	if err := f.errs[req.Path]; err != nil {
		return nil, err
	}
	return &pdf.HarvestExtractResult{Path: req.Path, Rows: f.harvest[req.Path]}, nil
}

func (f *fakeExtractor) ExtractDraw(_ context.Context, req pdf.DrawExtractRequest) (*pdf.DrawExtractResult, error) {
	defer f.enter(req.Path)()
	if err := f.errs[req.Path]; err != nil {
		return nil, err
	}
	return f.draws[req.Path], nil
}

func newTestRunner(f *fakeExtractor, workers int) (*Runner, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewRunner(f, workers, "archery", logger), hook
}

func TestRunner_FatalDocumentLeavesOthersIntact(t *testing.T) {
	fatal := diag.Fatal(diag.KindShapeViolation, "result block has 0 values").WithPage(3)
	f := &fakeExtractor{
		harvest: map[string][]harvest.Row{
			"2006_elk.pdf": {{Unit: 1, Year: 2006}, {Unit: 2, Year: 2006}},
			"2008_elk.pdf": {{Unit: 7, Year: 2008}},
		},
		draws: map[string]*pdf.DrawExtractResult{
			"2024_draw.pdf": {
				Records:  []draw.Record{{HuntCode: "EE001E1R", ListCode: "A"}},
				Warnings: []*diag.Error{diag.Warning(diag.KindDrift, "hunt_code lagging")},
			},
		},
		errs: map[string]error{"2007_elk.pdf": fatal},
	}
	runner, _ := newTestRunner(f, 3)

	jobs := append(
		JobsFor(pdf.KindHarvest, []string{"2006_elk.pdf", "2007_elk.pdf", "2008_elk.pdf"}),
		Job{Path: "2024_draw.pdf", Kind: pdf.KindDraw},
	)

	results, err := runner.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, "2006_elk.pdf", results[0].Path)
	assert.Equal(t, 2, results[0].Table.Len())

	var parseErr *diag.Error
	require.ErrorAs(t, results[1].Err, &parseErr)
	assert.Equal(t, 3, parseErr.Page)
	assert.Nil(t, results[1].Table)

	assert.Equal(t, 1, results[2].Table.Len())
	assert.Len(t, results[3].Warnings, 1)
	assert.Equal(t, draw.Columns, results[3].Table.Columns)

	failures := Failures(results)
	require.Len(t, failures, 1)
	assert.Equal(t, "2007_elk.pdf", failures[0].Path)

	combined, err := Combine(results, pdf.KindHarvest)
	require.NoError(t, err)
	require.Equal(t, 3, combined.Len())
	assert.Equal(t, []any{1, 0, 0, 0, 0, 0, 0, 0, 2006}, combined.Rows[0])
	assert.Equal(t, []any{7, 0, 0, 0, 0, 0, 0, 0, 2008}, combined.Rows[2])
}

func TestRunner_RespectsWorkerLimit(t *testing.T) {
	paths := []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf", "f.pdf"}
	f := &fakeExtractor{delay: 20 * time.Millisecond}
	runner, _ := newTestRunner(f, 2)

	results, err := runner.Run(context.Background(), JobsFor(pdf.KindHarvest, paths))
	require.NoError(t, err)
	assert.Len(t, results, len(paths))
	assert.Len(t, f.calls, len(paths))
	assert.LessOrEqual(t, f.maxSeen.Load(), int32(2))
}

func TestRunner_CancelledContext(t *testing.T) {
	f := &fakeExtractor{}
	runner, _ := newTestRunner(f, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := runner.Run(ctx, JobsFor(pdf.KindDraw, []string{"a.pdf", "b.pdf"}))
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.ErrorIs(t, res.Err, context.Canceled)
	}
	assert.Empty(t, f.calls)
}

func TestRunner_UnsupportedKind(t *testing.T) {
	f := &fakeExtractor{}
	runner, _ := newTestRunner(f, 1)

	results, err := runner.Run(context.Background(), []Job{{Path: "brochure.pdf", Kind: pdf.KindUnknown}})
	require.NoError(t, err)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "unsupported report kind")
}

func TestRunner_LogsRunID(t *testing.T) {
	f := &fakeExtractor{errs: map[string]error{"bad.pdf": errors.New("failed to open PDF")}}
	runner, hook := newTestRunner(f, 1)

	_, err := runner.Run(context.Background(), JobsFor(pdf.KindHarvest, []string{"good.pdf", "bad.pdf"}))
	require.NoError(t, err)

	entries := hook.AllEntries()
	require.NotEmpty(t, entries)
	runID := entries[0].Data["run_id"]
	require.NotEmpty(t, runID)

	var rejected int
	for _, e := range entries {
		assert.Equal(t, runID, e.Data["run_id"])
		if e.Level == logrus.ErrorLevel {
			rejected++
			assert.Equal(t, "bad.pdf", e.Data["source"])
		}
	}
	assert.Equal(t, 1, rejected)
}

func TestCombine(t *testing.T) {
	combined, err := Combine(nil, pdf.KindDraw)
	require.NoError(t, err)
	assert.Nil(t, combined)

	f := &fakeExtractor{draws: map[string]*pdf.DrawExtractResult{"x.pdf": {}}}
	runner, _ := newTestRunner(f, 1)
	results, err := runner.Run(context.Background(), JobsFor(pdf.KindDraw, []string{"x.pdf"}))
	require.NoError(t, err)

	combined, err = Combine(results, pdf.KindDraw)
	require.NoError(t, err)
	require.NotNil(t, combined)
	assert.Equal(t, 0, combined.Len())
	assert.Equal(t, draw.Columns, combined.Columns)
}

func TestNewRunner_ClampsWorkers(t *testing.T) {
	runner := NewRunner(&fakeExtractor{}, 0, "", nil)
	assert.Equal(t, 1, runner.workers)
}
