package loadtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency = 5
	DefaultTotal       = 20
)

type Options struct {
	Scenario    Scenario
	Concurrency int
	Total       int
	Logger      *zap.Logger
	// Now is the clock used for run timestamps.
	Now func() time.Time
}

// Report is the outcome of one load-test batch.
type Report struct {
	BatchID string
	Metrics []Metric
}

// Run executes Total runs of the scenario with at most Concurrency in
// flight. A failed run is recorded, never fatal; only an invalid scenario
// or a cancelled context ends the batch early.
func Run(ctx context.Context, deps Deps, opts Options) (*Report, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Total <= 0 {
		opts.Total = DefaultTotal
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	var fn func(context.Context, Deps) (string, error)
	switch opts.Scenario {
	case ScenarioStream:
		fn = runStream
	case ScenarioCarte:
		fn = runCarte
	default:
		return nil, fmt.Errorf("invalid scenario %q", opts.Scenario)
	}

	report := &Report{BatchID: uuid.NewString()}
	logger := opts.Logger.With(zap.String("batch_id", report.BatchID), zap.String("scenario", opts.Scenario.Label()))
	logger.Info("load test started", zap.Int("concurrency", opts.Concurrency), zap.Int("total", opts.Total))

	var (
		mu      sync.Mutex
		metrics = make([]Metric, 0, opts.Total)
	)
	g := new(errgroup.Group)
	g.SetLimit(opts.Concurrency)
	for runID := 1; runID <= opts.Total; runID++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			m := Metric{Scenario: opts.Scenario.Label(), RunID: runID, StartTime: opts.Now()}
			summary, err := fn(ctx, deps)
			m.EndTime = opts.Now()
			if err != nil {
				m.Error = err.Error()
				logger.Warn("run failed", zap.Int("run_id", runID), zap.Error(err))
			} else {
				m.Success = true
				m.Backend = deps.Backend
				m.ResponseSummary = summary
			}
			mu.Lock()
			metrics = append(metrics, m)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(metrics, func(i, j int) bool { return metrics[i].RunID < metrics[j].RunID })
	report.Metrics = metrics
	logger.Info("load test finished", zap.Int("runs", len(metrics)))
	return report, ctx.Err()
}
