package heatmap

import (
	"context"
	"time"

	"hypertracker/internal/workers"
)

// ChangeRunner executes one change-detection pass for a symbol
type ChangeRunner interface {
	RunChangeDetection(ctx context.Context, symbol string) error
}

// ChangeDetector runs the change-detection pass for every tracked symbol.
// Its schedule is shifted behind the ingest collector's by a start offset:
// the offset must exceed the ingest run timeout, so by the time a
// comparison reads the latest snapshots the ingest pass on the same tick
// has either committed or been cancelled.
type ChangeDetector struct {
	*workers.BaseWorker
	service    ChangeRunner
	symbols    []string
	offset     time.Duration
	runTimeout time.Duration
}

// NewChangeDetector creates the change-detection worker
func NewChangeDetector(
	service ChangeRunner,
	symbols []string,
	interval time.Duration,
	offset time.Duration,
	runTimeout time.Duration,
	enabled bool,
) *ChangeDetector {
	return &ChangeDetector{
		BaseWorker: workers.NewBaseWorker("heatmap_change_detector", interval, enabled),
		service:    service,
		symbols:    symbols,
		offset:     offset,
		runTimeout: runTimeout,
	}
}

// Offset returns the start offset that staggers this worker behind the
// ingest collector
func (cd *ChangeDetector) Offset() time.Duration {
	return cd.offset
}

// Run executes one change-detection pass over all tracked symbols
func (cd *ChangeDetector) Run(ctx context.Context) error {
	start := time.Now()

	if cd.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cd.runTimeout)
		defer cancel()
	}

	var firstErr error
	for _, symbol := range cd.symbols {
		if err := cd.service.RunChangeDetection(ctx, symbol); err != nil {
			cd.Log().Errorw("Change detection failed", "symbol", symbol, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
	}

	if firstErr != nil {
		cd.RecordError(firstErr, time.Since(start))
		return firstErr
	}

	cd.RecordRun(time.Since(start))
	return nil
}
