package heatmap

import (
	"context"
	"time"

	"hypertracker/internal/workers"
)

// IngestRunner executes one ingestion pipeline run for a symbol
type IngestRunner interface {
	RunIngestion(ctx context.Context, symbol string) error
}

// IngestCollector runs the heatmap ingestion pipeline for every tracked
// symbol on a schedule. Symbols are processed sequentially; one symbol
// failing does not stop the others, but the run reports the first failure
// so the operator can see which upstream broke.
type IngestCollector struct {
	*workers.BaseWorker
	service    IngestRunner
	symbols    []string
	runTimeout time.Duration
}

// NewIngestCollector creates the ingestion worker
func NewIngestCollector(
	service IngestRunner,
	symbols []string,
	interval time.Duration,
	runTimeout time.Duration,
	enabled bool,
) *IngestCollector {
	return &IngestCollector{
		BaseWorker: workers.NewBaseWorker("heatmap_ingest", interval, enabled),
		service:    service,
		symbols:    symbols,
		runTimeout: runTimeout,
	}
}

// Run executes one ingestion pass over all tracked symbols
func (ic *IngestCollector) Run(ctx context.Context) error {
	start := time.Now()

	if ic.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ic.runTimeout)
		defer cancel()
	}

	var firstErr error
	for _, symbol := range ic.symbols {
		if err := ic.service.RunIngestion(ctx, symbol); err != nil {
			ic.Log().Errorw("Ingestion failed", "symbol", symbol, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
	}

	if firstErr != nil {
		ic.RecordError(firstErr, time.Since(start))
		return firstErr
	}

	ic.RecordRun(time.Since(start))
	return nil
}
