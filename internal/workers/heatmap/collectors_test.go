package heatmap

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypertracker/pkg/errors"
)

type fakeService struct {
	mu          sync.Mutex
	ingested    []string
	compared    []string
	failFor     map[string]error
	sawDeadline bool
}

func (f *fakeService) RunIngestion(ctx context.Context, symbol string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := ctx.Deadline(); ok {
		f.sawDeadline = true
	}
	f.ingested = append(f.ingested, symbol)
	return f.failFor[symbol]
}

func (f *fakeService) RunChangeDetection(ctx context.Context, symbol string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compared = append(f.compared, symbol)
	return f.failFor[symbol]
}

func TestIngestCollector_Run(t *testing.T) {
	t.Run("ProcessesAllSymbols", func(t *testing.T) {
		svc := &fakeService{failFor: map[string]error{}}
		collector := NewIngestCollector(svc, []string{"ETH", "BTC"}, time.Minute, time.Minute, true)

		err := collector.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"ETH", "BTC"}, svc.ingested)
		assert.True(t, svc.sawDeadline)
	})

	t.Run("OneSymbolFailingDoesNotStopOthers", func(t *testing.T) {
		svc := &fakeService{failFor: map[string]error{
			"ETH": errors.Wrapf(errors.ErrUpstream, "coingecko: 503"),
		}}
		collector := NewIngestCollector(svc, []string{"ETH", "BTC"}, time.Minute, 0, true)

		err := collector.Run(context.Background())
		assert.True(t, errors.Is(err, errors.ErrUpstream))
		assert.Equal(t, []string{"ETH", "BTC"}, svc.ingested)
	})

	t.Run("HealthTracksFailure", func(t *testing.T) {
		svc := &fakeService{failFor: map[string]error{
			"ETH": errors.Wrapf(errors.ErrPersistence, "insert failed"),
		}}
		collector := NewIngestCollector(svc, []string{"ETH"}, time.Minute, 0, true)

		require.Error(t, collector.Run(context.Background()))

		health := collector.Health()
		assert.EqualValues(t, 1, health.RunCount)
		assert.EqualValues(t, 1, health.ErrorCount)
		assert.Error(t, health.LastError)
	})
}

func TestChangeDetector_Run(t *testing.T) {
	t.Run("ProcessesAllSymbols", func(t *testing.T) {
		svc := &fakeService{failFor: map[string]error{}}
		detector := NewChangeDetector(svc, []string{"ETH", "BTC"}, time.Minute, 90*time.Second, time.Minute, true)

		err := detector.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"ETH", "BTC"}, svc.compared)
		assert.Equal(t, 90*time.Second, detector.Offset())
	})

	t.Run("ReportsFirstFailure", func(t *testing.T) {
		svc := &fakeService{failFor: map[string]error{
			"BTC": errors.Wrapf(errors.ErrPersistence, "select failed"),
		}}
		detector := NewChangeDetector(svc, []string{"ETH", "BTC"}, time.Minute, 90*time.Second, 0, true)

		err := detector.Run(context.Background())
		assert.True(t, errors.Is(err, errors.ErrPersistence))
	})
}
