package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypertracker/pkg/errors"
)

// Mock worker for testing
type mockWorker struct {
	*BaseWorker
	runCount int32
	runFunc  func(ctx context.Context) error
}

func newMockWorker(name string, interval time.Duration, enabled bool) *mockWorker {
	return &mockWorker{
		BaseWorker: NewBaseWorker(name, interval, enabled),
		runFunc:    func(ctx context.Context) error { return nil },
	}
}

func (m *mockWorker) Run(ctx context.Context) error {
	atomic.AddInt32(&m.runCount, 1)
	if m.runFunc != nil {
		return m.runFunc(ctx)
	}
	return nil
}

func (m *mockWorker) GetRunCount() int {
	return int(atomic.LoadInt32(&m.runCount))
}

type staggeredWorker struct {
	*mockWorker
	offset time.Duration
}

func (w *staggeredWorker) Offset() time.Duration {
	return w.offset
}

func TestScheduler_StartStop(t *testing.T) {
	scheduler := NewScheduler()

	worker := newMockWorker("test-worker", 100*time.Millisecond, true)
	scheduler.RegisterWorker(worker)

	err := scheduler.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, scheduler.IsRunning())

	time.Sleep(250 * time.Millisecond)

	err = scheduler.Stop()
	require.NoError(t, err)
	assert.False(t, scheduler.IsRunning())

	// Immediate run on start plus at least one tick
	assert.GreaterOrEqual(t, worker.GetRunCount(), 2)
}

func TestScheduler_FailingWorkerKeepsTicking(t *testing.T) {
	scheduler := NewScheduler()

	worker := newMockWorker("flaky-worker", 50*time.Millisecond, true)
	worker.runFunc = func(ctx context.Context) error {
		return errors.Wrapf(errors.ErrUpstream, "flaky upstream")
	}
	scheduler.RegisterWorker(worker)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	// Errors must not stop the ticker loop
	assert.GreaterOrEqual(t, worker.GetRunCount(), 2)
}

func TestScheduler_PanickingWorkerIsRecovered(t *testing.T) {
	scheduler := NewScheduler()

	worker := newMockWorker("panicky-worker", 50*time.Millisecond, true)
	worker.runFunc = func(ctx context.Context) error {
		panic("boom")
	}
	scheduler.RegisterWorker(worker)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	assert.GreaterOrEqual(t, worker.GetRunCount(), 2)
}

func TestScheduler_OffsetDelaysFirstRun(t *testing.T) {
	scheduler := NewScheduler()

	worker := &staggeredWorker{
		mockWorker: newMockWorker("delayed-worker", 200*time.Millisecond, true),
		offset:     100 * time.Millisecond,
	}
	scheduler.RegisterWorker(worker)

	require.NoError(t, scheduler.Start(context.Background()))

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 0, worker.GetRunCount())

	time.Sleep(120 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	assert.GreaterOrEqual(t, worker.GetRunCount(), 1)
}

func TestScheduler_OffsetStaggersReaderBehindWriter(t *testing.T) {
	scheduler := NewScheduler()

	var writing int32
	var overlaps int32

	writer := newMockWorker("writer", 100*time.Millisecond, true)
	writer.runFunc = func(ctx context.Context) error {
		atomic.StoreInt32(&writing, 1)
		time.Sleep(30 * time.Millisecond)
		atomic.StoreInt32(&writing, 0)
		return nil
	}

	reader := &staggeredWorker{
		mockWorker: newMockWorker("reader", 100*time.Millisecond, true),
		offset:     60 * time.Millisecond,
	}
	reader.runFunc = func(ctx context.Context) error {
		if atomic.LoadInt32(&writing) == 1 {
			atomic.AddInt32(&overlaps, 1)
		}
		return nil
	}

	scheduler.RegisterWorker(writer)
	scheduler.RegisterWorker(reader)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(380 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	// Same interval on both: without the offset the reader would fire
	// inside the writer's in-flight runs.
	assert.GreaterOrEqual(t, reader.GetRunCount(), 2)
	assert.Equal(t, 0, int(atomic.LoadInt32(&overlaps)))
}

func TestScheduler_ContextCancellation(t *testing.T) {
	scheduler := NewScheduler()

	worker := newMockWorker("test-worker", 100*time.Millisecond, true)
	scheduler.RegisterWorker(worker)

	ctx, cancel := context.WithCancel(context.Background())

	err := scheduler.Start(ctx)
	require.NoError(t, err)

	cancel()
	time.Sleep(200 * time.Millisecond)

	// Stop should work even after context cancellation
	err = scheduler.Stop()
	require.NoError(t, err)
}

func TestScheduler_DisabledWorker(t *testing.T) {
	scheduler := NewScheduler()

	enabledWorker := newMockWorker("enabled-worker", 100*time.Millisecond, true)
	disabledWorker := newMockWorker("disabled-worker", 100*time.Millisecond, false)

	scheduler.RegisterWorker(enabledWorker)
	scheduler.RegisterWorker(disabledWorker)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(250 * time.Millisecond)
	require.NoError(t, scheduler.Stop())

	assert.Greater(t, enabledWorker.GetRunCount(), 0)
	assert.Equal(t, 0, disabledWorker.GetRunCount())
}

func TestScheduler_ReEnabledWorkerRunsOnRestart(t *testing.T) {
	scheduler := NewScheduler()

	worker := newMockWorker("toggled-worker", 100*time.Millisecond, false)
	scheduler.RegisterWorker(worker)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(150 * time.Millisecond)
	require.NoError(t, scheduler.Stop())
	assert.Equal(t, 0, worker.GetRunCount())

	worker.SetEnabled(true)
	assert.True(t, worker.Health().Enabled)

	require.NoError(t, scheduler.Start(context.Background()))
	time.Sleep(150 * time.Millisecond)
	require.NoError(t, scheduler.Stop())
	assert.GreaterOrEqual(t, worker.GetRunCount(), 1)
}

func TestScheduler_CannotStartTwice(t *testing.T) {
	scheduler := NewScheduler()

	worker := newMockWorker("test-worker", 100*time.Millisecond, true)
	scheduler.RegisterWorker(worker)

	ctx := context.Background()

	require.NoError(t, scheduler.Start(ctx))
	assert.Error(t, scheduler.Start(ctx))

	scheduler.Stop()
}

func TestScheduler_GetWorkers(t *testing.T) {
	scheduler := NewScheduler()

	worker1 := newMockWorker("worker-1", 100*time.Millisecond, true)
	worker2 := newMockWorker("worker-2", 200*time.Millisecond, false)

	scheduler.RegisterWorker(worker1)
	scheduler.RegisterWorker(worker2)

	workers := scheduler.GetWorkers()
	assert.Len(t, workers, 2)
	assert.Equal(t, "worker-1", workers[0].Name())
	assert.Equal(t, "worker-2", workers[1].Name())
}
