package tracker

import (
	"context"
	"sync"
	"time"

	"hypertracker/internal/domain/heatmap"
	"hypertracker/internal/domain/settings"
	"hypertracker/internal/metrics"
	"hypertracker/pkg/errors"
	"hypertracker/pkg/logger"
)

// PriceSource provides the current USD spot price for a symbol
type PriceSource interface {
	GetPriceUSD(ctx context.Context, symbol string) (float64, error)
}

// HeatmapSource provides the current raw heatmap bins for a symbol
type HeatmapSource interface {
	GetHeatmap(ctx context.Context, symbol string) ([]heatmap.Entry, error)
}

// Channel delivers a report to one notification recipient
type Channel interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Service runs the heatmap ingestion pipeline and the change-detection pass
type Service struct {
	prices       PriceSource
	heatmaps     HeatmapSource
	settingsRepo settings.Repository
	snapshots    heatmap.Repository
	channel      Channel
	chatIDs      []int64
	nearestCount int
	log          *logger.Logger
}

// NewService creates a new tracker service
func NewService(
	prices PriceSource,
	heatmaps HeatmapSource,
	settingsRepo settings.Repository,
	snapshots heatmap.Repository,
	channel Channel,
	chatIDs []int64,
	nearestCount int,
) *Service {
	if nearestCount <= 0 {
		nearestCount = heatmap.DefaultNearestCount
	}
	return &Service{
		prices:       prices,
		heatmaps:     heatmaps,
		settingsRepo: settingsRepo,
		snapshots:    snapshots,
		channel:      channel,
		chatIDs:      chatIDs,
		nearestCount: nearestCount,
		log:          logger.Get().With("component", "tracker"),
	}
}

// RunIngestion executes one pipeline run for a symbol: fetch price, fetch
// heatmap, filter by whale threshold, persist the snapshot. Linear, terminal
// on first failure: a partial snapshot is worse than no snapshot. Each run
// gets its own timestamp, generated once up front and shared by the price
// row and every entry.
func (s *Service) RunIngestion(ctx context.Context, symbol string) error {
	timestamp := time.Now().UnixMilli()

	priceUSD, err := s.prices.GetPriceUSD(ctx, symbol)
	if err != nil {
		return errors.Wrapf(err, "fetch price for %s", symbol)
	}

	entries, err := s.heatmaps.GetHeatmap(ctx, symbol)
	if err != nil {
		return errors.Wrapf(err, "fetch heatmap for %s", symbol)
	}

	threshold, err := s.settingsRepo.GetFloat(ctx, settings.KeyWhaleThreshold)
	if err != nil {
		return errors.Wrap(err, "resolve whale threshold")
	}

	filtered := heatmap.FilterByThreshold(entries, threshold)
	for i := range filtered {
		filtered[i].Timestamp = timestamp
	}

	price := heatmap.Price{
		BaseCoin:  symbol,
		QuoteCoin: "USD",
		Price:     priceUSD,
		Timestamp: timestamp,
	}

	if err := s.snapshots.SaveSnapshot(ctx, price, filtered); err != nil {
		return errors.Wrapf(err, "persist snapshot for %s", symbol)
	}

	metrics.RecordSnapshot(symbol, len(filtered))
	s.log.Infow("Snapshot persisted",
		"symbol", symbol,
		"price", priceUSD,
		"bins_total", len(entries),
		"bins_retained", len(filtered),
		"threshold", threshold,
		"timestamp", timestamp,
	)

	return nil
}

// RunChangeDetection compares the two most recent snapshots for a symbol and
// broadcasts a report when any nearest level moved. A single-snapshot state
// means no diff is possible yet and is not an error.
func (s *Service) RunChangeDetection(ctx context.Context, symbol string) error {
	snapshots, err := s.snapshots.LatestSnapshots(ctx, symbol, 2)
	if err != nil {
		return errors.Wrapf(err, "load snapshots for %s", symbol)
	}
	if len(snapshots) < 2 {
		s.log.Debugw("Not enough snapshots for change detection",
			"symbol", symbol, "snapshots", len(snapshots))
		return nil
	}

	newer, older := snapshots[0], snapshots[1]

	olderNearest := heatmap.NearestTo(older.Price, older.Entries, s.nearestCount)
	newerNearest := heatmap.NearestTo(newer.Price, newer.Entries, s.nearestCount)

	diff, err := heatmap.Diff(olderNearest, newerNearest)
	if err != nil {
		if errors.Is(err, errors.ErrLevelCountMismatch) {
			// A level appeared or disappeared between snapshots; the next
			// tick realigns, so skip rather than fabricate deltas.
			s.log.Warnw("Skipping change detection, level counts differ",
				"symbol", symbol, "error", err)
			return nil
		}
		return errors.Wrapf(err, "diff snapshots for %s", symbol)
	}

	if !diff.HasChange() {
		s.log.Debugw("Nearest levels unchanged", "symbol", symbol)
		return nil
	}

	report := formatReport(symbol, newer.Price, newerNearest, diff)
	s.broadcast(ctx, symbol, report)

	return nil
}

// broadcast fans the report out to every chat concurrently and waits for all
// outcomes. Individual delivery failures are logged and counted but never
// escalated: partial delivery beats no delivery.
func (s *Service) broadcast(ctx context.Context, symbol, text string) {
	var wg sync.WaitGroup

	for _, chatID := range s.chatIDs {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()

			err := s.channel.Send(ctx, chatID, text)
			metrics.RecordNotification(symbol, err)
			if err != nil {
				s.log.Errorw("Failed to deliver change report",
					"symbol", symbol, "chat_id", chatID, "error", err)
				return
			}

			s.log.Infow("Change report delivered", "symbol", symbol, "chat_id", chatID)
		}(chatID)
	}

	wg.Wait()
}
