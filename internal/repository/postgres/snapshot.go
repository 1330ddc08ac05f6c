package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"hypertracker/internal/domain/heatmap"
	"hypertracker/pkg/errors"
)

// Compile-time check
var _ heatmap.Repository = (*SnapshotRepository)(nil)

// SnapshotRepository implements heatmap.Repository using sqlx
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SaveSnapshot appends the heatmap entries and the price row in one
// transaction. Entries go first and the price row last, so the price row
// doubles as the snapshot-complete marker LatestSnapshots keys on.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, price heatmap.Price, entries []heatmap.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrPersistence, "begin snapshot tx: %v", err)
	}
	defer tx.Rollback()

	entryQuery := `
		INSERT INTO liquidation_heatmap_entries (
			coin, price_bin_start, price_bin_end, liquidation_value,
			positions_count, most_impacted_segment, price_bin_index, timestamp
		) VALUES (
			:coin, :price_bin_start, :price_bin_end, :liquidation_value,
			:positions_count, :most_impacted_segment, :price_bin_index, :timestamp
		)`

	for _, entry := range entries {
		if _, err := tx.NamedExecContext(ctx, entryQuery, entry); err != nil {
			return errors.Wrapf(errors.ErrPersistence, "insert heatmap entry bin %d: %v", entry.PriceBinIndex, err)
		}
	}

	priceQuery := `
		INSERT INTO prices (base_coin, quote_coin, price, timestamp)
		VALUES (:base_coin, :quote_coin, :price, :timestamp)`

	if _, err := tx.NamedExecContext(ctx, priceQuery, price); err != nil {
		return errors.Wrapf(errors.ErrPersistence, "insert price: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrapf(errors.ErrPersistence, "commit snapshot: %v", err)
	}

	return nil
}

// LatestSnapshots returns up to limit snapshots for a coin, newest first
func (r *SnapshotRepository) LatestSnapshots(ctx context.Context, coin string, limit int) ([]heatmap.Snapshot, error) {
	var prices []heatmap.Price

	priceQuery := `
		SELECT base_coin, quote_coin, price, timestamp FROM prices
		WHERE base_coin = $1
		ORDER BY timestamp DESC
		LIMIT $2`

	if err := r.db.SelectContext(ctx, &prices, priceQuery, coin, limit); err != nil {
		return nil, errors.Wrapf(errors.ErrPersistence, "select prices for %s: %v", coin, err)
	}

	entryQuery := `
		SELECT coin, price_bin_start, price_bin_end, liquidation_value,
		       positions_count, most_impacted_segment, price_bin_index, timestamp
		FROM liquidation_heatmap_entries
		WHERE coin = $1 AND timestamp = $2
		ORDER BY price_bin_index`

	snapshots := make([]heatmap.Snapshot, 0, len(prices))
	for _, price := range prices {
		var entries []heatmap.Entry
		if err := r.db.SelectContext(ctx, &entries, entryQuery, coin, price.Timestamp); err != nil {
			return nil, errors.Wrapf(errors.ErrPersistence, "select entries for %s@%d: %v", coin, price.Timestamp, err)
		}
		snapshots = append(snapshots, heatmap.Snapshot{Price: price, Entries: entries})
	}

	return snapshots, nil
}
