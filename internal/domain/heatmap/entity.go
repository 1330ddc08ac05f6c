package heatmap

// Price represents a point-in-time spot price observation
type Price struct {
	BaseCoin  string  `db:"base_coin"`
	QuoteCoin string  `db:"quote_coin"`
	Price     float64 `db:"price"`
	Timestamp int64   `db:"timestamp"` // milliseconds since epoch
}

// Entry represents one liquidation-density bin at a point in time
type Entry struct {
	Coin                string  `db:"coin"`
	PriceBinStart       float64 `db:"price_bin_start"`
	PriceBinEnd         float64 `db:"price_bin_end"`
	LiquidationValue    float64 `db:"liquidation_value"` // aggregate USD notional at liquidation risk
	PositionsCount      int     `db:"positions_count"`
	MostImpactedSegment string  `db:"most_impacted_segment"`
	PriceBinIndex       int     `db:"price_bin_index"`
	Timestamp           int64   `db:"timestamp"`
}

// Snapshot is all heatmap bins for one coin recorded under one shared
// timestamp, paired with the coin's price at that timestamp
type Snapshot struct {
	Price   Price
	Entries []Entry
}

// NearestLevels holds the closest bins around a reference price.
// Bids are ordered by descending PriceBinEnd (closest first), asks by
// ascending PriceBinStart (closest first). A bin straddling the price
// belongs to neither side. Ties in the sort key keep input order.
type NearestLevels struct {
	Bids []Entry
	Asks []Entry
}

// SnapshotDiff holds per-level boundary deltas between two chronologically
// adjacent NearestLevels, aligned by position
type SnapshotDiff struct {
	BidDeltas []float64
	AskDeltas []float64
}

// HasChange reports whether any level moved between the two snapshots
func (d SnapshotDiff) HasChange() bool {
	for _, delta := range d.BidDeltas {
		if delta != 0 {
			return true
		}
	}
	for _, delta := range d.AskDeltas {
		if delta != 0 {
			return true
		}
	}
	return false
}
