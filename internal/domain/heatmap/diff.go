package heatmap

import "hypertracker/pkg/errors"

// Diff computes per-level boundary deltas between the nearest levels of an
// older and a newer snapshot, aligned by position.
//
// Signs encode wall movement relative to price: a positive bid delta means
// the bid wall moved down (away from price), a positive ask delta means the
// ask wall moved up (away from price).
//
// When either side has a different number of levels in the two snapshots
// there is no positional correspondence to diff against and
// ErrLevelCountMismatch is returned; callers treat that tick as having
// insufficient data rather than guessing an alignment.
func Diff(older, newer NearestLevels) (SnapshotDiff, error) {
	if len(older.Bids) != len(newer.Bids) {
		return SnapshotDiff{}, errors.Wrapf(errors.ErrLevelCountMismatch,
			"bids: %d vs %d", len(older.Bids), len(newer.Bids))
	}
	if len(older.Asks) != len(newer.Asks) {
		return SnapshotDiff{}, errors.Wrapf(errors.ErrLevelCountMismatch,
			"asks: %d vs %d", len(older.Asks), len(newer.Asks))
	}

	diff := SnapshotDiff{
		BidDeltas: make([]float64, len(older.Bids)),
		AskDeltas: make([]float64, len(older.Asks)),
	}

	for i := range older.Bids {
		diff.BidDeltas[i] = older.Bids[i].PriceBinStart - newer.Bids[i].PriceBinStart
	}
	for i := range older.Asks {
		diff.AskDeltas[i] = newer.Asks[i].PriceBinEnd - older.Asks[i].PriceBinEnd
	}

	return diff, nil
}
