package heatmap

import "context"

// Repository defines the interface for snapshot persistence
type Repository interface {
	// SaveSnapshot appends one price row and its heatmap entries under a
	// single shared timestamp. Both writes commit together or not at all.
	SaveSnapshot(ctx context.Context, price Price, entries []Entry) error

	// LatestSnapshots returns up to limit snapshots for a coin, newest
	// first. Fewer snapshots than requested is not an error.
	LatestSnapshots(ctx context.Context, coin string, limit int) ([]Snapshot, error)
}
