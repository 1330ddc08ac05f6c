package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypertracker/pkg/errors"
)

func TestDiff(t *testing.T) {
	t.Run("BidSignConvention", func(t *testing.T) {
		// A bid wall whose start drops from 100 to 95 moved down, away
		// from price: delta must be +5
		older := NearestLevels{Bids: []Entry{binAt(100, 110)}}
		newer := NearestLevels{Bids: []Entry{binAt(95, 105)}}

		diff, err := Diff(older, newer)
		require.NoError(t, err)
		assert.Equal(t, []float64{5}, diff.BidDeltas)
	})

	t.Run("AskSignConvention", func(t *testing.T) {
		// An ask wall whose end rises from 200 to 210 moved up, away
		// from price: delta must be +10
		older := NearestLevels{Asks: []Entry{binAt(190, 200)}}
		newer := NearestLevels{Asks: []Entry{binAt(200, 210)}}

		diff, err := Diff(older, newer)
		require.NoError(t, err)
		assert.Equal(t, []float64{10}, diff.AskDeltas)
	})

	t.Run("IdenticalLevelsHaveNoChange", func(t *testing.T) {
		levels := NearestLevels{
			Bids: []Entry{binAt(2900, 2950), binAt(2800, 2850)},
			Asks: []Entry{binAt(3050, 3100)},
		}

		diff, err := Diff(levels, levels)
		require.NoError(t, err)
		assert.False(t, diff.HasChange())
	})

	t.Run("AnyNonZeroDeltaIsChange", func(t *testing.T) {
		older := NearestLevels{
			Bids: []Entry{binAt(2900, 2950)},
			Asks: []Entry{binAt(3050, 3100)},
		}
		newer := NearestLevels{
			Bids: []Entry{binAt(2870, 2920)},
			Asks: []Entry{binAt(3050, 3100)},
		}

		diff, err := Diff(older, newer)
		require.NoError(t, err)
		assert.True(t, diff.HasChange())
		assert.Equal(t, []float64{30}, diff.BidDeltas)
		assert.Equal(t, []float64{0}, diff.AskDeltas)
	})

	t.Run("BidCountMismatch", func(t *testing.T) {
		older := NearestLevels{Bids: []Entry{binAt(100, 110), binAt(80, 90)}}
		newer := NearestLevels{Bids: []Entry{binAt(95, 105)}}

		_, err := Diff(older, newer)
		assert.True(t, errors.Is(err, errors.ErrLevelCountMismatch))
	})

	t.Run("AskCountMismatch", func(t *testing.T) {
		older := NearestLevels{Asks: []Entry{binAt(190, 200)}}
		newer := NearestLevels{Asks: []Entry{binAt(200, 210), binAt(220, 230)}}

		_, err := Diff(older, newer)
		assert.True(t, errors.Is(err, errors.ErrLevelCountMismatch))
	})

	t.Run("EmptyLevels", func(t *testing.T) {
		diff, err := Diff(NearestLevels{}, NearestLevels{})
		require.NoError(t, err)
		assert.False(t, diff.HasChange())
	})
}
