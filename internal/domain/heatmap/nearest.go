package heatmap

import "sort"

// DefaultNearestCount is the number of levels selected on each side of price
const DefaultNearestCount = 3

// NearestTo selects up to n bins strictly below the price (bids) and up to n
// strictly above it (asks), closest first on both sides. A bin whose range
// contains the price is the price's own bin, not a level, and is excluded.
func NearestTo(price Price, entries []Entry, n int) NearestLevels {
	if n <= 0 {
		n = DefaultNearestCount
	}

	var below, above []Entry
	for _, e := range entries {
		switch {
		case e.PriceBinEnd < price.Price:
			below = append(below, e)
		case e.PriceBinStart > price.Price:
			above = append(above, e)
		}
	}

	sort.SliceStable(below, func(i, j int) bool {
		return below[i].PriceBinEnd > below[j].PriceBinEnd
	})
	sort.SliceStable(above, func(i, j int) bool {
		return above[i].PriceBinStart < above[j].PriceBinStart
	})

	if len(below) > n {
		below = below[:n]
	}
	if len(above) > n {
		above = above[:n]
	}

	return NearestLevels{Bids: below, Asks: above}
}
