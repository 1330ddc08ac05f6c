package heatmap

// FilterByThreshold returns the bins whose liquidation value meets the whale
// threshold, preserving input order
func FilterByThreshold(entries []Entry, threshold float64) []Entry {
	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.LiquidationValue >= threshold {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
