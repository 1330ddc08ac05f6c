package tracker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"hypertracker/internal/domain/heatmap"
)

// formatReport builds the HTML change report: asks furthest to nearest, the
// current price, then bids nearest to furthest, so the lines read like a
// ladder around price.
func formatReport(symbol string, price heatmap.Price, levels heatmap.NearestLevels, diff heatmap.SnapshotDiff) string {
	lines := make([]string, 0, len(levels.Asks)+len(levels.Bids)+3)

	lines = append(lines,
		fmt.Sprintf("<b>HyperTracker Liquidation Heat Map Change for %s</b>", symbol),
		"Bids/Asks",
	)

	for i := len(levels.Asks) - 1; i >= 0; i-- {
		lines = append(lines, formatLevel(levels.Asks[i], diff.AskDeltas[i]))
	}

	lines = append(lines, fmt.Sprintf("Price: %s", formatPrice(price.Price)))

	for i, bid := range levels.Bids {
		lines = append(lines, formatLevel(bid, diff.BidDeltas[i]))
	}

	return strings.Join(lines, "\n")
}

func formatLevel(level heatmap.Entry, delta float64) string {
	return fmt.Sprintf("%s - %s (%s) Change: %.2f",
		formatPrice(level.PriceBinStart),
		formatPrice(level.PriceBinEnd),
		compactNotional(level.LiquidationValue),
		delta,
	)
}

// formatPrice renders a price without trailing zeros
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// compactNotional renders a USD notional in compact form ("80k", "2.2M")
func compactNotional(v float64) string {
	return strings.ReplaceAll(humanize.SIWithDigits(v, 2, ""), " ", "")
}
