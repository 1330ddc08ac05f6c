package settings

// Keys of the operational settings this service reads. The settings table is
// owned and mutated by the operator-facing app; this service only reads it.
const (
	KeyAggregatorURL  = "hypertracker_api_url"
	KeyWhaleThreshold = "hypertracker_whale_threshold"
)

// Setting is one key-value row of runtime operational config
type Setting struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}
