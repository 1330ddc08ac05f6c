package settings

import "context"

// Repository defines read access to the runtime settings table
type Repository interface {
	// Get returns the value for key, or ErrConfigMissing when no row exists
	Get(ctx context.Context, key string) (string, error)

	// GetFloat returns the value for key parsed as a float, or
	// ErrConfigInvalid when the stored value is not numeric
	GetFloat(ctx context.Context, key string) (float64, error)
}
