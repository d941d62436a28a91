package motor

import "context"

// Resolver is what the picker needs from a data source. DataSource is the
// production implementation; tests substitute their own.
type Resolver interface {
	// ResolveCountries returns the raw country records, or an error wrapping
	// ErrDataUnavailable when no source could be read.
	ResolveCountries(ctx context.Context) ([]Country, error)

	// ResolveUserLocation always returns a location with a country code,
	// falling back to a configured default.
	ResolveUserLocation(ctx context.Context) Location
}

var _ Resolver = (*DataSource)(nil)
