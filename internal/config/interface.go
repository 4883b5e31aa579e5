package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given files or directories, merges
	// it over Default, and validates the result.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
