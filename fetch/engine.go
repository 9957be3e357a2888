package fetch

import "context"

// Engine is the interface all page-fetch engines implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http", "browser").
	Name() string

	// Fetch retrieves the raw HTML body of the given URL.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
