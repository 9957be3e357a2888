package fetch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harupy/kernel-profiling/cache"
)

// Dispatcher coordinates fetch engines with staged escalation: the fastest
// engine runs first and the dispatcher escalates to heavier engines when an
// earlier one fails or returns a body that still needs rendering.
//
// A response cache sits in front of the engines so a retried kernel does not
// refetch its version pages.
type Dispatcher struct {
	engines []Engine
	cache   *cache.Cache

	// accept reports whether a body is usable as-is. A body rejected by a
	// non-final engine triggers escalation. nil accepts everything.
	accept func(body []byte) bool
}

// NewDispatcher creates a Dispatcher over the given engines, tried in order.
// c may be nil to disable caching.
func NewDispatcher(engines []Engine, c *cache.Cache, accept func([]byte) bool) *Dispatcher {
	return &Dispatcher{engines: engines, cache: c, accept: accept}
}

// Fetch returns the first acceptable body. The final engine's body is
// returned even when the accept check rejects it: a rendered-but-sparse page
// beats no page. If every engine errors, the last error is returned.
func (d *Dispatcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	key := cache.Key(url)
	if d.cache != nil {
		if body, ok := d.cache.Get(key); ok {
			slog.Debug("fetch cache hit", "url", url)
			return body, nil
		}
	}

	var lastErr error
	for i, eng := range d.engines {
		body, err := eng.Fetch(ctx, url)
		if err != nil {
			slog.Debug("engine failed", "engine", eng.Name(), "url", url, "error", err)
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		last := i == len(d.engines)-1
		if !last && d.accept != nil && !d.accept(body) {
			slog.Debug("engine body needs rendering, escalating",
				"engine", eng.Name(), "url", url)
			continue
		}

		if d.cache != nil {
			d.cache.Set(key, body)
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no engines configured")
	}
	return nil, fmt.Errorf("all engines failed for %s: %w", url, lastErr)
}
