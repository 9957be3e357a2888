package fetch

import "context"

// RenderFunc fetches a URL with a real browser and returns the rendered HTML.
// The scraper supplies this callback; the fetch package never imports the
// scraper, which keeps the dependency one-directional.
type RenderFunc func(ctx context.Context, url string) (string, error)

// BrowserEngine renders pages with a real browser via the supplied callback.
// It is the slow path the dispatcher escalates to when plain HTTP is not
// enough.
type BrowserEngine struct {
	render RenderFunc
}

// NewBrowserEngine wraps a render callback as an Engine.
func NewBrowserEngine(render RenderFunc) *BrowserEngine {
	return &BrowserEngine{render: render}
}

func (e *BrowserEngine) Name() string { return "browser" }

func (e *BrowserEngine) Fetch(ctx context.Context, url string) ([]byte, error) {
	html, err := e.render(ctx, url)
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}
