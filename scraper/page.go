package scraper

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/harupy/kernel-profiling/config"
)

// Page wraps a rod page with the operations the navigator needs. Stealth JS,
// extra headers, and the resource-blocking hijack are installed before the
// first navigation; they only take effect for navigations after install.
type Page struct {
	p      *rod.Page
	router *rod.HijackRouter
}

func newPage(browser *rod.Browser, cfg config.BrowserConfig) (*Page, error) {
	p, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, categorize(err, "failed to open page")
	}

	if cfg.Stealth {
		if _, evalErr := p.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	router := setupHijack(p, cfg.BlockedResourceTypes)

	return &Page{p: p, router: router}, nil
}

// Navigate opens the URL and sets a search-engine Referer beforehand so the
// visit does not look like a cold direct hit.
func (pg *Page) Navigate(ctx context.Context, target string) error {
	if u, err := url.Parse(target); err == nil {
		headers := proto.NetworkHeaders{
			"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
		}
		_ = proto.NetworkSetExtraHTTPHeaders{Headers: headers}.Call(pg.p)
	}

	if err := pg.p.Context(ctx).Navigate(target); err != nil {
		return categorize(err, "navigation to "+target+" failed")
	}
	return nil
}

// WaitStable waits for the DOM to stop mutating.
func (pg *Page) WaitStable(ctx context.Context) error {
	return pg.p.Context(ctx).WaitDOMStable(stableWindow, 0.1)
}

// WaitFor blocks until at least one element matches the selector.
func (pg *Page) WaitFor(ctx context.Context, selector string) error {
	return pg.p.Context(ctx).WaitElementsMoreThan(selector, 0)
}

// Count returns the number of elements currently matching the selector.
func (pg *Page) Count(selector string) (int, error) {
	els, err := pg.p.Elements(selector)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// Click clicks the first element matching the selector.
func (pg *Page) Click(ctx context.Context, selector string) error {
	el, err := pg.p.Context(ctx).Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// ClickByText clicks the first element matching the selector whose text
// matches the given regular expression.
func (pg *Page) ClickByText(ctx context.Context, selector, textRegex string) error {
	el, err := pg.p.Context(ctx).ElementR(selector, textRegex)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// Scroll scrolls down by the given number of viewports, pausing briefly
// between steps so lazy-loaded content can trigger.
func (pg *Page) Scroll(ctx context.Context, viewports int) error {
	if viewports <= 0 {
		viewports = 1
	}

	p := pg.p.Context(ctx)
	res, err := p.Eval(`() => window.innerHeight`)
	if err != nil {
		return err
	}
	viewportHeight := res.Value.Int()

	for i := 0; i < viewports; i++ {
		if err := p.Mouse.Scroll(0, float64(viewportHeight), 0); err != nil {
			return err
		}
		select {
		case <-time.After(100 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// HTML returns the page's rendered HTML.
func (pg *Page) HTML() (string, error) {
	html, err := pg.p.HTML()
	if err != nil {
		return "", categorize(err, "failed to extract page HTML")
	}
	return html, nil
}

// Close stops the hijack router and closes the tab.
func (pg *Page) Close() {
	if pg.router != nil {
		_ = pg.router.Stop()
	}
	if err := pg.p.Close(); err != nil {
		slog.Warn("failed to close page", "error", err)
	}
}
