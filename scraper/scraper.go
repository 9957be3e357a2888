package scraper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/harupy/kernel-profiling/config"
	"github.com/harupy/kernel-profiling/models"
)

// Scraper owns the browser process for the whole run. The pipeline is
// strictly sequential, so pages are created on demand and closed by their
// users; there is no pool.
type Scraper struct {
	browser *rod.Browser
	cfg     config.BrowserConfig
}

// New launches a headless browser and connects to it. Callers must invoke
// Close on every exit path to avoid zombie Chrome processes.
func New(cfg config.BrowserConfig) (*Scraper, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewProfileError(
			models.ErrCodeSetup,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewProfileError(
			models.ErrCodeSetup,
			"failed to connect to browser",
			err,
		)
	}

	return &Scraper{browser: browser, cfg: cfg}, nil
}

// NewPage opens a fresh tab with stealth, headers, and resource blocking
// installed. The caller owns the page and must call its Close.
func (s *Scraper) NewPage() (*Page, error) {
	return newPage(s.browser, s.cfg)
}

// Render fetches a single URL with a throwaway page and returns the rendered
// HTML. It satisfies fetch.RenderFunc and backs the browser fetch engine.
func (s *Scraper) Render(ctx context.Context, url string) (string, error) {
	page, err := s.NewPage()
	if err != nil {
		return "", err
	}
	defer page.Close()

	if err := page.Navigate(ctx, url); err != nil {
		return "", err
	}
	if err := page.WaitStable(ctx); err != nil {
		slog.Debug("page did not stabilize, proceeding with current DOM",
			"url", url, "error", err)
	}
	return page.HTML()
}

// Close kills the browser process.
func (s *Scraper) Close() {
	slog.Info("scraper shutting down: closing browser")
	s.browser.MustClose()
}

// categorize wraps raw errors into typed ProfileErrors.
func categorize(err error, msg string) *models.ProfileError {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return models.NewProfileError(models.ErrCodeTimeout, msg, err)
	default:
		return models.NewProfileError(models.ErrCodeNavigationTimeout, msg, err)
	}
}

// stableWindow is the quiet period WaitDOMStable requires before it
// considers the page settled.
const stableWindow = 300 * time.Millisecond
