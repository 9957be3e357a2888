package profiler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harupy/kernel-profiling/cache"
	"github.com/harupy/kernel-profiling/config"
	"github.com/harupy/kernel-profiling/extract"
	"github.com/harupy/kernel-profiling/fetch"
	"github.com/harupy/kernel-profiling/models"
	"github.com/harupy/kernel-profiling/report"
	"github.com/harupy/kernel-profiling/scraper"
)

// TopURL is the site root all relative kernel links resolve against.
const TopURL = "https://www.kaggle.com"

// versionCacheAge bounds how long fetched version pages stay reusable.
// Version pages are immutable once committed, so a generous window is safe.
const versionCacheAge = 15 * time.Minute

// Options are the run-scoped knobs from the CLI.
type Options struct {
	// Comp is the competition tag (e.g. "titanic").
	Comp string

	// Count is the number of kernels to profile.
	Count int

	// Versions toggles per-kernel version history profiling.
	Versions bool

	// Output is the report path.
	Output string
}

// pageFetcher retrieves a rendered page body. *fetch.Dispatcher implements it.
type pageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Run executes the whole pipeline: launch browser, load the listing, extract
// records, optionally walk version histories, and write the report. The
// browser is closed on every exit path. On failure no report is written.
func Run(ctx context.Context, cfg *config.Config, opts Options) error {
	// ── 1. Driver bootstrap ─────────────────────────────────────────
	sc, err := scraper.New(cfg.Browser)
	if err != nil {
		return err
	}
	defer sc.Close()

	page, err := sc.NewPage()
	if err != nil {
		return err
	}
	defer page.Close()

	nav := scraper.NewNavigator(page, cfg.Navigator)

	var fetcher pageFetcher
	if opts.Versions {
		fetcher = newVersionFetcher(cfg, sc)
	}
	return profile(ctx, nav, fetcher, opts)
}

// profile runs everything after browser bootstrap: listing load, record
// extraction, version profiling, and the report write. Any error before the
// report step leaves the output path untouched.
func profile(ctx context.Context, nav *scraper.Navigator, fetcher pageFetcher, opts Options) error {
	// ── 2. Load the competition listing ─────────────────────────────
	listingURL := fmt.Sprintf("%s/c/%s/code", TopURL, opts.Comp)
	slog.Info("loading competition listing", "url", listingURL, "target", opts.Count)

	listingHTML, err := nav.LoadListing(ctx, listingURL, opts.Count)
	if err != nil {
		return err
	}

	// ── 3. Extract kernel records ───────────────────────────────────
	records, err := extract.ParseListing(listingHTML, TopURL)
	if err != nil {
		return models.NewProfileError(models.ErrCodeFieldParse, "listing extraction failed", err)
	}
	if len(records) > opts.Count {
		records = records[:opts.Count]
	}
	slog.Info("extracted kernel records", "count", len(records))

	// ── 4. Profile version histories ────────────────────────────────
	profiles := make([]models.Profile, 0, len(records))
	if opts.Versions {
		for i, rec := range records {
			slog.Info("processing kernel",
				"url", rec.URL,
				"index", i+1,
				"total", len(records),
			)
			profiles = append(profiles, profileKernel(ctx, nav, fetcher, rec))
		}
	} else {
		for _, rec := range records {
			profiles = append(profiles, models.Profile{Record: rec})
		}
	}

	// ── 5. Write the report ─────────────────────────────────────────
	if err := report.Save(opts.Output, profiles, time.Now()); err != nil {
		return err
	}
	slog.Info("report written", "path", opts.Output, "kernels", len(profiles))
	return nil
}

// newVersionFetcher assembles the HTTP-first, browser-fallback fetch path for
// version pages. A body is acceptable without rendering when it already
// carries the score blob or does not look like an SPA shell.
func newVersionFetcher(cfg *config.Config, sc *scraper.Scraper) *fetch.Dispatcher {
	accept := func(body []byte) bool {
		return bytes.Contains(body, []byte(`"publicScore"`)) || !fetch.NeedsRender(body)
	}
	return fetch.NewDispatcher(
		[]fetch.Engine{
			fetch.NewHTTPEngine(cfg.Fetch, cfg.Browser.Proxy),
			fetch.NewBrowserEngine(sc.Render),
		},
		cache.New(cfg.Fetch.CacheMaxEntries, versionCacheAge),
		accept,
	)
}

// profileKernel collects one kernel's version history and scores. Failures
// degrade to a profile without versions; a single broken kernel must not
// abort the run.
func profileKernel(ctx context.Context, nav *scraper.Navigator, fetcher pageFetcher, rec models.KernelRecord) models.Profile {
	paneHTML, err := nav.OpenVersionPane(ctx, rec.URL)
	if err != nil {
		slog.Warn("skipping version history", "url", rec.URL, "error", err)
		return models.Profile{Record: rec}
	}

	// The kernel page carries the best score even when the listing card
	// omitted it.
	if rec.Meta.BestScore == "" {
		if s := extract.BestPublicScore(paneHTML); s != 0 {
			rec.Meta.BestScore = fmt.Sprintf("%g", s)
		}
	}

	versions, err := extract.ParseVersions(paneHTML, TopURL)
	if err != nil {
		slog.Warn("version table unreadable", "url", rec.URL, "error", err)
		return models.Profile{Record: rec}
	}

	for i := range versions {
		body, err := fetcher.Fetch(ctx, versions[i].URL)
		if err != nil {
			slog.Warn("version page fetch failed",
				"url", versions[i].URL,
				"code", models.ErrCodeFetch,
				"error", err,
			)
			continue
		}
		versions[i].Score = extract.PublicScore(string(body))
	}

	return models.Profile{Record: rec, Versions: versions}
}
