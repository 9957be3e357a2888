package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/harupy/kernel-profiling/config"
	"github.com/harupy/kernel-profiling/models"
)

// Selectors for the competition code listing and the kernel editor.
const (
	// CardSelector matches one kernel card in the listing.
	CardSelector = "div.block-link--bordered"

	sortSelectSelector = "div.KaggleSelect"
	sortOptionSelector = "div.Select-menu-outer div"
	historyIconSel     = "span.fa-history"
	versionModalSel    = "div.vote-button__voters-modal-title"
)

// listingPage is the slice of browser behavior the navigator drives.
// *Page implements it; tests substitute a fake.
type listingPage interface {
	Navigate(ctx context.Context, url string) error
	WaitStable(ctx context.Context) error
	WaitFor(ctx context.Context, selector string) error
	Count(selector string) (int, error)
	Click(ctx context.Context, selector string) error
	ClickByText(ctx context.Context, selector, textRegex string) error
	Scroll(ctx context.Context, viewports int) error
	HTML() (string, error)
}

// Navigator drives a page through the listing flow: open, sort, and a
// bounded wait/scroll loop until enough kernel cards are attached.
type Navigator struct {
	page listingPage
	cfg  config.NavigatorConfig
}

// NewNavigator creates a Navigator over the given page.
func NewNavigator(page listingPage, cfg config.NavigatorConfig) *Navigator {
	return &Navigator{page: page, cfg: cfg}
}

// LoadListing opens the listing URL and returns the rendered HTML once at
// least target cards are attached or the attempt budget is spent. Ending the
// budget with zero cards is a navigation timeout; ending with fewer than
// target cards is not (the competition may simply have fewer kernels).
func (n *Navigator) LoadListing(ctx context.Context, listingURL string, target int) (string, error) {
	if err := n.page.Navigate(ctx, listingURL); err != nil {
		return "", err
	}

	// First paint. A miss here is not yet fatal: the scroll loop below may
	// still coax the listing into rendering.
	if err := n.waitForCards(ctx); err != nil {
		slog.Debug("listing cards not present after initial wait", "error", err)
	}

	if n.cfg.SortByBestScore {
		if err := n.selectBestScore(ctx); err != nil {
			slog.Debug("sort control unavailable, keeping listing order", "error", err)
		}
	}

	// Count before entering the wait loop so cards that are already attached
	// satisfy the target even with a zero attempt budget.
	count, err := n.page.Count(CardSelector)
	if err != nil {
		return "", categorize(err, "failed to count listing entries")
	}
	for attempt := 1; attempt <= n.cfg.WaitAttempts && count < target; attempt++ {
		slog.Info("waiting for listing entries",
			"attempt", attempt,
			"visible", count,
			"target", target,
		)

		if err := n.page.Scroll(ctx, 1); err != nil {
			return "", categorize(err, "failed to scroll listing")
		}
		select {
		case <-time.After(n.cfg.WaitDelay):
		case <-ctx.Done():
			return "", categorize(ctx.Err(), "listing load interrupted")
		}

		count, err = n.page.Count(CardSelector)
		if err != nil {
			return "", categorize(err, "failed to count listing entries")
		}
	}

	if count == 0 {
		return "", models.NewProfileError(
			models.ErrCodeNavigationTimeout,
			fmt.Sprintf("no listing entries appeared after %d attempts", n.cfg.WaitAttempts),
			nil,
		)
	}
	if count < target {
		slog.Warn("proceeding with partial listing", "visible", count, "target", target)
	}

	return n.page.HTML()
}

// OpenVersionPane opens a kernel page and its version history pane, and
// returns the rendered HTML.
func (n *Navigator) OpenVersionPane(ctx context.Context, kernelURL string) (string, error) {
	if err := n.page.Navigate(ctx, kernelURL); err != nil {
		return "", err
	}

	waitCtx, cancel := context.WithTimeout(ctx, n.cfg.NavTimeout)
	defer cancel()

	if err := n.page.WaitFor(waitCtx, historyIconSel); err != nil {
		return "", categorize(err, "version history control never appeared")
	}
	if err := n.page.Click(ctx, historyIconSel); err != nil {
		return "", categorize(err, "failed to open version history")
	}
	if err := n.page.WaitFor(waitCtx, versionModalSel); err != nil {
		return "", categorize(err, "version history pane never appeared")
	}
	if err := n.page.WaitStable(ctx); err != nil {
		slog.Debug("version pane did not stabilize, proceeding", "error", err)
	}

	return n.page.HTML()
}

// waitForCards waits for the first listing card within the nav timeout.
func (n *Navigator) waitForCards(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, n.cfg.NavTimeout)
	defer cancel()
	return n.page.WaitFor(waitCtx, CardSelector)
}

// selectBestScore clicks through the sort select and picks "Best Score".
// Best-effort: the site reworks this control often, and a failed sort only
// changes record order, never correctness.
func (n *Navigator) selectBestScore(ctx context.Context) error {
	sortCtx, cancel := context.WithTimeout(ctx, n.cfg.NavTimeout)
	defer cancel()

	if err := n.page.Click(sortCtx, sortSelectSelector); err != nil {
		return fmt.Errorf("open sort select: %w", err)
	}
	if err := n.page.WaitFor(sortCtx, sortOptionSelector); err != nil {
		return fmt.Errorf("sort menu never opened: %w", err)
	}
	if err := n.page.ClickByText(sortCtx, sortOptionSelector, "^Best Score$"); err != nil {
		return fmt.Errorf("pick best-score option: %w", err)
	}
	if err := n.page.WaitStable(sortCtx); err != nil {
		slog.Debug("listing did not stabilize after sort", "error", err)
	}
	return nil
}
