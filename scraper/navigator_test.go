package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/harupy/kernel-profiling/config"
	"github.com/harupy/kernel-profiling/models"
)

// fakePage scripts the page behavior the navigator observes.
type fakePage struct {
	counts    []int // successive Count results; last value repeats
	countIdx  int
	html      string
	navErr    error
	waitForEl map[string]error // per-selector WaitFor result
	scrolls   int
	clicked   []string
}

func (f *fakePage) Navigate(ctx context.Context, url string) error { return f.navErr }
func (f *fakePage) WaitStable(ctx context.Context) error           { return nil }

func (f *fakePage) WaitFor(ctx context.Context, selector string) error {
	if err, ok := f.waitForEl[selector]; ok {
		return err
	}
	return nil
}

func (f *fakePage) Count(selector string) (int, error) {
	if len(f.counts) == 0 {
		return 0, nil
	}
	n := f.counts[min(f.countIdx, len(f.counts)-1)]
	f.countIdx++
	return n, nil
}

func (f *fakePage) Click(ctx context.Context, selector string) error {
	f.clicked = append(f.clicked, selector)
	return nil
}

func (f *fakePage) ClickByText(ctx context.Context, selector, textRegex string) error {
	f.clicked = append(f.clicked, selector+"|"+textRegex)
	return nil
}

func (f *fakePage) Scroll(ctx context.Context, viewports int) error {
	f.scrolls++
	return nil
}

func (f *fakePage) HTML() (string, error) { return f.html, nil }

func testNavConfig() config.NavigatorConfig {
	return config.NavigatorConfig{
		NavTimeout:      time.Second,
		WaitAttempts:    3,
		WaitDelay:       time.Millisecond,
		SortByBestScore: false,
	}
}

func TestLoadListing_EnoughEntries(t *testing.T) {
	page := &fakePage{counts: []int{5, 12, 25}, html: "<html>listing</html>"}
	nav := NewNavigator(page, testNavConfig())

	html, err := nav.LoadListing(context.Background(), "https://www.kaggle.com/c/titanic/code", 20)
	if err != nil {
		t.Fatalf("LoadListing returned error: %v", err)
	}
	if html != "<html>listing</html>" {
		t.Errorf("got html %q", html)
	}
	if page.scrolls != 2 {
		t.Errorf("scrolled %d times, want 2", page.scrolls)
	}
}

func TestLoadListing_BudgetExhaustedZeroEntries(t *testing.T) {
	page := &fakePage{counts: []int{0}}
	nav := NewNavigator(page, testNavConfig())

	_, err := nav.LoadListing(context.Background(), "https://www.kaggle.com/c/titanic/code", 20)
	if err == nil {
		t.Fatal("expected a navigation timeout")
	}

	var perr *models.ProfileError
	if !errors.As(err, &perr) {
		t.Fatalf("error %T is not a ProfileError", err)
	}
	if perr.Code != models.ErrCodeNavigationTimeout {
		t.Errorf("code = %q, want %q", perr.Code, models.ErrCodeNavigationTimeout)
	}
}

func TestLoadListing_PartialListingProceeds(t *testing.T) {
	page := &fakePage{counts: []int{7}, html: "<html>partial</html>"}
	nav := NewNavigator(page, testNavConfig())

	html, err := nav.LoadListing(context.Background(), "https://www.kaggle.com/c/titanic/code", 20)
	if err != nil {
		t.Fatalf("LoadListing returned error: %v", err)
	}
	if html != "<html>partial</html>" {
		t.Errorf("got html %q", html)
	}
	// The budget is fully spent before settling for a partial listing.
	if page.scrolls != 3 {
		t.Errorf("scrolled %d times, want 3", page.scrolls)
	}
}

func TestLoadListing_ZeroAttemptsUsesAttachedCards(t *testing.T) {
	cfg := testNavConfig()
	cfg.WaitAttempts = 0
	page := &fakePage{counts: []int{25}, html: "<html>first paint</html>"}
	nav := NewNavigator(page, cfg)

	html, err := nav.LoadListing(context.Background(), "https://www.kaggle.com/c/titanic/code", 20)
	if err != nil {
		t.Fatalf("LoadListing returned error: %v", err)
	}
	if html != "<html>first paint</html>" {
		t.Errorf("got html %q", html)
	}
	if page.scrolls != 0 {
		t.Errorf("scrolled %d times, want 0", page.scrolls)
	}
}

func TestLoadListing_NavigateError(t *testing.T) {
	page := &fakePage{navErr: fmt.Errorf("dns failure")}
	nav := NewNavigator(page, testNavConfig())

	if _, err := nav.LoadListing(context.Background(), "https://www.kaggle.com/c/x/code", 20); err == nil {
		t.Fatal("expected navigate error to propagate")
	}
}

func TestLoadListing_SortBestScore(t *testing.T) {
	cfg := testNavConfig()
	cfg.SortByBestScore = true
	page := &fakePage{counts: []int{20}, html: "<html></html>"}
	nav := NewNavigator(page, cfg)

	if _, err := nav.LoadListing(context.Background(), "https://www.kaggle.com/c/titanic/code", 20); err != nil {
		t.Fatalf("LoadListing returned error: %v", err)
	}

	want := []string{sortSelectSelector, sortOptionSelector + "|^Best Score$"}
	if len(page.clicked) != len(want) {
		t.Fatalf("clicked %v, want %v", page.clicked, want)
	}
	for i := range want {
		if page.clicked[i] != want[i] {
			t.Errorf("click %d = %q, want %q", i, page.clicked[i], want[i])
		}
	}
}

func TestOpenVersionPane(t *testing.T) {
	page := &fakePage{html: "<html>versions</html>"}
	nav := NewNavigator(page, testNavConfig())

	html, err := nav.OpenVersionPane(context.Background(), "https://www.kaggle.com/x/kernel")
	if err != nil {
		t.Fatalf("OpenVersionPane returned error: %v", err)
	}
	if html != "<html>versions</html>" {
		t.Errorf("got html %q", html)
	}
	if len(page.clicked) != 1 || page.clicked[0] != historyIconSel {
		t.Errorf("clicked %v, want [%s]", page.clicked, historyIconSel)
	}
}

func TestOpenVersionPane_HistoryControlMissing(t *testing.T) {
	page := &fakePage{waitForEl: map[string]error{historyIconSel: context.DeadlineExceeded}}
	nav := NewNavigator(page, testNavConfig())

	_, err := nav.OpenVersionPane(context.Background(), "https://www.kaggle.com/x/kernel")
	if err == nil {
		t.Fatal("expected error when history control never appears")
	}

	var perr *models.ProfileError
	if !errors.As(err, &perr) {
		t.Fatalf("error %T is not a ProfileError", err)
	}
	if perr.Code != models.ErrCodeTimeout {
		t.Errorf("code = %q, want %q", perr.Code, models.ErrCodeTimeout)
	}
}
