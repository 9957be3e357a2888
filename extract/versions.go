package extract

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/harupy/kernel-profiling/models"
)

// reVersionsTable matches the generated class name of the version history
// table inside the kernel editor pane.
var reVersionsTable = regexp.MustCompile(`VersionsPaneContent_IdeVersionsTable`)

// ParseVersions parses a kernel page with the version history pane open and
// returns the version rows in table order. Rows without an href (draft or
// failed versions) are skipped silently; they have no page to score.
func ParseVersions(rawHTML, baseURL string) ([]models.KernelVersion, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse version pane HTML: %w", err)
	}

	table := doc.Find("table").FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		return reVersionsTable.MatchString(class)
	}).First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("version history table not found")
	}

	versions := []models.KernelVersion{}
	table.Find("tbody > tr").Each(func(i int, row *goquery.Selection) {
		// The first anchor is the author avatar; the second links the version.
		link := row.Find("a").Eq(1)
		href, ok := link.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		abs, err := base.Parse(strings.TrimSpace(href))
		if err != nil {
			slog.Warn("skipping version row",
				"index", i,
				"code", models.ErrCodeFieldParse,
				"error", err,
			)
			return
		}

		versions = append(versions, models.KernelVersion{
			Label:       strings.TrimSpace(link.Text()),
			CommittedAt: strings.TrimSpace(row.Find("span").First().Text()),
			URL:         abs.String(),
		})
	})

	return versions, nil
}
