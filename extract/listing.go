package extract

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/harupy/kernel-profiling/models"
)

// ParseListing parses the rendered competition code listing and returns the
// kernel records in display order. A card with a missing or unparsable
// required field (title, URL, author, votes) is skipped with a warning;
// extraction of the remaining cards continues.
func ParseListing(rawHTML, baseURL string) ([]models.KernelRecord, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse listing HTML: %w", err)
	}

	records := []models.KernelRecord{}
	seen := make(map[string]struct{})

	doc.Find("div.block-link--bordered").Each(func(i int, card *goquery.Selection) {
		rec, err := parseCard(card, base)
		if err != nil {
			slog.Warn("skipping listing entry",
				"index", i,
				"code", models.ErrCodeFieldParse,
				"error", err,
			)
			return
		}

		// Incremental loads can re-render earlier cards; keep the first.
		if _, dup := seen[rec.URL]; dup {
			return
		}
		seen[rec.URL] = struct{}{}

		rec.Rank = len(records) + 1
		records = append(records, rec)
	})

	return records, nil
}

// parseCard reads one listing card. Title, URL, author name, and vote count
// are required; everything else is best-effort metadata.
func parseCard(card *goquery.Selection, base *url.URL) (models.KernelRecord, error) {
	var rec models.KernelRecord

	rec.Title = strings.TrimSpace(card.Find("div.kernel-list-item__name").First().Text())
	if rec.Title == "" {
		return rec, fmt.Errorf("card has no title")
	}

	href, ok := card.Find("a.block-link__anchor").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return rec, fmt.Errorf("card %q has no link", rec.Title)
	}
	abs, err := base.Parse(strings.TrimSpace(href))
	if err != nil {
		return rec, fmt.Errorf("card %q has malformed link %q: %w", rec.Title, href, err)
	}
	rec.URL = abs.String()

	author, ok := card.Find("span.tooltip-container").First().Attr("data-tooltip")
	if !ok || strings.TrimSpace(author) == "" {
		return rec, fmt.Errorf("card %q has no author", rec.Title)
	}
	rec.Meta.AuthorName = strings.TrimSpace(author)

	voteSel := card.Find("span.vote-button__vote-count")
	if voteSel.Length() == 0 {
		return rec, fmt.Errorf("card %q has no vote count", rec.Title)
	}
	voteText := strings.TrimSpace(voteSel.First().Text())
	votes, err := parseCount(voteText)
	if err != nil {
		return rec, fmt.Errorf("card %q has unparsable vote count %q: %w", rec.Title, voteText, err)
	}
	rec.Votes = votes

	// Optional metadata below; absence is not an error.
	if authorHref, ok := card.Find("a.avatar").First().Attr("href"); ok {
		if u, err := base.Parse(strings.TrimSpace(authorHref)); err == nil {
			rec.Meta.AuthorURL = u.String()
		}
	}
	if src, ok := card.Find("img.avatar__thumbnail").First().Attr("src"); ok {
		rec.Meta.ThumbnailSrc = strings.TrimSpace(src)
	}
	if n, err := parseCount(strings.TrimSpace(card.Find("a.kernel-list-item__info-block--comment").First().Text())); err == nil {
		rec.Meta.CommentCount = n
	}
	rec.Meta.LastUpdated = strings.TrimSpace(card.Find("div.kernel-list-item__details > span").First().Text())
	rec.Meta.BestScore = strings.TrimSpace(card.Find("div.kernel-list-item__score").First().Text())

	if desc, err := card.Find("div.kernel-list-item__description").First().Html(); err == nil {
		rec.Meta.Description = descriptionToMarkdown(desc, base.Host)
	}

	return rec, nil
}

// parseCount parses listing counters like "42", "1,234", "1.2k", or "3m".
// An empty string counts as zero (the widget renders nothing at zero).
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	// Counters keep only the number; drop label text like "12 comments".
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	s = strings.ReplaceAll(s, ",", "")

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "k"), strings.HasSuffix(s, "K"):
		multiplier = 1_000
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "m"), strings.HasSuffix(s, "M"):
		multiplier = 1_000_000
		s = s[:len(s)-1]
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	n := int(f * multiplier)
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}
