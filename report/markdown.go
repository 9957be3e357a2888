package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/harupy/kernel-profiling/models"
)

// MarkdownWriter renders kernel profiles as a Markdown document: a created-at
// header, a summary table of the listing, and one profile section per kernel
// when version data is present.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that renders to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Write renders the full report. createdAt is rendered in UTC.
func (w *MarkdownWriter) Write(profiles []models.Profile, createdAt time.Time) error {
	md := markdown.NewMarkdown(w.output)

	md.H3f("Created at %s", createdAt.UTC().Format("2006/01/02 15:04:05 (UTC)"))
	md.PlainText("")

	w.writeSummary(md, profiles)

	for i := range profiles {
		if profiles[i].Versions != nil {
			w.writeProfile(md, &profiles[i])
		}
	}

	return md.Build()
}

// writeSummary renders the listing overview table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, profiles []models.Profile) {
	rows := make([][]string, len(profiles))
	for i, p := range profiles {
		rec := p.Record
		rows[i] = []string{
			strconv.Itoa(rec.Rank),
			markdown.Link(rec.Title, rec.URL),
			rec.Meta.AuthorName,
			strconv.Itoa(rec.Votes),
		}
	}

	md.CustomTable(markdown.TableSet{
		Header: []string{"Rank", "Title", "Author", "Votes"},
		Rows:   rows,
	}, markdown.TableOptions{AutoWrapText: false, AutoFormatHeaders: false})
	md.PlainText("")
}

// writeProfile renders one kernel's profile section with its version table.
func (w *MarkdownWriter) writeProfile(md *markdown.Markdown, p *models.Profile) {
	rec := p.Record
	meta := rec.Meta

	md.HorizontalRule()
	md.PlainText("")
	md.H1(markdown.Link(rec.Title, rec.URL))
	md.PlainText("")

	if meta.ThumbnailSrc != "" {
		thumb := fmt.Sprintf(`<img src="%s" alt="%s" width="72" height="72">`,
			meta.ThumbnailSrc, meta.AuthorName)
		if meta.AuthorURL != "" {
			thumb = fmt.Sprintf(`<a href="%s">%s</a>`, meta.AuthorURL, thumb)
		}
		md.PlainText(thumb)
		md.PlainText("")
	}

	author := meta.AuthorName
	if meta.AuthorURL != "" {
		author = markdown.Link(meta.AuthorName, meta.AuthorURL)
	}
	md.BulletList(
		"Author: "+author,
		"Best score: "+orDash(meta.BestScore),
		"Vote count: "+strconv.Itoa(rec.Votes),
		"Comment count: "+strconv.Itoa(meta.CommentCount),
		"Last updated: "+orDash(meta.LastUpdated),
	)
	md.PlainText("")

	if meta.Description != "" {
		md.PlainText(meta.Description)
		md.PlainText("")
	}

	rows := make([][]string, len(p.Versions))
	for i, v := range p.Versions {
		rows[i] = []string{
			rec.Title,
			v.Label,
			formatScore(v.Score),
			orDash(v.CommittedAt),
			markdown.Link("Open", v.URL),
		}
	}
	md.CustomTable(markdown.TableSet{
		Header: []string{"Title", "Version", "Score", "Committed at", "Link"},
		Rows:   rows,
	}, markdown.TableOptions{AutoWrapText: false, AutoFormatHeaders: false})
	md.PlainText("")
}

// Save renders the report to path, overwriting any previous run's output.
func Save(path string, profiles []models.Profile, createdAt time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return models.NewProfileError(models.ErrCodeWrite, "failed to create "+path, err)
	}

	werr := NewMarkdownWriter(f).Write(profiles, createdAt)
	cerr := f.Close()
	if werr != nil {
		return models.NewProfileError(models.ErrCodeWrite, "failed to render report", werr)
	}
	if cerr != nil {
		return models.NewProfileError(models.ErrCodeWrite, "failed to write "+path, cerr)
	}
	return nil
}

// orDash substitutes "-" for empty optional fields, matching the table style.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatScore renders a public score; zero means the score was never parsed.
func formatScore(score float64) string {
	if score == 0 {
		return "-"
	}
	return strconv.FormatFloat(score, 'f', -1, 64)
}
