package extract

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
)

// descConverter is goroutine-safe and reused for every card.
//
//   - base plugin: strips script, style, head, meta, and HTML comments.
//   - commonmark plugin: standard Markdown rendering (links, emphasis, lists).
var descConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// descriptionToMarkdown converts a card's description snippet HTML to
// Markdown. The domain resolves relative links so the output is
// self-contained. Conversion failures yield an empty description rather
// than an error; the blurb is decoration, not data.
func descriptionToMarkdown(htmlSnippet, domain string) string {
	if strings.TrimSpace(htmlSnippet) == "" {
		return ""
	}
	md, err := descConverter.ConvertString(htmlSnippet, converter.WithDomain(domain))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(md)
}
