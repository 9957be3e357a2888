package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Version pages embed their scores in an inline JSON state blob; these pull
// the values straight out of the raw HTML without parsing the whole document.
var (
	rePublicScore     = regexp.MustCompile(`"publicScore":"(.+?)"`)
	reBestPublicScore = regexp.MustCompile(`"bestPublicScore":([^,]+)`)
)

// PublicScore extracts the public score from a version page's raw HTML.
// Returns 0 when the score is absent or unparsable.
func PublicScore(rawHTML string) float64 {
	m := rePublicScore.FindStringSubmatch(rawHTML)
	if m == nil {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(m[1]), 64)
	if err != nil {
		return 0
	}
	return f
}

// BestPublicScore extracts the best public score from a kernel page's raw
// HTML. Returns 0 when the score is absent or unparsable.
func BestPublicScore(rawHTML string) float64 {
	m := reBestPublicScore.FindStringSubmatch(rawHTML)
	if m == nil {
		return 0
	}
	f, err := strconv.ParseFloat(strings.Trim(strings.TrimSpace(m[1]), `"`), 64)
	if err != nil {
		return 0
	}
	return f
}
