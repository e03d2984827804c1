package textnorm

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// tagPattern detects markup worth parsing. Plain text containing a stray "<"
// (e.g. "x < y") must not round-trip through an HTML parser.
var tagPattern = regexp.MustCompile(`(?i)<\s*/?\s*(p|br|div|ul|ol|li|span|strong|em|b|i|h[1-6]|a|table|tr|td)\b`)

// StripHTML removes markup from s and returns the visible text with blocks
// separated by spaces. Non-HTML input is returned unchanged.
func StripHTML(s string) string {
	if !tagPattern.MatchString(s) {
		return s
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}

	doc.Find("script, style, head, noscript").Remove()

	// goquery concatenates adjacent block texts without separators; insert
	// one so "…</li><li>…" does not glue two words together.
	doc.Find("br").SetText(" ")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})

	return strings.TrimSpace(doc.Text())
}
