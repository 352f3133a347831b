package excerpt

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ReferenceExample caps excerpts at the length of a known sentence so card
// heights stay consistent across the grid.
const ReferenceExample = "Lorem ipsum dolor sit amet, consetetur sadipscing elitr, sed diam nonumy eirmod tempor invidunt ut labore et dolore"

const truncationMarker = " [...]"

// MaxLength is the display length excerpts are normalized to.
var MaxLength = len(ReferenceExample)

// Format normalizes a raw description for card display: markup stripped,
// surrounding whitespace trimmed, text over MaxLength cut and marked.
func Format(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.TrimSpace(stripMarkup(raw))
	if len(text) > MaxLength {
		text = cutAtRuneBoundary(text, MaxLength) + truncationMarker
	}

	return text
}

func stripMarkup(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		// The reader never fails on a string; keep the raw text if it somehow does.
		return raw
	}
	return doc.Text()
}

// cutAtRuneBoundary cuts s to at most n bytes without splitting a rune.
func cutAtRuneBoundary(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
