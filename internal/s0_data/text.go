package s0_data

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/russross/blackfriday/v2"
)

var (
	markdownLink = regexp.MustCompile(`\[(.*?)\]\((https?://[^\s)]+)\)`)
	bareURL      = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// PlainText renders markdown/HTML (Reddit bodies, Finnhub summaries) to
// single-spaced plain text without links.
func PlainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	s = markdownLink.ReplaceAllString(s, "$1")
	rendered := blackfriday.Run([]byte(s), blackfriday.WithNoExtensions())

	text := string(rendered)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rendered))
	if err == nil {
		text = doc.Text()
	}

	text = bareURL.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// containsAny reports whether lowered text contains any of the phrases
func containsAny(lowered string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(lowered, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
