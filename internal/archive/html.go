package archive

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"deliverycli/internal/dataprocessing"
)

// summaryLength bounds the page excerpt carried in mirror errors.
const summaryLength = 300

// LooksLikeHTML reports whether a response body is an HTML or access-denied
// page rather than a comma separated report.
func LooksLikeHTML(body string) bool {
	t := strings.TrimLeft(body, " \t\r\n")
	return strings.HasPrefix(t, "<") ||
		strings.Contains(t, "<!DOCTYPE") ||
		strings.Contains(t, "Access Denied") ||
		strings.Contains(t, "Denied")
}

// SummarizePage returns a short, single-line description of an error page:
// its title and visible text when it parses as HTML, otherwise the raw
// beginning of the body.
func SummarizePage(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return dataprocessing.Shorten(body, summaryLength)
	}

	doc.Find("script, style, noscript").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")

	var summary string
	switch {
	case title != "" && text != "" && !strings.HasPrefix(text, title):
		summary = title + ": " + text
	case text != "":
		summary = text
	default:
		summary = title
	}
	if summary == "" {
		return dataprocessing.Shorten(body, summaryLength)
	}
	return dataprocessing.Shorten(summary, summaryLength)
}
