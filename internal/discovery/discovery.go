// Package discovery scans the report landing page for candidate PDF links.
//
// Two independent strategies feed one de-duplicated set: anchor tags parsed
// with goquery, and a raw-text regex sweep that catches filenames embedded in
// scripts or data attributes rather than conventional links. Either strategy
// alone has missed links in the wild when the page layout shifted.
package discovery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// pdfNamePattern is the report filename convention. Anything else hosted on
// the page (media guides, rulebooks) is ignored.
var pdfNamePattern = regexp.MustCompile(`(?i)Injury-Report_\d{4}-\d{2}-\d{2}_.+?\.pdf`)

// PDFLinks extracts the set of absolute candidate PDF URLs from landing-page
// HTML. Relative hrefs resolve against baseURL. Order of the returned slice
// follows first discovery: anchors in document order, then regex matches.
func PDFLinks(html, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]bool)
	var links []string
	add := func(raw string) {
		resolved, ok := resolve(base, raw)
		if !ok || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		doc.Find(`a[href$=".pdf"], a[href$=".PDF"]`).Each(func(i int, sel *goquery.Selection) {
			href, exists := sel.Attr("href")
			if exists && pdfNamePattern.MatchString(href) {
				add(href)
			}
		})
	}

	// Raw sweep catches links assembled in scripts, where no anchor exists.
	for _, match := range pdfNamePattern.FindAllString(html, -1) {
		add(match)
	}

	return links
}

// resolve normalizes a discovered href to an absolute URL string,
// percent-encoding characters that would make it unparseable.
func resolve(base *url.URL, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		// Retry with the path percent-encoded; filenames occasionally
		// carry stray spaces or quotes.
		ref, err = url.Parse(url.PathEscape(raw))
		if err != nil {
			return "", false
		}
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if !ref.IsAbs() {
		return "", false
	}
	return ref.String(), true
}
