// Package parse extracts structured data from the wiki's HTML: detail page
// URLs from the master list, and collectible records from detail pages.
package parse

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// Namespaced wiki pages (files, categories, talk pages) are never
// character profiles.
var skipNamespaces = []string{
	"File:",
	"Category:",
	"Special:",
	"Help:",
	"User:",
	"Template:",
	"Talk:",
}

// noisyPages filters index pages the master list links to alongside the
// character pages.
var noisyPages = regexp.MustCompile(`/wiki/(Master_List|Main_Page|All_Pages|Animals|Foods|Mythical_Creatures|By_.*)$`)

// Listing extracts candidate detail page URLs from the master list, in
// document order. The result may contain duplicates; the caller is
// responsible for de-duplicating.
func Listing(body []byte, base *url.URL) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "parse listing html")
	}

	content := doc.Find("div.mw-parser-output")
	if content.Length() == 0 {
		content = doc.Selection
	}

	var urls []string
	content.Find("a[href^='/wiki/']").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		href = strings.SplitN(href, "#", 2)[0]
		if !strings.HasPrefix(href, "/wiki/") {
			return
		}

		title := strings.TrimPrefix(href, "/wiki/")
		for _, ns := range skipNamespaces {
			if strings.HasPrefix(title, ns) {
				return
			}
		}
		if noisyPages.MatchString(href) {
			return
		}

		ref, perr := url.Parse(href)
		if perr != nil {
			return
		}
		urls = append(urls, base.ResolveReference(ref).String())
	})

	return urls, nil
}
