package parse

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/adrianwedd/squishmallowdex/internal/domain"
)

var (
	// ErrMissingName rejects a page whose primary name field cannot be
	// located; a record without a name is useless downstream.
	ErrMissingName = errors.New("missing name")

	// ErrNotCharacter marks list/meta pages that reached the detail
	// parser. They are skipped, not treated as failures.
	ErrNotCharacter = errors.New("not a character page")
)

// nonCharacterTitles matches page titles that are never character profiles.
var nonCharacterTitles = regexp.MustCompile(`(?i)\b(Master List|Main Page|All Pages|Squishville|Roblox)\b`)

// wantedFields are the infobox labels elevated into their own record
// fields; everything else lands in Extra.
var wantedFields = []string{
	"Type",
	"Color",
	"Squad",
	"Size(s)",
	"Collector Number",
	"Year",
}

const bioMaxChars = 2500

var whitespace = regexp.MustCompile(`\s+`)

// Detail parses one detail page into a record. Optional fields degrade to
// empty/zero values; only a missing name or a non-character page rejects
// the whole record.
func Detail(body []byte, pageURL string) (*domain.Squish, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "parse detail html for %s", pageURL)
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			name = strings.TrimSpace(strings.SplitN(og, "|", 2)[0])
		}
	}
	name = whitespace.ReplaceAllString(name, " ")
	if name == "" {
		return nil, errors.Wrap(ErrMissingName, pageURL)
	}

	info := infobox(doc)
	if !isCharacterPage(name, info) {
		return nil, errors.Wrap(ErrNotCharacter, pageURL)
	}

	image, _ := doc.Find(`meta[property="og:image"]`).Attr("content")

	s := &domain.Squish{
		ID:              domain.SquishID(pageURL),
		Name:            name,
		Type:            info["Type"],
		Color:           info["Color"],
		Squad:           info["Squad"],
		Sizes:           splitSizes(info["Size(s)"]),
		CollectorNumber: leadingInt(info["Collector Number"]),
		Year:            yearOf(info["Year"]),
		Bio:             sectionAfterHeading(doc, "Bio", bioMaxChars),
		ImageURL:        image,
		URL:             pageURL,
		ScrapedAt:       time.Now().UTC(),
	}

	for label, value := range info {
		wanted := false
		for _, w := range wantedFields {
			if label == w {
				wanted = true
				break
			}
		}
		if !wanted {
			if s.Extra == nil {
				s.Extra = make(map[string]string)
			}
			s.Extra[label] = value
		}
	}

	return s, nil
}

// infobox extracts label/value pairs from the portable infobox. Linked
// values are preferred over raw text because they carry less markup noise.
func infobox(doc *goquery.Document) map[string]string {
	info := map[string]string{}

	doc.Find("aside.portable-infobox .pi-data").Each(func(_ int, item *goquery.Selection) {
		label := normalizeLabel(item.Find(".pi-data-label").Text())
		if label == "" {
			return
		}

		valueSel := item.Find(".pi-data-value")
		var links []string
		seen := map[string]struct{}{}
		valueSel.Find("a").Each(func(_ int, a *goquery.Selection) {
			text := strings.TrimSpace(a.Text())
			if text == "" {
				return
			}
			if _, ok := seen[text]; ok {
				return
			}
			seen[text] = struct{}{}
			links = append(links, text)
		})

		value := strings.Join(links, ", ")
		if value == "" {
			value = normalizeLabel(valueSel.Text())
		}
		if value != "" {
			info[label] = value
		}
	})

	return info
}

// isCharacterPage filters out list and meta pages: no infobox, or an
// infobox without any of the wanted labels, means no character.
func isCharacterPage(name string, info map[string]string) bool {
	if nonCharacterTitles.MatchString(name) {
		return false
	}
	if len(info) == 0 {
		return false
	}
	for _, w := range wantedFields {
		if _, ok := info[w]; ok {
			return true
		}
	}
	return false
}

// sectionAfterHeading collects the text of sibling elements between the
// named headline and the next heading, capped at maxChars.
func sectionAfterHeading(doc *goquery.Document, heading string, maxChars int) string {
	var headNode *html.Node
	doc.Find("span.mw-headline").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if strings.TrimSpace(span.Text()) == heading {
			if len(span.Nodes) > 0 {
				headNode = span.Nodes[0].Parent
			}
			return false
		}
		return true
	})
	if headNode == nil {
		return ""
	}

	var parts []string
	total := 0
	for sib := headNode.NextSibling; sib != nil; sib = sib.NextSibling {
		if sib.Type != html.ElementNode {
			continue
		}
		if isHeading(sib) && containsHeadline(sib) {
			break
		}
		switch sib.Data {
		case "p", "blockquote", "ul", "ol", "div":
			text := normalizeLabel(nodeText(sib))
			if text != "" {
				parts = append(parts, text)
				total += len(text)
			}
		}
		if total > maxChars {
			break
		}
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

func isHeading(n *html.Node) bool {
	switch n.Data {
	case "h2", "h3", "h4":
		return true
	}
	return false
}

// containsHeadline reports whether the node holds a span.mw-headline.
func containsHeadline(n *html.Node) bool {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == "span" {
			for _, attr := range child.Attr {
				if attr.Key == "class" && strings.Contains(attr.Val, "mw-headline") {
					return true
				}
			}
		}
		if containsHeadline(child) {
			return true
		}
	}
	return false
}

// nodeText flattens all text beneath a node.
func nodeText(n *html.Node) string {
	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node == nil {
			return
		}
		if node.Type == html.TextNode {
			buf.WriteString(node.Data)
			buf.WriteString(" ")
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return buf.String()
}

func normalizeLabel(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func splitSizes(value string) []string {
	if value == "" {
		return nil
	}
	var sizes []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			sizes = append(sizes, part)
		}
	}
	return sizes
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// yearOf extracts a release year; anything unparseable degrades to 0,
// which downstream sorts last as "unknown".
func yearOf(value string) int {
	m := yearPattern.FindStringSubmatch(value)
	if m == nil {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return year
}

var intPattern = regexp.MustCompile(`\d+`)

// leadingInt extracts the first integer run, so "#143" parses as 143.
// Unparseable values degrade to 0.
func leadingInt(value string) int {
	m := intPattern.FindString(value)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
