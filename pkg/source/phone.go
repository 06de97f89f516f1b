package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/lawlink-oss/refcheck/pkg/diff"
	"golang.org/x/net/html"
)

// ContactPaths are tried in order by ScrapeWebsitePhones.
// The empty path is the URL itself.
var ContactPaths = []string{"", "/contact", "/contact-us", "/about", "/about-us"} //nolint:gochecknoglobals

var phonePattern = regexp.MustCompile(`(?:\+?1[\s.-]?)?\(?\b[2-9]\d{2}\)?[\s.-]?\d{3}[\s.-]\d{4}\b`)

// ScrapeWebsitePhones looks for phone numbers on the site at u.
// It tries ContactPaths in order, waiting for the scrape limiter before each
// request, and returns the phones of the first page yielding at least one
// match, de-duplicated in page order. It returns an empty slice if every
// attempt fails.
//
// Only the static HTML is scanned. Pages rendering contact details with
// JavaScript yield nothing, so an empty result means "verify manually" and is
// never evidence that a stored phone is wrong.
func (c *Client) ScrapeWebsitePhones(ctx context.Context, u string) []string {
	base, err := url.Parse(u)
	if err != nil || u == "" {
		return []string{}
	}
	for _, p := range ContactPaths {
		target := base
		if p != "" {
			target = base.ResolveReference(&url.URL{Path: p})
		}
		if err := c.ScrapeDelay(ctx); err != nil {
			return []string{}
		}
		b, err := c.get(ctx, target.String(), c.probeTimeout, maxPageBytes)
		if err != nil {
			continue
		}
		if phones := ExtractPhones(b); len(phones) > 0 {
			return phones
		}
	}
	return []string{}
}

// FindPhones returns the phone numbers found in plain text.
func FindPhones(s string) []string {
	return phonePattern.FindAllString(s, -1)
}

// ExtractPhones returns the phone numbers found in the text and tel: links of
// an HTML page, de-duplicated by their normalized digits in page order.
func ExtractPhones(page []byte) []string {
	phones := []string{}
	seen := map[string]struct{}{}
	addPhone := func(phone string) {
		key := diff.NormalizePhone(phone)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		phones = append(phones, phone)
	}
	add := func(s string) {
		for _, m := range FindPhones(s) {
			addPhone(strings.TrimSpace(m))
		}
	}
	z := html.NewTokenizer(bytes.NewReader(page))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return phones
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "script", "style":
				if tok.Type == html.StartTagToken {
					skip++
				}
			case "a":
				for _, attr := range tok.Attr {
					if attr.Key != "href" || !strings.HasPrefix(attr.Val, "tel:") {
						continue
					}
					if digits := diff.NormalizePhone(attr.Val); len(digits) == 10 { //nolint:mnd
						addPhone(fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:]))
					}
				}
			}
		case html.EndTagToken:
			tok := z.Token()
			if (tok.Data == "script" || tok.Data == "style") && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				add(string(z.Text()))
			}
		}
	}
}
