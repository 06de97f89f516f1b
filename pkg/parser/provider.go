package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoPDFLink is returned when the provider index page links no PDF.
var ErrNoPDFLink = errors.New("no PDF link was found on the provider index page")

// ErrNoProviderText is returned when no text could be extracted from the provider PDF.
var ErrNoProviderText = errors.New("no text was extracted from the provider PDF")

var pdfLinkPattern = regexp.MustCompile(`(?i)href\s*=\s*["']([^"']+?\.pdf)(?:[?#][^"']*)?["']`)

const minProviderLineLen = 4

// TextExtractor extracts the plain text of a document.
type TextExtractor func(doc []byte) (string, error)

// FetchProviderLines fetches the provider index page, downloads the first PDF
// it links, and returns the line fragments of the PDF text.
//
// The lines are deliberately unstructured: the PDF layout doesn't map cleanly
// to fields, so names are matched against them by substring and word overlap.
func FetchProviderLines(ctx context.Context, fetcher Fetcher, indexURL string, extract TextExtractor) ([]string, error) {
	index, err := fetcher.GetList(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch the provider index page: %w", err)
	}
	pdfURL, err := ParseProviderIndex(index, indexURL)
	if err != nil {
		return nil, err
	}
	doc, err := fetcher.GetDocument(ctx, pdfURL)
	if err != nil {
		return nil, fmt.Errorf("download the provider PDF: %w", err)
	}
	text, err := extract(doc)
	if err != nil {
		return nil, fmt.Errorf("extract text from the provider PDF %s: %w", pdfURL, err)
	}
	lines := ProviderLines(text)
	if len(lines) == 0 {
		return nil, ErrNoProviderText
	}
	return lines, nil
}

// ParseProviderIndex returns the absolute URL of the first PDF linked from
// the index page.
func ParseProviderIndex(page []byte, indexURL string) (string, error) {
	m := pdfLinkPattern.FindSubmatch(page)
	if m == nil {
		return "", ErrNoPDFLink
	}
	base, err := url.Parse(indexURL)
	if err != nil {
		return "", fmt.Errorf("parse the provider index URL: %w", err)
	}
	ref, err := url.Parse(strings.TrimSpace(string(m[1])))
	if err != nil {
		return "", fmt.Errorf("parse the provider PDF URL: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// ProviderLines splits text into distinct lowercased, whitespace collapsed
// lines, dropping fragments too short to name anything.
func ProviderLines(text string) []string {
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.ToLower(strings.Join(strings.Fields(line), " "))
		if len(line) < minProviderLineLen {
			continue
		}
		lines = append(lines, line)
	}
	return uniqueSorted(lines)
}

// ExtractPDFText extracts the text of a PDF row by row.
func ExtractPDFText(doc []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", fmt.Errorf("open a PDF: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("read the text of the page %d: %w", i, err)
		}
		for _, row := range rows {
			for _, word := range row.Content {
				sb.WriteString(word.S)
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}
