package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lawlink-oss/refcheck/pkg/source"
	"golang.org/x/net/html"
)

// FacilityRow is one detention facility listed on the authoritative page.
// Capacity is nil when the table has no capacity column.
type FacilityRow struct {
	Name     string
	City     string
	State    string
	Phone    string
	Capacity *int
}

const minFacilityCells = 3

// ErrNoFacilities is returned when a page contains no facility rows.
var ErrNoFacilities = errors.New("no facility rows were found")

// FetchFacilities fetches the single authoritative facility page and parses it.
// There is no pagination.
func FetchFacilities(ctx context.Context, fetcher Fetcher, u string) ([]FacilityRow, error) {
	b, err := fetcher.GetList(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch the detention facility list: %w", err)
	}
	rows, err := ParseFacilityTable(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoFacilities
	}
	return rows, nil
}

// ParseFacilityTable scans every <table> of an HTML page and keeps the data
// rows with at least three non-empty cells. Cells are read as name, city and
// state in order; the phone is the first later cell containing a phone
// number. When a header row names a capacity ("capacity" or "beds") column,
// its integer value is captured.
func ParseFacilityTable(r io.Reader) ([]FacilityRow, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse the facility page as HTML: %w", err)
	}
	rows := []FacilityRow{}
	for _, table := range findElements(doc, "table") {
		rows = append(rows, parseTable(table)...)
	}
	return rows, nil
}

func parseTable(table *html.Node) []FacilityRow {
	rows := []FacilityRow{}
	capacityCol := -1
	first := true
	for _, tr := range findElements(table, "tr") {
		cells, header := rowCells(tr)
		if len(cells) == 0 {
			continue
		}
		// some pages write the header row with <td> cells
		header = header || (first && isHeaderText(cells))
		first = false
		if header {
			for i, c := range cells {
				lc := strings.ToLower(c)
				if strings.Contains(lc, "capacity") || strings.Contains(lc, "beds") {
					capacityCol = i
				}
			}
			continue
		}
		if countNonEmpty(cells) < minFacilityCells {
			continue
		}
		row := FacilityRow{
			Name:  cells[0],
			City:  cells[1],
			State: cells[2],
		}
		for _, c := range cells[minFacilityCells:] {
			if phones := source.FindPhones(c); len(phones) > 0 {
				row.Phone = phones[0]
				break
			}
		}
		if capacityCol >= 0 && capacityCol < len(cells) {
			if n, err := strconv.Atoi(strings.ReplaceAll(cells[capacityCol], ",", "")); err == nil {
				row.Capacity = &n
			}
		}
		if row.Name == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// rowCells returns the texts of the cells of tr and whether the row is a
// header row, made of <th> cells only.
func rowCells(tr *html.Node) ([]string, bool) {
	cells := []string{}
	header := true
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "td":
			header = false
		case "th":
		default:
			continue
		}
		cells = append(cells, textContent(c))
	}
	return cells, header && len(cells) > 0
}

// isHeaderText reports whether the cells read name, city and state.
func isHeaderText(cells []string) bool {
	if len(cells) < minFacilityCells {
		return false
	}
	name := strings.ToLower(cells[0])
	return (name == "name" || strings.HasSuffix(name, " name")) &&
		strings.EqualFold(cells[1], "city") &&
		strings.EqualFold(cells[2], "state")
}

func countNonEmpty(cells []string) int {
	n := 0
	for _, c := range cells {
		if c != "" {
			n++
		}
	}
	return n
}

// findElements returns the descendants of n with the tag name in document
// order. Matched <tr> elements are not descended into, so the rows of a nested
// table are only returned for the nested table itself.
func findElements(n *html.Node, tag string) []*html.Node {
	var nodes []*html.Node
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				nodes = append(nodes, c)
				if tag == "tr" {
					continue
				}
			}
			traverse(c)
		}
	}
	traverse(n)
	return nodes
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteByte(' ')
			return
		}
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
