package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lawlink-oss/refcheck/pkg/diff"
)

const notRun = "(checker did not run)"

// Title returns the title of the review issue of the quarter containing now.
func Title(now time.Time) string {
	now = now.UTC()
	return fmt.Sprintf("Reference data review — %d-Q%d", now.Year(), (int(now.Month())-1)/3+1) //nolint:mnd
}

// BuildIssueBody renders the review document. A category without a report
// gets a "(checker did not run)" row in the summary table and no section.
func BuildIssueBody(now time.Time, reports map[diff.Category]*diff.Report) (string, string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Automated reference data review generated at %s.\n\n", now.UTC().Format("2006-01-02 15:04 MST"))
	sb.WriteString("Nothing in the dataset was changed. Verify each item at its source before editing the data.\n\n")

	sb.WriteString("| Category | Checked | Automated changes | New on source | Not found on source | Manual checks | Sources |\n")
	sb.WriteString("|---|---|---|---|---|---|---|\n")
	for _, category := range diff.Categories() {
		r := reports[category]
		if r == nil {
			fmt.Fprintf(&sb, "| %s | %s | - | - | - | - | - |\n", category.Title(), notRun)
			continue
		}
		s := r.Stats
		fmt.Fprintf(&sb, "| %s | %d | %d | %d | %d | %d | %s |\n",
			category.Title(), s.Checked, s.AutomatedChanges, s.NewOnSource, s.NotFoundOnSource, s.ManualOnly, sourceStatus(r))
	}

	for _, category := range diff.Categories() {
		if r := reports[category]; r != nil {
			sb.WriteString("\n")
			sb.WriteString(RenderDiffSection(r))
		}
	}

	sb.WriteString(`
## Reviewer checklist

- [ ] Verified every checked item at its source
- [ ] Completed or assigned the manual checks
- [ ] Investigated the categories with unavailable sources or errors
- [ ] Opened a pull request updating the dataset
`)
	return Title(now), sb.String()
}

func sourceStatus(r *diff.Report) string {
	switch {
	case !r.SourceAvailable:
		return "degraded"
	case len(r.Errors) > 0:
		return fmt.Sprintf("ok (%d errors)", len(r.Errors))
	default:
		return "ok"
	}
}

// RenderDiffSection renders one category report as a Markdown section.
// Findings other than manual checks are listed by descending severity,
// keeping the checker's order within a severity.
func RenderDiffSection(r *diff.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", r.Category.Title())

	if !r.SourceAvailable || len(r.Errors) > 0 {
		sb.WriteString("> [!WARNING]\n")
		if !r.SourceAvailable {
			sb.WriteString("> A source was unavailable, so this section may be incomplete.\n")
		}
		if len(r.Errors) > 0 {
			sb.WriteString("> Errors:\n")
			for _, e := range r.Errors {
				fmt.Fprintf(&sb, "> - %s\n", oneLine(e))
			}
		}
		sb.WriteString("\n")
	}

	s := r.Stats
	fmt.Fprintf(&sb, "Checked %d records: %d automated changes, %d new on source, %d not found on source, %d manual checks.\n",
		s.Checked, s.AutomatedChanges, s.NewOnSource, s.NotFoundOnSource, s.ManualOnly)

	changes := r.AutomatedFindings()
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Severity.Rank() > changes[j].Severity.Rank()
	})
	if len(changes) > 0 {
		sb.WriteString("\n### Changes\n\n")
		for _, f := range changes {
			renderFinding(&sb, &f)
		}
	}

	if manual := r.ManualFindings(); len(manual) > 0 {
		sb.WriteString("\n### Manual checks\n\n")
		for _, f := range manual {
			renderFinding(&sb, &f)
		}
	}
	return sb.String()
}

func renderFinding(sb *strings.Builder, f *diff.Finding) {
	fmt.Fprintf(sb, "- [ ] **%s** (`%s`): %s, %s\n", oneLine(f.Name), f.ID, f.ChangeType, f.Severity)
	if f.StoredValue != "" {
		fmt.Fprintf(sb, "  - Stored: %s\n", oneLine(f.StoredValue))
	}
	if f.SourceValue != "" {
		fmt.Fprintf(sb, "  - Source: %s\n", oneLine(f.SourceValue))
	}
	if f.Notes != "" {
		fmt.Fprintf(sb, "  - Notes: %s\n", oneLine(f.Notes))
	}
	if f.VerifyURL != "" && !strings.HasPrefix(f.VerifyURL, "tel:") {
		fmt.Fprintf(sb, "  - Verify: %s\n", f.VerifyURL)
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
