package diff

import "time"

// SchemaVersion is written into every report so the generator can refuse
// files from an incompatible producer.
const SchemaVersion = "1.0.0"

// Category identifies one of the three reference data collections.
type Category string

const (
	CategoryConsulates Category = "consulates"
	CategoryDetention  Category = "detention"
	CategoryLegalAid   Category = "legal-aid"
)

// Categories lists every category in report order.
func Categories() []Category {
	return []Category{CategoryConsulates, CategoryDetention, CategoryLegalAid}
}

// Title returns the human readable category name.
func (c Category) Title() string {
	switch c {
	case CategoryConsulates:
		return "Consulates"
	case CategoryDetention:
		return "Detention Facilities"
	case CategoryLegalAid:
		return "Legal Aid Organizations"
	default:
		return string(c)
	}
}

// FileName returns the name of the diff file written for the category.
func (c Category) FileName() string {
	return string(c) + "-diff.json"
}

// Stats aggregates a report's findings.
type Stats struct {
	Checked          int `json:"checked"`
	AutomatedChanges int `json:"automatedChanges"`
	NewOnSource      int `json:"newOnSource"`
	NotFoundOnSource int `json:"notFoundOnSource"`
	ManualOnly       int `json:"manualOnly"`
}

// ComputeStats derives Stats from the finding list.
// checked is the number of stored records the checker processed.
func ComputeStats(checked int, findings []Finding) Stats {
	stats := Stats{Checked: checked}
	for _, f := range findings {
		switch f.ChangeType {
		case ChangeTypeNewOnSource:
			stats.NewOnSource++
		case ChangeTypeNotFoundOnSource:
			stats.NotFoundOnSource++
		case ChangeTypeManualRequired:
			stats.ManualOnly++
		default:
			stats.AutomatedChanges++
		}
	}
	return stats
}

// Report is the complete output of one category checker run.
type Report struct {
	SchemaVersion   string    `json:"schemaVersion"`
	Category        Category  `json:"category"`
	GeneratedAt     time.Time `json:"generatedAt"`
	Stats           Stats     `json:"stats"`
	Findings        []Finding `json:"findings"`
	SourceAvailable bool      `json:"sourceAvailable"`
	Errors          []string  `json:"errors"`
}

// NewReport builds a report and computes its stats from findings.
// Nil slices are replaced with empty ones so the JSON always carries arrays.
func NewReport(category Category, now time.Time, checked int, findings []Finding, sourceAvailable bool, errs []string) *Report {
	if findings == nil {
		findings = []Finding{}
	}
	if errs == nil {
		errs = []string{}
	}
	return &Report{
		SchemaVersion:   SchemaVersion,
		Category:        category,
		GeneratedAt:     now.UTC(),
		Stats:           ComputeStats(checked, findings),
		Findings:        findings,
		SourceAvailable: sourceAvailable,
		Errors:          errs,
	}
}

// AutomatedFindings returns findings that are not manual review requests.
func (r *Report) AutomatedFindings() []Finding {
	arr := make([]Finding, 0, len(r.Findings))
	for _, f := range r.Findings {
		if f.ChangeType == ChangeTypeManualRequired {
			continue
		}
		arr = append(arr, f)
	}
	return arr
}

// ManualFindings returns the manual review requests.
func (r *Report) ManualFindings() []Finding {
	arr := []Finding{}
	for _, f := range r.Findings {
		if f.ChangeType == ChangeTypeManualRequired {
			arr = append(arr, f)
		}
	}
	return arr
}
