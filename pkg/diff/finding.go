// Package diff defines the vocabulary shared by the category checkers and the
// report generator: findings, category reports, the phone equality rule, and
// JSON persistence of reports under the output directory.
package diff

// ChangeType classifies a finding. A finding carries exactly one ChangeType.
type ChangeType string

const (
	ChangeTypePhoneChanged       ChangeType = "phone_changed"
	ChangeTypeAddressChanged     ChangeType = "address_changed"
	ChangeTypeWebsiteDown        ChangeType = "website_down"
	ChangeTypeNotFoundOnSource   ChangeType = "not_found_on_source"
	ChangeTypeNewOnSource        ChangeType = "new_on_source"
	ChangeTypeCapacityChanged    ChangeType = "capacity_changed"
	ChangeTypeManualRequired     ChangeType = "manual_required"
	ChangeTypeInactiveReactivate ChangeType = "inactive_reactivate"
)

// Automated reports whether the change type describes a discrepancy detected
// against a live source for a stored record, as opposed to a list membership
// difference or a manual review request.
func (c ChangeType) Automated() bool {
	switch c {
	case ChangeTypeNewOnSource, ChangeTypeNotFoundOnSource, ChangeTypeManualRequired:
		return false
	default:
		return true
	}
}

// Severity orders human review priority.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns an integer rank for sorting (Low=1, Critical=4).
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Finding is one detected fact about one stored record (or one source entity
// missing from the stored dataset). Findings are built once by a checker and
// never modified afterwards.
type Finding struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ChangeType  ChangeType `json:"changeType"`
	StoredValue string     `json:"storedValue,omitempty"`
	SourceValue string     `json:"sourceValue,omitempty"`
	VerifyURL   string     `json:"verifyUrl,omitempty"`
	Severity    Severity   `json:"severity"`
	Notes       string     `json:"notes,omitempty"`
}
