package report

import (
	"fmt"
	"strings"

	"github.com/lawlink-oss/refcheck/pkg/dataset"
	"github.com/lawlink-oss/refcheck/pkg/diff"
	"github.com/lawlink-oss/refcheck/pkg/sarif"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

var ruleDescriptions = map[diff.ChangeType]string{ //nolint:gochecknoglobals
	diff.ChangeTypePhoneChanged:       "The phone number differs from the source",
	diff.ChangeTypeAddressChanged:     "The location differs from the source",
	diff.ChangeTypeWebsiteDown:        "The website is unreachable",
	diff.ChangeTypeNotFoundOnSource:   "The record isn't listed on the source",
	diff.ChangeTypeNewOnSource:        "The source lists an entity missing from the dataset",
	diff.ChangeTypeCapacityChanged:    "The capacity differs from the source",
	diff.ChangeTypeManualRequired:     "The field has to be verified manually",
	diff.ChangeTypeInactiveReactivate: "An inactive record is listed on the source",
}

// WriteSARIF writes the findings of the reports to stdout as a SARIF log.
// Results point at the line of the record's id in its dataset file.
func (c *Controller) WriteSARIF(logE *logrus.Entry, reports map[diff.Category]*diff.Report) error {
	loader := dataset.NewLoader(c.fs)
	var results []sarif.Result
	for _, category := range diff.Categories() {
		r, ok := reports[category]
		if !ok {
			continue
		}
		path := c.param.DatasetPaths[category]
		lines := c.recordLines(logE.WithField("category", category), loader, path)
		for i := range r.Findings {
			f := &r.Findings[i]
			results = append(results, sarif.Result{
				RuleID:    string(f.ChangeType),
				Level:     sarifLevel(f.Severity),
				Message:   sarif.Message{Text: sarifMessage(f)},
				Locations: []sarif.Location{sarif.FileLocation(path, lines[f.ID])},
				Properties: map[string]any{
					"category": string(category),
					"recordId": f.ID,
					"severity": string(f.Severity),
				},
			})
		}
	}
	log := sarif.NewLog(sarif.Driver{
		Name:           "refcheck",
		InformationURI: "https://github.com/lawlink-oss/refcheck",
		Rules:          sarifRules(),
	}, results)
	if err := log.Encode(c.stdout); err != nil {
		return fmt.Errorf("write the findings as SARIF: %w", err)
	}
	return nil
}

func (c *Controller) recordLines(logE *logrus.Entry, loader *dataset.Loader, path string) map[string]int {
	if path == "" {
		return nil
	}
	lines, err := loader.RecordLines(path)
	if err != nil {
		logerr.WithError(logE, err).Warn("locate records in the dataset file")
		return nil
	}
	return lines
}

func sarifRules() []sarif.Rule {
	types := []diff.ChangeType{
		diff.ChangeTypePhoneChanged,
		diff.ChangeTypeAddressChanged,
		diff.ChangeTypeWebsiteDown,
		diff.ChangeTypeNotFoundOnSource,
		diff.ChangeTypeNewOnSource,
		diff.ChangeTypeCapacityChanged,
		diff.ChangeTypeManualRequired,
		diff.ChangeTypeInactiveReactivate,
	}
	rules := make([]sarif.Rule, len(types))
	for i, t := range types {
		rules[i] = sarif.Rule{
			ID:               string(t),
			ShortDescription: sarif.Message{Text: ruleDescriptions[t]},
		}
	}
	return rules
}

func sarifLevel(s diff.Severity) sarif.Level {
	switch s {
	case diff.SeverityCritical, diff.SeverityHigh:
		return sarif.LevelError
	case diff.SeverityMedium:
		return sarif.LevelWarning
	default:
		return sarif.LevelNote
	}
}

func sarifMessage(f *diff.Finding) string {
	parts := []string{oneLine(f.Name) + ": " + string(f.ChangeType)}
	if f.StoredValue != "" {
		parts = append(parts, "stored: "+oneLine(f.StoredValue))
	}
	if f.SourceValue != "" {
		parts = append(parts, "source: "+oneLine(f.SourceValue))
	}
	if f.Notes != "" {
		parts = append(parts, oneLine(f.Notes))
	}
	if f.VerifyURL != "" && !strings.HasPrefix(f.VerifyURL, "tel:") {
		parts = append(parts, "verify: "+f.VerifyURL)
	}
	return strings.Join(parts, "; ")
}
