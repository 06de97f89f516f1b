// Package check implements the category checkers.
// A checker is a function from stored records and live source responses to a
// category report. Records are processed sequentially in stored order, and a
// failed check of one record is recorded in the report without aborting the run.
package check

import (
	"context"
	"fmt"
	"time"

	"github.com/lawlink-oss/refcheck/pkg/dataset"
	"github.com/lawlink-oss/refcheck/pkg/diff"
	"github.com/lawlink-oss/refcheck/pkg/parser"
	"github.com/lawlink-oss/refcheck/pkg/source"
	"github.com/sirupsen/logrus"
)

// Prober probes organization websites. *source.Client implements it.
type Prober interface {
	CheckWebsite(ctx context.Context, u string) source.WebsiteStatus
	ScrapeWebsitePhones(ctx context.Context, u string) []string
}

// Geocoder checks the existence of a place. *source.Geocoder implements it.
type Geocoder interface {
	Check(ctx context.Context, name, city, state string) (*source.GeocodeResult, error)
}

type Controller struct {
	prober   Prober
	geocoder Geocoder
	fetcher  parser.Fetcher
	extract  parser.TextExtractor
	progress *Progress
	param    *Param
}

type Param struct {
	DetentionFacilitiesURL  string
	LegalAidProviderListURL string
	// GranteesURL is optional. The grantee source is skipped if it is empty.
	GranteesURL      string
	OverlapThreshold float64
	Now              func() time.Time
}

func New(prober Prober, geocoder Geocoder, fetcher parser.Fetcher, extract parser.TextExtractor, progress *Progress, param *Param) *Controller {
	if param.Now == nil {
		param.Now = time.Now
	}
	if extract == nil {
		extract = parser.ExtractPDFText
	}
	return &Controller{
		prober:   prober,
		geocoder: geocoder,
		fetcher:  fetcher,
		extract:  extract,
		progress: progress,
		param:    param,
	}
}

// Run runs the checker of the category against the dataset.
func (c *Controller) Run(ctx context.Context, logE *logrus.Entry, category diff.Category, ds *dataset.Dataset) (*diff.Report, error) {
	switch category {
	case diff.CategoryConsulates:
		return c.Consulates(ctx, logE, ds.Consulates)
	case diff.CategoryDetention:
		return c.Detention(ctx, logE, ds.Facilities)
	case diff.CategoryLegalAid:
		return c.LegalAid(ctx, logE, ds.LegalAid)
	default:
		return nil, fmt.Errorf("unknown category: %s", category)
	}
}

// run collects the findings and errors of one checker pass.
type run struct {
	category  diff.Category
	findings  []diff.Finding
	errs      []string
	available bool
}

func newRun(category diff.Category) *run {
	return &run{
		category:  category,
		findings:  []diff.Finding{},
		errs:      []string{},
		available: true,
	}
}

func (r *run) add(f *diff.Finding) {
	if f != nil {
		r.findings = append(r.findings, *f)
	}
}

// sourceFailed records a whole source as unavailable.
func (r *run) sourceFailed(what string, err error) {
	r.available = false
	r.errs = append(r.errs, fmt.Sprintf("%s: %v", what, err))
}

// skipped records a check that didn't run without degrading the report.
func (r *run) skipped(what string, err error) {
	r.errs = append(r.errs, fmt.Sprintf("%s: %v", what, err))
}

// recordFailed records a failed check of one record.
func (r *run) recordFailed(name, what string, err error) {
	r.errs = append(r.errs, fmt.Sprintf("%s: %s failed: %v", name, what, err))
}

func (r *run) report(now time.Time, checked int) *diff.Report {
	return diff.NewReport(r.category, now, checked, r.findings, r.available, r.errs)
}
