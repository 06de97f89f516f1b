package check_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/lawlink-oss/refcheck/pkg/controller/check"
	"github.com/lawlink-oss/refcheck/pkg/diff"
	"github.com/lawlink-oss/refcheck/pkg/source"
	"github.com/sirupsen/logrus"
)

const (
	facilityListURL = "https://lists.example.gov/detention-facilities"
	providerURL     = "https://lists.example.gov/pro-bono"
	providerPDFURL  = "https://lists.example.gov/files/providers.pdf"
	granteesURL     = "https://grantees.example.org/api/grantees"
)

type fakeProber struct {
	status map[string]source.WebsiteStatus
	phones map[string][]string
}

func (p *fakeProber) CheckWebsite(_ context.Context, u string) source.WebsiteStatus {
	if u == "" {
		return source.WebsiteStatus{}
	}
	if s, ok := p.status[u]; ok {
		return s
	}
	return source.WebsiteStatus{OK: true, Status: 200}
}

func (p *fakeProber) ScrapeWebsitePhones(_ context.Context, u string) []string {
	return p.phones[u]
}

type fakeGeocoder struct {
	results map[string]*source.GeocodeResult
	err     error
}

func (g *fakeGeocoder) Check(_ context.Context, name, _, _ string) (*source.GeocodeResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	if r, ok := g.results[name]; ok {
		return r, nil
	}
	return &source.GeocodeResult{Found: true, CityMatch: true, Status: 200}, nil
}

type fakeFetcher struct {
	pages map[string]string
}

func (f *fakeFetcher) GetList(_ context.Context, u string) ([]byte, error) {
	p, ok := f.pages[u]
	if !ok {
		return nil, &source.StatusError{URL: u, Status: 503}
	}
	return []byte(p), nil
}

func (f *fakeFetcher) GetDocument(ctx context.Context, u string) ([]byte, error) {
	return f.GetList(ctx, u)
}

func fixedText(text string) func([]byte) (string, error) {
	return func([]byte) (string, error) {
		if text == "" {
			return "", errors.New("broken PDF")
		}
		return text, nil
	}
}

var testNow = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

func newController(prober check.Prober, geocoder check.Geocoder, fetcher *fakeFetcher, text string) *check.Controller {
	return check.New(prober, geocoder, fetcher, fixedText(text), check.NewProgress(io.Discard), &check.Param{
		DetentionFacilitiesURL:  facilityListURL,
		LegalAidProviderListURL: providerURL,
		GranteesURL:             granteesURL,
		OverlapThreshold:        0.8,
		Now:                     func() time.Time { return testNow },
	})
}

func newLogE() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

// findingsOf returns the findings with the change type.
func findingsOf(report *diff.Report, changeType diff.ChangeType) []diff.Finding {
	arr := []diff.Finding{}
	for _, f := range report.Findings {
		if f.ChangeType == changeType {
			arr = append(arr, f)
		}
	}
	return arr
}

// assertStats verifies the stats against the findings.
func assertStats(t *testing.T, report *diff.Report, checked int) {
	t.Helper()
	exp := diff.Stats{Checked: checked}
	for _, f := range report.Findings {
		switch f.ChangeType {
		case diff.ChangeTypeNewOnSource:
			exp.NewOnSource++
		case diff.ChangeTypeNotFoundOnSource:
			exp.NotFoundOnSource++
		case diff.ChangeTypeManualRequired:
			exp.ManualOnly++
		default:
			exp.AutomatedChanges++
		}
	}
	if report.Stats != exp {
		t.Errorf("wanted stats %+v, got %+v", exp, report.Stats)
	}
}
