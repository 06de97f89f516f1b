package check

import (
	"context"
	"errors"
	"fmt"

	"github.com/lawlink-oss/refcheck/pkg/dataset"
	"github.com/lawlink-oss/refcheck/pkg/diff"
	"github.com/lawlink-oss/refcheck/pkg/parser"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

var errGranteesNotConfigured = errors.New("the grantee list isn't configured; the search for new grantees was skipped")

// legalAidLists holds the lists legal-aid organizations are cross-referenced with.
type legalAidLists struct {
	grantees          []parser.Grantee
	granteeIndex      parser.NameIndex
	granteesAvailable bool
	providerLines     []string
	providerAvailable bool
	threshold         float64
}

func (l *legalAidLists) anyAvailable() bool {
	return l.granteesAvailable || l.providerAvailable
}

// listMatch is the result of cross-referencing one organization.
type listMatch struct {
	found      bool
	source     string
	borderline *parser.Match
}

func (l *legalAidLists) match(name string) *listMatch {
	if l.granteesAvailable && len(l.granteeIndex.Lookup(name)) > 0 {
		return &listMatch{found: true, source: "grantee list"}
	}
	if !l.providerAvailable {
		return &listMatch{}
	}
	m := parser.MatchProviderLines(name, l.providerLines, l.threshold)
	if m.Matched {
		return &listMatch{found: true, source: "pro bono provider list"}
	}
	if m.Borderline {
		return &listMatch{borderline: &m}
	}
	return &listMatch{}
}

func (c *Controller) loadLegalAidLists(ctx context.Context, logE *logrus.Entry, r *run) *legalAidLists {
	lists := &legalAidLists{threshold: c.param.OverlapThreshold}
	if c.param.GranteesURL != "" {
		grantees, err := parser.FetchGrantees(ctx, c.fetcher, c.param.GranteesURL)
		if err != nil {
			logerr.WithError(logE, err).Warn("the grantee list is unavailable")
			c.progress.Warn(r.category, "the grantee list is unavailable: "+err.Error())
			r.sourceFailed("grantee list", err)
		} else {
			lists.grantees = grantees
			lists.granteesAvailable = true
		}
	} else {
		logE.Warn("sources.grantees isn't configured, so grantees that aren't stored can't be found")
		c.progress.Warn(r.category, errGranteesNotConfigured.Error())
		r.skipped("grantee list", errGranteesNotConfigured)
	}
	names := make([]string, len(lists.grantees))
	for i, g := range lists.grantees {
		names[i] = g.Name
	}
	lists.granteeIndex = parser.NewNameIndex(names)

	lines, err := parser.FetchProviderLines(ctx, c.fetcher, c.param.LegalAidProviderListURL, c.extract)
	if err != nil {
		logerr.WithError(logE, err).Warn("the pro bono provider list is unavailable")
		c.progress.Warn(r.category, "the pro bono provider list is unavailable: "+err.Error())
		r.sourceFailed("pro bono provider list", err)
	} else {
		lists.providerLines = lines
		lists.providerAvailable = true
	}
	return lists
}

// LegalAid checks active organizations and looks for inactive organizations
// that reappeared on a list. Grantees that aren't stored are reported as new.
func (c *Controller) LegalAid(ctx context.Context, logE *logrus.Entry, records []*dataset.LegalAidOrg) (*diff.Report, error) {
	r := newRun(diff.CategoryLegalAid)
	lists := c.loadLegalAidLists(ctx, logE, r)
	listURL := c.param.LegalAidProviderListURL

	for i, org := range records {
		if err := ctx.Err(); err != nil {
			return nil, err //nolint:wrapcheck
		}
		rec := &record{id: org.ID, name: org.Name, website: org.Website}
		c.progress.Record(r.category, i+1, len(records), rec.name)
		logE := logE.WithFields(logrus.Fields{"id": rec.id, "name": rec.name})

		m := lists.match(org.Name)
		if m.borderline != nil {
			logE.WithFields(logrus.Fields{
				"score": m.borderline.Score,
				"line":  m.borderline.Line,
			}).Info("a borderline match on the pro bono provider list was not trusted")
		}

		if !org.IsActive() {
			if m.found {
				r.add(&diff.Finding{
					ID:         rec.id,
					Name:       rec.name,
					ChangeType: diff.ChangeTypeInactiveReactivate,
					VerifyURL:  listURL,
					Severity:   diff.SeverityLow,
					Notes:      "stored as inactive but listed on the " + m.source,
				})
			}
			continue
		}

		f, reachable := c.checkWebsite(ctx, rec)
		r.add(f)
		r.add(c.checkScrapedPhone(ctx, rec, org.Phone, reachable, diff.SeverityHigh))

		if lists.anyAvailable() && !m.found {
			notes := "the organization is not on any available legal-aid list"
			if m.borderline != nil {
				notes += fmt.Sprintf("; borderline match (score %.2f): %q", m.borderline.Score, m.borderline.Line)
			}
			r.add(&diff.Finding{
				ID:          rec.id,
				Name:        rec.name,
				ChangeType:  diff.ChangeTypeNotFoundOnSource,
				StoredValue: formatLocation(org.City, org.State),
				VerifyURL:   listURL,
				Severity:    diff.SeverityMedium,
				Notes:       notes,
			})
		}

		r.add(manual(rec, "intake hours", org.IntakeHours))
	}

	storedIndex := parser.NewNameIndex(orgNames(records))
	reported := map[string]struct{}{}
	for _, g := range lists.grantees {
		if !isNew(storedIndex, reported, g.Name) {
			continue
		}
		r.add(&diff.Finding{
			ID:          sourceID("grantee", g.Name),
			Name:        g.Name,
			ChangeType:  diff.ChangeTypeNewOnSource,
			SourceValue: granteeSummary(&g),
			VerifyURL:   g.Website,
			Severity:    diff.SeverityLow,
			Notes:       "listed as a grantee but not stored",
		})
	}
	return r.report(c.param.Now(), len(records)), nil
}

func granteeSummary(g *parser.Grantee) string {
	s := formatLocation(g.City, g.State)
	if g.Phone != "" {
		if s != "" {
			s += ", "
		}
		s += g.Phone
	}
	return s
}

func orgNames(records []*dataset.LegalAidOrg) []string {
	names := make([]string, len(records))
	for i, o := range records {
		names[i] = o.Name
	}
	return names
}
