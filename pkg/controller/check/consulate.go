package check

import (
	"context"
	"errors"

	"github.com/lawlink-oss/refcheck/pkg/dataset"
	"github.com/lawlink-oss/refcheck/pkg/diff"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

var errGeocoderNoResponse = errors.New("the geocoder didn't respond")

// Consulates checks the website, the phone and the location of each consulate.
// Consulates have no authoritative list, so no reverse diff is made.
func (c *Controller) Consulates(ctx context.Context, logE *logrus.Entry, records []*dataset.Consulate) (*diff.Report, error) {
	r := newRun(diff.CategoryConsulates)
	health := &geocoderHealth{}
	for i, consulate := range records {
		if err := ctx.Err(); err != nil {
			return nil, err //nolint:wrapcheck
		}
		rec := &record{id: consulate.ID, name: consulate.Name(), website: consulate.Website}
		c.progress.Record(r.category, i+1, len(records), rec.name)
		logE := logE.WithFields(logrus.Fields{"id": rec.id, "name": rec.name})

		f, reachable := c.checkWebsite(ctx, rec)
		r.add(f)
		r.add(c.checkScrapedPhone(ctx, rec, consulate.Phone, reachable, diff.SeverityCritical))

		query := rec.name
		outcome, displayName, err := c.geocode(ctx, query, consulate.City, consulate.State)
		health.observe(outcome, err)
		switch {
		case err != nil:
			logerr.WithError(logE, err).Warn("geocode a consulate")
			r.recordFailed(rec.name, "geocode", err)
		case outcome == geocodeNotFound:
			r.add(&diff.Finding{
				ID:          rec.id,
				Name:        rec.name,
				ChangeType:  diff.ChangeTypeNotFoundOnSource,
				StoredValue: formatLocation(consulate.City, consulate.State),
				VerifyURL:   mapSearchURL(query + ", " + formatLocation(consulate.City, consulate.State)),
				Severity:    diff.SeverityMedium,
				Notes:       "the geocoder found no place named " + query,
			})
		case outcome == geocodeCityMismatch:
			r.add(&diff.Finding{
				ID:          rec.id,
				Name:        rec.name,
				ChangeType:  diff.ChangeTypeAddressChanged,
				StoredValue: formatLocation(consulate.City, consulate.State),
				SourceValue: displayName,
				VerifyURL:   mapSearchURL(query),
				Severity:    diff.SeverityMedium,
				Notes:       "the geocoder located the consulate in a different city",
			})
		}

		r.add(manual(rec, "emergency phone", consulate.EmergencyPhone))
		r.add(manual(rec, "hours", consulate.Hours))
	}
	if health.down() {
		r.sourceFailed("geocoder", health.err())
		c.progress.Warn(r.category, "no geocoder query succeeded: "+health.err().Error())
	}
	return r.report(c.param.Now(), len(records)), nil
}
