package check

import (
	"context"
	"strconv"

	"github.com/lawlink-oss/refcheck/pkg/dataset"
	"github.com/lawlink-oss/refcheck/pkg/diff"
	"github.com/lawlink-oss/refcheck/pkg/parser"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

// Detention checks each facility against the authoritative facility list and
// reports listed facilities that aren't stored.
func (c *Controller) Detention(ctx context.Context, logE *logrus.Entry, records []*dataset.Facility) (*diff.Report, error) {
	r := newRun(diff.CategoryDetention)
	listURL := c.param.DetentionFacilitiesURL

	rows, err := parser.FetchFacilities(ctx, c.fetcher, listURL)
	listAvailable := err == nil
	if err != nil {
		logerr.WithError(logE, err).Warn("the detention facility list is unavailable")
		c.progress.Warn(r.category, "the detention facility list is unavailable: "+err.Error())
		r.sourceFailed("detention facility list", err)
	}
	rowNames := make([]string, len(rows))
	for i, row := range rows {
		rowNames[i] = row.Name
	}
	rowIndex := parser.NewNameIndex(rowNames)

	health := &geocoderHealth{}
	for i, facility := range records {
		if err := ctx.Err(); err != nil {
			return nil, err //nolint:wrapcheck
		}
		rec := &record{id: facility.ID, name: facility.Name, website: facility.Website}
		c.progress.Record(r.category, i+1, len(records), rec.name)
		logE := logE.WithFields(logrus.Fields{"id": rec.id, "name": rec.name})

		if rec.website != "" {
			f, _ := c.checkWebsite(ctx, rec)
			r.add(f)
		}

		var row *parser.FacilityRow
		if matches := rowIndex.Lookup(facility.Name); len(matches) > 0 {
			row = &rows[matches[0]]
		}
		r.add(checkListedPhone(rec, facility.Phone, row, listAvailable, listURL))

		outcome, displayName, err := c.geocode(ctx, facility.Name, facility.City, facility.State)
		health.observe(outcome, err)
		switch {
		case err != nil:
			logerr.WithError(logE, err).Warn("geocode a detention facility")
			r.recordFailed(rec.name, "geocode", err)
		case outcome == geocodeNotFound:
			logE.Debug("the geocoder found no place named the facility")
		case outcome == geocodeCityMismatch:
			r.add(&diff.Finding{
				ID:          rec.id,
				Name:        rec.name,
				ChangeType:  diff.ChangeTypeAddressChanged,
				StoredValue: formatLocation(facility.City, facility.State),
				SourceValue: displayName,
				VerifyURL:   mapSearchURL(facility.Name),
				Severity:    diff.SeverityMedium,
				Notes:       "the geocoder located the facility in a different city",
			})
		}

		if listAvailable {
			if row == nil {
				r.add(&diff.Finding{
					ID:          rec.id,
					Name:        rec.name,
					ChangeType:  diff.ChangeTypeNotFoundOnSource,
					StoredValue: formatLocation(facility.City, facility.State),
					VerifyURL:   listURL,
					Severity:    diff.SeverityHigh,
					Notes:       "the facility is not on the detention facility list",
				})
			} else if f := checkCapacity(rec, facility.Capacity, row.Capacity, listURL); f != nil {
				r.add(f)
			}
		}

		r.add(manual(rec, "visitation hours", facility.VisitationHours))
	}

	storedIndex := parser.NewNameIndex(facilityNames(records))
	reported := map[string]struct{}{}
	for _, row := range rows {
		if !isNew(storedIndex, reported, row.Name) {
			continue
		}
		r.add(&diff.Finding{
			ID:          sourceID("detention", row.Name),
			Name:        row.Name,
			ChangeType:  diff.ChangeTypeNewOnSource,
			SourceValue: formatLocation(row.City, row.State),
			VerifyURL:   listURL,
			Severity:    diff.SeverityMedium,
			Notes:       "listed on the detention facility list but not stored",
		})
	}

	if health.down() {
		r.sourceFailed("geocoder", health.err())
		c.progress.Warn(r.category, "no geocoder query succeeded: "+health.err().Error())
	}
	return r.report(c.param.Now(), len(records)), nil
}

// checkListedPhone compares the stored phone with the phone of the facility
// list row.
func checkListedPhone(rec *record, stored string, row *parser.FacilityRow, listAvailable bool, listURL string) *diff.Finding {
	switch {
	case !listAvailable:
		return manualPhone(rec, stored, "could not verify automatically: the detention facility list is unavailable")
	case row == nil:
		// not_found_on_source is reported by the list cross-reference.
		return nil
	case row.Phone == "":
		return manualPhone(rec, stored, "could not verify automatically: the detention facility list shows no phone")
	case diff.PhonesMatch(stored, row.Phone):
		return nil
	}
	return &diff.Finding{
		ID:          rec.id,
		Name:        rec.name,
		ChangeType:  diff.ChangeTypePhoneChanged,
		StoredValue: stored,
		SourceValue: row.Phone,
		VerifyURL:   listURL,
		Severity:    diff.SeverityHigh,
	}
}

func checkCapacity(rec *record, stored, listed *int, listURL string) *diff.Finding {
	if stored == nil || listed == nil || *stored == *listed {
		return nil
	}
	return &diff.Finding{
		ID:          rec.id,
		Name:        rec.name,
		ChangeType:  diff.ChangeTypeCapacityChanged,
		StoredValue: strconv.Itoa(*stored),
		SourceValue: strconv.Itoa(*listed),
		VerifyURL:   listURL,
		Severity:    diff.SeverityMedium,
	}
}

func facilityNames(records []*dataset.Facility) []string {
	names := make([]string, len(records))
	for i, f := range records {
		names[i] = f.Name
	}
	return names
}
