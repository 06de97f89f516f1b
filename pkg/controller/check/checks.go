package check

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lawlink-oss/refcheck/pkg/diff"
	"github.com/lawlink-oss/refcheck/pkg/parser"
)

// record is the identity of a stored record in findings.
type record struct {
	id      string
	name    string
	website string
}

// checkWebsite emits website_down when the stored website is unreachable.
// It returns whether the site answered; a record without a website counts as
// unreachable so that the phone scrape is skipped.
func (c *Controller) checkWebsite(ctx context.Context, rec *record) (*diff.Finding, bool) {
	if rec.website == "" {
		return nil, false
	}
	status := c.prober.CheckWebsite(ctx, rec.website)
	if status.OK {
		return nil, true
	}
	notes := "no response (timeout or network error)"
	if status.Status != 0 {
		notes = fmt.Sprintf("HTTP %d", status.Status)
	}
	return &diff.Finding{
		ID:          rec.id,
		Name:        rec.name,
		ChangeType:  diff.ChangeTypeWebsiteDown,
		StoredValue: rec.website,
		VerifyURL:   rec.website,
		Severity:    diff.SeverityHigh,
		Notes:       notes,
	}, false
}

// checkScrapedPhone compares the stored phone with the phones scraped from
// the record's website. When nothing could be scraped the phone is handed to
// a human; an empty scrape is never evidence that the stored phone is wrong.
func (c *Controller) checkScrapedPhone(ctx context.Context, rec *record, stored string, reachable bool, severity diff.Severity) *diff.Finding {
	if !reachable {
		reason := "no website to scrape"
		if rec.website != "" {
			reason = "the website is unreachable"
		}
		return manualPhone(rec, stored, "could not verify automatically: "+reason)
	}
	phones := c.prober.ScrapeWebsitePhones(ctx, rec.website)
	if len(phones) == 0 {
		return manualPhone(rec, stored, "could not verify automatically: no phone number was found on the website")
	}
	if diff.ContainsPhone(phones, stored) {
		return nil
	}
	return &diff.Finding{
		ID:          rec.id,
		Name:        rec.name,
		ChangeType:  diff.ChangeTypePhoneChanged,
		StoredValue: stored,
		SourceValue: phones[0],
		VerifyURL:   rec.website,
		Severity:    severity,
		Notes:       "candidates found on the website: " + strings.Join(phones, ", "),
	}
}

func manualPhone(rec *record, stored, notes string) *diff.Finding {
	f := manual(rec, "phone", stored)
	f.Notes = notes
	return f
}

// manual emits manual_required for a field with no automated source.
// An empty stored value is more urgent.
func manual(rec *record, field, stored string) *diff.Finding {
	severity := diff.SeverityMedium
	if strings.TrimSpace(stored) == "" {
		severity = diff.SeverityHigh
	}
	verifyURL := rec.website
	if field == "emergency phone" || field == "phone" {
		if digits := diff.NormalizePhone(stored); digits != "" {
			verifyURL = "tel:+1" + digits
		}
	}
	return &diff.Finding{
		ID:          rec.id,
		Name:        rec.name,
		ChangeType:  diff.ChangeTypeManualRequired,
		StoredValue: stored,
		VerifyURL:   verifyURL,
		Severity:    severity,
		Notes:       field + " has no automated source; verify manually",
	}
}

type geocodeOutcome int

const (
	geocodeUnavailable geocodeOutcome = iota
	geocodeNotFound
	geocodeCityMismatch
	geocodeConfirmed
)

// geocode probes the geocoder. A cancelled wait or a malformed response is
// returned as an error; a geocoder without an answer is geocodeUnavailable.
func (c *Controller) geocode(ctx context.Context, query, city, state string) (geocodeOutcome, string, error) {
	res, err := c.geocoder.Check(ctx, query, city, state)
	if err != nil {
		return geocodeUnavailable, "", err //nolint:wrapcheck
	}
	if !res.Available() {
		if res.Status == 0 {
			return geocodeUnavailable, "", errGeocoderNoResponse
		}
		return geocodeUnavailable, "", fmt.Errorf("geocoder responded with HTTP %d", res.Status)
	}
	switch {
	case !res.Found:
		return geocodeNotFound, "", nil
	case !res.CityMatch:
		return geocodeCityMismatch, res.DisplayName, nil
	default:
		return geocodeConfirmed, res.DisplayName, nil
	}
}

// geocoderHealth tracks whether the geocoder answered at least once in a run.
type geocoderHealth struct {
	attempts int
	answered int
	lastErr  error
}

func (h *geocoderHealth) observe(outcome geocodeOutcome, err error) {
	h.attempts++
	if err != nil {
		h.lastErr = err
	}
	if outcome != geocodeUnavailable {
		h.answered++
	}
}

func (h *geocoderHealth) down() bool {
	return h.attempts > 0 && h.answered == 0
}

// err returns the last geocode error of the run.
func (h *geocoderHealth) err() error {
	if h.lastErr != nil {
		return h.lastErr
	}
	return errGeocoderNoResponse
}

func mapSearchURL(query string) string {
	return "https://www.openstreetmap.org/search?query=" + url.QueryEscape(query)
}

func formatLocation(city, state string) string {
	switch {
	case city == "":
		return state
	case state == "":
		return city
	default:
		return city + ", " + state
	}
}

// sourceID builds the id of a source entity that isn't stored.
func sourceID(prefix, name string) string {
	return prefix + ":" + strings.ReplaceAll(parser.NormalizeName(name), " ", "-")
}

// isNew reports whether a source entity is neither stored nor already
// reported as new.
func isNew(stored parser.NameIndex, reported map[string]struct{}, name string) bool {
	key := parser.NormalizeName(name)
	if key == "" || len(stored[key]) > 0 {
		return false
	}
	if _, ok := reported[key]; ok {
		return false
	}
	reported[key] = struct{}{}
	return true
}
