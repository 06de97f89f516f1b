package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultNominatimURL is the public Nominatim search endpoint.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// GeocodeResult is the result of a geocoder existence probe.
// Status is the HTTP status of the search, or 0 when no response was received.
// Found and CityMatch are meaningful only when Status is 200.
type GeocodeResult struct {
	Found       bool
	DisplayName string
	CityMatch   bool
	Status      int
}

// Available reports whether the geocoder answered the query.
func (r *GeocodeResult) Available() bool {
	return r.Status == http.StatusOK
}

// Geocoder probes the Nominatim search API.
type Geocoder struct {
	client  *Client
	baseURL string
}

// NewGeocoder creates a Geocoder. An empty baseURL selects DefaultNominatimURL.
func NewGeocoder(client *Client, baseURL string) *Geocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &Geocoder{client: client, baseURL: baseURL}
}

type nominatimPlace struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
}

// Check looks up "name, city, state" and reports whether a place was found
// and whether its locality matches city.
//
// Check waits on the client's geocoder limiter before sending the request,
// so every caller respects the one request per second usage policy.
// Timeouts and non 200 responses are reported through Status; an error is
// returned only when the limiter wait is cancelled or the API returns
// malformed JSON.
func (g *Geocoder) Check(ctx context.Context, name, city, state string) (*GeocodeResult, error) {
	if err := g.client.NominatimDelay(ctx); err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("q", joinNonEmpty(", ", name, city, state))
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("limit", "1")
	q.Set("countrycodes", "us")

	ctx, cancel := context.WithTimeout(ctx, g.client.probeTimeout)
	defer cancel()
	req, err := g.client.newRequest(ctx, http.MethodGet, g.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := g.client.http.Do(req)
	if err != nil {
		return &GeocodeResult{}, nil //nolint:nilerr
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &GeocodeResult{Status: resp.StatusCode}, nil
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return &GeocodeResult{}, nil //nolint:nilerr
	}
	places := []nominatimPlace{}
	if err := json.Unmarshal(b, &places); err != nil {
		return nil, fmt.Errorf("unmarshal a Nominatim response as JSON: %w", err)
	}
	if len(places) == 0 {
		return &GeocodeResult{Status: resp.StatusCode}, nil
	}
	place := places[0]
	return &GeocodeResult{
		Found:       true,
		DisplayName: place.DisplayName,
		CityMatch:   cityMatches(place, city),
		Status:      resp.StatusCode,
	}, nil
}

var localityKeys = []string{"city", "town", "village", "municipality", "hamlet", "suburb"} //nolint:gochecknoglobals

func cityMatches(place nominatimPlace, city string) bool {
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		return true
	}
	for _, key := range localityKeys {
		if strings.EqualFold(strings.TrimSpace(place.Address[key]), city) {
			return true
		}
	}
	for _, part := range strings.Split(place.DisplayName, ",") {
		if strings.EqualFold(strings.TrimSpace(part), city) {
			return true
		}
	}
	return false
}

func joinNonEmpty(sep string, values ...string) string {
	arr := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			arr = append(arr, v)
		}
	}
	return strings.Join(arr, sep)
}
