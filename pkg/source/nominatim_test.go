package source_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lawlink-oss/refcheck/pkg/source"
)

func TestGeocoder_Check(t *testing.T) { //nolint:funlen
	t.Parallel()
	data := []struct {
		name      string
		status    int
		body      string
		city      string
		exp       source.GeocodeResult
		wantError bool
	}{
		{
			name:   "found in the same city",
			status: http.StatusOK,
			body:   `[{"display_name":"Aurora ICE Processing Center, Aurora, Colorado, United States","address":{"city":"Aurora","state":"Colorado"}}]`,
			city:   "Aurora",
			exp: source.GeocodeResult{
				Found:       true,
				DisplayName: "Aurora ICE Processing Center, Aurora, Colorado, United States",
				CityMatch:   true,
				Status:      200,
			},
		},
		{
			name:   "found in another city",
			status: http.StatusOK,
			body:   `[{"display_name":"Somewhere, Denver, Colorado, United States","address":{"city":"Denver"}}]`,
			city:   "Aurora",
			exp: source.GeocodeResult{
				Found:       true,
				DisplayName: "Somewhere, Denver, Colorado, United States",
				CityMatch:   false,
				Status:      200,
			},
		},
		{
			name:   "town",
			status: http.StatusOK,
			body:   `[{"display_name":"X","address":{"town":"Tacoma"}}]`,
			city:   "tacoma",
			exp:    source.GeocodeResult{Found: true, DisplayName: "X", CityMatch: true, Status: 200},
		},
		{
			name:   "not found",
			status: http.StatusOK,
			body:   `[]`,
			city:   "Aurora",
			exp:    source.GeocodeResult{Status: 200},
		},
		{
			name:   "server error",
			status: http.StatusServiceUnavailable,
			body:   `oops`,
			city:   "Aurora",
			exp:    source.GeocodeResult{Status: 503},
		},
		{
			name:      "malformed JSON",
			status:    http.StatusOK,
			body:      `<html>`,
			city:      "Aurora",
			wantError: true,
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("User-Agent") != "refcheck-test" {
					t.Errorf("User-Agent: wanted refcheck-test, got %q", r.Header.Get("User-Agent"))
				}
				if r.URL.Query().Get("format") != "jsonv2" {
					t.Errorf("format: wanted jsonv2, got %q", r.URL.Query().Get("format"))
				}
				w.WriteHeader(d.status)
				fmt.Fprint(w, d.body)
			}))
			t.Cleanup(srv.Close)
			geocoder := source.NewGeocoder(source.New(&source.Param{UserAgent: "refcheck-test"}), srv.URL)
			got, err := geocoder.Check(context.Background(), "Aurora ICE Processing Center", d.city, "CO")
			if d.wantError {
				if err == nil {
					t.Fatal("an error must be returned")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if *got != d.exp {
				t.Errorf("wanted %+v, got %+v", d.exp, *got)
			}
		})
	}
}

func TestGeocoder_Check_unreachable(t *testing.T) {
	t.Parallel()
	geocoder := source.NewGeocoder(source.New(&source.Param{}), "http://127.0.0.1:1/search")
	got, err := geocoder.Check(context.Background(), "x", "y", "z")
	if err != nil {
		t.Fatal(err)
	}
	if got.Available() || got.Found {
		t.Errorf("wanted an unavailable result, got %+v", got)
	}
}
