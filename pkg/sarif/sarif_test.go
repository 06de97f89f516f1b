package sarif_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lawlink-oss/refcheck/pkg/sarif"
)

func TestLog_Encode(t *testing.T) {
	t.Parallel()
	data := []struct {
		name    string
		results []sarif.Result
		exp     int
	}{
		{
			name: "no results",
			exp:  0,
		},
		{
			name: "results",
			results: []sarif.Result{
				{
					RuleID:    "phone_changed",
					Level:     sarif.LevelError,
					Message:   sarif.Message{Text: "Consulate of Mexico: phone changed"},
					Locations: []sarif.Location{sarif.FileLocation("data/consulates.yaml", 3)},
				},
				{
					RuleID:    "new_on_source",
					Level:     sarif.LevelNote,
					Message:   sarif.Message{Text: "Otero County Processing Center is listed on the source"},
					Locations: []sarif.Location{sarif.FileLocation("data/detention-facilities.yaml", 0)},
				},
			},
			exp: 2,
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			buf := &bytes.Buffer{}
			log := sarif.NewLog(sarif.Driver{Name: "refcheck"}, d.results)
			if err := log.Encode(buf); err != nil {
				t.Fatal(err)
			}
			got := &sarif.Log{}
			if err := json.Unmarshal(buf.Bytes(), got); err != nil {
				t.Fatal(err)
			}
			if got.Version != "2.1.0" {
				t.Errorf("version: wanted 2.1.0, got %s", got.Version)
			}
			if len(got.Runs) != 1 {
				t.Fatalf("wanted 1 run, got %d", len(got.Runs))
			}
			if got.Runs[0].Results == nil {
				t.Fatal("results must be an array, not null")
			}
			if len(got.Runs[0].Results) != d.exp {
				t.Errorf("wanted %d results, got %d", d.exp, len(got.Runs[0].Results))
			}
		})
	}
}

func TestFileLocation(t *testing.T) {
	t.Parallel()
	if diff := cmp.Diff(&sarif.Region{StartLine: 12}, sarif.FileLocation("a.yaml", 12).PhysicalLocation.Region); diff != "" {
		t.Error(diff)
	}
	if r := sarif.FileLocation("a.yaml", 0).PhysicalLocation.Region; r != nil {
		t.Errorf("the whole file must have no region, got %+v", r)
	}
}
