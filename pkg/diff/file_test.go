package diff_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/lawlink-oss/refcheck/pkg/diff"
	"github.com/spf13/afero"
)

func TestWriteDiff_ReadDiff(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	report := diff.NewReport(diff.CategoryConsulates, now, 1, []diff.Finding{
		{
			ID:          "mx-la",
			Name:        "Consulate General of Mexico in Los Angeles",
			ChangeType:  diff.ChangeTypePhoneChanged,
			StoredValue: "(213) 351-6800",
			SourceValue: "(213) 555-0000",
			VerifyURL:   "https://consulmex.sre.gob.mx/losangeles/",
			Severity:    diff.SeverityCritical,
		},
	}, true, nil)
	p, err := diff.WriteDiff(fs, report, "output")
	if err != nil {
		t.Fatal(err)
	}
	if p != "output/consulates-diff.json" {
		t.Errorf("path: wanted output/consulates-diff.json, got %s", p)
	}
	got, err := diff.ReadDiff(fs, "output", diff.CategoryConsulates)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(report, got); d != "" {
		t.Fatal(d)
	}

	// A second run overwrites the previous file.
	empty := diff.NewReport(diff.CategoryConsulates, now, 0, nil, false, []string{"source down"})
	if _, err := diff.WriteDiff(fs, empty, "output"); err != nil {
		t.Fatal(err)
	}
	got, err = diff.ReadDiff(fs, "output", diff.CategoryConsulates)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Findings) != 0 || got.SourceAvailable {
		t.Errorf("the report wasn't overwritten: %+v", got)
	}
}

func TestReadDiff_missing(t *testing.T) {
	t.Parallel()
	got, err := diff.ReadDiff(afero.NewMemMapFs(), "output", diff.CategoryLegalAid)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("wanted nil, got %+v", got)
	}
}

func TestReadDiff_invalid(t *testing.T) {
	t.Parallel()
	data := []struct {
		name         string
		content      string
		incompatible bool
	}{
		{name: "broken JSON", content: "{"},
		{name: "no schema version", content: `{"category":"detention"}`, incompatible: true},
		{name: "major version 2", content: `{"schemaVersion":"2.0.0","category":"detention"}`, incompatible: true},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			fs := afero.NewMemMapFs()
			if err := afero.WriteFile(fs, "output/detention-diff.json", []byte(d.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := diff.ReadDiff(fs, "output", diff.CategoryDetention)
			if err == nil {
				t.Fatal("an error must be returned")
			}
			if errors.Is(err, diff.ErrIncompatibleSchema) != d.incompatible {
				t.Errorf("errors.Is(err, ErrIncompatibleSchema): wanted %v, got %v", d.incompatible, err)
			}
		})
	}
}
