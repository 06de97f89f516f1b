package dataset_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lawlink-oss/refcheck/pkg/dataset"
	"github.com/spf13/afero"
)

func boolP(b bool) *bool {
	return &b
}

func intP(i int) *int {
	return &i
}

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		if err := afero.WriteFile(fs, name, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

func TestLoader_Load(t *testing.T) {
	t.Parallel()
	fs := newFs(t, map[string]string{
		"data/consulates.yaml": `
- id: mx-denver
  country: Mexico
  city: Denver
  state: CO
  phone: (303) 331-1110
  emergency_phone: ""
  website: https://consulmex.sre.gob.mx/denver/
`,
		"data/detention-facilities.yaml": `
- id: aurora
  name: Aurora ICE Processing Center
  city: Aurora
  state: CO
  capacity: 1532
`,
		"data/legal-aid.yaml": `
- id: rmian
  name: Rocky Mountain Immigrant Advocacy Network
  city: Westminster
  state: CO
- id: closed
  name: Closed Legal Clinic
  city: Boulder
  state: CO
  active: false
`,
	})
	ds, err := dataset.NewLoader(fs).Load(&dataset.Paths{
		Consulates: "data/consulates.yaml",
		Detention:  "data/detention-facilities.yaml",
		LegalAid:   "data/legal-aid.yaml",
	})
	if err != nil {
		t.Fatal(err)
	}
	exp := &dataset.Dataset{
		Consulates: []*dataset.Consulate{
			{ID: "mx-denver", Country: "Mexico", City: "Denver", State: "CO", Phone: "(303) 331-1110", Website: "https://consulmex.sre.gob.mx/denver/"},
		},
		Facilities: []*dataset.Facility{
			{ID: "aurora", Name: "Aurora ICE Processing Center", City: "Aurora", State: "CO", Capacity: intP(1532)},
		},
		LegalAid: []*dataset.LegalAidOrg{
			{ID: "rmian", Name: "Rocky Mountain Immigrant Advocacy Network", City: "Westminster", State: "CO"},
			{ID: "closed", Name: "Closed Legal Clinic", City: "Boulder", State: "CO", Active: boolP(false)},
		},
	}
	if diff := cmp.Diff(exp, ds); diff != "" {
		t.Fatal(diff)
	}
	if !ds.LegalAid[0].IsActive() {
		t.Error("an organization without the active field must be active")
	}
	if ds.LegalAid[1].IsActive() {
		t.Error("active: false must be inactive")
	}
	if name := ds.Consulates[0].Name(); name != "Consulate of Mexico" {
		t.Errorf("wanted %q, got %q", "Consulate of Mexico", name)
	}
}

func TestLoader_Load_partial(t *testing.T) {
	t.Parallel()
	fs := newFs(t, map[string]string{
		"data/legal-aid.yaml": "- id: rmian\n  name: Rocky Mountain Immigrant Advocacy Network\n",
	})
	ds, err := dataset.NewLoader(fs).Load(&dataset.Paths{LegalAid: "data/legal-aid.yaml"})
	if err != nil {
		t.Fatalf("collections without a path must not be read: %v", err)
	}
	if ds.Consulates != nil || ds.Facilities != nil {
		t.Errorf("only legal aid must be loaded: %+v", ds)
	}
	if len(ds.LegalAid) != 1 {
		t.Errorf("wanted 1 organization, got %d", len(ds.LegalAid))
	}
}

func TestLoader_LoadFacilities(t *testing.T) {
	t.Parallel()
	data := []struct {
		name    string
		content string
		isErr   bool
		count   int
	}{
		{
			name:    "empty file",
			content: "",
			count:   0,
		},
		{
			name:    "unknown field",
			content: "- id: a\n  name: A\n  beds: 3\n",
			isErr:   true,
		},
		{
			name:    "missing id",
			content: "- name: A\n",
			isErr:   true,
		},
		{
			name:    "duplicated id",
			content: "- id: a\n  name: A\n- id: a\n  name: B\n",
			isErr:   true,
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			fs := newFs(t, map[string]string{"facilities.yaml": d.content})
			records, err := dataset.NewLoader(fs).LoadFacilities("facilities.yaml")
			if err != nil {
				if d.isErr {
					return
				}
				t.Fatal(err)
			}
			if d.isErr {
				t.Fatal("error must be returned")
			}
			if len(records) != d.count {
				t.Errorf("wanted %d records, got %d", d.count, len(records))
			}
		})
	}
}

func TestLoader_missingFile(t *testing.T) {
	t.Parallel()
	if _, err := dataset.NewLoader(afero.NewMemMapFs()).LoadLegalAid("data/legal-aid.yaml"); err == nil {
		t.Fatal("a missing dataset file must be an error")
	}
}
