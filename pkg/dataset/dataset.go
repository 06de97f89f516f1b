// Package dataset loads the stored reference records the checkers verify.
// The records are read-only input; nothing in this module writes them back.
package dataset

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// Consulate is a stored foreign consulate located in the United States.
type Consulate struct {
	ID             string `yaml:"id"`
	Country        string `yaml:"country"`
	City           string `yaml:"city"`
	State          string `yaml:"state"`
	Address        string `yaml:"address,omitempty"`
	Phone          string `yaml:"phone,omitempty"`
	EmergencyPhone string `yaml:"emergency_phone,omitempty"`
	Website        string `yaml:"website,omitempty"`
	Hours          string `yaml:"hours,omitempty"`
}

// Name returns the display name of the consulate.
func (c *Consulate) Name() string {
	return "Consulate of " + c.Country
}

// Facility is a stored immigration detention facility.
type Facility struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	City            string `yaml:"city"`
	State           string `yaml:"state"`
	Address         string `yaml:"address,omitempty"`
	Phone           string `yaml:"phone,omitempty"`
	Website         string `yaml:"website,omitempty"`
	Capacity        *int   `yaml:"capacity,omitempty"`
	VisitationHours string `yaml:"visitation_hours,omitempty"`
}

// LegalAidOrg is a stored legal-aid organization.
// An organization without the active field is active.
type LegalAidOrg struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	City        string `yaml:"city"`
	State       string `yaml:"state"`
	Phone       string `yaml:"phone,omitempty"`
	Website     string `yaml:"website,omitempty"`
	IntakeHours string `yaml:"intake_hours,omitempty"`
	Active      *bool  `yaml:"active,omitempty"`
}

func (o *LegalAidOrg) IsActive() bool {
	return o.Active == nil || *o.Active
}

// Dataset is the whole stored dataset.
type Dataset struct {
	Consulates []*Consulate
	Facilities []*Facility
	LegalAid   []*LegalAidOrg
}

// Paths are the files of the collections. A collection with an empty path
// isn't loaded.
type Paths struct {
	Consulates string
	Detention  string
	LegalAid   string
}

type Loader struct {
	fs afero.Fs
}

func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// LoadConsulates reads the consulate records from p.
func (l *Loader) LoadConsulates(p string) ([]*Consulate, error) {
	records := []*Consulate{}
	if err := l.load(p, &records); err != nil {
		return nil, err
	}
	if err := validateIDs(p, len(records), func(i int) string { return records[i].ID }); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadFacilities reads the detention facility records from p.
func (l *Loader) LoadFacilities(p string) ([]*Facility, error) {
	records := []*Facility{}
	if err := l.load(p, &records); err != nil {
		return nil, err
	}
	if err := validateIDs(p, len(records), func(i int) string { return records[i].ID }); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadLegalAid reads the legal-aid organization records from p.
func (l *Loader) LoadLegalAid(p string) ([]*LegalAidOrg, error) {
	records := []*LegalAidOrg{}
	if err := l.load(p, &records); err != nil {
		return nil, err
	}
	if err := validateIDs(p, len(records), func(i int) string { return records[i].ID }); err != nil {
		return nil, err
	}
	return records, nil
}

// Load reads the collections whose path is set.
func (l *Loader) Load(paths *Paths) (*Dataset, error) {
	ds := &Dataset{}
	var err error
	if paths.Consulates != "" {
		if ds.Consulates, err = l.LoadConsulates(paths.Consulates); err != nil {
			return nil, err
		}
	}
	if paths.Detention != "" {
		if ds.Facilities, err = l.LoadFacilities(paths.Detention); err != nil {
			return nil, err
		}
	}
	if paths.LegalAid != "" {
		if ds.LegalAid, err = l.LoadLegalAid(paths.LegalAid); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func (l *Loader) load(p string, dest any) error {
	b, err := afero.ReadFile(l.fs, p)
	if err != nil {
		return fmt.Errorf("read a dataset file %s: %w", p, err)
	}
	if err := yaml.UnmarshalWithOptions(b, dest, yaml.Strict()); err != nil {
		return fmt.Errorf("parse a dataset file %s: %s: %w", p, yaml.FormatError(err, false, true), errInvalidDataset)
	}
	return nil
}

var errInvalidDataset = errors.New("the dataset file is invalid")

func validateIDs(p string, n int, id func(int) string) error {
	seen := make(map[string]struct{}, n)
	for i := range n {
		v := id(i)
		if v == "" {
			return fmt.Errorf("the record %d of %s has no id: %w", i, p, errInvalidDataset)
		}
		if _, ok := seen[v]; ok {
			return fmt.Errorf("the id %s is duplicated in %s: %w", v, p, errInvalidDataset)
		}
		seen[v] = struct{}{}
	}
	return nil
}
