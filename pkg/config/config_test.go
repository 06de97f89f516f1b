package config_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lawlink-oss/refcheck/pkg/config"
)

func TestConfig_Init(t *testing.T) { //nolint:funlen
	t.Parallel()
	data := []struct {
		name    string
		cfg     *config.Config
		exp     *config.Config
		wantErr bool
	}{
		{
			name: "defaults",
			cfg:  &config.Config{Version: 1},
			exp:  config.Default(),
		},
		{
			name: "overrides",
			cfg: &config.Config{
				Version:  1,
				Dataset:  &config.Dataset{LegalAid: "records/legal-aid.yaml"},
				Sources:  &config.Sources{Grantees: "https://grantees.example.org/api/grantees.json"},
				Matching: &config.Matching{OverlapThreshold: 0.6},
				Output:   &config.Output{Dir: "tmp"},
				Report:   &config.Report{Labels: []string{"data-review"}},
			},
			exp: &config.Config{
				Version: 1,
				Dataset: &config.Dataset{
					Consulates: config.DefaultConsulatesPath,
					Detention:  config.DefaultDetentionPath,
					LegalAid:   "records/legal-aid.yaml",
				},
				Sources: &config.Sources{
					DetentionFacilities:  config.DefaultDetentionFacilitiesURL,
					LegalAidProviderList: config.DefaultLegalAidProviderListURL,
					Grantees:             "https://grantees.example.org/api/grantees.json",
					Nominatim:            config.DefaultNominatimURL,
				},
				Matching: &config.Matching{OverlapThreshold: 0.6},
				Output:   &config.Output{Dir: "tmp"},
				Report:   &config.Report{Labels: []string{"data-review"}},
			},
		},
		{
			name:    "version is missing",
			cfg:     &config.Config{},
			wantErr: true,
		},
		{
			name:    "unsupported version",
			cfg:     &config.Config{Version: 2},
			wantErr: true,
		},
		{
			name:    "threshold is too large",
			cfg:     &config.Config{Version: 1, Matching: &config.Matching{OverlapThreshold: 1.5}},
			wantErr: true,
		},
		{
			name:    "negative threshold",
			cfg:     &config.Config{Version: 1, Matching: &config.Matching{OverlapThreshold: -0.2}},
			wantErr: true,
		},
		{
			name:    "relative URL",
			cfg:     &config.Config{Version: 1, Sources: &config.Sources{Nominatim: "/search"}},
			wantErr: true,
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			err := d.cfg.Init()
			if d.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(d.exp, d.cfg); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}
