package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	SchemaVersion = 1

	DefaultConsulatesPath          = "data/consulates.yaml"
	DefaultDetentionPath           = "data/detention-facilities.yaml"
	DefaultLegalAidPath            = "data/legal-aid.yaml"
	DefaultDetentionFacilitiesURL  = "https://www.ice.gov/detention-facilities"
	DefaultLegalAidProviderListURL = "https://www.justice.gov/eoir/list-pro-bono-legal-service-providers"
	DefaultNominatimURL            = "https://nominatim.openstreetmap.org/search"
	DefaultOverlapThreshold        = 0.8
	DefaultOutputDir               = "output"
)

type Config struct {
	Version   int       `json:"version" jsonschema:"enum=1"`
	Dataset   *Dataset  `json:"dataset,omitempty" jsonschema:"description=Paths of the stored dataset files"`
	Sources   *Sources  `json:"sources,omitempty" jsonschema:"description=URLs of the external sources"`
	Matching  *Matching `json:"matching,omitempty"`
	Output    *Output   `json:"output,omitempty"`
	Report    *Report   `json:"report,omitempty"`
	UserAgent string    `json:"user_agent,omitempty" yaml:"user_agent" jsonschema:"description=User-Agent of HTTP requests. refcheck/<version> is used by default"`
}

type Dataset struct {
	Consulates string `json:"consulates,omitempty"`
	Detention  string `json:"detention,omitempty"`
	LegalAid   string `json:"legal_aid,omitempty" yaml:"legal_aid"`
}

type Sources struct {
	DetentionFacilities  string `json:"detention_facilities,omitempty" yaml:"detention_facilities" jsonschema:"description=HTML page listing detention facilities"`
	LegalAidProviderList string `json:"legal_aid_provider_list,omitempty" yaml:"legal_aid_provider_list" jsonschema:"description=Index page linking the pro bono provider list PDF"`
	Grantees             string `json:"grantees,omitempty" jsonschema:"description=JSON API of legal-aid grantees. The grantee source is skipped if this is empty"`
	Nominatim            string `json:"nominatim,omitempty"`
}

type Matching struct {
	OverlapThreshold float64 `json:"overlap_threshold,omitempty" yaml:"overlap_threshold" jsonschema:"description=Fraction of significant name words a provider list line must contain,exclusiveMinimum=0,maximum=1"`
}

type Output struct {
	Dir string `json:"dir,omitempty"`
}

type Report struct {
	Labels []string `json:"labels,omitempty" jsonschema:"description=Labels of the review issue"`
}

// Init sets the default values and validates the configuration.
func (c *Config) Init() error {
	if err := validateSchemaVersion(c.Version); err != nil {
		return err
	}
	c.setDefaults()
	if t := c.Matching.OverlapThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("matching.overlap_threshold must be greater than 0 and less than or equal to 1: %v", t)
	}
	for name, u := range map[string]string{
		"sources.detention_facilities":    c.Sources.DetentionFacilities,
		"sources.legal_aid_provider_list": c.Sources.LegalAidProviderList,
		"sources.grantees":                c.Sources.Grantees,
		"sources.nominatim":               c.Sources.Nominatim,
	} {
		if u == "" {
			continue
		}
		if err := validateURL(u); err != nil {
			return fmt.Errorf("validate %s: %w", name, err)
		}
	}
	return nil
}

// Default returns the configuration used when no configuration file is found.
func Default() *Config {
	cfg := &Config{Version: SchemaVersion}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Dataset == nil {
		c.Dataset = &Dataset{}
	}
	c.Dataset.Consulates = orDefault(c.Dataset.Consulates, DefaultConsulatesPath)
	c.Dataset.Detention = orDefault(c.Dataset.Detention, DefaultDetentionPath)
	c.Dataset.LegalAid = orDefault(c.Dataset.LegalAid, DefaultLegalAidPath)
	if c.Sources == nil {
		c.Sources = &Sources{}
	}
	c.Sources.DetentionFacilities = orDefault(c.Sources.DetentionFacilities, DefaultDetentionFacilitiesURL)
	c.Sources.LegalAidProviderList = orDefault(c.Sources.LegalAidProviderList, DefaultLegalAidProviderListURL)
	c.Sources.Nominatim = orDefault(c.Sources.Nominatim, DefaultNominatimURL)
	if c.Matching == nil {
		c.Matching = &Matching{}
	}
	if c.Matching.OverlapThreshold == 0 {
		c.Matching.OverlapThreshold = DefaultOverlapThreshold
	}
	if c.Output == nil {
		c.Output = &Output{}
	}
	c.Output.Dir = orDefault(c.Output.Dir, DefaultOutputDir)
	if c.Report == nil {
		c.Report = &Report{}
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func validateSchemaVersion(v int) error {
	switch v {
	case SchemaVersion:
		return nil
	case 0:
		return errors.New("version is required")
	default:
		return fmt.Errorf("unsupported configuration version: %d", v)
	}
}

func validateURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("parse a URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("the URL scheme must be http or https: %s", s)
	}
	if u.Host == "" {
		return fmt.Errorf("the URL must have a host: %s", s)
	}
	return nil
}

func getConfigPath(fs afero.Fs) (string, error) {
	for _, path := range []string{".refcheck.yaml", ".github/refcheck.yaml", ".refcheck.yml"} {
		f, err := afero.Exists(fs, path)
		if err != nil {
			return "", fmt.Errorf("check if %s exists: %w", path, err)
		}
		if f {
			return path, nil
		}
	}
	return "", nil
}

type Finder struct {
	fs afero.Fs
}

func NewFinder(fs afero.Fs) *Finder {
	return &Finder{fs: fs}
}

func (f *Finder) Find(configFilePath string) (string, error) {
	if configFilePath != "" {
		return configFilePath, nil
	}
	p, err := getConfigPath(f.fs)
	if err != nil {
		return "", err
	}
	return p, nil
}

type Reader struct {
	fs afero.Fs
}

func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

// Read reads a configuration file into cfg.
// If configFilePath is empty, cfg gets the default configuration.
func (r *Reader) Read(cfg *Config, configFilePath string) error {
	if configFilePath == "" {
		*cfg = *Default()
		return nil
	}
	f, err := r.fs.Open(configFilePath)
	if err != nil {
		return fmt.Errorf("open a configuration file: %w", err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode a configuration file as YAML: %w", err)
	}
	if err := cfg.Init(); err != nil {
		return fmt.Errorf("initialize a configuration: %w", err)
	}
	return nil
}
