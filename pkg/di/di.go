// Package di wires the dependencies of the refcheck commands.
package di

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/lawlink-oss/refcheck/pkg/config"
	"github.com/lawlink-oss/refcheck/pkg/controller/check"
	"github.com/lawlink-oss/refcheck/pkg/controller/report"
	"github.com/lawlink-oss/refcheck/pkg/dataset"
	"github.com/lawlink-oss/refcheck/pkg/diff"
	"github.com/lawlink-oss/refcheck/pkg/github"
	"github.com/lawlink-oss/refcheck/pkg/log"
	"github.com/lawlink-oss/refcheck/pkg/parser"
	"github.com/lawlink-oss/refcheck/pkg/source"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Check runs the checkers of the selected categories and writes their reports.
func Check(ctx context.Context, logE *logrus.Entry, flags *Flags, version string) error {
	setup(logE, flags)
	categories, err := flags.Categories()
	if err != nil {
		return err
	}
	fs := afero.NewOsFs()
	cfg, err := readConfig(fs, flags.Config)
	if err != nil {
		return err
	}
	ds, err := loadDataset(dataset.NewLoader(fs), cfg.Dataset, categories)
	if err != nil {
		return err
	}
	dir := outputDir(cfg, flags)
	newController := newControllerFactory(cfg, check.NewProgress(os.Stderr), version)
	if len(categories) > 1 {
		return check.RunAll(ctx, logE, fs, newController, ds, dir) //nolint:wrapcheck
	}
	_, err = check.RunAndWrite(ctx, logE, fs, newController(categories[0]), categories[0], ds, dir)
	return err //nolint:wrapcheck
}

// Report builds the review document from the written reports and files it.
func Report(ctx context.Context, logE *logrus.Entry, flags *Flags, secrets *Secrets) error {
	setup(logE, flags)
	fs := afero.NewOsFs()
	cfg, err := readConfig(fs, flags.Config)
	if err != nil {
		return err
	}
	var issues report.IssuesService
	if !flags.DryRun && !flags.SARIF {
		gh, err := github.New(ctx, logE, &github.Param{
			Token:          secrets.GitHubToken,
			KeyringEnabled: flags.KeyringEnabled,
			APIURL:         flags.GitHubAPIURL,
		})
		if err != nil {
			return fmt.Errorf("create a GitHub client: %w", err)
		}
		if gh != nil {
			issues = gh.Issues
		}
	}
	ctrl := report.New(fs, os.Stdout, issues, &report.Param{
		OutputDir:  outputDir(cfg, flags),
		Repository: flags.GitHubRepository,
		Labels:     cfg.Report.Labels,
		SARIF:      flags.SARIF,
		DatasetPaths: map[diff.Category]string{
			diff.CategoryConsulates: cfg.Dataset.Consulates,
			diff.CategoryDetention:  cfg.Dataset.Detention,
			diff.CategoryLegalAid:   cfg.Dataset.LegalAid,
		},
	})
	return ctrl.Run(ctx, logE) //nolint:wrapcheck
}

func setup(logE *logrus.Entry, flags *Flags) {
	if flags.IsGitHubActions {
		color.NoColor = false
	}
	log.SetLevel(flags.LogLevel, logE)
}

func readConfig(fs afero.Fs, configFilePath string) (*config.Config, error) {
	cfgFinder := config.NewFinder(fs)
	cfgReader := config.NewReader(fs)
	configPath, err := cfgFinder.Find(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("find configuration file: %w", err)
	}
	cfg := &config.Config{}
	if err := cfgReader.Read(cfg, configPath); err != nil {
		return nil, fmt.Errorf("read configuration file: %w", err)
	}
	return cfg, nil
}

func outputDir(cfg *config.Config, flags *Flags) string {
	if flags.OutputDir != "" {
		return flags.OutputDir
	}
	return cfg.Output.Dir
}

// loadDataset loads the collections of the selected categories only, so a
// missing file of another category doesn't fail the run.
func loadDataset(loader *dataset.Loader, paths *config.Dataset, categories []diff.Category) (*dataset.Dataset, error) {
	selected := &dataset.Paths{}
	for _, category := range categories {
		switch category {
		case diff.CategoryConsulates:
			selected.Consulates = paths.Consulates
		case diff.CategoryDetention:
			selected.Detention = paths.Detention
		case diff.CategoryLegalAid:
			selected.LegalAid = paths.LegalAid
		}
	}
	ds, err := loader.Load(selected)
	if err != nil {
		return nil, fmt.Errorf("load the dataset: %w", err)
	}
	return ds, nil
}

func userAgent(cfg *config.Config, version string) string {
	if cfg.UserAgent != "" {
		return cfg.UserAgent
	}
	if version == "" {
		version = "dev"
	}
	return "refcheck/" + version + " (+https://github.com/lawlink-oss/refcheck)"
}

// newControllerFactory returns a factory building a controller with its own
// source client and scrape limiter per category. The geocoder is shared by
// every category, because Nominatim allows one request per second per
// application and the categories run concurrently.
func newControllerFactory(cfg *config.Config, progress *check.Progress, version string) check.NewController {
	ua := userAgent(cfg, version)
	geocoder := source.NewGeocoder(source.New(&source.Param{
		UserAgent:         ua,
		NominatimInterval: source.DefaultNominatimInterval,
	}), cfg.Sources.Nominatim)
	return func(diff.Category) *check.Controller {
		client := source.New(&source.Param{
			UserAgent:      ua,
			ScrapeInterval: source.DefaultScrapeInterval,
		})
		return check.New(client, geocoder, client, parser.ExtractPDFText, progress, &check.Param{
			DetentionFacilitiesURL:  cfg.Sources.DetentionFacilities,
			LegalAidProviderListURL: cfg.Sources.LegalAidProviderList,
			GranteesURL:             cfg.Sources.Grantees,
			OverlapThreshold:        cfg.Matching.OverlapThreshold,
		})
	}
}
