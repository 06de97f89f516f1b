package di

import (
	"fmt"

	"github.com/lawlink-oss/refcheck/pkg/cli/flag"
	"github.com/lawlink-oss/refcheck/pkg/diff"
)

// Flags holds the command line flags and environment of a command.
type Flags struct {
	*flag.GlobalFlags

	// Category is a category name or "all".
	Category  string
	OutputDir string
	DryRun    bool
	SARIF     bool

	IsGitHubActions bool
	KeyringEnabled  bool

	GitHubRepository string
	GitHubAPIURL     string
}

const categoryAll = "all"

// Categories returns the categories selected by Category.
func (f *Flags) Categories() ([]diff.Category, error) {
	if f.Category == categoryAll {
		return diff.Categories(), nil
	}
	for _, c := range diff.Categories() {
		if string(c) == f.Category {
			return []diff.Category{c}, nil
		}
	}
	return nil, fmt.Errorf("unknown category %q: choose consulates, detention, legal-aid, or all", f.Category)
}
