// Package check implements the 'refcheck check' command.
package check

import (
	"context"
	"errors"
	"os"

	"github.com/lawlink-oss/refcheck/pkg/cli/flag"
	"github.com/lawlink-oss/refcheck/pkg/di"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

var errCategoryRequired = errors.New("a category is required: consulates, detention, legal-aid, or all")

func New(logE *logrus.Entry, gf *flag.GlobalFlags, version string) *cli.Command {
	r := &runner{
		logE:    logE,
		gf:      gf,
		version: version,
	}
	return r.Command()
}

type runner struct {
	logE    *logrus.Entry
	gf      *flag.GlobalFlags
	version string
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check stored reference data against public sources and write diff reports",
		ArgsUsage: "<consulates|detention|legal-aid|all>",
		Description: `Check the stored records of a category and write its diff report.

$ refcheck check consulates

Run every category concurrently.

$ refcheck check all
`,
		Action: r.action,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "directory where diff reports are written",
				Sources: cli.EnvVars("REFCHECK_OUTPUT_DIR"),
			},
		},
	}
}

func (r *runner) action(ctx context.Context, c *cli.Command) error {
	category := c.Args().First()
	if category == "" {
		return errCategoryRequired
	}
	flags := &di.Flags{
		GlobalFlags: r.gf,
		Category:    category,
		OutputDir:   c.String("output-dir"),
	}
	di.SetEnv(flags, os.Getenv)
	return di.Check(ctx, r.logE, flags, r.version) //nolint:wrapcheck
}
