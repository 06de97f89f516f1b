// Package report implements the 'refcheck report' command.
package report

import (
	"context"
	"os"

	"github.com/lawlink-oss/refcheck/pkg/cli/flag"
	"github.com/lawlink-oss/refcheck/pkg/di"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func New(logE *logrus.Entry, gf *flag.GlobalFlags) *cli.Command {
	r := &runner{
		logE: logE,
		gf:   gf,
	}
	return r.Command()
}

type runner struct {
	logE *logrus.Entry
	gf   *flag.GlobalFlags
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Combine the diff reports into a review document and file it as a GitHub issue",
		Description: `Read the diff reports written by 'refcheck check' and file a review issue.

$ refcheck report

If no GitHub token is available or --dry-run is set, the document is printed to stdout.

Upload the findings to GitHub code scanning.

$ refcheck report --sarif > refcheck.sarif
`,
		Action: r.action,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "directory where diff reports were written",
				Sources: cli.EnvVars("REFCHECK_OUTPUT_DIR"),
			},
			&cli.StringFlag{
				Name:  "repo",
				Usage: "GitHub repository where the issue is created (owner/name)",
			},
			&cli.BoolFlag{
				Name:  "sarif",
				Usage: "write the findings to stdout as SARIF for GitHub code scanning instead of creating an issue",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print the review document instead of creating an issue",
			},
		},
	}
}

func (r *runner) action(ctx context.Context, c *cli.Command) error {
	flags := &di.Flags{
		GlobalFlags:      r.gf,
		OutputDir:        c.String("output-dir"),
		GitHubRepository: c.String("repo"),
		DryRun:           c.Bool("dry-run"),
		SARIF:            c.Bool("sarif"),
	}
	di.SetEnv(flags, os.Getenv)
	secrets := &di.Secrets{}
	secrets.SetFromEnv(os.Getenv)
	return di.Report(ctx, r.logE, flags, secrets) //nolint:wrapcheck
}
