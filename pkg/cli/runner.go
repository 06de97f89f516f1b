// Package cli builds the refcheck command line interface.
package cli

import (
	"context"
	"io"

	"github.com/lawlink-oss/refcheck/pkg/cli/check"
	"github.com/lawlink-oss/refcheck/pkg/cli/flag"
	"github.com/lawlink-oss/refcheck/pkg/cli/initcmd"
	"github.com/lawlink-oss/refcheck/pkg/cli/report"
	"github.com/lawlink-oss/refcheck/pkg/cli/token"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

type Runner struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	LDFlags *LDFlags
	LogE    *logrus.Entry
}

type LDFlags struct {
	Version string
	Commit  string
	Date    string
}

func (r *Runner) Run(ctx context.Context, args ...string) error {
	gf := &flag.GlobalFlags{}
	cmd := &cli.Command{
		Name:                  "refcheck",
		Usage:                 "Reconcile consulate, detention facility, and legal aid reference data against public sources. https://github.com/lawlink-oss/refcheck",
		Version:               r.LDFlags.Version + " (" + r.LDFlags.Commit + ")",
		Flags:                 gf.Flags(),
		EnableShellCompletion: true,
		Writer:                r.Stdout,
		ErrWriter:             r.Stderr,
		Commands: []*cli.Command{
			check.New(r.LogE, gf, r.LDFlags.Version),
			report.New(r.LogE, gf),
			initcmd.New(r.LogE),
			token.New(r.LogE, r.Stdin),
			r.newVersionCommand(),
		},
	}
	return cmd.Run(ctx, args) //nolint:wrapcheck
}
