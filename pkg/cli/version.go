package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func (r *Runner) newVersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version",
		Action: r.versionAction,
	}
}

func (r *Runner) versionAction(_ context.Context, c *cli.Command) error {
	if r.LDFlags.Date == "" {
		cli.ShowVersion(c)
		return nil
	}
	fmt.Fprintf(c.Root().Writer, "%s version %s (%s, built at %s)\n", c.Root().Name, r.LDFlags.Version, r.LDFlags.Commit, r.LDFlags.Date)
	return nil
}
