// Package initcmd implements the 'refcheck init' command.
// It generates a .refcheck.yaml listing the default dataset paths and sources.
package initcmd

import (
	"context"

	"github.com/lawlink-oss/refcheck/pkg/controller/initcmd"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

func New(logE *logrus.Entry) *cli.Command {
	r := &runner{
		logE: logE,
	}
	return r.Command()
}

type runner struct {
	logE *logrus.Entry
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create .refcheck.yaml if it doesn't exist",
		Description: `Create .refcheck.yaml if it doesn't exist

$ refcheck init

You can also pass configuration file path.

e.g.

$ refcheck init .github/refcheck.yaml
`,
		Action: r.action,
	}
}

func (r *runner) action(_ context.Context, c *cli.Command) error {
	configFilePath := c.Args().First()
	if configFilePath == "" {
		configFilePath = c.String("config")
	}
	if configFilePath == "" {
		configFilePath = initcmd.DefaultConfigPath
	}
	ctrl := initcmd.New(afero.NewOsFs())
	return ctrl.Init(r.logE, configFilePath) //nolint:wrapcheck
}
