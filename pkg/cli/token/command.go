// Package token implements the 'refcheck token' command.
// It stores a GitHub access token in the operating system's keyring
// so that 'refcheck report' can create issues without an environment variable.
package token

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lawlink-oss/refcheck/pkg/controller/rmtoken"
	"github.com/lawlink-oss/refcheck/pkg/github"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

var errEmptyToken = errors.New("the token is empty")

func New(logE *logrus.Entry, stdin io.Reader) *cli.Command {
	r := &runner{
		logE:  logE,
		stdin: stdin,
	}
	return r.Command()
}

type runner struct {
	logE  *logrus.Entry
	stdin io.Reader
}

func (r *runner) Command() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage the GitHub access token in the keyring",
		Description: `Store the token read from stdin.

$ echo "$TOKEN" | refcheck token set

Set REFCHECK_KEYRING_ENABLED=true to use the stored token.
`,
		Commands: []*cli.Command{
			{
				Name:   "set",
				Usage:  "Read a GitHub access token from stdin and store it in the keyring",
				Action: r.set,
			},
			{
				Name:   "rm",
				Usage:  "Remove the GitHub access token from the keyring",
				Action: r.rm,
			},
		},
	}
}

func (r *runner) set(_ context.Context, _ *cli.Command) error {
	token, err := readToken(r.stdin)
	if err != nil {
		return err
	}
	if err := github.NewTokenManager().SetToken(token); err != nil {
		return fmt.Errorf("store the GitHub access token: %w", err)
	}
	r.logE.Info("stored the GitHub access token in the keyring")
	return nil
}

func (r *runner) rm(_ context.Context, _ *cli.Command) error {
	ctrl := rmtoken.New(&rmtoken.Param{}, github.NewTokenManager())
	if err := ctrl.Remove(); err != nil {
		return err //nolint:wrapcheck
	}
	r.logE.Info("removed the GitHub access token from the keyring")
	return nil
}

func readToken(stdin io.Reader) (string, error) {
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read a token from stdin: %w", err)
	}
	token := strings.TrimSpace(line)
	if token == "" {
		return "", errEmptyToken
	}
	return token, nil
}
