// Package github creates the GitHub API client the review issue is filed with.
// A token is taken from the environment, or from the OS keyring when the
// keyring is enabled.
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v74/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

type (
	Client       = github.Client
	Issue        = github.Issue
	IssueRequest = github.IssueRequest
	Response     = github.Response
)

const defaultAPIURL = "https://api.github.com"

type Param struct {
	Token          string
	KeyringEnabled bool
	// APIURL is the REST API URL of GitHub Enterprise Server.
	// Empty or https://api.github.com selects github.com.
	APIURL string
}

// HasCredentials reports whether a GitHub client can be authenticated.
func (p *Param) HasCredentials() bool {
	return p.Token != "" || p.KeyringEnabled
}

// New creates a GitHub API client.
// It returns nil if no credentials are available.
func New(ctx context.Context, logE *logrus.Entry, param *Param) (*Client, error) {
	if !param.HasCredentials() {
		return nil, nil //nolint:nilnil
	}
	client := github.NewClient(getHTTPClientForGitHub(ctx, logE, param))
	if param.APIURL == "" || strings.TrimSuffix(param.APIURL, "/") == defaultAPIURL {
		return client, nil
	}
	c, err := client.WithEnterpriseURLs(param.APIURL, param.APIURL)
	if err != nil {
		return nil, fmt.Errorf("set the GitHub Enterprise Server API URL: %w", err)
	}
	return c, nil
}

func Ptr[T any](v T) *T {
	return github.Ptr(v)
}

func getHTTPClientForGitHub(ctx context.Context, logE *logrus.Entry, param *Param) *http.Client {
	if param.Token == "" {
		return oauth2.NewClient(ctx, NewKeyringTokenSource(logE, NewTokenManager()))
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: param.Token},
	))
}
