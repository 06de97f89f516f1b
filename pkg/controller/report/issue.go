package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lawlink-oss/refcheck/pkg/github"
	"github.com/sirupsen/logrus"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

var (
	ErrNoCredentials     = errors.New("no GitHub credentials are set")
	ErrInvalidRepository = errors.New(`the repository must be "owner/repo"`)
)

// CreateIssue files the review issue and returns its URL.
// On any failure it logs a warning, prints the document to stdout and
// returns an empty string.
func (c *Controller) CreateIssue(ctx context.Context, logE *logrus.Entry, title, body string) string {
	issue, err := c.createIssue(ctx, title, body)
	if err != nil {
		logerr.WithError(logE, err).Warn("failed to create a review issue. The report is printed to stdout")
		fmt.Fprintf(c.stdout, "# %s\n\n%s", title, body)
		return ""
	}
	u := issue.GetHTMLURL()
	logE.WithField("issue_url", u).Info("created a review issue")
	return u
}

func (c *Controller) createIssue(ctx context.Context, title, body string) (*github.Issue, error) {
	if c.issues == nil {
		return nil, ErrNoCredentials
	}
	owner, repo, err := parseRepository(c.param.Repository)
	if err != nil {
		return nil, err
	}
	req := &github.IssueRequest{
		Title: github.Ptr(title),
		Body:  github.Ptr(body),
	}
	if len(c.param.Labels) > 0 {
		req.Labels = github.Ptr(c.param.Labels)
	}
	issue, _, err := c.issues.Create(ctx, owner, repo, req)
	if err != nil {
		return nil, fmt.Errorf("create an issue: %w", logerr.WithFields(err, logrus.Fields{
			"repo_owner": owner,
			"repo_name":  repo,
		}))
	}
	return issue, nil
}

func parseRepository(s string) (string, string, error) {
	owner, repo, ok := strings.Cut(s, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepository, s)
	}
	return owner, repo, nil
}
