// Package report combines the category reports into one review document and
// files it as a GitHub issue. When the issue can't be created the document is
// printed to stdout instead, so a report is never lost.
package report

import (
	"context"
	"io"
	"time"

	"github.com/lawlink-oss/refcheck/pkg/diff"
	"github.com/lawlink-oss/refcheck/pkg/github"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

// IssuesService creates issues. *github.IssuesService implements it.
type IssuesService interface {
	Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
}

type Controller struct {
	fs     afero.Fs
	stdout io.Writer
	issues IssuesService
	param  *Param
}

type Param struct {
	OutputDir string
	// Repository is the "owner/repo" slug the issue is created in.
	Repository string
	Labels     []string
	// SARIF writes the findings to stdout as a SARIF log instead of filing an issue.
	SARIF bool
	// DatasetPaths locates the records of each category in SARIF results.
	DatasetPaths map[diff.Category]string
	Now          func() time.Time
}

// New creates a Controller. issues is nil when no GitHub credentials are available.
func New(fs afero.Fs, stdout io.Writer, issues IssuesService, param *Param) *Controller {
	if param.Now == nil {
		param.Now = time.Now
	}
	return &Controller{
		fs:     fs,
		stdout: stdout,
		issues: issues,
		param:  param,
	}
}

// Run reads the category reports, builds the review document and delivers it.
// In SARIF mode the findings are written to stdout instead.
// Delivery failures fall back to stdout and are not returned as errors.
func (c *Controller) Run(ctx context.Context, logE *logrus.Entry) error {
	reports := c.ReadReports(logE)
	if c.param.SARIF {
		return c.WriteSARIF(logE, reports)
	}
	title, body := BuildIssueBody(c.param.Now(), reports)
	c.CreateIssue(ctx, logE, title, body)
	return nil
}

// ReadReports reads the report of each category from the output directory.
// Missing and unreadable reports are left out of the returned map.
func (c *Controller) ReadReports(logE *logrus.Entry) map[diff.Category]*diff.Report {
	reports := make(map[diff.Category]*diff.Report, len(diff.Categories()))
	for _, category := range diff.Categories() {
		logE := logE.WithField("category", category)
		r, err := diff.ReadDiff(c.fs, c.param.OutputDir, category)
		if err != nil {
			logerr.WithError(logE, err).Warn("the diff report is unreadable")
			continue
		}
		if r == nil {
			logE.Warn("the diff report isn't found. The checker may not have run")
			continue
		}
		reports[category] = r
	}
	return reports
}
