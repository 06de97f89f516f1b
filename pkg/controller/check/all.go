package check

import (
	"context"
	"fmt"

	"github.com/lawlink-oss/refcheck/pkg/dataset"
	"github.com/lawlink-oss/refcheck/pkg/diff"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// NewController builds the controller of one category.
// Each category gets its own controller so that the checkers share no mutable
// state except the geocoder, whose limiter must pace every category together.
type NewController func(category diff.Category) *Controller

// RunAndWrite runs the checker of the category and writes its report to dir.
func RunAndWrite(ctx context.Context, logE *logrus.Entry, afs afero.Fs, ctrl *Controller, category diff.Category, ds *dataset.Dataset, dir string) (*diff.Report, error) {
	logE = logE.WithField("category", category)
	report, err := ctrl.Run(ctx, logE, category, ds)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", category, err)
	}
	p, err := diff.WriteDiff(afs, report, dir)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	ctrl.progress.Done(report, p)
	logE.WithFields(logrus.Fields{
		"path":     p,
		"findings": len(report.Findings),
		"errors":   len(report.Errors),
	}).Info("wrote a diff report")
	return report, nil
}

// RunAll runs the checkers of every category concurrently.
// The first fatal error cancels the other checkers.
func RunAll(ctx context.Context, logE *logrus.Entry, afs afero.Fs, newController NewController, ds *dataset.Dataset, dir string) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, category := range diff.Categories() {
		eg.Go(func() error {
			_, err := RunAndWrite(ctx, logE, afs, newController(category), category, ds, dir)
			return err
		})
	}
	return eg.Wait() //nolint:wrapcheck
}
