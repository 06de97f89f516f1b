package diff

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/suzuki-shunsuke/logrus-error/logerr"
)

const (
	dirPermission  os.FileMode = 0o755
	filePermission os.FileMode = 0o644
)

// ErrIncompatibleSchema is returned by ReadDiff when a report was written by
// an incompatible producer.
var ErrIncompatibleSchema = errors.New("the diff report schema version is incompatible")

// supportedSchema is the range of schema versions ReadDiff accepts.
var supportedSchema = version.MustConstraints(version.NewConstraint(">= 1.0.0, < 2.0.0")) //nolint:gochecknoglobals

// WriteDiff writes the report as indented JSON to {dir}/{category}-diff.json,
// creating dir when it doesn't exist and overwriting any previous report.
//
// Returns the written file path.
func WriteDiff(afs afero.Fs, report *Report, dir string) (string, error) {
	if err := afs.MkdirAll(dir, dirPermission); err != nil {
		return "", fmt.Errorf("create the output directory: %w", logerr.WithFields(err, logrus.Fields{
			"output_dir": dir,
		}))
	}
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal the diff report as JSON: %w", err)
	}
	p := filepath.Join(dir, report.Category.FileName())
	if err := afero.WriteFile(afs, p, append(b, '\n'), filePermission); err != nil {
		return "", fmt.Errorf("write the diff report: %w", logerr.WithFields(err, logrus.Fields{
			"diff_file": p,
		}))
	}
	return p, nil
}

// ReadDiff reads the report of the given category from dir.
// If the file doesn't exist (the checker didn't run), it returns nil without an error.
func ReadDiff(afs afero.Fs, dir string, category Category) (*Report, error) {
	p := filepath.Join(dir, category.FileName())
	b, err := afero.ReadFile(afs, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil //nolint:nilnil
		}
		return nil, fmt.Errorf("read a diff report: %w", logerr.WithFields(err, logrus.Fields{
			"diff_file": p,
		}))
	}
	report := &Report{}
	if err := json.Unmarshal(b, report); err != nil {
		return nil, fmt.Errorf("unmarshal a diff report as JSON: %w", logerr.WithFields(err, logrus.Fields{
			"diff_file": p,
		}))
	}
	if err := checkSchemaVersion(report.SchemaVersion); err != nil {
		return nil, fmt.Errorf("check the schema version of %s: %w", p, err)
	}
	if report.Category == "" {
		report.Category = category
	}
	return report, nil
}

func checkSchemaVersion(s string) error {
	if s == "" {
		return fmt.Errorf("%w: schemaVersion is empty", ErrIncompatibleSchema)
	}
	v, err := version.NewVersion(s)
	if err != nil {
		return fmt.Errorf("%w: parse schemaVersion %q: %w", ErrIncompatibleSchema, s, err)
	}
	if !supportedSchema.Check(v) {
		return fmt.Errorf("%w: %s doesn't satisfy %s", ErrIncompatibleSchema, s, supportedSchema)
	}
	return nil
}
