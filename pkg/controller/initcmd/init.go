// Package initcmd creates the refcheck configuration file.
package initcmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	DefaultConfigPath = ".refcheck.yaml"

	templateConfig = `# yaml-language-server: $schema=https://raw.githubusercontent.com/lawlink-oss/refcheck/refs/heads/main/json-schema/refcheck.json
# refcheck - https://github.com/lawlink-oss/refcheck
version: 1
# dataset:
#   consulates: data/consulates.yaml
#   detention: data/detention-facilities.yaml
#   legal_aid: data/legal-aid.yaml
# sources:
#   detention_facilities: https://www.ice.gov/detention-facilities
#   legal_aid_provider_list: https://www.justice.gov/eoir/list-pro-bono-legal-service-providers
#   # A JSON array of grantee organizations. The cross-check is skipped if empty.
#   grantees: ""
#   nominatim: https://nominatim.openstreetmap.org/search
# matching:
#   overlap_threshold: 0.8
# output:
#   dir: output
# report:
#   labels:
#     - data-review
`
	filePermission os.FileMode = 0o644
)

type Controller struct {
	fs afero.Fs
}

func New(fs afero.Fs) *Controller {
	return &Controller{fs: fs}
}

// Init creates a configuration file from the template.
// An existing file is left untouched.
func (c *Controller) Init(logE *logrus.Entry, configFilePath string) error {
	f, err := afero.Exists(c.fs, configFilePath)
	if err != nil {
		return fmt.Errorf("check if a configuration file exists: %w", err)
	}
	if f {
		logE.WithField("config", configFilePath).Info("the configuration file already exists")
		return nil
	}
	if err := afero.WriteFile(c.fs, configFilePath, []byte(templateConfig), filePermission); err != nil {
		return fmt.Errorf("create a configuration file: %w", err)
	}
	logE.WithField("config", configFilePath).Info("created the configuration file")
	return nil
}
