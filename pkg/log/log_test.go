package log_test

import (
	"testing"

	"github.com/lawlink-oss/refcheck/pkg/log"
	"github.com/sirupsen/logrus"
)

func TestSetLevel(t *testing.T) {
	t.Parallel()
	data := []struct {
		name  string
		level string
		exp   logrus.Level
	}{
		{name: "empty", level: "", exp: logrus.InfoLevel},
		{name: "debug", level: "debug", exp: logrus.DebugLevel},
		{name: "invalid", level: "verbose", exp: logrus.InfoLevel},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			logE := log.New("v0.1.0")
			log.SetLevel(d.level, logE)
			if logE.Logger.Level != d.exp {
				t.Errorf("wanted %s, got %s", d.exp, logE.Logger.Level)
			}
		})
	}
}
