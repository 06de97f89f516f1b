package check

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/lawlink-oss/refcheck/pkg/diff"
)

type colorFunc func(a ...any) string

// Progress writes human readable progress lines and warning markers.
// It is safe for concurrent use by the checkers of `check all`.
type Progress struct {
	mu     sync.Mutex
	stderr io.Writer
	yellow colorFunc
	red    colorFunc
	green  colorFunc
}

func NewProgress(stderr io.Writer) *Progress {
	return &Progress{
		stderr: stderr,
		yellow: color.New(color.FgYellow).SprintFunc(),
		red:    color.New(color.FgRed).SprintFunc(),
		green:  color.New(color.FgGreen).SprintFunc(),
	}
}

func (p *Progress) Record(category diff.Category, i, n int, name string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.stderr, "[%s %d/%d] %s\n", category, i, n, name)
}

func (p *Progress) Warn(category diff.Category, message string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.stderr, "[%s] %s %s\n", category, p.yellow("WARN"), message)
}

func (p *Progress) Done(report *diff.Report, path string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	status := p.green("OK")
	if !report.SourceAvailable || len(report.Errors) > 0 {
		status = p.red("DEGRADED")
	}
	s := report.Stats
	fmt.Fprintf(p.stderr, "[%s] %s checked=%d automated=%d new=%d not_found=%d manual=%d errors=%d -> %s\n",
		report.Category, status, s.Checked, s.AutomatedChanges, s.NewOnSource, s.NotFoundOnSource, s.ManualOnly, len(report.Errors), path)
}
