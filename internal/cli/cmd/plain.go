package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"vidbatch/internal/progress"
)

// plainListener prints batch events as text lines for non-TTY output.
// Progress is reported in 10% steps.
type plainListener struct {
	out      io.Writer
	verbose  bool
	lastStep int
}

func newPlainListener(out io.Writer, verbose bool) *plainListener {
	return &plainListener{out: out, verbose: verbose, lastStep: -1}
}

func (p *plainListener) FileStarted(index, total int, path string) {
	p.lastStep = -1
	fmt.Fprintf(p.out, "[%d/%d] Encoding %s\n", index, total, filepath.Base(path))
}

func (p *plainListener) FileProgress(index, total int, _ string, percent float64, message string) {
	step := int(percent) / 10
	if step <= p.lastStep || step >= 10 {
		return
	}
	p.lastStep = step
	fmt.Fprintf(p.out, "[%d/%d] %s (overall %.1f%%)\n", index, total, message, progress.Overall(index, total, percent))
}

func (p *plainListener) FileFinished(index, total int, path string, _ bool, message string) {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	fmt.Fprintf(p.out, "[%d/%d] %s: %s\n", index, total, filepath.Base(path), message)
}

func (p *plainListener) Log(l progress.Log) {
	if p.verbose {
		fmt.Fprintf(p.out, "    %s\n", l.Line)
	}
}
