// Package logging builds the application's hclog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"vidbatch/internal/util"
)

// Options selects the logger's level and destination.
type Options struct {
	Name    string
	Verbose bool      // debug level instead of info
	Output  io.Writer // defaults to stderr
}

// New returns a leveled logger writing to opts.Output.
func New(opts Options) hclog.Logger {
	level := hclog.Info
	if opts.Verbose {
		level = hclog.Debug
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	name := opts.Name
	if name == "" {
		name = "vidbatch"
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  level,
		Output: out,
	})
}

// NewFile returns a logger appending to path, creating its directory, plus a
// close function. Used while the TUI owns the terminal.
func NewFile(path string, opts Options) (hclog.Logger, func() error, error) {
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, nil, fmt.Errorf("log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	opts.Output = f
	return New(opts), f.Close, nil
}
