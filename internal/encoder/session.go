package encoder

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/shirou/gopsutil/v4/process"

	"vidbatch/internal/model"
	"vidbatch/internal/util"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	defaultPollInterval = 100 * time.Millisecond
	defaultTermGrace    = 1 * time.Second
	defaultReapTimeout  = 2 * time.Second
	defaultTailLines    = 30
)

// Prober resolves media metadata; only Duration is used by a Session.
type Prober interface {
	Probe(ctx context.Context, path string) model.ProbeInfo
}

// Hooks are the per-session callbacks. All are optional and are invoked on
// the goroutine that called Run.
type Hooks struct {
	Progress  func(percent float64, message string)
	Line      func(line string)
	Cancelled func() bool
}

func (h Hooks) progress(pct float64, msg string) {
	if h.Progress != nil {
		h.Progress(pct, msg)
	}
}

func (h Hooks) line(l string) {
	if h.Line != nil {
		h.Line(l)
	}
}

func (h Hooks) cancelled() bool {
	return h.Cancelled != nil && h.Cancelled()
}

// Session owns exactly one encoder subprocess for one job.
type Session struct {
	job    model.JobDescriptor
	argv   []string
	prober Prober
	logger hclog.Logger

	pollInterval time.Duration
	termGrace    time.Duration
	reapTimeout  time.Duration
	tailLines    int

	mu    sync.Mutex
	state State
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPollInterval sets how often the cancel predicate is checked.
func WithPollInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithTeardownTimeouts sets the wait after the graceful terminate and the
// reaping budget after the forced kill.
func WithTeardownTimeouts(grace, reap time.Duration) SessionOption {
	return func(s *Session) {
		if grace > 0 {
			s.termGrace = grace
		}
		if reap > 0 {
			s.reapTimeout = reap
		}
	}
}

// WithTailLines bounds how many diagnostic lines are kept for failure messages.
func WithTailLines(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.tailLines = n
		}
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l hclog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession prepares a session that will execute argv for job.
// prober may be nil, in which case no progress percentages are reported.
func NewSession(job model.JobDescriptor, argv []string, prober Prober, opts ...SessionOption) *Session {
	s := &Session{
		job:          job,
		argv:         argv,
		prober:       prober,
		logger:       hclog.NewNullLogger(),
		pollInterval: defaultPollInterval,
		termGrace:    defaultTermGrace,
		reapTimeout:  defaultReapTimeout,
		tailLines:    defaultTailLines,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Run executes the job to a terminal result. It never returns an error and
// never leaves the subprocess running. A Session runs at most once; further
// calls return an Error result without spawning anything.
func (s *Session) Run(ctx context.Context, h Hooks) model.EncodeResult {
	s.mu.Lock()
	if s.state != StateIdle {
		st := s.state
		s.mu.Unlock()
		return s.errorResult(fmt.Errorf("session already %s", st))
	}
	s.state = StateRunning
	s.mu.Unlock()

	res, st := s.run(ctx, h)
	s.setState(st)
	return res
}

func (s *Session) run(ctx context.Context, h Hooks) (model.EncodeResult, State) {
	if len(s.argv) == 0 || s.argv[0] == "" {
		return s.errorResult(errors.New("empty encoder command")), StateFailed
	}
	if err := util.EnsureDir(filepath.Dir(s.job.OutputPath)); err != nil {
		return s.errorResult(fmt.Errorf("ensure output dir: %w", err)), StateFailed
	}

	var duration float64
	if s.prober != nil {
		duration = s.prober.Probe(ctx, s.job.InputPath).Duration
	}
	tracker := NewProgressTracker(duration)

	cmd := exec.Command(s.argv[0], s.argv[1:]...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return s.errorResult(err), StateFailed
	}
	s.logger.Debug("spawning encoder", "input", s.job.InputPath, "cmd", FormatCommand(s.argv))
	if err := cmd.Start(); err != nil {
		return s.errorResult(err), StateFailed
	}
	pid := cmd.Process.Pid

	stop := make(chan struct{})
	defer close(stop)
	lines := make(chan string, 64)
	go readLines(stderr, lines, stop)

	w := &waiter{cmd: cmd, done: make(chan struct{})}
	tail := newTailBuffer(s.tailLines)
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	linesCh := lines
	var exited <-chan struct{}
	for {
		select {
		case line, ok := <-linesCh:
			if !ok {
				// EOF on stderr; the process is exiting.
				linesCh = nil
				w.start()
				exited = w.done
				continue
			}
			tail.add(line)
			h.line(line)
			if pct, msg, ok := tracker.Observe(line); ok {
				h.progress(pct, msg)
			}
		case <-exited:
			return s.classify(w.err, tail, h)
		case <-ctx.Done():
			s.teardown(w, pid)
			return s.cancelledResult(), StateCancelled
		case <-ticker.C:
			if h.cancelled() {
				s.teardown(w, pid)
				return s.cancelledResult(), StateCancelled
			}
		}
	}
}

func (s *Session) classify(err error, tail *tailBuffer, h Hooks) (model.EncodeResult, State) {
	if err == nil {
		h.progress(100, msgFinished)
		s.logger.Debug("encode finished", "input", s.job.InputPath)
		return s.result(true, model.MsgSuccess), StateSucceeded
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return s.errorResult(err), StateFailed
	}
	if terminatedByRequest(exitErr) {
		s.logger.Debug("encoder terminated externally", "input", s.job.InputPath, "exit", exitErr.ExitCode())
		return s.cancelledResult(), StateCancelled
	}
	diag := tail.String()
	if diag == "" {
		diag = exitErr.Error()
	}
	s.logger.Debug("encode failed", "input", s.job.InputPath, "exit", exitErr.ExitCode())
	return s.result(false, "Failed: "+diag), StateFailed
}

// teardown stops the process: terminate, wait, kill, wait for reaping, then a
// last kill if the PID is still alive. Panics and errors are swallowed.
func (s *Session) teardown(w *waiter, pid int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("panic during encoder teardown", "input", s.job.InputPath, "panic", r)
		}
	}()

	proc := w.cmd.Process
	s.logger.Debug("cancelling encoder", "input", s.job.InputPath, "pid", pid)
	if err := terminate(proc); err != nil {
		s.logger.Debug("terminate failed", "pid", pid, "error", err)
	}
	w.start()

	select {
	case <-w.done:
		return
	case <-time.After(s.termGrace):
	}

	s.logger.Debug("encoder ignored terminate, killing", "pid", pid)
	_ = proc.Kill()
	select {
	case <-w.done:
		return
	case <-time.After(s.reapTimeout):
	}

	_ = proc.Kill()
	if alive, err := process.PidExists(int32(pid)); err == nil && alive {
		s.logger.Warn("encoder process still present after kill", "pid", pid)
	}
}

func (s *Session) result(ok bool, msg string) model.EncodeResult {
	return model.EncodeResult{
		InputPath:  s.job.InputPath,
		OutputPath: s.job.OutputPath,
		Success:    ok,
		Message:    msg,
	}
}

func (s *Session) cancelledResult() model.EncodeResult {
	return s.result(false, model.MsgCancelled)
}

func (s *Session) errorResult(err error) model.EncodeResult {
	s.logger.Debug("encode error", "input", s.job.InputPath, "error", err)
	return s.result(false, "Error: "+err.Error())
}

// waiter calls cmd.Wait at most once, in the background.
type waiter struct {
	cmd  *exec.Cmd
	once sync.Once
	done chan struct{}
	err  error
}

func (w *waiter) start() {
	w.once.Do(func() {
		go func() {
			w.err = w.cmd.Wait()
			close(w.done)
		}()
	})
}

// readLines forwards stderr lines, split on \n and \r, until EOF or stop.
func readLines(r io.Reader, out chan<- string, stop <-chan struct{}) {
	defer close(out)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(scanStatusLines)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		select {
		case out <- line:
		case <-stop:
			return
		}
	}
}

// scanStatusLines is bufio.ScanLines that also breaks on a bare carriage
// return, which ffmpeg uses to redraw its status line.
func scanStatusLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

type tailBuffer struct {
	max   int
	lines []string
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (t *tailBuffer) add(line string) {
	if len(t.lines) == t.max {
		copy(t.lines, t.lines[1:])
		t.lines = t.lines[:len(t.lines)-1]
	}
	t.lines = append(t.lines, line)
}

func (t *tailBuffer) String() string {
	return strings.Join(t.lines, "\n")
}
