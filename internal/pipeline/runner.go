// Package pipeline sequences encode jobs across a batch of input files.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"go.uber.org/atomic"

	"vidbatch/internal/encoder"
	"vidbatch/internal/model"
	"vidbatch/internal/progress"
)

// Encoder runs one job to a terminal result. *encoder.Encoder implements it.
type Encoder interface {
	Command(job model.JobDescriptor) []string
	Encode(ctx context.Context, job model.JobDescriptor, h encoder.Hooks) model.EncodeResult
}

// CancelFlag is a sticky, concurrency-safe cancellation request.
// The zero value is ready to use; a nil *CancelFlag is never cancelled.
type CancelFlag struct {
	v atomic.Bool
}

// NewCancelFlag returns an unset flag.
func NewCancelFlag() *CancelFlag {
	return &CancelFlag{}
}

// Cancel sets the flag. Safe to call repeatedly from any goroutine.
func (f *CancelFlag) Cancel() {
	if f != nil {
		f.v.Store(true)
	}
}

// Cancelled reports whether Cancel has been called.
func (f *CancelFlag) Cancelled() bool {
	return f != nil && f.v.Load()
}

// Batch is one run request.
type Batch struct {
	Inputs     []string
	InputBase  string // computed from Inputs when empty
	OutputBase string
	Options    model.EncodeOptions
	Overrides  map[string]model.OptionsOverride // keyed by input path
	Cancel     *CancelFlag
	Listener   progress.Listener // overrides the runner's listener when set
}

// Runner executes batches strictly sequentially.
type Runner struct {
	enc      Encoder
	logger   hclog.Logger
	listener progress.Listener
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithListener sets the default event listener for batches that do not carry one.
func WithListener(l progress.Listener) Option {
	return func(r *Runner) {
		r.listener = l
	}
}

// NewRunner constructs a Runner around enc.
func NewRunner(enc Encoder, opts ...Option) *Runner {
	r := &Runner{
		enc:      enc,
		logger:   hclog.NewNullLogger(),
		listener: progress.Nop{},
	}
	for _, o := range opts {
		o(r)
	}
	if r.listener == nil {
		r.listener = progress.Nop{}
	}
	return r
}

// Plan computes the job list for b without running anything.
func (r *Runner) Plan(b Batch) []model.JobDescriptor {
	base := b.InputBase
	if base == "" {
		base = InputBase(b.Inputs)
	}
	outs := OutputPathsFrom(b.Inputs, base, b.OutputBase)
	jobs := make([]model.JobDescriptor, len(b.Inputs))
	for i, in := range b.Inputs {
		opts := b.Options
		if ov, ok := lookupOverride(b.Overrides, in); ok {
			opts = ov.Apply(opts)
		}
		jobs[i] = model.JobDescriptor{InputPath: in, OutputPath: outs[i], Options: opts}
	}
	return jobs
}

// Run executes b on the calling goroutine and returns one result per
// dispatched job, in input order.
func (r *Runner) Run(ctx context.Context, b Batch) []model.EncodeResult {
	return r.run(ctx, uuid.NewString(), b)
}

// Handle tracks a batch started with Start.
type Handle struct {
	ID        string
	StartedAt time.Time

	cancel  *CancelFlag
	done    chan struct{}
	results []model.EncodeResult
}

// Cancel requests cancellation of the batch.
func (h *Handle) Cancel() { h.cancel.Cancel() }

// Done is closed when the batch has finished.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Results blocks until the batch finishes and returns its results.
func (h *Handle) Results() []model.EncodeResult {
	<-h.done
	return h.results
}

// Start runs b on a dedicated worker goroutine. The caller is never blocked.
func (r *Runner) Start(ctx context.Context, b Batch) *Handle {
	if b.Cancel == nil {
		b.Cancel = NewCancelFlag()
	}
	h := &Handle{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		cancel:    b.Cancel,
		done:      make(chan struct{}),
	}
	go func() {
		defer close(h.done)
		h.results = r.run(ctx, h.ID, b)
	}()
	return h
}

func (r *Runner) run(ctx context.Context, id string, b Batch) []model.EncodeResult {
	if b.Cancel == nil {
		b.Cancel = NewCancelFlag()
	}
	listener := b.Listener
	if listener == nil {
		listener = r.listener
	}
	logListener, _ := listener.(progress.LogListener)
	logger := r.logger.With("run", id)

	cancelled := func() bool {
		if ctx.Err() != nil {
			b.Cancel.Cancel()
		}
		return b.Cancel.Cancelled()
	}

	jobs := r.Plan(b)
	total := len(jobs)
	results := make([]model.EncodeResult, 0, total)
	logger.Info("batch started", "files", total, "output", b.OutputBase)

	for i, job := range jobs {
		idx := i + 1
		if cancelled() {
			logger.Info("batch cancelled before job", "index", idx, "input", job.InputPath)
			results = append(results, model.EncodeResult{
				InputPath: job.InputPath,
				Message:   model.MsgCancelled,
			})
			break
		}

		listener.FileStarted(idx, total, job.InputPath)
		logger.Debug("job started", "index", idx, "input", job.InputPath, "output", job.OutputPath)

		hooks := encoder.Hooks{
			Progress: func(pct float64, msg string) {
				listener.FileProgress(idx, total, job.InputPath, pct, msg)
			},
			Cancelled: cancelled,
		}
		if logListener != nil {
			hooks.Line = func(line string) {
				logListener.Log(progress.Log{Index: idx, Path: job.InputPath, Stream: progress.StreamStderr, Line: line})
			}
		}

		res := r.enc.Encode(ctx, job, hooks)
		listener.FileFinished(idx, total, job.InputPath, res.Success, res.Message)
		results = append(results, res)

		if res.Success {
			logger.Info("job finished", "index", idx, "input", filepath.Base(job.InputPath))
		} else {
			logger.Warn("job did not succeed", "index", idx, "input", filepath.Base(job.InputPath), "message", res.Message)
		}

		if !res.Success && cancelled() {
			break
		}
	}

	s := Summarize(results, total)
	logger.Info("batch finished", "succeeded", s.Succeeded, "failed", s.Failed, "cancelled", s.Cancelled, "skipped", s.Skipped)
	return results
}

func lookupOverride(m map[string]model.OptionsOverride, path string) (model.OptionsOverride, bool) {
	if len(m) == 0 {
		return model.OptionsOverride{}, false
	}
	if ov, ok := m[path]; ok {
		return ov, true
	}
	if ov, ok := m[filepath.Clean(path)]; ok {
		return ov, true
	}
	if abs, err := filepath.Abs(path); err == nil {
		if ov, ok := m[abs]; ok {
			return ov, true
		}
	}
	return model.OptionsOverride{}, false
}
