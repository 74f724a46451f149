package encoder

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"vidbatch/internal/model"
	"vidbatch/internal/util/deps"
)

// Encoder turns job descriptors into encoder sessions.
type Encoder struct {
	path        string
	prober      Prober
	logger      hclog.Logger
	sessionOpts []SessionOption
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithProber sets the metadata source used for progress percentages.
func WithProber(p Prober) Option {
	return func(e *Encoder) { e.prober = p }
}

// WithLogger sets the logger passed down to every session.
func WithLogger(l hclog.Logger) Option {
	return func(e *Encoder) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSessionOptions appends options applied to every session.
func WithSessionOptions(opts ...SessionOption) Option {
	return func(e *Encoder) { e.sessionOpts = append(e.sessionOpts, opts...) }
}

// New locates the ffmpeg binary (customPath first, then PATH) and returns an
// Encoder. A missing binary yields an error wrapping deps.ErrToolNotFound.
func New(customPath string, opts ...Option) (*Encoder, error) {
	p, err := deps.FindFFmpeg(customPath)
	if err != nil {
		return nil, err
	}
	e := &Encoder{path: p, logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Path returns the resolved ffmpeg binary.
func (e *Encoder) Path() string { return e.path }

// Command returns the argument vector for job.
func (e *Encoder) Command(job model.JobDescriptor) []string {
	return BuildArgs(e.path, job.InputPath, job.OutputPath, job.Options)
}

// NewSession prepares a fresh session for job.
func (e *Encoder) NewSession(job model.JobDescriptor) *Session {
	opts := append([]SessionOption{WithSessionLogger(e.logger.With("input", job.InputPath))}, e.sessionOpts...)
	return NewSession(job, e.Command(job), e.prober, opts...)
}

// Encode runs job in a new session and returns its terminal result.
func (e *Encoder) Encode(ctx context.Context, job model.JobDescriptor, h Hooks) model.EncodeResult {
	return e.NewSession(job).Run(ctx, h)
}
