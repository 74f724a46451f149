package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidbatch/internal/encoder"
	"vidbatch/internal/model"
	"vidbatch/internal/progress"
)

// fakeEncoder returns scripted results and records every job it receives.
type fakeEncoder struct {
	mu      sync.Mutex
	jobs    []model.JobDescriptor
	results map[string]model.EncodeResult // by input; default Success
	during  func(job model.JobDescriptor, h encoder.Hooks)
}

func (f *fakeEncoder) Command(job model.JobDescriptor) []string {
	return encoder.BuildArgs("ffmpeg", job.InputPath, job.OutputPath, job.Options)
}

func (f *fakeEncoder) Encode(ctx context.Context, job model.JobDescriptor, h encoder.Hooks) model.EncodeResult {
	f.mu.Lock()
	f.jobs = append(f.jobs, job)
	f.mu.Unlock()

	if h.Progress != nil {
		h.Progress(50, "Encoding: 50.0%")
	}
	if h.Line != nil {
		h.Line("frame=1 time=00:00:01.00")
	}
	if f.during != nil {
		f.during(job, h)
	}
	if h.Cancelled != nil && h.Cancelled() {
		return model.EncodeResult{InputPath: job.InputPath, OutputPath: job.OutputPath, Message: model.MsgCancelled}
	}
	if r, ok := f.results[job.InputPath]; ok {
		r.InputPath, r.OutputPath = job.InputPath, job.OutputPath
		return r
	}
	if h.Progress != nil {
		h.Progress(100, "Encoding finished")
	}
	return model.EncodeResult{InputPath: job.InputPath, OutputPath: job.OutputPath, Success: true, Message: model.MsgSuccess}
}

type recordingListener struct {
	mu     sync.Mutex
	events []string
	logs   []progress.Log
}

func (r *recordingListener) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *recordingListener) FileStarted(index, total int, path string) {
	r.add(fmt.Sprintf("start %d/%d %s", index, total, filepath.Base(path)))
}

func (r *recordingListener) FileProgress(index, total int, path string, pct float64, msg string) {
	r.add(fmt.Sprintf("progress %d/%d %s %.0f", index, total, filepath.Base(path), pct))
}

func (r *recordingListener) FileFinished(index, total int, path string, ok bool, msg string) {
	r.add(fmt.Sprintf("finish %d/%d %s %v %s", index, total, filepath.Base(path), ok, msg))
}

func (r *recordingListener) Log(l progress.Log) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, l)
}

func inputs() []string {
	return []string{
		filepath.FromSlash("/src/A/one.mkv"),
		filepath.FromSlash("/src/A/sub/two.mov"),
		filepath.FromSlash("/src/A/sub/three.avi"),
	}
}

func TestRunner_RunsAllInOrder(t *testing.T) {
	fe := &fakeEncoder{}
	rec := &recordingListener{}
	r := NewRunner(fe)

	results := r.Run(context.Background(), Batch{
		Inputs:     inputs(),
		OutputBase: filepath.FromSlash("/out"),
		Options:    model.DefaultEncodeOptions(),
		Listener:   rec,
	})

	require.Len(t, results, 3)
	for i, res := range results {
		assert.True(t, res.Success)
		assert.Equal(t, inputs()[i], res.InputPath)
	}
	assert.Equal(t, filepath.FromSlash("/out/A/sub/two.mp4"), results[1].OutputPath)
	assert.Equal(t, []string{
		"start 1/3 one.mkv", "progress 1/3 one.mkv 50", "progress 1/3 one.mkv 100", "finish 1/3 one.mkv true Success",
		"start 2/3 two.mov", "progress 2/3 two.mov 50", "progress 2/3 two.mov 100", "finish 2/3 two.mov true Success",
		"start 3/3 three.avi", "progress 3/3 three.avi 50", "progress 3/3 three.avi 100", "finish 3/3 three.avi true Success",
	}, rec.events)
	require.Len(t, rec.logs, 3)
	assert.Equal(t, 2, rec.logs[1].Index)
}

func TestRunner_FailureDoesNotStopBatch(t *testing.T) {
	fe := &fakeEncoder{results: map[string]model.EncodeResult{
		inputs()[0]: {Message: "Failed: Invalid data found when processing input"},
		inputs()[1]: {Message: "Error: exec: not found"},
	}}
	r := NewRunner(fe)

	results := r.Run(context.Background(), Batch{Inputs: inputs(), OutputBase: "/out"})

	require.Len(t, results, 3)
	assert.False(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.True(t, results[2].Success)

	s := Summarize(results, 3)
	assert.Equal(t, Summary{Total: 3, Succeeded: 1, Failed: 2}, s)
	assert.False(t, s.OK())
}

func TestRunner_CancelDuringJobStops(t *testing.T) {
	flag := NewCancelFlag()
	fe := &fakeEncoder{during: func(job model.JobDescriptor, _ encoder.Hooks) {
		if filepath.Base(job.InputPath) == "two.mov" {
			flag.Cancel()
		}
	}}
	rec := &recordingListener{}
	r := NewRunner(fe, WithListener(rec))

	results := r.Run(context.Background(), Batch{Inputs: inputs(), OutputBase: "/out", Cancel: flag})

	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.True(t, results[1].Cancelled())
	assert.Len(t, fe.jobs, 2)
	assert.Equal(t, "finish 2/3 two.mov false Cancelled", rec.events[len(rec.events)-1])

	s := Summarize(results, 3)
	assert.Equal(t, 1, s.Cancelled)
	assert.Equal(t, 1, s.Skipped)
}

func TestRunner_CancelledBeforeStartAppendsPlaceholder(t *testing.T) {
	flag := NewCancelFlag()
	flag.Cancel()
	flag.Cancel() // idempotent
	fe := &fakeEncoder{}
	rec := &recordingListener{}

	results := NewRunner(fe).Run(context.Background(), Batch{Inputs: inputs(), OutputBase: "/out", Cancel: flag, Listener: rec})

	require.Len(t, results, 1)
	assert.Equal(t, model.EncodeResult{InputPath: inputs()[0], Message: model.MsgCancelled}, results[0])
	assert.Empty(t, fe.jobs)
	assert.Empty(t, rec.events)
}

func TestRunner_ContextCancelStopsBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fe := &fakeEncoder{during: func(model.JobDescriptor, encoder.Hooks) { cancel() }}

	results := NewRunner(fe).Run(ctx, Batch{Inputs: inputs(), OutputBase: "/out"})

	require.Len(t, results, 1)
	assert.True(t, results[0].Cancelled())
}

func TestRunner_AppliesOverridesShallowly(t *testing.T) {
	fe := &fakeEncoder{}
	aac, br := "aac", "192k"
	base := model.DefaultEncodeOptions()
	base.Resolution = "1280:720"

	NewRunner(fe).Run(context.Background(), Batch{
		Inputs:     inputs(),
		OutputBase: "/out",
		Options:    base,
		Overrides: map[string]model.OptionsOverride{
			inputs()[1]: {AudioCodec: &aac, AudioBitrate: &br},
		},
	})

	require.Len(t, fe.jobs, 3)
	assert.Equal(t, model.CodecCopy, fe.jobs[0].Options.AudioCodec)
	assert.Equal(t, "aac", fe.jobs[1].Options.AudioCodec)
	assert.Equal(t, "192k", fe.jobs[1].Options.AudioBitrate)
	assert.Equal(t, "1280:720", fe.jobs[1].Options.Resolution)
	assert.Equal(t, "libx264", fe.jobs[1].Options.VideoCodec)
}

func TestRunner_StartRunsOnWorker(t *testing.T) {
	release := make(chan struct{})
	fe := &fakeEncoder{during: func(model.JobDescriptor, encoder.Hooks) { <-release }}

	h := NewRunner(fe).Start(context.Background(), Batch{Inputs: inputs()[:2], OutputBase: "/out"})
	require.NotEmpty(t, h.ID)

	select {
	case <-h.Done():
		t.Fatal("batch finished before the encoder was released")
	default:
	}

	h.Cancel()
	close(release)

	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not finish after cancel")
	}
	results := h.Results()
	require.Len(t, results, 1)
	assert.True(t, results[0].Cancelled())
}

func TestRunner_Plan(t *testing.T) {
	q := "18"
	jobs := NewRunner(&fakeEncoder{}).Plan(Batch{
		Inputs:     inputs()[1:],
		OutputBase: "/out",
		Options:    model.DefaultEncodeOptions(),
		Overrides:  map[string]model.OptionsOverride{inputs()[2]: {Quality: &q}},
	})
	require.Len(t, jobs, 2)
	assert.Equal(t, filepath.FromSlash("/out/sub/two.mp4"), jobs[0].OutputPath)
	assert.Equal(t, "23", jobs[0].Options.Quality)
	assert.Equal(t, "18", jobs[1].Options.Quality)
}

func TestRunner_PlanWithInputBase(t *testing.T) {
	jobs := NewRunner(&fakeEncoder{}).Plan(Batch{
		Inputs:     inputs()[1:2],
		InputBase:  filepath.FromSlash("/src"),
		OutputBase: filepath.FromSlash("/out"),
	})
	require.Len(t, jobs, 1)
	assert.Equal(t, filepath.FromSlash("/out/A/sub/two.mp4"), jobs[0].OutputPath)
}

func TestCancelFlag_NilSafe(t *testing.T) {
	var f *CancelFlag
	f.Cancel()
	assert.False(t, f.Cancelled())
}
