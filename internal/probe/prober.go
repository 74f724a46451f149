package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"vidbatch/internal/model"
	"vidbatch/internal/util"
	"vidbatch/internal/util/bitrate"
	"vidbatch/internal/util/deps"
)

// DefaultTimeout bounds a single ffprobe invocation.
const DefaultTimeout = 10 * time.Second

// Client runs ffprobe. Successful results are remembered per file until the
// file's size or modification time changes, so the audio check before a batch
// and the duration lookup during encoding share one ffprobe run.
type Client struct {
	path    string
	timeout time.Duration
	runner  util.CmdRunner
	logger  hclog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	size    int64
	modTime time.Time
	info    model.ProbeInfo
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRunner replaces the subprocess runner.
func WithRunner(r util.CmdRunner) Option {
	return func(c *Client) { c.runner = r }
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPath uses p as the ffprobe binary without any lookup.
func WithPath(p string) Option {
	return func(c *Client) { c.path = p }
}

// New resolves ffprobe from the configured path, then next to ffmpegPath,
// then PATH. When nothing is found the client is still usable and every
// Probe returns an empty ProbeInfo.
func New(ffprobePath, ffmpegPath string, opts ...Option) *Client {
	c := &Client{
		timeout: DefaultTimeout,
		runner:  util.NewDefaultRunner(),
		logger:  hclog.NewNullLogger(),
	}
	if p, err := deps.FindFFprobe(ffprobePath, ffmpegPath); err == nil {
		c.path = p
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.path == "" {
		c.logger.Debug("ffprobe not found, metadata will be unavailable")
	}
	return c
}

// Available reports whether an ffprobe binary was resolved.
func (c *Client) Available() bool { return c.path != "" }

// Path returns the resolved ffprobe binary, or "".
func (c *Client) Path() string { return c.path }

// Probe inspects path. It never returns an error; see the package doc.
func (c *Client) Probe(ctx context.Context, path string) model.ProbeInfo {
	if !c.Available() {
		return model.ProbeInfo{}
	}
	fi, statErr := os.Stat(path)
	if statErr == nil {
		if info, ok := c.cached(path, fi); ok {
			return info
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.runner.Run(ctx, util.CmdSpec{
		Path: c.path,
		Args: []string{
			"-v", "error",
			"-show_entries", "stream=width,height,codec_name,codec_type,bit_rate,r_frame_rate,duration",
			"-show_entries", "format=duration,size,bit_rate",
			"-of", "json",
			path,
		},
		StderrLine: func(line string) { c.logger.Trace("ffprobe", "input", path, "line", line) },
		Logger:     c.logger,
	})
	if err != nil {
		c.logger.Debug("ffprobe failed", "input", path, "error", err)
		return model.ProbeInfo{}
	}

	info, err := Parse(res.Stdout)
	if err != nil {
		c.logger.Debug("ffprobe output unreadable", "input", path, "error", err)
		return model.ProbeInfo{}
	}
	if info.Size == 0 {
		info.Size = util.FileSize(path)
	}
	if statErr == nil {
		c.store(path, fi, info)
	}
	return info
}

func (c *Client) cached(path string, fi os.FileInfo) (model.ProbeInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.cache[path]
	if !ok || e.size != fi.Size() || !e.modTime.Equal(fi.ModTime()) {
		return model.ProbeInfo{}, false
	}
	return e.info, true
}

func (c *Client) store(path string, fi os.FileInfo, info model.ProbeInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache == nil {
		c.cache = make(map[string]cacheEntry)
	}
	c.cache[path] = cacheEntry{size: fi.Size(), modTime: fi.ModTime(), info: info}
}

// Parse converts raw ffprobe JSON into a ProbeInfo. Only a document that is
// not JSON at all is an error.
func Parse(data []byte) (model.ProbeInfo, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.ProbeInfo{}, fmt.Errorf("parse ffprobe JSON: %w", err)
	}

	var info model.ProbeInfo
	var video, audio *ffprobeStream
	for i := range raw.Streams {
		s := &raw.Streams[i]
		switch s.CodecType {
		case "video":
			if video == nil {
				video = s
			}
		case "audio":
			if audio == nil {
				audio = s
			}
		}
	}

	if video != nil {
		info.Width = parseInt(video.Width)
		info.Height = parseInt(video.Height)
		info.VideoCodec = string(video.CodecName)
		info.VideoBitrate = parseInt64(video.BitRate)
		info.FPS = parseRate(video.RFrameRate)
	}
	if audio != nil {
		info.AudioCodec = string(audio.CodecName)
		info.AudioBitrate = parseInt64(audio.BitRate)
	}

	info.Duration = parseFloat(raw.Format.Duration)
	if info.Duration == 0 && video != nil {
		info.Duration = parseFloat(video.Duration)
	}
	info.Size = parseInt64(raw.Format.Size)
	info.Bitrate = parseInt64(raw.Format.BitRate)
	info.BitsPer10kPixels = bitrate.BitsPer10kPixels(info.Bitrate, info.FPS, info.Width, info.Height)
	return info, nil
}
