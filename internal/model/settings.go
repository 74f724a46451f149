package model

import "time"

// Settings holds user-configurable runtime options as resolved from flags, env and config file.
type Settings struct {
	FFmpegPath  string // empty = look up in PATH
	FFprobePath string // empty = sibling of ffmpeg, then PATH
	OutDir      string

	Encode EncodeOptions

	// Used when audio is stream-copied but the source codec does not fit the output container.
	FallbackAudioCodec   string
	FallbackAudioBitrate string

	ProbeTimeout  time.Duration
	OverridesFile string // optional YAML map of input path -> OptionsOverride

	Verbose bool
	NoUI    bool
	DryRun  bool
	History bool // record finished batches in the history store
}
