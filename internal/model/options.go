package model

// SubtitleMode controls how subtitle streams are carried into the output.
type SubtitleMode string

const (
	SubtitleCopy  SubtitleMode = "copy"
	SubtitleEmbed SubtitleMode = "embed" // accepted but not implemented; behaves like none
	SubtitleNone  SubtitleMode = "none"
)

// CodecCopy is the codec sentinel meaning stream-copy without re-encoding.
const CodecCopy = "copy"

// EncodeOptions describes the intent of one encode job.
// When UseCustom is set and CustomTemplate is non-empty, every other field is ignored.
type EncodeOptions struct {
	VideoCodec   string       // e.g. "libx264", "hevc_nvenc", "copy"; empty leaves the encoder default.
	Preset       string       // e.g. "medium", "p5"
	Quality      string       // CRF for software codecs, CQ for NVENC.
	BitDepth     string       // "8" or "10"
	Resolution   string       // "W:H"; empty keeps source resolution.
	AudioCodec   string       // "copy" stream-copies; empty leaves the encoder default.
	AudioBitrate string       // e.g. "192k"; ignored for copy.
	SubtitleMode SubtitleMode // copy | embed | none
	ExtraArgs    string       // appended verbatim after whitespace split

	UseCustom      bool
	CustomTemplate string // {input} and {output} are substituted literally
}

// CustomActive reports whether the custom template overrides structured assembly.
func (o EncodeOptions) CustomActive() bool {
	return o.UseCustom && o.CustomTemplate != ""
}

// DefaultEncodeOptions returns the options a fresh install starts with.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		VideoCodec:   "libx264",
		Preset:       "medium",
		Quality:      "23",
		BitDepth:     "8",
		AudioCodec:   CodecCopy,
		SubtitleMode: SubtitleCopy,
	}
}

// OptionsOverride is a sparse per-file exception to the batch options.
// Nil fields leave the base value untouched.
type OptionsOverride struct {
	VideoCodec     *string       `yaml:"video_codec,omitempty"`
	Preset         *string       `yaml:"preset,omitempty"`
	Quality        *string       `yaml:"quality,omitempty"`
	BitDepth       *string       `yaml:"bit_depth,omitempty"`
	Resolution     *string       `yaml:"resolution,omitempty"`
	AudioCodec     *string       `yaml:"audio_codec,omitempty"`
	AudioBitrate   *string       `yaml:"audio_bitrate,omitempty"`
	SubtitleMode   *SubtitleMode `yaml:"subtitle_mode,omitempty"`
	ExtraArgs      *string       `yaml:"extra_args,omitempty"`
	UseCustom      *bool         `yaml:"use_custom,omitempty"`
	CustomTemplate *string       `yaml:"custom_template,omitempty"`
}

// IsZero reports whether the override changes nothing.
func (ov OptionsOverride) IsZero() bool {
	return ov == OptionsOverride{}
}

// Apply returns base with every set field of ov replacing the base value.
// The merge is shallow: a set field wins even when it holds the empty string.
func (ov OptionsOverride) Apply(base EncodeOptions) EncodeOptions {
	out := base
	if ov.VideoCodec != nil {
		out.VideoCodec = *ov.VideoCodec
	}
	if ov.Preset != nil {
		out.Preset = *ov.Preset
	}
	if ov.Quality != nil {
		out.Quality = *ov.Quality
	}
	if ov.BitDepth != nil {
		out.BitDepth = *ov.BitDepth
	}
	if ov.Resolution != nil {
		out.Resolution = *ov.Resolution
	}
	if ov.AudioCodec != nil {
		out.AudioCodec = *ov.AudioCodec
	}
	if ov.AudioBitrate != nil {
		out.AudioBitrate = *ov.AudioBitrate
	}
	if ov.SubtitleMode != nil {
		out.SubtitleMode = *ov.SubtitleMode
	}
	if ov.ExtraArgs != nil {
		out.ExtraArgs = *ov.ExtraArgs
	}
	if ov.UseCustom != nil {
		out.UseCustom = *ov.UseCustom
	}
	if ov.CustomTemplate != nil {
		out.CustomTemplate = *ov.CustomTemplate
	}
	return out
}
