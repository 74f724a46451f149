package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"vidbatch/internal/model"
)

// BindFlags registers every flag shared by the encoding commands on fs.
// Defaults are left empty so that config file and environment values win
// unless the flag is set explicitly.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP("out-dir", "o", "", "Output directory (default ./encoded)")
	fs.BoolP("verbose", "v", false, "Debug logging and encoder output")
	fs.String("ffmpeg", "", "Path to ffmpeg")
	fs.String("ffprobe", "", "Path to ffprobe")
	fs.Bool("no-ui", false, "Disable TUI; use plain textual output")
	fs.Bool("dry-run", false, "Print the encoder commands without running them")
	fs.Bool("history", true, "Record finished batches in the history database")

	fs.StringP("codec", "c", "", "Video codec, e.g. libx264, libx265, hevc_nvenc, copy")
	fs.StringP("preset", "p", "", "Encoder preset, e.g. medium, slow, p5")
	fs.StringP("quality", "q", "", "CRF (software) or CQ (NVENC) value")
	fs.StringP("resolution", "r", "", "Output size as W:H, e.g. 1280:-2")
	fs.String("bit-depth", "", "Bit depth: 8 or 10")
	fs.String("audio-codec", "", "Audio codec, or copy")
	fs.String("audio-bitrate", "", "Audio bitrate, e.g. 192k")
	fs.String("subtitles", "", "Subtitle handling: copy, embed, none")
	fs.String("extra-args", "", "Extra encoder arguments appended verbatim")
	fs.String("custom-template", "", "Full encoder argument template using {input} and {output}")
	fs.String("overrides", "", "YAML file mapping input paths to per-file options")
}

// EnableCustomFromFlags turns custom mode on when --custom-template was given
// on the command line. A template stored in config stays inert unless
// use_custom_command is set.
func EnableCustomFromFlags(fs *pflag.FlagSet, o *model.EncodeOptions) {
	if f := fs.Lookup("custom-template"); f != nil && f.Changed && f.Value.String() != "" {
		o.UseCustom = true
	}
}

var (
	errBitDepth  = errors.New("invalid bit depth")
	errSubtitles = errors.New("invalid subtitle mode")
)

// Validate rejects enum values the command builder has no mapping for.
// Free-form values (codec, preset, resolution, extra args, custom template)
// are passed through; the encoder reports anything it cannot use.
func Validate(o model.EncodeOptions) error {
	if o.CustomActive() {
		return nil
	}
	switch o.BitDepth {
	case "", "8", "10":
	default:
		return fmt.Errorf("%w: %q (valid: 8|10)", errBitDepth, o.BitDepth)
	}
	switch o.SubtitleMode {
	case "", model.SubtitleCopy, model.SubtitleEmbed, model.SubtitleNone:
	default:
		return fmt.Errorf("%w: %q (valid: copy|embed|none)", errSubtitles, o.SubtitleMode)
	}
	return nil
}
