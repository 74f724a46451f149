package encoder

import (
	"strings"

	"vidbatch/internal/model"
	"vidbatch/internal/util"
)

// hardwareCodecs take -cq and a forced VBR rate control instead of -crf.
var hardwareCodecs = map[string]bool{
	"h264_nvenc": true,
	"hevc_nvenc": true,
	"av1_nvenc":  true,
}

// tenBitPixFmt maps a codec to its 10-bit pixel format. Codecs missing here
// get no pixel format override.
var tenBitPixFmt = map[string]string{
	"libx264":    "yuv420p10le",
	"libx265":    "yuv420p10le",
	"libsvtav1":  "yuv420p10le",
	"h264_nvenc": "p010le",
	"hevc_nvenc": "p010le",
	"av1_nvenc":  "p010le",
}

// IsHardwareCodec reports whether codec belongs to the GPU encoder family.
func IsHardwareCodec(codec string) bool {
	return hardwareCodecs[codec]
}

// BuildArgs returns the full argument vector (binary first) to transcode input
// into output. It performs no I/O and no validation.
//
// A custom template has {input} and {output} replaced literally and is then
// split on whitespace; paths containing spaces are not supported there.
func BuildArgs(encoderPath, input, output string, opts model.EncodeOptions) []string {
	if opts.CustomActive() {
		t := strings.ReplaceAll(opts.CustomTemplate, "{input}", input)
		t = strings.ReplaceAll(t, "{output}", output)
		return strings.Fields(t)
	}

	args := []string{encoderPath, "-i", input, "-y"}
	args = append(args, videoArgs(opts)...)
	args = append(args, audioArgs(opts)...)
	args = append(args, subtitleArgs(opts)...)
	args = append(args, strings.Fields(opts.ExtraArgs)...)
	return append(args, output)
}

func videoArgs(opts model.EncodeOptions) []string {
	codec := opts.VideoCodec
	if codec == "" {
		return nil
	}
	if codec == model.CodecCopy {
		return []string{"-c:v", model.CodecCopy}
	}

	hw := IsHardwareCodec(codec)
	args := []string{"-c:v", codec}
	if opts.Preset != "" {
		args = append(args, "-preset", opts.Preset)
	}
	if opts.Quality != "" {
		if hw {
			args = append(args, "-cq", opts.Quality)
		} else {
			args = append(args, "-crf", opts.Quality)
		}
	}
	if hw {
		args = append(args, "-rc", "vbr")
	}

	var filters []string
	if opts.Resolution != "" {
		filters = append(filters, "scale="+opts.Resolution)
	}
	if opts.BitDepth == "10" {
		if pix, ok := tenBitPixFmt[codec]; ok {
			filters = append(filters, "format="+pix)
		}
	}
	if len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}
	return args
}

func audioArgs(opts model.EncodeOptions) []string {
	if opts.AudioCodec == "" {
		return nil
	}
	args := []string{"-c:a", opts.AudioCodec}
	if opts.AudioCodec != model.CodecCopy && opts.AudioBitrate != "" {
		args = append(args, "-b:a", opts.AudioBitrate)
	}
	return args
}

func subtitleArgs(opts model.EncodeOptions) []string {
	switch opts.SubtitleMode {
	case model.SubtitleCopy:
		return []string{"-c:s", "copy"}
	default:
		// embed is not implemented and, like none, emits nothing.
		return nil
	}
}

// FormatCommand renders argv as a copy-pasteable shell command.
func FormatCommand(argv []string) string {
	if len(argv) == 0 {
		return ""
	}
	return util.ShellQuote(argv[0], argv[1:])
}
