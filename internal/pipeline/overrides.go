package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"vidbatch/internal/encoder"
	"vidbatch/internal/model"
)

// mp4AudioCodecs can be stream-copied into an MP4 container.
var mp4AudioCodecs = map[string]bool{
	"aac":  true,
	"mp3":  true,
	"alac": true,
	"ac3":  true,
	"eac3": true,
	"opus": true,
	"flac": true,
}

// IsMP4AudioCompatible reports whether codec can be copied into MP4 as-is.
func IsMP4AudioCompatible(codec string) bool {
	return mp4AudioCodecs[strings.ToLower(codec)]
}

// AudioOverrides returns overrides extended so that files whose effective
// audio is stream-copied but whose source codec does not fit MP4 are
// re-encoded with fallbackCodec at fallbackBitrate. Existing overrides are
// kept; an override that already sets the audio codec is left alone.
func AudioOverrides(ctx context.Context, p encoder.Prober, inputs []string, base model.EncodeOptions,
	overrides map[string]model.OptionsOverride, fallbackCodec, fallbackBitrate string) map[string]model.OptionsOverride {
	out := make(map[string]model.OptionsOverride, len(overrides))
	for k, v := range overrides {
		out[k] = v
	}
	if p == nil || fallbackCodec == "" {
		return out
	}

	for _, in := range inputs {
		ov, _ := lookupOverride(out, in)
		if ov.AudioCodec != nil {
			continue
		}
		eff := ov.Apply(base)
		if eff.CustomActive() || eff.AudioCodec != model.CodecCopy {
			continue
		}
		src := p.Probe(ctx, in).AudioCodec
		if src == "" || IsMP4AudioCompatible(src) {
			continue
		}
		codec, bitrate := fallbackCodec, fallbackBitrate
		ov.AudioCodec = &codec
		if bitrate != "" {
			ov.AudioBitrate = &bitrate
		}
		out[in] = ov
	}
	return out
}

// LoadOverrides reads a YAML document mapping input paths to partial
// options. Relative keys are resolved against the file's directory.
func LoadOverrides(path string) (map[string]model.OptionsOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	var raw map[string]model.OptionsOverride
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse overrides %q: %w", path, err)
	}
	dir := filepath.Dir(path)
	out := make(map[string]model.OptionsOverride, len(raw))
	for k, v := range raw {
		if !filepath.IsAbs(k) {
			k = filepath.Join(dir, k)
		}
		if abs, err := filepath.Abs(k); err == nil {
			k = abs
		}
		out[k] = v
	}
	return out, nil
}
