package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vidbatch/internal/dirs"
	"vidbatch/internal/model"
	"vidbatch/internal/probe"
)

// Viper keys.
const (
	KeyFFmpegPath           = "ffmpeg_path"
	KeyFFprobePath          = "ffprobe_path"
	KeyOutputDir            = "output_dir"
	KeyVideoCodec           = "video_codec"
	KeyVideoPreset          = "video_preset"
	KeyVideoCRF             = "video_crf"
	KeyVideoResolution      = "video_resolution"
	KeyVideoBitDepth        = "video_bit_depth"
	KeyAudioCodec           = "audio_codec"
	KeyAudioBitrate         = "audio_bitrate"
	KeyFallbackAudioCodec   = "fallback_audio_codec"
	KeyFallbackAudioBitrate = "fallback_audio_bitrate"
	KeySubtitleMode         = "subtitle_mode"
	KeyCustomArgs           = "custom_args"
	KeyUseCustomCommand     = "use_custom_command"
	KeyCustomTemplate       = "custom_command_template"
	KeyProbeTimeout         = "probe_timeout"
	KeyOverrides            = "overrides"
	KeyVerbose              = "verbose"
	KeyNoUI                 = "no_ui"
	KeyDryRun               = "dry_run"
	KeyHistory              = "history"
)

// flagKeys maps CLI flag names to the viper keys they feed.
var flagKeys = map[string]string{
	"ffmpeg":          KeyFFmpegPath,
	"ffprobe":         KeyFFprobePath,
	"out-dir":         KeyOutputDir,
	"codec":           KeyVideoCodec,
	"preset":          KeyVideoPreset,
	"quality":         KeyVideoCRF,
	"resolution":      KeyVideoResolution,
	"bit-depth":       KeyVideoBitDepth,
	"audio-codec":     KeyAudioCodec,
	"audio-bitrate":   KeyAudioBitrate,
	"subtitles":       KeySubtitleMode,
	"extra-args":      KeyCustomArgs,
	"custom-template": KeyCustomTemplate,
	"overrides":       KeyOverrides,
	"verbose":         KeyVerbose,
	"no-ui":           KeyNoUI,
	"dry-run":         KeyDryRun,
	"history":         KeyHistory,
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	d := model.DefaultEncodeOptions()
	v.SetDefault(KeyOutputDir, "")
	v.SetDefault(KeyVideoCodec, d.VideoCodec)
	v.SetDefault(KeyVideoPreset, d.Preset)
	v.SetDefault(KeyVideoCRF, d.Quality)
	v.SetDefault(KeyVideoResolution, d.Resolution)
	v.SetDefault(KeyVideoBitDepth, d.BitDepth)
	v.SetDefault(KeyAudioCodec, d.AudioCodec)
	v.SetDefault(KeyAudioBitrate, d.AudioBitrate)
	v.SetDefault(KeyFallbackAudioCodec, "aac")
	v.SetDefault(KeyFallbackAudioBitrate, "192k")
	v.SetDefault(KeySubtitleMode, string(d.SubtitleMode))
	v.SetDefault(KeyCustomArgs, "")
	v.SetDefault(KeyUseCustomCommand, false)
	v.SetDefault(KeyCustomTemplate, "")
	v.SetDefault(KeyProbeTimeout, probe.DefaultTimeout)
	v.SetDefault(KeyHistory, true)
}

// Init wires Viper with config paths, env, defaults, and flag bindings.
// It is non-fatal: a missing config file is not an error.
func Init(root *cobra.Command) error {
	_ = dirs.EnsureAll()

	if cfgDir, err := dirs.ConfigDir(); err == nil {
		viper.AddConfigPath(cfgDir)
	}
	viper.SetConfigName("config") // config.{yaml|yml|json|toml}

	// VIDBATCH_*
	viper.SetEnvPrefix("VIDBATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	SetDefaults(viper.GetViper())
	BindFlags(viper.GetViper(), root.PersistentFlags())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

// BindFlags binds every known flag present in fs to its key.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// Load resolves the global settings.
func Load() model.Settings {
	return LoadFrom(viper.GetViper())
}

// LoadFrom resolves settings from v.
func LoadFrom(v *viper.Viper) model.Settings {
	template := v.GetString(KeyCustomTemplate)
	timeout := v.GetDuration(KeyProbeTimeout)
	if timeout <= 0 {
		timeout = probe.DefaultTimeout
	}
	return model.Settings{
		FFmpegPath:  v.GetString(KeyFFmpegPath),
		FFprobePath: v.GetString(KeyFFprobePath),
		OutDir:      v.GetString(KeyOutputDir),
		Encode: model.EncodeOptions{
			VideoCodec:     v.GetString(KeyVideoCodec),
			Preset:         v.GetString(KeyVideoPreset),
			Quality:        v.GetString(KeyVideoCRF),
			BitDepth:       v.GetString(KeyVideoBitDepth),
			Resolution:     v.GetString(KeyVideoResolution),
			AudioCodec:     v.GetString(KeyAudioCodec),
			AudioBitrate:   v.GetString(KeyAudioBitrate),
			SubtitleMode:   model.SubtitleMode(strings.ToLower(v.GetString(KeySubtitleMode))),
			ExtraArgs:      v.GetString(KeyCustomArgs),
			UseCustom:      v.GetBool(KeyUseCustomCommand),
			CustomTemplate: template,
		},
		FallbackAudioCodec:   v.GetString(KeyFallbackAudioCodec),
		FallbackAudioBitrate: v.GetString(KeyFallbackAudioBitrate),
		ProbeTimeout:         timeout,
		OverridesFile:        v.GetString(KeyOverrides),
		Verbose:              v.GetBool(KeyVerbose),
		NoUI:                 v.GetBool(KeyNoUI),
		DryRun:               v.GetBool(KeyDryRun),
		History:              v.GetBool(KeyHistory),
	}
}
