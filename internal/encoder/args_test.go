package encoder

import (
	"reflect"
	"strings"
	"testing"

	"vidbatch/internal/model"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name string
		opts model.EncodeOptions
		want []string
	}{
		{
			name: "stream copy everything",
			opts: model.EncodeOptions{
				VideoCodec:   "copy",
				AudioCodec:   "copy",
				SubtitleMode: model.SubtitleCopy,
			},
			want: []string{"ffmpeg", "-i", "video.mov", "-y", "-c:v", "copy", "-c:a", "copy", "-c:s", "copy", "out/video.mp4"},
		},
		{
			name: "software 10-bit without resolution",
			opts: model.EncodeOptions{
				VideoCodec:   "libx264",
				Preset:       "medium",
				Quality:      "23",
				BitDepth:     "10",
				SubtitleMode: model.SubtitleNone,
			},
			want: []string{"ffmpeg", "-i", "video.mov", "-y", "-c:v", "libx264", "-preset", "medium", "-crf", "23", "-vf", "format=yuv420p10le", "out/video.mp4"},
		},
		{
			name: "nvenc uses cq and vbr",
			opts: model.EncodeOptions{
				VideoCodec:   "h264_nvenc",
				Preset:       "p5",
				Quality:      "20",
				BitDepth:     "8",
				SubtitleMode: model.SubtitleNone,
			},
			want: []string{"ffmpeg", "-i", "video.mov", "-y", "-c:v", "h264_nvenc", "-preset", "p5", "-cq", "20", "-rc", "vbr", "out/video.mp4"},
		},
		{
			name: "scale and pixel format share one filter flag",
			opts: model.EncodeOptions{
				VideoCodec: "hevc_nvenc",
				Preset:     "p7",
				Quality:    "28",
				BitDepth:   "10",
				Resolution: "1280:720",
			},
			want: []string{"ffmpeg", "-i", "video.mov", "-y", "-c:v", "hevc_nvenc", "-preset", "p7", "-cq", "28", "-rc", "vbr", "-vf", "scale=1280:720,format=p010le", "out/video.mp4"},
		},
		{
			name: "resolution only",
			opts: model.EncodeOptions{
				VideoCodec: "libx265",
				Preset:     "slow",
				Quality:    "22",
				BitDepth:   "8",
				Resolution: "1920:1080",
			},
			want: []string{"ffmpeg", "-i", "video.mov", "-y", "-c:v", "libx265", "-preset", "slow", "-crf", "22", "-vf", "scale=1920:1080", "out/video.mp4"},
		},
		{
			name: "unknown codec gets no pixel format",
			opts: model.EncodeOptions{
				VideoCodec: "libvpx-vp9",
				Preset:     "good",
				Quality:    "31",
				BitDepth:   "10",
			},
			want: []string{"ffmpeg", "-i", "video.mov", "-y", "-c:v", "libvpx-vp9", "-preset", "good", "-crf", "31", "out/video.mp4"},
		},
		{
			name: "empty preset and quality are omitted",
			opts: model.EncodeOptions{VideoCodec: "libx264"},
			want: []string{"ffmpeg", "-i", "video.mov", "-y", "-c:v", "libx264", "out/video.mp4"},
		},
		{
			name: "empty preset keeps quality",
			opts: model.EncodeOptions{VideoCodec: "libx265", Quality: "26"},
			want: []string{"ffmpeg", "-i", "video.mov", "-y", "-c:v", "libx265", "-crf", "26", "out/video.mp4"},
		},
		{
			name: "nvenc without quality still forces vbr",
			opts: model.EncodeOptions{VideoCodec: "hevc_nvenc", Preset: "p5"},
			want: []string{"ffmpeg", "-i", "video.mov", "-y", "-c:v", "hevc_nvenc", "-preset", "p5", "-rc", "vbr", "out/video.mp4"},
		},
		{
			name: "re-encoded audio with bitrate and extra args",
			opts: model.EncodeOptions{
				AudioCodec:   "aac",
				AudioBitrate: "192k",
				SubtitleMode: model.SubtitleEmbed,
				ExtraArgs:    "  -movflags +faststart ",
			},
			want: []string{"ffmpeg", "-i", "video.mov", "-y", "-c:a", "aac", "-b:a", "192k", "-movflags", "+faststart", "out/video.mp4"},
		},
		{
			name: "copy audio ignores bitrate",
			opts: model.EncodeOptions{
				AudioCodec:   "copy",
				AudioBitrate: "192k",
			},
			want: []string{"ffmpeg", "-i", "video.mov", "-y", "-c:a", "copy", "out/video.mp4"},
		},
		{
			name: "custom template replaces everything",
			opts: model.EncodeOptions{
				VideoCodec:     "libx264",
				UseCustom:      true,
				CustomTemplate: "ffmpeg -hide_banner -i {input} -c copy {output}",
			},
			want: []string{"ffmpeg", "-hide_banner", "-i", "video.mov", "-c", "copy", "out/video.mp4"},
		},
		{
			name: "custom flag without template falls back to structured",
			opts: model.EncodeOptions{
				VideoCodec: "copy",
				UseCustom:  true,
			},
			want: []string{"ffmpeg", "-i", "video.mov", "-y", "-c:v", "copy", "out/video.mp4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildArgs("ffmpeg", "video.mov", "out/video.mp4", tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildArgs()\n got: %v\nwant: %v", got, tt.want)
			}
			for i, a := range got {
				if a == "" {
					t.Errorf("empty argument at %d: %v", i, got)
				}
			}
		})
	}
}

func TestBuildArgs_Idempotent(t *testing.T) {
	opts := model.DefaultEncodeOptions()
	opts.BitDepth = "10"
	opts.Resolution = "640:360"
	a := BuildArgs("/usr/bin/ffmpeg", "/in/a.mkv", "/out/a.mp4", opts)
	b := BuildArgs("/usr/bin/ffmpeg", "/in/a.mkv", "/out/a.mp4", opts)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("BuildArgs not idempotent:\n%v\n%v", a, b)
	}
	if a[len(a)-1] != "/out/a.mp4" {
		t.Errorf("output is not last: %v", a)
	}
}

func TestBuildArgs_CustomTemplateSplitsPathsWithSpaces(t *testing.T) {
	opts := model.EncodeOptions{UseCustom: true, CustomTemplate: "ffmpeg -i {input} {output}"}
	got := BuildArgs("ffmpeg", "my clip.mov", "out.mp4", opts)
	// Known limitation: no quoting support in templates.
	want := []string{"ffmpeg", "-i", "my", "clip.mov", "out.mp4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFormatCommand(t *testing.T) {
	got := FormatCommand([]string{"ffmpeg", "-i", "my clip.mov", "out.mp4"})
	if !strings.Contains(got, "'my clip.mov'") {
		t.Errorf("FormatCommand() = %q, want quoted input", got)
	}
	if FormatCommand(nil) != "" {
		t.Error("FormatCommand(nil) should be empty")
	}
}
