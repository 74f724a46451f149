package cli

import (
	"errors"
	"testing"

	"github.com/spf13/pflag"

	"vidbatch/internal/model"
)

func TestValidate(t *testing.T) {
	base := model.DefaultEncodeOptions()
	with := func(f func(o *model.EncodeOptions)) model.EncodeOptions {
		o := base
		f(&o)
		return o
	}

	tests := []struct {
		name string
		opts model.EncodeOptions
		want error
	}{
		{"defaults", base, nil},
		{"ten bit", with(func(o *model.EncodeOptions) { o.BitDepth = "10" }), nil},
		{"bad depth", with(func(o *model.EncodeOptions) { o.BitDepth = "12" }), errBitDepth},
		{"bad subtitles", with(func(o *model.EncodeOptions) { o.SubtitleMode = "burn" }), errSubtitles},
		{"resolution", with(func(o *model.EncodeOptions) { o.Resolution = "1280:-2" }), nil},
		{"free-form resolution", with(func(o *model.EncodeOptions) { o.Resolution = "720p" }), nil},
		{"template skips checks", with(func(o *model.EncodeOptions) {
			o.UseCustom, o.CustomTemplate, o.BitDepth = true, "-i {input}", "99"
		}), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.opts)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBindFlagsShorthands(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	if err := fs.Parse([]string{"-c", "libx265", "-q", "28", "-o", "/out"}); err != nil {
		t.Fatal(err)
	}
	for name, want := range map[string]string{"codec": "libx265", "quality": "28", "out-dir": "/out"} {
		got, _ := fs.GetString(name)
		if got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestEnableCustomFromFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"flag given", []string{"--custom-template", "ffmpeg -i {input} {output}"}, true},
		{"flag absent", nil, false},
		{"flag empty", []string{"--custom-template="}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			BindFlags(fs)
			if err := fs.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			var o model.EncodeOptions
			EnableCustomFromFlags(fs, &o)
			if o.UseCustom != tt.want {
				t.Errorf("UseCustom = %v, want %v", o.UseCustom, tt.want)
			}
		})
	}
}
