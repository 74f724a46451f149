package probe

import (
	"strings"
	"testing"

	"vidbatch/internal/model"
)

func TestReport_EmptyIsAllNA(t *testing.T) {
	for _, f := range Fields(model.ProbeInfo{}) {
		if f.Value != model.NotAvailable {
			t.Errorf("%s = %q, want %q", f.Label, f.Value, model.NotAvailable)
		}
	}
}

func TestReport_Values(t *testing.T) {
	out := Report(model.ProbeInfo{
		Width:      1280,
		Height:     720,
		FPS:        25,
		VideoCodec: "h264",
		AudioCodec: "aac",
		Duration:   90,
		Size:       1536 * 1024,
		Bitrate:    2_500_000,
	})
	for _, want := range []string{"1280x720", "25.000", "h264", "aac", "0:01:30", "1.5 MB", "2.50 Mbps", "Audio bitrate:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Report() missing %q:\n%s", want, out)
		}
	}
}
