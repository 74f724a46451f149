package bitrate

import (
	"math"
	"testing"
)

func TestBitsPer10kPixels(t *testing.T) {
	tests := []struct {
		name   string
		bps    int64
		fps    float64
		width  int
		height int
		want   float64
	}{
		{name: "1080p30 at 6Mbps", bps: 6_000_000, fps: 30, width: 1920, height: 1080, want: 964.5061728},
		{name: "zero fps", bps: 6_000_000, fps: 0, width: 1920, height: 1080, want: 0},
		{name: "zero width", bps: 6_000_000, fps: 30, width: 0, height: 1080, want: 0},
		{name: "zero bitrate", bps: 0, fps: 30, width: 1920, height: 1080, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BitsPer10kPixels(tt.bps, tt.fps, tt.width, tt.height)
			if math.Abs(got-tt.want) > 1e-3 {
				t.Errorf("BitsPer10kPixels() = %v, want %v", got, tt.want)
			}
		})
	}
}

