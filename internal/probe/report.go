package probe

import (
	"fmt"
	"strconv"
	"strings"

	"vidbatch/internal/model"
	"vidbatch/internal/util/format"
)

// Field is one labelled line of a probe report.
type Field struct {
	Label string
	Value string
}

// Fields renders info for display. Unknown values are model.NotAvailable.
func Fields(info model.ProbeInfo) []Field {
	na := model.NotAvailable
	str := func(s string) string {
		if s == "" {
			return na
		}
		return s
	}
	rate := func(bps int64) string {
		if bps <= 0 {
			return na
		}
		return format.HumanizeBitrate(bps)
	}

	resolution := na
	if info.Width > 0 && info.Height > 0 {
		resolution = fmt.Sprintf("%dx%d", info.Width, info.Height)
	}
	fps := na
	if info.FPS > 0 {
		fps = strconv.FormatFloat(info.FPS, 'f', 3, 64)
	}
	duration := na
	if info.Duration > 0 {
		duration = format.Duration(info.Duration)
	}
	size := na
	if info.Size > 0 {
		size = format.HumanizeBytes(info.Size)
	}
	density := na
	if info.BitsPer10kPixels > 0 {
		density = strconv.FormatFloat(info.BitsPer10kPixels, 'f', 2, 64)
	}

	return []Field{
		{"Resolution", resolution},
		{"Frame rate", fps},
		{"Video codec", str(info.VideoCodec)},
		{"Video bitrate", rate(info.VideoBitrate)},
		{"Audio codec", str(info.AudioCodec)},
		{"Audio bitrate", rate(info.AudioBitrate)},
		{"Duration", duration},
		{"File size", size},
		{"Overall bitrate", rate(info.Bitrate)},
		{"Bits/10k px/frame", density},
	}
}

// Report renders Fields as aligned "label: value" lines.
func Report(info model.ProbeInfo) string {
	fields := Fields(info)
	width := 0
	for _, f := range fields {
		if len(f.Label) > width {
			width = len(f.Label)
		}
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, "%-*s  %s\n", width+1, f.Label+":", f.Value)
	}
	return b.String()
}
