package model

// NotAvailable is rendered in place of any probe field that could not be determined.
const NotAvailable = "N/A"

// ProbeInfo is the inspected metadata of one media file.
// Every numeric field is zero and every string empty when unknown.
type ProbeInfo struct {
	Width        int
	Height       int
	FPS          float64
	VideoCodec   string
	VideoBitrate int64 // bits/s
	AudioCodec   string
	AudioBitrate int64   // bits/s
	Duration     float64 // seconds, container level
	Size         int64   // bytes
	Bitrate      int64   // bits/s, container level

	// BitsPer10kPixels is (Bitrate/FPS)/(Width*Height)*10000; zero when any input is missing.
	BitsPer10kPixels float64
}

// IsEmpty reports whether nothing at all was learned about the file.
func (p ProbeInfo) IsEmpty() bool {
	return p == ProbeInfo{}
}

// HasVideo reports whether a video stream was detected.
func (p ProbeInfo) HasVideo() bool {
	return p.VideoCodec != "" || (p.Width > 0 && p.Height > 0)
}
