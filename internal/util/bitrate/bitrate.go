package bitrate

// BitsPer10kPixels is the bits spent per 10,000 pixels of each frame:
// (bps / fps) / (width*height) * 10000. Returns 0 when any input is not positive.
func BitsPer10kPixels(bps int64, fps float64, width, height int) float64 {
	if bps <= 0 || fps <= 0 || width <= 0 || height <= 0 {
		return 0
	}
	bitsPerFrame := float64(bps) / fps
	return bitsPerFrame / float64(width*height) * 10000
}

