package encoder

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	progressCap     = 99.0
	msgFinished     = "Encoding finished"
	msgEncodingTmpl = "Encoding: %.1f%%"
)

var timeRegex = regexp.MustCompile(`time=(\d{2}):(\d{2}):(\d{2}\.\d{2})`)

// ParseTime extracts the elapsed position in seconds from an ffmpeg status line.
func ParseTime(line string) (float64, bool) {
	m := timeRegex.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	h, err1 := strconv.Atoi(m[1])
	mm, err2 := strconv.Atoi(m[2])
	s, err3 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	return float64(h*3600+mm*60) + s, true
}

// ProgressTracker turns status lines into monotonic percentages below 100.
type ProgressTracker struct {
	duration float64
	last     float64
}

// NewProgressTracker returns a tracker for a file of the given duration in seconds.
// A non-positive duration disables reporting.
func NewProgressTracker(duration float64) *ProgressTracker {
	return &ProgressTracker{duration: duration}
}

// Observe returns the new percentage and its message when line advances progress.
func (t *ProgressTracker) Observe(line string) (float64, string, bool) {
	if t.duration <= 0 {
		return 0, "", false
	}
	elapsed, ok := ParseTime(line)
	if !ok {
		return 0, "", false
	}
	pct := elapsed / t.duration * 100
	if pct > progressCap {
		pct = progressCap
	}
	if pct <= t.last {
		return 0, "", false
	}
	t.last = pct
	return pct, fmt.Sprintf(msgEncodingTmpl, pct), true
}
