package format

import "strconv"

var byteUnits = []string{"KB", "MB", "GB", "TB", "PB"}

// HumanizeBytes renders a file size in binary units, e.g. "1.5 MB".
// Negative sizes (unknown) render as "0 B".
func HumanizeBytes(n int64) string {
	if n < 1024 {
		return strconv.FormatInt(max(n, 0), 10) + " B"
	}
	v := float64(n) / 1024
	i := 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + " " + byteUnits[i]
}
