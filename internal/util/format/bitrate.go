package format

import "strconv"

// HumanizeBitrate renders bits per second as kbps or Mbps.
func HumanizeBitrate(bps int64) string {
	switch {
	case bps <= 0:
		return "0 kbps"
	case bps < 1_000_000:
		return strconv.FormatInt(bps/1000, 10) + " kbps"
	default:
		return strconv.FormatFloat(float64(bps)/1_000_000, 'f', 2, 64) + " Mbps"
	}
}

// Duration renders seconds as H:MM:SS.
func Duration(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	s := int64(sec)
	h, m := s/3600, (s%3600)/60
	s %= 60
	out := strconv.FormatInt(h, 10) + ":"
	if m < 10 {
		out += "0"
	}
	out += strconv.FormatInt(m, 10) + ":"
	if s < 10 {
		out += "0"
	}
	return out + strconv.FormatInt(s, 10)
}
