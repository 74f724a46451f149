package probe

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

type ffprobeStream struct {
	CodecType  flexString `json:"codec_type"`
	CodecName  flexString `json:"codec_name"`
	Width      flexString `json:"width"`
	Height     flexString `json:"height"`
	BitRate    flexString `json:"bit_rate"`
	RFrameRate flexString `json:"r_frame_rate"`
	Duration   flexString `json:"duration"`
}

type ffprobeFormat struct {
	Duration flexString `json:"duration"`
	Size     flexString `json:"size"`
	BitRate  flexString `json:"bit_rate"`
}

// flexString accepts a JSON string, number, bool or null without failing, so
// one odd field never aborts decoding of the rest.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = ""
			return nil
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s flexString) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(string(s)), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func parseInt(s flexString) int {
	n, err := strconv.Atoi(strings.TrimSpace(string(s)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseFloat(s flexString) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// parseRate converts "num/den" (or a plain number) to a float. A zero
// denominator or any parse error yields 0.
func parseRate(s flexString) float64 {
	str := strings.TrimSpace(string(s))
	num, den, found := strings.Cut(str, "/")
	if !found {
		return parseFloat(s)
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
