package pipeline

import "vidbatch/internal/model"

// Summary counts batch outcomes.
type Summary struct {
	Total     int // files requested
	Succeeded int
	Failed    int // Failed: and Error: results
	Cancelled int
	Skipped   int // never dispatched because the batch stopped early
}

// Summarize tallies results for a batch of total files.
func Summarize(results []model.EncodeResult, total int) Summary {
	s := Summary{Total: total}
	for _, r := range results {
		switch {
		case r.Success:
			s.Succeeded++
		case r.Cancelled():
			s.Cancelled++
		default:
			s.Failed++
		}
	}
	if n := total - len(results); n > 0 {
		s.Skipped = n
	}
	return s
}

// OK reports whether every requested file succeeded.
func (s Summary) OK() bool {
	return s.Succeeded == s.Total
}
