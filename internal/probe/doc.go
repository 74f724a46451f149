// Package probe extracts container and stream metadata from media files by
// running ffprobe once per file and decoding its JSON output.
//
// Probing never fails loudly: a missing tool, a timeout, a non-zero exit or
// malformed output all yield an empty model.ProbeInfo, and a single field that
// cannot be parsed leaves only that field at its zero value.
package probe
