package model

// Terminal result messages.
const (
	MsgSuccess   = "Success"
	MsgCancelled = "Cancelled"
)

// JobDescriptor is one file's unit of work, fixed at dispatch time.
type JobDescriptor struct {
	InputPath  string
	OutputPath string
	Options    EncodeOptions // effective options after per-file overrides
}

// EncodeResult is the terminal outcome of one job.
// Message is "Success", "Cancelled", "Failed: <diagnostics>" or "Error: <description>".
type EncodeResult struct {
	InputPath  string
	OutputPath string
	Success    bool
	Message    string
}

// Cancelled reports whether the result is the cancelled outcome.
func (r EncodeResult) Cancelled() bool {
	return !r.Success && r.Message == MsgCancelled
}
