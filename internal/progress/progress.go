package progress

// LogStream indicates which stream produced a log line.
type LogStream int

const (
	StreamStdout LogStream = iota
	StreamStderr
)

// Log is a raw diagnostic line from the encoder subprocess of one file.
type Log struct {
	Index  int // 1-based position in the batch
	Path   string
	Stream LogStream
	Line   string
}

// Listener receives batch events. All calls are made from the batch worker
// goroutine, in order, and must not block for long.
// index is 1-based; total is the batch size.
type Listener interface {
	FileStarted(index, total int, path string)
	FileProgress(index, total int, path string, percent float64, message string)
	FileFinished(index, total int, path string, success bool, message string)
}

// LogListener is optionally implemented by a Listener that also wants the
// encoder's diagnostic lines.
type LogListener interface {
	Log(l Log)
}

// Nop is a Listener that ignores every event.
type Nop struct{}

func (Nop) FileStarted(int, int, string)                  {}
func (Nop) FileProgress(int, int, string, float64, string) {}
func (Nop) FileFinished(int, int, string, bool, string)    {}

// Funcs adapts plain callbacks to a Listener. Nil fields are skipped.
type Funcs struct {
	Started  func(index, total int, path string)
	Progress func(index, total int, path string, percent float64, message string)
	Finished func(index, total int, path string, success bool, message string)
}

func (f Funcs) FileStarted(index, total int, path string) {
	if f.Started != nil {
		f.Started(index, total, path)
	}
}

func (f Funcs) FileProgress(index, total int, path string, percent float64, message string) {
	if f.Progress != nil {
		f.Progress(index, total, path, percent, message)
	}
}

func (f Funcs) FileFinished(index, total int, path string, success bool, message string) {
	if f.Finished != nil {
		f.Finished(index, total, path, success, message)
	}
}

// Overall combines the current file's percent into a whole-batch percent.
func Overall(index, total int, percent float64) float64 {
	if total <= 0 || index <= 0 {
		return 0
	}
	return (float64(index-1)*100 + percent) / float64(total)
}
