package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"vidbatch/internal/progress"
)

// Reporter is a progress.Listener that hands batch events to the TUI.
// Start and finish events are always delivered; progress and log lines are
// dropped when the UI falls behind.
type Reporter struct {
	ch   chan tea.Msg
	quit chan struct{}
	once sync.Once
}

var _ progress.Listener = (*Reporter)(nil)

// NewReporter returns a Reporter ready to be passed to the batch runner.
func NewReporter() *Reporter {
	return &Reporter{
		ch:   make(chan tea.Msg, 256),
		quit: make(chan struct{}),
	}
}

func (r *Reporter) FileStarted(index, total int, path string) {
	r.send(fileStartMsg{Index: index, Total: total, Path: path}, true)
}

func (r *Reporter) FileProgress(index, total int, path string, percent float64, message string) {
	r.send(fileProgressMsg{Index: index, Total: total, Path: path, Percent: percent, Message: message}, false)
}

func (r *Reporter) FileFinished(index, total int, path string, success bool, message string) {
	r.send(fileFinishedMsg{Index: index, Total: total, Path: path, Success: success, Message: message}, true)
}

func (r *Reporter) Log(l progress.Log) {
	r.send(fileLogMsg{L: l}, false)
}

// Close unblocks pending sends once the UI has exited.
func (r *Reporter) Close() {
	r.once.Do(func() { close(r.quit) })
}

func (r *Reporter) send(msg tea.Msg, mustDeliver bool) {
	if mustDeliver {
		select {
		case r.ch <- msg:
		case <-r.quit:
		}
		return
	}
	select {
	case r.ch <- msg:
	default:
	}
}
