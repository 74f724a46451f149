package ui

import (
	"context"
	"errors"
	"strings"

	bubblesprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"vidbatch/internal/progress"
)

const (
	maxLogLines = 200
	barWidth    = 40
)

// Batch is the running batch the UI monitors. *pipeline.Handle implements it.
type Batch interface {
	Cancel()
	Done() <-chan struct{}
}

type Model struct {
	batch Batch
	rep   *Reporter

	files      []*fileState
	current    int // 1-based index of the file being encoded; 0 before the first
	overall    float64
	cancelling bool
	done       bool

	verbose bool
	logs    []string

	spinner    spinner.Model
	overallBar bubblesprogress.Model
	fileBar    bubblesprogress.Model

	width  int
	styles Styles
}

// NewModel builds the monitor for a batch of inputs fed by rep.
func NewModel(inputs []string, b Batch, rep *Reporter, verbose bool) Model {
	sty := defaultStyles()
	sp := spinner.New()
	sp.Style = sty.Spinner

	files := make([]*fileState, len(inputs))
	for i, in := range inputs {
		files[i] = newFileState(in)
	}
	return Model{
		batch:      b,
		rep:        rep,
		files:      files,
		verbose:    verbose,
		spinner:    sp,
		overallBar: bubblesprogress.New(bubblesprogress.WithDefaultGradient(), bubblesprogress.WithWidth(barWidth)),
		fileBar:    bubblesprogress.New(bubblesprogress.WithDefaultGradient(), bubblesprogress.WithWidth(barWidth)),
		styles:     sty,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenCmd(), m.waitDoneCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.done {
				return m, tea.Quit
			}
			if !m.cancelling {
				m.cancelling = true
				m.batch.Cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 20
		if w > barWidth {
			w = barWidth
		}
		if w > 10 {
			m.overallBar.Width = w
			m.fileBar.Width = w
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case batchDoneMsg:
		m.drain()
		m.done = true
		return m, tea.Quit

	case fileStartMsg, fileProgressMsg, fileFinishedMsg, fileLogMsg:
		m.apply(msg)
		return m, m.listenCmd()
	}
	return m, nil
}

// apply folds one reporter event into the model.
func (m *Model) apply(msg tea.Msg) {
	switch msg := msg.(type) {
	case fileStartMsg:
		if f := m.file(msg.Index); f != nil {
			f.status = statusEncoding
			f.message = "Encoding"
			f.percent = 0
			m.current = msg.Index
			m.overall = progress.Overall(msg.Index, msg.Total, 0)
		}
	case fileProgressMsg:
		if f := m.file(msg.Index); f != nil {
			f.percent = msg.Percent
			f.message = msg.Message
			m.overall = progress.Overall(msg.Index, msg.Total, msg.Percent)
		}
	case fileFinishedMsg:
		if f := m.file(msg.Index); f != nil {
			f.finish(msg.Success, msg.Message)
			if msg.Success {
				m.overall = progress.Overall(msg.Index, msg.Total, 100)
			}
		}
	case fileLogMsg:
		if !m.verbose {
			return
		}
		line := strings.TrimRight(msg.L.Line, "\r\n")
		if len(m.logs) >= maxLogLines {
			m.logs = m.logs[1:]
		}
		m.logs = append(m.logs, line)
	}
}

// drain applies events still queued when the batch finished.
func (m *Model) drain() {
	for {
		select {
		case msg := <-m.rep.ch:
			m.apply(msg)
		default:
			return
		}
	}
}

func (m Model) file(index int) *fileState {
	if index < 1 || index > len(m.files) {
		return nil
	}
	return m.files[index-1]
}

func (m Model) listenCmd() tea.Cmd {
	ch := m.rep.ch
	done := m.batch.Done()
	return func() tea.Msg {
		select {
		case msg := <-ch:
			return msg
		case <-done:
			return batchDoneMsg{}
		}
	}
}

func (m Model) waitDoneCmd() tea.Cmd {
	done := m.batch.Done()
	return func() tea.Msg {
		<-done
		return batchDoneMsg{}
	}
}

// Run shows the monitor until the batch finishes. Pressing q cancels the
// batch; the UI stays up until the runner has torn the current encode down.
func Run(ctx context.Context, inputs []string, b Batch, rep *Reporter, verbose bool) error {
	defer rep.Close()
	prog := tea.NewProgram(NewModel(inputs, b, rep, verbose), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		b.Cancel()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	}
	return nil
}
