package ui

import (
	"fmt"
	"strings"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewBars())
	b.WriteString("\n")
	b.WriteString(m.viewFiles())
	if logs := m.viewLogs(); logs != "" {
		b.WriteString("\n")
		b.WriteString(logs)
	}
	if m.done {
		b.WriteString("\n")
		b.WriteString(m.viewSummary())
	}
	return b.String()
}

func (m Model) viewHeader() string {
	finished := 0
	for _, f := range m.files {
		if f.status >= statusDone {
			finished++
		}
	}
	title := m.styles.Title.Render("vidbatch")
	hint := "q: cancel"
	if m.done {
		hint = "q: quit"
	}
	sub := m.styles.Subtitle.Render(fmt.Sprintf("Files: %d/%d done • %s", finished, len(m.files), hint))
	if m.cancelling && !m.done {
		sub += "  " + m.styles.Warning.Render("Cancelling…")
	}
	return title + "\n" + sub
}

func (m Model) viewBars() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("Overall "))
	b.WriteString(fmt.Sprintf("%s %5.1f%%", m.overallBar.ViewAs(m.overall/100.0), m.overall))
	b.WriteString("\n")

	f := m.file(m.current)
	if f == nil || f.status != statusEncoding {
		return b.String()
	}
	b.WriteString(m.styles.Spinner.Render(m.spinner.View()))
	b.WriteString(" ")
	b.WriteString(m.styles.FileName.Render(truncate(f.name(), 48)))
	b.WriteString("\n")
	b.WriteString(m.styles.Encoding.Render("File    "))
	b.WriteString(fmt.Sprintf("%s %5.1f%%", m.fileBar.ViewAs(f.percent/100.0), f.percent))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewFiles() string {
	var b strings.Builder
	for _, f := range m.files {
		b.WriteString(m.styles.Box.Render(m.viewFile(f)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewFile(f *fileState) string {
	name := truncate(f.name(), 48)
	switch f.status {
	case statusEncoding:
		return m.styles.Encoding.Render("▸ "+name) + "  " + m.styles.Info.Render(f.message)
	case statusDone:
		return m.styles.Success.Render("✓ " + name)
	case statusFailed:
		return m.styles.Error.Render("✗ "+name) + "  " + m.styles.Faint.Render(truncate(firstLine(f.message), 80))
	case statusCancelled:
		return m.styles.Warning.Render("⊘ " + name + "  Cancelled")
	default:
		return m.styles.Faint.Render("· " + name)
	}
}

func (m Model) viewLogs() string {
	if !m.verbose || len(m.logs) == 0 {
		return ""
	}
	start := len(m.logs) - 5
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	for _, l := range m.logs[start:] {
		b.WriteString(m.styles.Faint.Render(truncate(l, 100)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewSummary() string {
	var ok, failed, cancelled int
	for _, f := range m.files {
		switch f.status {
		case statusDone:
			ok++
		case statusFailed:
			failed++
		case statusCancelled:
			cancelled++
		}
	}
	parts := []string{m.styles.Success.Render(fmt.Sprintf("%d succeeded", ok))}
	if failed > 0 {
		parts = append(parts, m.styles.Error.Render(fmt.Sprintf("%d failed", failed)))
	}
	if cancelled > 0 {
		parts = append(parts, m.styles.Warning.Render(fmt.Sprintf("%d cancelled", cancelled)))
	}
	return strings.Join(parts, ", ") + "\n"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
