package ui

import "vidbatch/internal/progress"

type fileStartMsg struct {
	Index, Total int
	Path         string
}

type fileProgressMsg struct {
	Index, Total int
	Path         string
	Percent      float64
	Message      string
}

type fileLogMsg struct {
	L progress.Log
}

type fileFinishedMsg struct {
	Index, Total int
	Path         string
	Success      bool
	Message      string
}

type batchDoneMsg struct{}
