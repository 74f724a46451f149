package ui

import (
	"path/filepath"

	"vidbatch/internal/model"
)

type fileStatus int

const (
	statusQueued fileStatus = iota
	statusEncoding
	statusDone
	statusFailed
	statusCancelled
)

type fileState struct {
	path    string
	status  fileStatus
	message string
	percent float64
}

func newFileState(path string) *fileState {
	return &fileState{path: path, message: "Queued"}
}

func (f *fileState) finish(success bool, message string) {
	f.message = message
	switch {
	case success:
		f.status = statusDone
		f.percent = 100
	case message == model.MsgCancelled:
		f.status = statusCancelled
	default:
		f.status = statusFailed
	}
}

func (f *fileState) name() string {
	return filepath.Base(f.path)
}
