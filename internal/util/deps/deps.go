package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ErrToolNotFound is returned when a required external binary cannot be located.
var ErrToolNotFound = errors.New("tool not found")

// windowsDirs are well-known install locations checked after PATH on Windows.
var windowsDirs = []string{
	`C:\ffmpeg\bin`,
	`C:\Program Files\ffmpeg\bin`,
	`C:\Program Files (x86)\ffmpeg\bin`,
}

// FindFFmpeg returns the path to the ffmpeg binary.
// If customPath is non-empty, it tries that path or looks it up in PATH.
func FindFFmpeg(customPath string) (string, error) {
	return find("ffmpeg", customPath)
}

// FindFFprobe returns the path to ffprobe. Lookup order is the explicit path,
// then a sibling of ffmpegPath, then PATH and the well-known install dirs.
func FindFFprobe(customPath, ffmpegPath string) (string, error) {
	if customPath == "" && ffmpegPath != "" {
		sibling := filepath.Join(filepath.Dir(ffmpegPath), exeName("ffprobe"))
		if isFile(sibling) {
			return sibling, nil
		}
	}
	return find("ffprobe", customPath)
}

func find(name, customPath string) (string, error) {
	if customPath != "" {
		if isFile(customPath) {
			return customPath, nil
		}
		if p, err := exec.LookPath(customPath); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("could not find %s at %q: %w", name, customPath, ErrToolNotFound)
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	if runtime.GOOS == "windows" {
		for _, dir := range windowsDirs {
			p := filepath.Join(dir, exeName(name))
			if isFile(p) {
				return p, nil
			}
		}
	}
	return "", fmt.Errorf("could not find %s in PATH, please install ffmpeg: %w", name, ErrToolNotFound)
}

func exeName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
