// Package dirs resolves the per-user directories vidbatch keeps its files in.
package dirs

import (
	"os"
	"path/filepath"
	"runtime"

	"vidbatch/internal/util"
)

const appName = "vidbatch"

// ConfigDir holds config.{yaml,json,toml}.
// - Linux: $XDG_CONFIG_HOME/vidbatch or ~/.config/vidbatch
// - macOS: ~/Library/Application Support/vidbatch
// - Windows: %AppData%/vidbatch
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", []string{".config"}, func() (string, error) {
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, appName), nil
	})
}

// DataDir holds the history database.
// - Linux: $XDG_DATA_HOME/vidbatch or ~/.local/share/vidbatch
// - macOS: ~/Library/Application Support/vidbatch
// - Windows: %AppData%/vidbatch
func DataDir() (string, error) {
	return resolve("XDG_DATA_HOME", []string{".local", "share"}, func() (string, error) {
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, appName), nil
	})
}

// StateDir holds the log file written while the TUI owns the terminal.
// - Linux: $XDG_STATE_HOME/vidbatch or ~/.local/state/vidbatch
// - macOS: ~/Library/Application Support/vidbatch/state
// - Windows: %LocalAppData%/vidbatch/state
func StateDir() (string, error) {
	if runtime.GOOS == "darwin" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", appName, "state"), nil
	}
	return resolve("XDG_STATE_HOME", []string{".local", "state"}, func() (string, error) {
		if la := os.Getenv("LOCALAPPDATA"); la != "" {
			return filepath.Join(la, appName, "state"), nil
		}
		cfg, err := ConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, "state"), nil
	})
}

// resolve applies the XDG rules on Linux, the Application Support folder on
// macOS and other() everywhere else.
func resolve(xdgEnv string, linuxHome []string, other func() (string, error)) (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "linux":
		if xdg := os.Getenv(xdgEnv); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(append(append([]string{home}, linuxHome...), appName)...), nil
	default:
		return other()
	}
}

// HistoryDBPath is the SQLite file recording finished batches.
func HistoryDBPath() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "history.db"), nil
}

// LogFilePath is where logs go while the TUI is active.
func LogFilePath() (string, error) {
	d, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, appName+".log"), nil
}

// DefaultOutputDir returns "encoded" under the current working directory.
func DefaultOutputDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, "encoded"), nil
}

// EnsureAll ensures config, data and state dirs exist.
func EnsureAll() error {
	for _, fn := range []func() (string, error){ConfigDir, DataDir, StateDir} {
		p, err := fn()
		if err != nil {
			continue
		}
		if err := util.EnsureDir(p); err != nil {
			return err
		}
	}
	return nil
}
