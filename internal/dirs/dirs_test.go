package dirs

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestLinuxXDGOverrides(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout is linux-only")
	}
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{name: "config", fn: ConfigDir, want: filepath.Join(base, "cfg", "vidbatch")},
		{name: "data", fn: DataDir, want: filepath.Join(base, "data", "vidbatch")},
		{name: "state", fn: StateDir, want: filepath.Join(base, "state", "vidbatch")},
		{name: "history db", fn: HistoryDBPath, want: filepath.Join(base, "data", "vidbatch", "history.db")},
		{name: "log file", fn: LogFilePath, want: filepath.Join(base, "state", "vidbatch", "vidbatch.log")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if err := EnsureAll(); err != nil {
		t.Fatalf("EnsureAll() error = %v", err)
	}
}

func TestLinuxHomeFallback(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout is linux-only")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", "")

	got, err := DataDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".local", "share", "vidbatch"); got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
}
