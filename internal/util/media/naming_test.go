package media

import "testing"

func TestIsVideoFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.mp4", true},
		{"b.MKV", true},
		{"dir/c.Mts", true},
		{"clip.3gp", true},
		{"notes.txt", false},
		{"noext", false},
		{"archive.mp4.zip", false},
	}
	for _, tt := range tests {
		if got := IsVideoFile(tt.path); got != tt.want {
			t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWithOutputExt(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"sub/a.mkv", "sub/a.mp4"},
		{"b.mp4", "b.mp4"},
		{"c", "c.mp4"},
		{"my.movie.avi", "my.movie.mp4"},
	}
	for _, tt := range tests {
		if got := WithOutputExt(tt.in); got != tt.want {
			t.Errorf("WithOutputExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
