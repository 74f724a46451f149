package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"vidbatch/internal/util/media"
)

// InputBase returns the directory every output path is made relative to:
// the parent of a single input, otherwise the longest common path of all
// inputs, falling back to the parent of the first input.
func InputBase(inputs []string) string {
	switch len(inputs) {
	case 0:
		return ""
	case 1:
		return filepath.Dir(inputs[0])
	}
	if common := commonPath(inputs); common != "" {
		return common
	}
	return filepath.Dir(inputs[0])
}

// OutputPaths maps every input to its path under outBase, preserving the
// directory structure below InputBase and forcing the .mp4 extension.
//
// When at least one file sits directly inside the input base, the base's own
// name is kept as a top-level folder so loose files and subfolders end up
// nested consistently. A single file therefore lands under its parent's name.
func OutputPaths(inputs []string, outBase string) []string {
	return OutputPathsFrom(inputs, InputBase(inputs), outBase)
}

// OutputPathsFrom is OutputPaths with an explicit input base. Inputs outside
// base keep only their file name.
func OutputPathsFrom(inputs []string, base, outBase string) []string {
	rels := make([]string, len(inputs))
	flat := false
	for i, in := range inputs {
		rel, ok := relUnder(base, in)
		if !ok {
			rel = filepath.Base(in)
		}
		rels[i] = rel
		if ok && !strings.ContainsRune(rel, filepath.Separator) {
			flat = true
		}
	}

	root := ""
	if flat && isDirLike(base, inputs) {
		root = rootName(base)
	}

	out := make([]string, len(inputs))
	for i, rel := range rels {
		out[i] = filepath.Join(outBase, root, media.WithOutputExt(rel))
	}
	return out
}

// relUnder returns target relative to base, reporting false when target is
// not inside base.
func relUnder(base, target string) (string, bool) {
	rel, err := filepath.Rel(base, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// isDirLike reports whether base is a directory. Paths that do not exist on
// disk count as directories unless base is one of the inputs itself.
func isDirLike(base string, inputs []string) bool {
	if fi, err := os.Stat(base); err == nil {
		return fi.IsDir()
	}
	clean := filepath.Clean(base)
	for _, in := range inputs {
		if filepath.Clean(in) == clean {
			return false
		}
	}
	return true
}

// rootName is the folder name kept for a flat batch, or "" when base has no
// usable name (filesystem root, current directory).
func rootName(base string) string {
	name := filepath.Base(filepath.Clean(base))
	if name == "." || name == ".." || name == string(filepath.Separator) || name == "" {
		return ""
	}
	if vol := filepath.VolumeName(base); vol != "" && strings.TrimSuffix(name, string(filepath.Separator)) == vol {
		return ""
	}
	return name
}

// commonPath returns the longest common directory-component prefix of paths,
// or "" when there is none or absolute and relative paths are mixed.
func commonPath(paths []string) string {
	abs := filepath.IsAbs(paths[0])
	vol := filepath.VolumeName(paths[0])

	var common []string
	for i, p := range paths {
		if filepath.IsAbs(p) != abs || !strings.EqualFold(filepath.VolumeName(p), vol) {
			return ""
		}
		parts := splitPath(filepath.Clean(p)[len(filepath.VolumeName(p)):])
		if i == 0 {
			common = parts
			continue
		}
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
	}

	joined := filepath.Join(common...)
	if abs {
		return vol + string(filepath.Separator) + joined
	}
	return joined
}

func splitPath(p string) []string {
	var parts []string
	for _, s := range strings.Split(p, string(filepath.Separator)) {
		if s != "" && s != "." {
			parts = append(parts, s)
		}
	}
	return parts
}
