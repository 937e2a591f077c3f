package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lfsynth/internal/imageio"
)

// DefaultPattern names capture i (1-based) as cam001, cam002, ...
const DefaultPattern = "cam%03d"

// Index maps lowercase file stems in a capture directory to paths.
// When a stem exists with several extensions, the one listed first in
// imageio.InputExtensions wins.
type Index struct {
	entries map[string]string
}

// BuildIndex scans dir (non-recursively) for decodable captures.
func BuildIndex(dir string) (*Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("capture: read dir %s: %w", dir, err)
	}

	idx := &Index{entries: make(map[string]string)}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !imageio.IsSupportedInput(ext) {
			continue
		}
		stem := strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		path := filepath.Join(dir, e.Name())

		existing, exists := idx.entries[stem]
		if !exists || extRank(ext) < extRank(filepath.Ext(existing)) {
			idx.entries[stem] = path
		}
	}
	return idx, nil
}

func extRank(ext string) int {
	ext = strings.ToLower(ext)
	for i, e := range imageio.InputExtensions {
		if e == ext {
			return i
		}
	}
	return len(imageio.InputExtensions)
}

// ResolvePath returns the path for a stem such as "cam001", or ("", false).
func (idx *Index) ResolvePath(stem string) (string, bool) {
	path, ok := idx.entries[strings.ToLower(stem)]
	return path, ok
}

// Len returns the number of indexed files.
func (idx *Index) Len() int {
	return len(idx.entries)
}
