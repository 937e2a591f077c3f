package capture

import (
	"fmt"
	"os"
	"path/filepath"

	"lfsynth/internal/imageio"
)

// Source yields capture number i, counted from 1 in file-naming order.
type Source interface {
	Load(i int) (*View, error)
}

// DirSource reads captures named by Pattern from a directory.
type DirSource struct {
	Dir     string
	Pattern string
	Ext     string // fixed extension; empty means take whatever the index finds

	index *Index
}

// NewDirSource prepares a source over dir. An empty pattern means
// DefaultPattern. With no fixed ext the directory is indexed once up front.
func NewDirSource(dir, pattern, ext string) (*DirSource, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("capture: %w: %v", ErrResourceLoad, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("capture: %w: %s is not a directory", ErrResourceLoad, dir)
	}

	s := &DirSource{Dir: dir, Pattern: pattern, Ext: ext}
	if ext == "" {
		if s.index, err = BuildIndex(dir); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Name returns the file stem of capture i.
func (s *DirSource) Name(i int) string {
	return fmt.Sprintf(s.Pattern, i)
}

// Path returns the file path of capture i.
func (s *DirSource) Path(i int) (string, bool) {
	stem := s.Name(i)
	if s.index == nil {
		ext := s.Ext
		if ext[0] != '.' {
			ext = "." + ext
		}
		return filepath.Join(s.Dir, stem+ext), true
	}
	return s.index.ResolvePath(stem)
}

// Load decodes capture i.
func (s *DirSource) Load(i int) (*View, error) {
	path, ok := s.Path(i)
	if !ok {
		return nil, fmt.Errorf("%s not found in %s", s.Name(i), s.Dir)
	}
	img, err := imageio.Load(path)
	if err != nil {
		return nil, err
	}
	return NewView(img), nil
}
