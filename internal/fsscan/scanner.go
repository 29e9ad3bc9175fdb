package fsscan

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/nao1215/picgc/internal/model"
)

// Scanner lists regular files and checks their existence.
type Scanner struct {
	fs afero.Fs
}

// New returns a Scanner over fs. A nil fs means the OS file system.
func New(fs afero.Fs) *Scanner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Scanner{fs: fs}
}

// Fs returns the underlying file system.
func (s *Scanner) Fs() afero.Fs {
	return s.fs
}

// Scan returns the regular files directly under root, sorted by name, with
// their size at listing time. Subdirectories are not descended into and
// symlinks or other special files are skipped.
func (s *Scanner) Scan(root string) ([]model.DirEntry, error) {
	infos, err := afero.ReadDir(s.fs, root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	entries := make([]model.DirEntry, 0, len(infos))
	for _, info := range infos {
		if !info.Mode().IsRegular() {
			continue
		}
		entries = append(entries, model.DirEntry{
			Path: filepath.Join(root, info.Name()),
			Size: info.Size(),
		})
	}
	return entries, nil
}

// FileExists reports whether path exists and is not a directory.
func (s *Scanner) FileExists(path string) bool {
	info, err := s.fs.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
