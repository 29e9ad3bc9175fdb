package pathmap

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultFragment is removed from every stored path before it is joined
	// to the storage root.
	DefaultFragment = "/pic/"

	// DefaultBaseLength is the width of a base identifier in characters.
	// Names shorter than this are never treated as generated names.
	DefaultBaseLength = 32
)

// Normalizer converts stored database paths to absolute filesystem paths.
type Normalizer struct {
	// Root is the storage directory stored paths are relative to.
	Root string

	// Fragment is removed wherever it occurs in a stored path.
	Fragment string
}

// NewNormalizer returns a Normalizer for root using DefaultFragment.
func NewNormalizer(root string) Normalizer {
	return Normalizer{Root: root, Fragment: DefaultFragment}
}

// Normalize removes every occurrence of the fragment from storedPath, joins
// the remainder to the root and returns the cleaned absolute path.
// It does not touch the filesystem; the result may not exist.
func (n Normalizer) Normalize(storedPath string) string {
	rel := storedPath
	if n.Fragment != "" {
		rel = strings.ReplaceAll(rel, n.Fragment, "")
	}

	joined := filepath.Join(n.Root, rel)
	abs, err := filepath.Abs(joined)
	if err != nil {
		// Abs only fails when the working directory is unavailable.
		return joined
	}
	return abs
}

// NameWithoutExt returns the last element of path without its extension.
// Only the final extension is removed: "a.tar.gz" becomes "a.tar" and a
// dot file such as ".hidden" becomes "".
func NameWithoutExt(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// BaseIdentifier returns the first length characters of name and true.
// When name is shorter than length it returns name and false; such names are
// not eligible for orphan classification.
func BaseIdentifier(name string, length int) (string, bool) {
	if length <= 0 {
		return name, true
	}
	if utf8.RuneCountInString(name) < length {
		return name, false
	}

	i := 0
	for pos := range name {
		if i == length {
			return name[:pos], true
		}
		i++
	}
	return name, true
}

// BaseIdentifierOf is BaseIdentifier applied to NameWithoutExt(path).
func BaseIdentifierOf(path string, length int) (string, bool) {
	return BaseIdentifier(NameWithoutExt(path), length)
}
