// Package pathmap maps stored database paths to filesystem paths and derives
// the base identifier used to join database records with files on disk.
//
// Uploaded files are named after a fixed-width generated identifier
// (typically a 32 character hash) followed by optional variant suffixes and
// an extension. Two files belong to the same resource when the first
// DefaultBaseLength characters of their names match.
package pathmap
