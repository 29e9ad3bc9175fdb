// Package prompt asks the user for confirmation before files are removed.
package prompt
