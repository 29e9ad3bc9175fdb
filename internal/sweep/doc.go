// Package sweep removes orphan files.
package sweep
