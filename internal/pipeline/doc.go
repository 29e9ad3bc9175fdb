// Package pipeline runs a cleanup as a sequence of steps.
//
// A cleanup is count, exists, scan, confirm, sweep and optionally check.
// Every step reads and updates the shared Run state. Steps run strictly in
// order and never overlap: the exists set is complete before the directory
// is scanned, and nothing is removed before both passes have finished.
//
// Cancellation is checked between steps only. A step that has started runs
// to completion, so an interrupt never leaves a half-applied phase behind.
package pipeline
