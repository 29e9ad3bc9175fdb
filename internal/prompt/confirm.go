package prompt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user interrupts a prompt with Ctrl+C.
var ErrAborted = errors.New("aborted by user")

// Confirmer asks yes/no questions on a terminal.
// Zero-value fields mean the process's stdin and stdout.
type Confirmer struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser

	// DefaultYes is the answer for empty input.
	DefaultYes bool
}

// Confirm prompts the user for yes/no confirmation.
// Returns ErrAborted if the user presses Ctrl+C.
func (c Confirmer) Confirm(label string) (bool, error) {
	defaultStr := "y/N"
	if c.DefaultYes {
		defaultStr = "Y/n"
	}

	p := promptui.Prompt{
		Label:     fmt.Sprintf("%s [%s]", label, defaultStr),
		IsConfirm: true,
		Stdin:     c.Stdin,
		Stdout:    c.Stdout,
	}

	result, err := p.Run()
	return interpret(result, err, c.DefaultYes)
}

// interpret maps a promptui confirm result to an answer.
func interpret(result string, err error, defaultYes bool) (bool, error) {
	if err != nil {
		switch {
		case errors.Is(err, promptui.ErrInterrupt):
			return false, ErrAborted
		case errors.Is(err, promptui.ErrAbort):
			// promptui reports "n" as ErrAbort.
			return false, nil
		case result == "":
			return defaultYes, nil
		default:
			return false, err
		}
	}

	switch strings.ToLower(strings.TrimSpace(result)) {
	case "y", "yes":
		return true, nil
	case "":
		return defaultYes, nil
	default:
		return false, nil
	}
}

// Confirm prompts on the terminal with a "no" default.
func Confirm(label string) (bool, error) {
	return Confirmer{}.Confirm(label)
}
