package main

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/conn-castle/spatialfill/internal/terminal"
)

var (
	runFormFunc      = func(form *huh.Form) error { return form.Run() }
	confirmFunc      = confirm
	isInteractive    = terminal.IsInteractive
	isTerminalWriter = terminal.IsTerminalWriter
	terminalWidth    = terminal.Width
)

// confirm asks a yes/no question; aborting the form counts as no.
func confirm(title string) (bool, error) {
	ok := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Apply").
			Negative("Cancel").
			Value(&ok),
	))
	if err := runFormFunc(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
