package ui

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

var (
	// ErrNotInteractive is returned when a prompt needs a terminal.
	ErrNotInteractive = errors.New("confirmation requires an interactive terminal; pass --yes to skip it")
	// ErrAborted is returned when the user declines or aborts a prompt.
	ErrAborted = errors.New("aborted by user")
)

// Prompter asks yes/no questions.
type Prompter struct {
	isTerminal func() bool
	run        func(*huh.Form) error
}

// NewPrompter returns a prompter reading from the process terminal.
func NewPrompter() *Prompter {
	return &Prompter{
		isTerminal: func() bool { return IsTerminal(os.Stdin) && IsTerminal(os.Stderr) },
		run:        func(form *huh.Form) error { return form.Run() },
	}
}

// Confirm asks title and returns ErrAborted unless the user agrees.
func (p *Prompter) Confirm(title, description string) error {
	if !p.isTerminal() {
		return ErrNotInteractive
	}

	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithProgramOptions(tea.WithOutput(os.Stderr))

	err := p.run(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}
