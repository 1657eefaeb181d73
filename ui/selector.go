package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// Select presents an interactive selection menu and returns the chosen value.
// It satisfies the same contract as the TUI selector: candidates in display
// order, an optional current value, and the chosen value reported back.
func Select[T comparable](title string, options []T, selected *T, label func(T) string) (T, error) {
	var zero T
	if len(options) == 0 {
		return zero, errors.New("nothing to select from")
	}
	if label == nil {
		label = func(v T) string { return fmt.Sprint(v) }
	}

	choice := options[0]
	if selected != nil {
		choice = *selected
	}

	opts := make([]huh.Option[T], len(options))
	for i, v := range options {
		opts[i] = huh.NewOption(label(v), v)
	}

	// Create selection form
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[T]().
				Title(title).
				Options(opts...).
				Value(&choice),
		),
	)

	// Run the form
	if err := form.Run(); err != nil {
		return zero, err
	}

	return choice, nil
}
