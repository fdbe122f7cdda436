package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	kerrors "github.com/mrz1836/kodarch/internal/errors"
)

// MenuWidth is the width of interactive menus.
const MenuWidth = 72

// Choice is one selectable entry.
type Choice struct {
	// Label is the display text.
	Label string
	// Description is appended to the label when set.
	Description string
	// Value is returned when the entry is selected.
	Value string
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Theme returns a Huh theme using the kodarch colors.
func Theme() *huh.Theme {
	CheckNoColor()

	t := huh.ThemeBase()
	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorSuccess)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	return t
}

// Select shows a single-choice menu and returns the selected value.
// It returns ErrInteractiveRequired without a terminal and
// ErrOperationCanceled when the user aborts.
func Select(title string, choices []Choice, initial string) (string, error) {
	if !IsInteractive() {
		return "", kerrors.ErrInteractiveRequired
	}

	opts := make([]huh.Option[string], 0, len(choices))
	for _, c := range choices {
		label := c.Label
		if c.Description != "" {
			label += " - " + c.Description
		}
		opts = append(opts, huh.NewOption(label, c.Value))
	}

	selected := initial
	field := huh.NewSelect[string]().
		Title(title).
		Options(opts...).
		Value(&selected)

	_, accessible := os.LookupEnv("ACCESSIBLE")
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(Theme()).
		WithWidth(MenuWidth).
		WithAccessible(accessible)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", kerrors.ErrOperationCanceled
		}
		return "", fmt.Errorf("style picker failed: %w", err)
	}
	return selected, nil
}
