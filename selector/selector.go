// Package selector provides a generic selection control. A control only
// reports what the user picked; it never fetches anything itself.
package selector

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Control is the state every selection control exposes
type Control[T comparable] interface {
	// Options returns the candidate values in display order
	Options() []T
	// Selected returns the chosen value, if any
	Selected() (T, bool)
}

// Config configures a Model
type Config[T comparable] struct {
	Title    string
	Options  []T
	Selected *T
	// Label renders an option; fmt.Sprint is used when nil
	Label func(T) string
	// OnChange produces the message sent whenever the user confirms a value,
	// including the one already selected
	OnChange func(T) tea.Msg
}

type optionItem[T comparable] struct {
	value    T
	label    string
	selected bool
}

func (i optionItem[T]) Title() string {
	if i.selected {
		return "● " + i.label
	}
	return "  " + i.label
}
func (i optionItem[T]) Description() string { return "" }
func (i optionItem[T]) FilterValue() string { return i.label }

// Model is a list-backed selection control
type Model[T comparable] struct {
	list     list.Model
	options  []T
	selected *T
	label    func(T) string
	onChange func(T) tea.Msg
}

var _ Control[string] = Model[string]{}

// New creates a selection control
func New[T comparable](cfg Config[T]) Model[T] {
	label := cfg.Label
	if label == nil {
		label = func(v T) string { return fmt.Sprint(v) }
	}

	m := Model[T]{
		options:  append([]T(nil), cfg.Options...),
		label:    label,
		onChange: cfg.OnChange,
	}
	if cfg.Selected != nil {
		v := *cfg.Selected
		m.selected = &v
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.SetHeight(1)

	// title (2) + items (max 10) + help (2) + padding (2)
	itemCount := len(m.options)
	if itemCount > 10 {
		itemCount = 10
	}
	listHeight := 2 + itemCount + 2 + 2

	l := list.New(m.items(), delegate, 60, listHeight)
	l.Title = cfg.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true).
		MarginLeft(2)
	m.list = l

	if idx := m.selectedIndex(); idx >= 0 {
		m.list.Select(idx)
	}
	return m
}

// Options returns the candidate values in display order
func (m Model[T]) Options() []T {
	return m.options
}

// Selected returns the chosen value, if any
func (m Model[T]) Selected() (T, bool) {
	if m.selected == nil {
		var zero T
		return zero, false
	}
	return *m.selected, true
}

// Update handles navigation and confirmation keys
func (m Model[T]) Update(msg tea.Msg) (Model[T], tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(optionItem[T]); ok {
				return m.choose(item.value)
			}
			return m, nil
		case "q", "esc", "ctrl+c":
			// Quitting belongs to the host
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list
func (m Model[T]) View() string {
	return m.list.View()
}

func (m Model[T]) choose(v T) (Model[T], tea.Cmd) {
	m.selected = &v
	cursor := m.list.Index()
	m.list.SetItems(m.items())
	m.list.Select(cursor)

	if m.onChange == nil {
		return m, nil
	}
	onChange := m.onChange
	return m, func() tea.Msg { return onChange(v) }
}

func (m Model[T]) items() []list.Item {
	items := make([]list.Item, len(m.options))
	for i, v := range m.options {
		items[i] = optionItem[T]{
			value:    v,
			label:    m.label(v),
			selected: m.selected != nil && *m.selected == v,
		}
	}
	return items
}

func (m Model[T]) selectedIndex() int {
	if m.selected == nil {
		return -1
	}
	for i, v := range m.options {
		if v == *m.selected {
			return i
		}
	}
	return -1
}
