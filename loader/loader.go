// Package loader decides when a resource is fetched and applies the outcome.
//
// A Loader owns the selection and fetch state of one resource. Fetching is
// entered synchronously inside Update; the network call runs as a link
// command and its outcome comes back as a StateMsg. Superseded fetches are not
// cancelled or discarded: whichever completion is applied last wins.
package loader

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hsbacot/bysykkel/fetch"
	"github.com/hsbacot/bysykkel/link"
)

// FetchFunc loads the resource for id
type FetchFunc[T any] func(ctx context.Context, id string) (T, error)

// SelectMsg asks the loader called Name to select ID
type SelectMsg struct {
	Name string
	ID   string
}

// RenderedMsg signals that the view was painted
type RenderedMsg struct {
	First bool
}

// StateMsg delivers a completed fetch to the loader called Name. ID is the
// selection the fetch was started for, which may no longer be current.
type StateMsg[T any] struct {
	Name  string
	ID    string
	State fetch.State[T]
}

// Loader tracks one resource
type Loader[T any] struct {
	name      string
	link      *link.Link
	fetch     FetchFunc[T]
	selection *string
	state     fetch.State[T]
	rendered  bool
}

// New creates an idle loader
func New[T any](name string, l *link.Link, fn FetchFunc[T]) Loader[T] {
	return Loader[T]{
		name:  name,
		link:  l,
		fetch: fn,
		state: fetch.NotFetching[T](),
	}
}

// WithSelection pre-sets the selection. The fetch starts on first render.
func (l Loader[T]) WithSelection(id string) Loader[T] {
	l.selection = &id
	return l
}

// Name returns the routing name of the loader
func (l Loader[T]) Name() string {
	return l.name
}

// State returns the current fetch state
func (l Loader[T]) State() fetch.State[T] {
	return l.state
}

// Selection returns the current selection, if any
func (l Loader[T]) Selection() (string, bool) {
	if l.selection == nil {
		return "", false
	}
	return *l.selection, true
}

// Select records id and starts fetching it. Re-selecting the current id
// fetches again.
func (l Loader[T]) Select(id string) (Loader[T], tea.Cmd) {
	l.selection = &id
	return l.start(id)
}

// Rendered starts the fetch for a pre-set selection on the first render.
// It fires at most once per loader.
func (l Loader[T]) Rendered(first bool) (Loader[T], tea.Cmd) {
	if !first || l.rendered {
		return l, nil
	}
	l.rendered = true
	if l.selection == nil || !l.state.IsNotFetching() {
		return l, nil
	}
	return l.start(*l.selection)
}

// Update applies messages addressed to this loader
func (l Loader[T]) Update(msg tea.Msg) (Loader[T], tea.Cmd) {
	switch msg := msg.(type) {
	case SelectMsg:
		if msg.Name == l.name {
			return l.Select(msg.ID)
		}
	case RenderedMsg:
		return l.Rendered(msg.First)
	case StateMsg[T]:
		if msg.Name == l.name {
			l.state = msg.State
		}
	}
	return l, nil
}

func (l Loader[T]) start(id string) (Loader[T], tea.Cmd) {
	l.state = fetch.Fetching[T]()
	return l, l.link.Send(fetchWork(l.name, id, l.fetch))
}

// fetchWork captures name, id and fn by value; it never touches the loader.
func fetchWork[T any](name, id string, fn FetchFunc[T]) link.Work {
	return func(ctx context.Context) tea.Msg {
		value, err := fn(ctx, id)
		return StateMsg[T]{
			Name:  name,
			ID:    id,
			State: fetch.FromResult(value, err),
		}
	}
}
