package loader

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hsbacot/bysykkel/fetch"
	"github.com/hsbacot/bysykkel/link"
	"golang.org/x/sync/errgroup"
)

// maxParallel bounds the requests a single LoadAll keeps in flight
const maxParallel = 4

// Group tracks the same resource for a set of ids, loaded together
type Group[T any] struct {
	name   string
	link   *link.Link
	fetch  FetchFunc[T]
	ids    []string
	states map[string]fetch.State[T]
}

// NewGroup creates a group with no ids loaded
func NewGroup[T any](name string, l *link.Link, fn FetchFunc[T]) Group[T] {
	return Group[T]{
		name:   name,
		link:   l,
		fetch:  fn,
		states: map[string]fetch.State[T]{},
	}
}

// IDs returns the ids of the last LoadAll in request order
func (g Group[T]) IDs() []string {
	return g.ids
}

// State returns the state of id, NotFetching when unknown
func (g Group[T]) State(id string) fetch.State[T] {
	return g.states[id]
}

// LoadAll moves every id to Fetching and schedules one batch that resolves
// to a StateMsg per id, in the order given.
func (g Group[T]) LoadAll(ids []string) (Group[T], tea.Cmd) {
	if len(ids) == 0 {
		return g, nil
	}
	g.ids = append([]string(nil), ids...)
	states := make(map[string]fetch.State[T], len(g.states)+len(ids))
	for id, s := range g.states {
		states[id] = s
	}
	for _, id := range ids {
		states[id] = fetch.Fetching[T]()
	}
	g.states = states

	return g, g.link.SendBatch(batchWork(g.name, g.ids, g.fetch))
}

// Update applies completions addressed to this group
func (g Group[T]) Update(msg tea.Msg) (Group[T], tea.Cmd) {
	switch msg := msg.(type) {
	case link.BatchMsg:
		return link.Apply(g, msg, Group[T].Update)
	case StateMsg[T]:
		if msg.Name != g.name {
			return g, nil
		}
		states := make(map[string]fetch.State[T], len(g.states))
		for id, s := range g.states {
			states[id] = s
		}
		states[msg.ID] = msg.State
		g.states = states
	}
	return g, nil
}

func batchWork[T any](name string, ids []string, fn FetchFunc[T]) link.BatchWork {
	ids = append([]string(nil), ids...)
	return func(ctx context.Context) []tea.Msg {
		msgs := make([]tea.Msg, len(ids))

		var (
			eg       errgroup.Group
			mu       sync.Mutex
			panicked any
		)
		eg.SetLimit(maxParallel)
		for i, id := range ids {
			i, id := i, id
			eg.Go(func() error {
				defer func() {
					if r := recover(); r != nil {
						mu.Lock()
						if panicked == nil {
							panicked = r
						}
						mu.Unlock()
					}
				}()
				value, err := fn(ctx, id)
				msgs[i] = StateMsg[T]{Name: name, ID: id, State: fetch.FromResult(value, err)}
				return nil
			})
		}
		_ = eg.Wait()

		// A panicking fetch aborts the whole batch on the command goroutine,
		// where the link leaks the registration.
		if panicked != nil {
			panic(panicked)
		}
		return msgs
	}
}
