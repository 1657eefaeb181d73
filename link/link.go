// Package link bridges deferred asynchronous work into a bubbletea update loop.
//
// Work handed to a Link is wrapped in a tea.Cmd. The bubbletea runtime runs the
// command off the update loop and feeds its result back through the program's
// message queue, so component state is only ever mutated inside Update.
package link

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Work resolves to exactly one message
type Work func(ctx context.Context) tea.Msg

// BatchWork resolves to an ordered sequence of messages
type BatchWork func(ctx context.Context) []tea.Msg

// BatchMsg carries the messages of one BatchWork. The receiving model applies
// them in order within a single update pass, see Apply.
type BatchMsg []tea.Msg

// Link schedules work on behalf of one component tree. There is no way to
// cancel scheduled work: it either delivers or, if it panics, leaks.
type Link struct {
	ctx       context.Context
	logger    *log.Logger
	pending   atomic.Int64
	delivered atomic.Int64
}

// New creates a Link. A nil logger disables leak reporting.
func New(logger *log.Logger) *Link {
	return &Link{
		ctx:    context.Background(),
		logger: logger,
	}
}

// Send registers work that resolves to a single message
func (l *Link) Send(work Work) tea.Cmd {
	l.pending.Add(1)
	return func() tea.Msg {
		msg, ok := l.run(work)
		if !ok {
			return nil
		}
		l.done()
		return msg
	}
}

// SendBatch registers work that resolves to several messages
func (l *Link) SendBatch(work BatchWork) tea.Cmd {
	l.pending.Add(1)
	return func() tea.Msg {
		msg, ok := l.run(func(ctx context.Context) tea.Msg {
			return BatchMsg(work(ctx))
		})
		if !ok {
			return nil
		}
		l.done()
		return msg
	}
}

// Pending reports registrations that have not delivered, leaked ones included
func (l *Link) Pending() int64 {
	return l.pending.Load()
}

// Delivered reports how many registrations produced their message
func (l *Link) Delivered() int64 {
	return l.delivered.Load()
}

func (l *Link) done() {
	l.pending.Add(-1)
	l.delivered.Add(1)
}

// run executes fn and reports false if it panicked. The panic is swallowed and
// the registration is left pending.
func (l *Link) run(fn Work) (msg tea.Msg, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if l.logger != nil {
				l.logger.Error("Deferred work aborted, message will not be delivered",
					"panic", fmt.Sprint(r), "pending", l.pending.Load())
			}
			msg, ok = nil, false
		}
	}()
	return fn(l.ctx), true
}

// Apply folds every message of a batch through update, in order, and
// collects the resulting commands.
func Apply[M any](m M, batch BatchMsg, update func(M, tea.Msg) (M, tea.Cmd)) (M, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, len(batch))
	for _, msg := range batch {
		var cmd tea.Cmd
		m, cmd = update(m, msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}
