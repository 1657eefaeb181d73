package link

import (
	"bytes"
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type numberMsg int

func TestSendReturnsWithoutRunningWork(t *testing.T) {
	l := New(nil)
	ran := false

	cmd := l.Send(func(context.Context) tea.Msg {
		ran = true
		return numberMsg(1)
	})

	require.NotNil(t, cmd)
	assert.False(t, ran, "work must not run until the runtime executes the command")
	assert.Equal(t, int64(1), l.Pending())

	msg := cmd()
	assert.True(t, ran)
	assert.Equal(t, numberMsg(1), msg)
	assert.Equal(t, int64(0), l.Pending())
	assert.Equal(t, int64(1), l.Delivered())
}

func TestSendCapturesInputsByValue(t *testing.T) {
	l := New(nil)
	id := "oslobysykkel.no"

	captured := id
	cmd := l.Send(func(context.Context) tea.Msg {
		return captured
	})
	id = "bergenbysykkel.no"

	assert.Equal(t, "oslobysykkel.no", cmd())
	assert.Equal(t, "bergenbysykkel.no", id)
}

func TestSendBatchPreservesOrder(t *testing.T) {
	l := New(nil)

	cmd := l.SendBatch(func(context.Context) []tea.Msg {
		return []tea.Msg{numberMsg(1), numberMsg(2), numberMsg(3)}
	})

	msg := cmd()
	batch, ok := msg.(BatchMsg)
	require.True(t, ok)
	assert.Equal(t, BatchMsg{numberMsg(1), numberMsg(2), numberMsg(3)}, batch)
	assert.Equal(t, int64(0), l.Pending())
}

func TestPanickingWorkLeaks(t *testing.T) {
	var buf bytes.Buffer
	l := New(log.New(&buf))

	cmd := l.Send(func(context.Context) tea.Msg {
		panic("decoder exploded")
	})

	assert.NotPanics(t, func() {
		assert.Nil(t, cmd(), "no message is delivered for aborted work")
	})
	assert.Equal(t, int64(1), l.Pending(), "leaked registration is never cleaned up")
	assert.Equal(t, int64(0), l.Delivered())
	assert.Contains(t, buf.String(), "decoder exploded")
}

func TestPanickingBatchLeaks(t *testing.T) {
	l := New(nil)

	cmd := l.SendBatch(func(context.Context) []tea.Msg {
		panic("boom")
	})

	assert.Nil(t, cmd())
	assert.Equal(t, int64(1), l.Pending())
}

func TestApplyFoldsInOrder(t *testing.T) {
	var seen []int
	update := func(sum int, msg tea.Msg) (int, tea.Cmd) {
		n := int(msg.(numberMsg))
		seen = append(seen, n)
		return sum*10 + n, nil
	}

	sum, cmd := Apply(0, BatchMsg{numberMsg(1), numberMsg(2), numberMsg(3)}, update)
	assert.Equal(t, 123, sum)
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Nil(t, cmd)
}
