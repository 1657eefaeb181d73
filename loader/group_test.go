package loader

import (
	"context"
	"strings"
	"testing"

	"github.com/hsbacot/bysykkel/fetch"
	"github.com/hsbacot/bysykkel/link"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupLoadAll(t *testing.T) {
	g := NewGroup("overview", link.New(nil), func(_ context.Context, id string) (string, error) {
		if strings.HasPrefix(id, "bad") {
			return "", fetch.Serialization(nil, "broken feed")
		}
		return "payload:" + id, nil
	})
	ids := []string{"oslobysykkel.no", "bad.example", "bergenbysykkel.no"}

	g, cmd := g.LoadAll(ids)
	require.NotNil(t, cmd)
	for _, id := range ids {
		assert.True(t, g.State(id).IsFetching(), id)
	}
	assert.Equal(t, ids, g.IDs())

	batch, ok := cmd().(link.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 3)
	for i, msg := range batch {
		assert.Equal(t, ids[i], msg.(StateMsg[string]).ID, "batch keeps request order")
	}

	g, _ = g.Update(batch)
	v, ok := g.State("oslobysykkel.no").Value()
	require.True(t, ok)
	assert.Equal(t, "payload:oslobysykkel.no", v)
	assert.True(t, fetch.IsSerialization(g.State("bad.example").Err()))
	assert.True(t, g.State("bergenbysykkel.no").IsSuccess())
}

func TestGroupEmptyLoadIsNoop(t *testing.T) {
	g := NewGroup("overview", link.New(nil), echoFetch)
	g, cmd := g.LoadAll(nil)
	assert.Nil(t, cmd)
	assert.Empty(t, g.IDs())
	assert.True(t, g.State("anything").IsNotFetching())
}

func TestGroupIgnoresOtherNames(t *testing.T) {
	g := NewGroup("overview", link.New(nil), echoFetch)
	g, _ = g.LoadAll([]string{"a"})

	g, _ = g.Update(StateMsg[string]{Name: name, ID: "a", State: fetch.Success("x")})
	assert.True(t, g.State("a").IsFetching())
}

func TestGroupCopiesStateOnWrite(t *testing.T) {
	g := NewGroup("overview", link.New(nil), echoFetch)
	before, cmd := g.LoadAll([]string{"a"})

	after, _ := before.Update(cmd())
	assert.True(t, before.State("a").IsFetching(), "earlier model values are not mutated")
	assert.True(t, after.State("a").IsSuccess())
}

func TestGroupPanickingFetchLeaks(t *testing.T) {
	l := link.New(nil)
	g := NewGroup("overview", l, func(_ context.Context, id string) (string, error) {
		if id == "b" {
			panic("decoder exploded")
		}
		return id, nil
	})

	g, cmd := g.LoadAll([]string{"a", "b", "c"})
	require.NotNil(t, cmd)

	var msg any
	require.NotPanics(t, func() { msg = cmd() })
	assert.Nil(t, msg, "no batch is delivered")
	assert.Equal(t, int64(1), l.Pending(), "the registration stays pending")
	assert.Equal(t, int64(0), l.Delivered())
	for _, id := range []string{"a", "b", "c"} {
		assert.True(t, g.State(id).IsFetching(), id)
	}
}
