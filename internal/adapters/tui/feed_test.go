package tui_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vito/progrock"
	"go.trai.ch/xform/internal/adapters/tui"
)

func TestFeed_ReadsInOrderThenEOF(t *testing.T) {
	feed := tui.NewFeed()
	first := &progrock.StatusUpdate{Vertexes: []*progrock.Vertex{{Id: "a", Name: "a.js"}}}
	second := &progrock.StatusUpdate{Vertexes: []*progrock.Vertex{{Id: "b", Name: "b.js"}}}

	require.NoError(t, feed.WriteStatus(first))
	require.NoError(t, feed.WriteStatus(second))
	require.NoError(t, feed.Close())

	got, err := feed.Read()
	require.NoError(t, err)
	assert.Same(t, first, got)

	got, err = feed.Read()
	require.NoError(t, err)
	assert.Same(t, second, got)

	_, err = feed.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFeed_WriteAfterCloseDoesNotBlock(t *testing.T) {
	feed := tui.NewFeed()
	require.NoError(t, feed.Close())
	require.NoError(t, feed.Close())

	for range 1000 {
		require.NoError(t, feed.WriteStatus(&progrock.StatusUpdate{}))
	}
}

func TestFeed_RecorderWritesReachReader(t *testing.T) {
	feed := tui.NewFeed()
	rec := progrock.NewRecorder(feed)

	v := rec.Vertex("id-1", "src/app.js")
	v.Done(nil)
	require.NoError(t, feed.Close())

	seen := map[string]bool{}
	for {
		u, err := feed.Read()
		if err != nil {
			break
		}
		for _, vtx := range u.Vertexes {
			seen[vtx.Name] = true
		}
	}
	assert.True(t, seen["src/app.js"])
}
