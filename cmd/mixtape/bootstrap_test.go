package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixtape/internal/app/playlists"
	"mixtape/internal/store"
)

func TestBootstrapDemoPlaylists(t *testing.T) {
	st := store.New(5, 3)
	svc := playlists.New(st, playlists.Options{})

	require.NoError(t, bootstrapDemoPlaylists(context.Background(), svc))

	assert.Equal(t, len(demoPlaylists), st.Len())
	late, err := st.Playlist(1)
	require.NoError(t, err)
	// capacity 3 drops the fourth demo song
	assert.Equal(t, 3, late.Size())
}

func TestBootstrapDemoPlaylistsStoreFull(t *testing.T) {
	st := store.New(1, 3)
	svc := playlists.New(st, playlists.Options{})

	err := bootstrapDemoPlaylists(context.Background(), svc)
	assert.ErrorIs(t, err, store.ErrStoreFull)
}
