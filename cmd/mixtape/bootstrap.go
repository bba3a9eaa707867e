package main

import (
	"context"
	"errors"
	"fmt"

	"mixtape/internal/app/playlists"
	"mixtape/internal/playlist"
)

type seedSong struct {
	Title   string
	Artist  string
	Minutes float64
}

type seedPlaylist struct {
	Name  string
	Songs []seedSong
}

var demoPlaylists = []seedPlaylist{
	{
		Name: "Morning Spins",
		Songs: []seedSong{
			{Title: "Sunrise Echoes", Artist: "Luna Rivers", Minutes: 3.53},
			{Title: "Golden Hour Groove", Artist: "The Vinyl Set", Minutes: 4.13},
			{Title: "Coffeehouse Conversation", Artist: "Muted Tones", Minutes: 3.30},
		},
	},
	{
		Name: "Late Night Depths",
		Songs: []seedSong{
			{Title: "Neon Reflections", Artist: "City Ghosts", Minutes: 4.42},
			{Title: "Echo Chamber", Artist: "Glass Waves", Minutes: 3.88},
			{Title: "Blue Midnight", Artist: "Ella Brooks", Minutes: 4.02},
			{Title: "Starfield", Artist: "Atlas Drift", Minutes: 4.65},
		},
	},
}

// bootstrapDemoPlaylists creates the demo playlists. Songs that do not fit
// the configured capacity are skipped.
func bootstrapDemoPlaylists(ctx context.Context, svc playlists.Service) error {
	for _, seed := range demoPlaylists {
		idx, err := svc.Create(ctx, seed.Name)
		if err != nil {
			return fmt.Errorf("bootstrap playlist %q: %w", seed.Name, err)
		}
		for _, song := range seed.Songs {
			err := svc.AddSong(ctx, idx, song.Title, song.Artist, song.Minutes)
			if errors.Is(err, playlist.ErrPlaylistFull) {
				break
			}
			if err != nil {
				return fmt.Errorf("bootstrap song %q: %w", song.Title, err)
			}
		}
	}
	return nil
}
