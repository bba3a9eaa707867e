package store

import (
	"errors"
	"fmt"
	"sync"

	"mixtape/internal/playlist"
)

const (
	// DefaultCapacity is the number of playlists a Store holds by default.
	DefaultCapacity = 50
	// DefaultPlaylistCapacity is the number of items a new playlist holds by default.
	DefaultPlaylistCapacity = 10
)

var (
	// ErrStoreFull signals no more playlists can be created.
	ErrStoreFull = errors.New("store is full")
	// ErrInvalidIndex indicates a playlist index outside the created range.
	ErrInvalidIndex = errors.New("invalid playlist index")
)

// Comparison is the outcome of comparing two playlists by item count.
type Comparison int

const (
	Equal Comparison = iota
	FirstLarger
	SecondLarger
)

func (c Comparison) String() string {
	switch c {
	case FirstLarger:
		return "first playlist has more songs"
	case SecondLarger:
		return "second playlist has more songs"
	default:
		return "both playlists have the same number of songs"
	}
}

// Store owns every playlist and hands them out by creation index.
//
// mu guards the registry only: creation, lookup, Names, Compare and
// MergeAndView. The *playlist.Playlist returned by Playlist is shared and
// unsynchronized, so callers that mutate it from more than one goroutine
// must serialize those calls themselves.
type Store struct {
	mu               sync.RWMutex
	capacity         int
	playlistCapacity int
	playlists        []*playlist.Playlist
}

// New sets up an empty Store. Non-positive arguments fall back to the defaults.
func New(capacity, playlistCapacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if playlistCapacity <= 0 {
		playlistCapacity = DefaultPlaylistCapacity
	}
	return &Store{
		capacity:         capacity,
		playlistCapacity: playlistCapacity,
		playlists:        make([]*playlist.Playlist, 0, capacity),
	}
}

// Capacity returns the maximum number of playlists.
func (s *Store) Capacity() int { return s.capacity }

// PlaylistCapacity returns the capacity given to playlists created by name only.
func (s *Store) PlaylistCapacity() int { return s.playlistCapacity }

// Len returns how many playlists exist.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.playlists)
}

// CreatePlaylist appends an empty playlist with the default item capacity.
func (s *Store) CreatePlaylist(name string) (int, error) {
	return s.CreatePlaylistWithCapacity(name, s.playlistCapacity)
}

// CreatePlaylistWithCapacity appends an empty playlist and returns its index.
func (s *Store) CreatePlaylistWithCapacity(name string, capacity int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.playlists) >= s.capacity {
		return -1, fmt.Errorf("create %q: %w", name, ErrStoreFull)
	}
	s.playlists = append(s.playlists, playlist.New(name, capacity))
	return len(s.playlists) - 1, nil
}

// Playlist returns the playlist at index i.
func (s *Store) Playlist(i int) (*playlist.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playlistLocked(i)
}

func (s *Store) playlistLocked(i int) (*playlist.Playlist, error) {
	if i < 0 || i >= len(s.playlists) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrInvalidIndex, i, len(s.playlists))
	}
	return s.playlists[i], nil
}

// Names lists playlist names in index order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.playlists))
	for i, p := range s.playlists {
		names[i] = p.Name()
	}
	return names
}

// Compare orders two playlists by item count only.
func (s *Store) Compare(i, j int) (Comparison, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	first, second, err := s.pairLocked(i, j)
	if err != nil {
		return Equal, err
	}
	switch {
	case first.Size() > second.Size():
		return FirstLarger, nil
	case first.Size() < second.Size():
		return SecondLarger, nil
	default:
		return Equal, nil
	}
}

// MergeAndView builds a merged playlist from i and j. The result is not
// stored; callers display it and drop it.
func (s *Store) MergeAndView(i, j int) (*playlist.Playlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	first, second, err := s.pairLocked(i, j)
	if err != nil {
		return nil, err
	}
	return first.Merge(second), nil
}

func (s *Store) pairLocked(i, j int) (*playlist.Playlist, *playlist.Playlist, error) {
	first, err := s.playlistLocked(i)
	if err != nil {
		return nil, nil, err
	}
	second, err := s.playlistLocked(j)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}
