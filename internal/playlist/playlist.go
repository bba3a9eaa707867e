package playlist

import (
	"errors"
	"fmt"
	"iter"

	"mixtape/internal/media"
)

// MergedName is the name given to every merged playlist.
const MergedName = "Merged Playlist"

// EmptyMessage is the single entry Display yields for an empty playlist.
const EmptyMessage = "Playlist is empty."

var (
	// ErrPlaylistFull is reported when an add would exceed capacity. Nothing is changed.
	ErrPlaylistFull = errors.New("playlist is full")
	// ErrEmptyPlaylist is returned when removing from a playlist with no items.
	ErrEmptyPlaylist = errors.New("playlist is empty")
)

// Format selects how items are serialized for export.
type Format string

const (
	// FormatSong writes the canonical SONG,<title>,<artist>,<duration> line.
	FormatSong Format = "song"
	// FormatTitle writes the legacy "Title: <title>" line.
	FormatTitle Format = "title"
)

// titleSerializer is implemented by items that support the legacy export.
type titleSerializer interface {
	SerializeTitle() string
}

// Playlist is a named ordered list of media items with a fixed capacity.
type Playlist struct {
	name     string
	capacity int
	items    []media.Item
}

// New creates an empty playlist. Negative capacities are treated as zero.
func New(name string, capacity int) *Playlist {
	if capacity < 0 {
		capacity = 0
	}
	return &Playlist{
		name:     name,
		capacity: capacity,
		items:    make([]media.Item, 0, capacity),
	}
}

func (p *Playlist) Name() string { return p.name }

func (p *Playlist) Capacity() int { return p.capacity }

// Size returns the number of items currently held.
func (p *Playlist) Size() int { return len(p.items) }

// Full reports whether another item would be rejected.
func (p *Playlist) Full() bool { return len(p.items) >= p.capacity }

// AddItem appends item, or returns ErrPlaylistFull without mutating anything.
func (p *Playlist) AddItem(item media.Item) error {
	if item == nil {
		return errors.New("item is required")
	}
	if p.Full() {
		return fmt.Errorf("add %q to %q: %w", item.Title(), p.name, ErrPlaylistFull)
	}
	p.items = append(p.items, item)
	return nil
}

// AddSong builds a song from its fields and adds it.
func (p *Playlist) AddSong(title, artist string, durationMinutes float64) error {
	return p.AddItem(media.NewSong(title, artist, durationMinutes))
}

// RemoveLast removes and returns the most recently added item.
func (p *Playlist) RemoveLast() (media.Item, error) {
	if len(p.items) == 0 {
		return nil, fmt.Errorf("remove from %q: %w", p.name, ErrEmptyPlaylist)
	}
	last := len(p.items) - 1
	item := p.items[last]
	p.items[last] = nil
	p.items = p.items[:last]
	return item, nil
}

// Search returns the first item, by insertion order, whose title matches exactly.
func (p *Playlist) Search(title string) (media.Item, bool) {
	for _, item := range p.items {
		if item.MatchesTitle(title) {
			return item, true
		}
	}
	return nil, false
}

// Display yields one rendered entry per item, or EmptyMessage when there are none.
// The sequence reads current state each time it is ranged over.
func (p *Playlist) Display() iter.Seq[string] {
	return func(yield func(string) bool) {
		if len(p.items) == 0 {
			yield(EmptyMessage)
			return
		}
		for i, item := range p.items {
			if !yield(fmt.Sprintf("Song %d:\n%s", i+1, item.Render())) {
				return
			}
		}
	}
}

// Items returns independent copies of the playlist contents.
func (p *Playlist) Items() []media.Item {
	out := make([]media.Item, len(p.items))
	for i, item := range p.items {
		out[i] = item.Clone()
	}
	return out
}

// Merge returns a new playlist holding clones of p's items followed by other's.
// Neither source is modified. The result is sized to fit exactly.
func (p *Playlist) Merge(other *Playlist) *Playlist {
	merged := New(MergedName, p.Size()+other.Size())
	for _, item := range p.items {
		merged.items = append(merged.items, item.Clone())
	}
	for _, item := range other.items {
		merged.items = append(merged.items, item.Clone())
	}
	return merged
}

// Lines serializes every item in insertion order.
func (p *Playlist) Lines(format Format) []string {
	lines := make([]string, 0, len(p.items))
	for _, item := range p.items {
		if format == FormatTitle {
			if ts, ok := item.(titleSerializer); ok {
				lines = append(lines, ts.SerializeTitle())
				continue
			}
			lines = append(lines, "Title: "+item.Title())
			continue
		}
		lines = append(lines, item.Serialize())
	}
	return lines
}
