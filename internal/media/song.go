package media

import (
	"fmt"
	"strconv"
)

const unknownField = "Unknown"

// Song is a title/artist/duration record.
type Song struct {
	title    string
	artist   string
	duration float64 // minutes
}

// NewSong builds a song. The duration is stored as given.
func NewSong(title, artist string, durationMinutes float64) *Song {
	return &Song{title: title, artist: artist, duration: durationMinutes}
}

// DefaultSong returns the placeholder used before an interactive fill-in.
func DefaultSong() *Song {
	return NewSong(unknownField, unknownField, 0)
}

func (s *Song) Kind() Kind { return KindSong }

func (s *Song) Title() string { return s.title }

// Artist returns the performing artist.
func (s *Song) Artist() string { return s.artist }

// DurationMinutes returns the song length in minutes.
func (s *Song) DurationMinutes() float64 { return s.duration }

// MatchesTitle reports an exact, case-sensitive title match.
func (s *Song) MatchesTitle(query string) bool {
	return s.title == query
}

// Render formats the song for display.
func (s *Song) Render() string {
	return fmt.Sprintf("Title: %s\nArtist: %s\nDuration: %s min", s.title, s.artist, formatMinutes(s.duration))
}

// Serialize returns the canonical line: SONG,<title>,<artist>,<duration>.
func (s *Song) Serialize() string {
	return fmt.Sprintf("%s,%s,%s,%s", KindSong, s.title, s.artist, formatMinutes(s.duration))
}

// SerializeTitle returns the legacy title-only line.
func (s *Song) SerializeTitle() string {
	return "Title: " + s.title
}

func (s *Song) Clone() Item {
	clone := *s
	return &clone
}

// SetTitle is used by the fill-in step; items are otherwise fixed after creation.
func (s *Song) SetTitle(title string) { s.title = title }

// SetArtist is used by the fill-in step.
func (s *Song) SetArtist(artist string) { s.artist = artist }

// SetDurationMinutes is used by the fill-in step.
func (s *Song) SetDurationMinutes(minutes float64) { s.duration = minutes }

// formatMinutes renders durations with two fixed decimals.
func formatMinutes(minutes float64) string {
	return strconv.FormatFloat(minutes, 'f', 2, 64)
}
