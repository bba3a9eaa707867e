// Package media defines the items a playlist can hold.
package media

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the concrete type behind an Item.
type Kind string

const (
	// KindSong is the only item kind currently defined.
	KindSong Kind = "SONG"
)

// ErrMalformedLine is returned when a serialized line cannot be parsed.
var ErrMalformedLine = errors.New("malformed media line")

// Item is the capability set shared by every playlist entry.
type Item interface {
	Kind() Kind
	Title() string
	MatchesTitle(query string) bool
	Render() string
	Serialize() string
	Clone() Item
}

// ParseLine turns a canonical serialized line back into an Item.
//
// Fields are split on commas without unescaping, so titles or artists that
// contain a comma do not survive a save/load cycle.
func ParseLine(line string) (Item, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, ",")
	if len(fields) == 0 || fields[0] == "" {
		return nil, fmt.Errorf("%w: empty line", ErrMalformedLine)
	}

	switch Kind(fields[0]) {
	case KindSong:
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: expected 4 fields, got %d", ErrMalformedLine, len(fields))
		}
		minutes, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: duration %q", ErrMalformedLine, fields[3])
		}
		return NewSong(fields[1], fields[2], minutes), nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrMalformedLine, fields[0])
	}
}
