// Package export writes playlists to plain text files and reads them back.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mixtape/internal/media"
	"mixtape/internal/playlist"
)

// DefaultSharedFile is the append-mode target when none is configured.
const DefaultSharedFile = "playlist.txt"

// ErrFileOpen wraps any failure to open the destination file.
var ErrFileOpen = errors.New("error opening file")

// Mode decides whether saves replace or extend the destination.
type Mode string

const (
	// ModeOverwrite writes one file per playlist, named after the playlist.
	ModeOverwrite Mode = "overwrite"
	// ModeAppend adds every save to a single shared file.
	ModeAppend Mode = "append"
)

// Writer saves playlists according to its Mode and Format.
type Writer struct {
	Dir        string
	Mode       Mode
	Format     playlist.Format
	SharedFile string
}

// PathFor returns the file a playlist would be saved to.
func (w Writer) PathFor(p *playlist.Playlist) string {
	if w.Mode == ModeAppend {
		name := w.SharedFile
		if name == "" {
			name = DefaultSharedFile
		}
		return filepath.Join(w.Dir, name)
	}
	return filepath.Join(w.Dir, fileNameFor(p.Name()))
}

// Save writes one line per item in insertion order and returns the path written.
func (w Writer) Save(p *playlist.Playlist) (string, error) {
	path := w.PathFor(p)

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if w.Mode == ModeAppend {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	format := w.Format
	if format == "" {
		format = playlist.FormatSong
	}

	if err := writeLines(path, flags, p.Lines(format)); err != nil {
		return path, err
	}
	return path, nil
}

// Load reads a canonical-format file. Blank lines are skipped.
func Load(path string) ([]media.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFileOpen, path, err)
	}
	defer f.Close()

	var items []media.Item
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		item, err := media.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return items, nil
}

func writeLines(path string, flags int, lines []string) (err error) {
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrFileOpen, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func fileNameFor(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		name = "playlist"
	}
	return name + ".txt"
}
