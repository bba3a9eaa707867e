// Package console runs the interactive playlist menu over any reader/writer pair.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"mixtape/internal/app/playlists"
	"mixtape/internal/archive"
	"mixtape/internal/export"
	"mixtape/internal/logging"
	"mixtape/internal/media"
	"mixtape/internal/playlist"
	"mixtape/internal/store"
)

const (
	banner   = "\n--- Welcome to Music Playlist Manager ---\n"
	farewell = "Exiting Music Playlist Manager..."

	// MaxLineBytes bounds a single input line. Longer lines are discarded.
	MaxLineBytes = 1 << 20
)

// ErrInputTooLong is reported for an input line over MaxLineBytes.
var ErrInputTooLong = errors.New("input line too long")

type inputLine struct {
	text string
	err  error
}

type action struct {
	label string
	run   func(ctx context.Context) error
}

// Console reads menu choices and dispatches them to the playlist service.
type Console struct {
	svc     playlists.Service
	in      *bufio.Reader
	lines   chan inputLine
	out     io.Writer
	logger  *logging.Logger
	actions map[int]action
}

// New wires a Console. A nil logger discards diagnostics.
func New(svc playlists.Service, in io.Reader, out io.Writer, logger *logging.Logger) *Console {
	if logger == nil {
		logger = logging.Nop()
	}
	c := &Console{
		svc:    svc,
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
	c.actions = map[int]action{
		1:  {"Create Playlist", c.createPlaylist},
		2:  {"Add Song", c.addSong},
		3:  {"Show Playlist", c.showPlaylist},
		4:  {"Search Song", c.searchSong},
		5:  {"Remove Last Song", c.removeLast},
		6:  {"Merge and View Playlists", c.mergeAndView},
		7:  {"Compare Playlists", c.compare},
		8:  {"Save Playlist to File", c.save},
		9:  {"Import Playlist from File", c.importFile},
		10: {"List Playlists", c.list},
		11: {"Quick Add Song (not journaled)", c.quickAdd},
	}
	if svc.ArchiveEnabled() {
		c.actions[12] = action{"Archive Playlist to Database", c.archive}
		c.actions[13] = action{"Restore Playlist from Database", c.restore}
	}
	return c
}

// Run loops until the user exits, input ends or ctx is canceled.
func (c *Console) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	c.lines = make(chan inputLine)
	go c.readLines(done)

	c.println(banner)
	for {
		if ctx.Err() != nil {
			c.println(farewell)
			return nil
		}
		c.printMenu()

		line, err := c.readLine(ctx, "Enter your choice: ")
		if errors.Is(err, ErrInputTooLong) {
			c.report(ctx, err)
			continue
		}
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			c.println(farewell)
			return nil
		}
		if err != nil {
			return err
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			c.println("Invalid choice!")
			continue
		}
		if choice == 0 {
			c.println(farewell)
			return nil
		}

		act, ok := c.actions[choice]
		if !ok {
			c.println("Invalid choice!")
			continue
		}
		if err := act.run(ctx); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				c.println(farewell)
				return nil
			}
			c.report(ctx, err)
		}
	}
}

func (c *Console) printMenu() {
	c.println("\n=========== MUSIC PLAYLIST MANAGER ===========")
	for _, i := range slices.Sorted(maps.Keys(c.actions)) {
		c.printf("%d. %s\n", i, c.actions[i].label)
	}
	c.println("0. Exit")
}

// report prints a notice for soft failures and an error line for everything else.
func (c *Console) report(ctx context.Context, err error) {
	switch {
	case errors.Is(err, playlist.ErrPlaylistFull):
		c.println("Playlist is full!")
	case errors.Is(err, store.ErrStoreFull):
		c.println("Cannot create more playlists, the store is full!")
	case errors.Is(err, store.ErrInvalidIndex):
		c.println("Invalid playlist index!")
	case errors.Is(err, export.ErrFileOpen):
		c.println("Error opening file!")
	case errors.Is(err, archive.ErrNotConfigured):
		c.println("Archive database is not configured.")
	case errors.Is(err, ErrInputTooLong):
		c.println("Input too long, line skipped.")
		return
	case errors.Is(err, playlist.ErrEmptyPlaylist):
		c.println("Error: playlist is empty, nothing to remove.")
	default:
		c.printf("Error: %v\n", err)
	}
	if !playlists.IsSoft(err) {
		c.logger.WithContext(ctx).Error().Err(err).Msg("Menu action failed")
	}
}

func (c *Console) createPlaylist(ctx context.Context) error {
	name, err := c.readLine(ctx, "Enter playlist name: ")
	if err != nil {
		return err
	}
	idx, err := c.svc.Create(ctx, name)
	if err != nil {
		return err
	}
	c.printf("Playlist %q created at index %d.\n", name, idx)
	return nil
}

func (c *Console) addSong(ctx context.Context) error {
	idx, err := c.readIndex(ctx, "Enter playlist index: ")
	if err != nil {
		return err
	}
	song := media.DefaultSong()
	if err := c.fillIn(ctx, song); err != nil {
		return err
	}
	if err := c.svc.AddEntered(ctx, idx, song); err != nil {
		return err
	}
	c.println("Song added successfully!")
	return nil
}

// quickAdd adds a song from its fields directly, skipping the journal.
func (c *Console) quickAdd(ctx context.Context) error {
	idx, err := c.readIndex(ctx, "Enter playlist index: ")
	if err != nil {
		return err
	}
	song := media.DefaultSong()
	if err := c.fillIn(ctx, song); err != nil {
		return err
	}
	if err := c.svc.AddSong(ctx, idx, song.Title(), song.Artist(), song.DurationMinutes()); err != nil {
		return err
	}
	c.println("Song added successfully!")
	return nil
}

// fillIn prompts for every song field.
func (c *Console) fillIn(ctx context.Context, song *media.Song) error {
	title, err := c.readLine(ctx, "Enter song title: ")
	if err != nil {
		return err
	}
	artist, err := c.readLine(ctx, "Enter artist name: ")
	if err != nil {
		return err
	}
	raw, err := c.readLine(ctx, "Enter duration (in minutes): ")
	if err != nil {
		return err
	}
	minutes, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q", raw)
	}
	song.SetTitle(title)
	song.SetArtist(artist)
	song.SetDurationMinutes(minutes)
	return nil
}

func (c *Console) showPlaylist(ctx context.Context) error {
	idx, err := c.readIndex(ctx, "Enter playlist index: ")
	if err != nil {
		return err
	}
	entries, err := c.svc.Display(ctx, idx)
	if err != nil {
		return err
	}
	c.println("\n----- Your Playlist -----")
	for entry := range entries {
		c.printf("\n%s\n", entry)
	}
	return nil
}

func (c *Console) searchSong(ctx context.Context) error {
	idx, err := c.readIndex(ctx, "Enter playlist index: ")
	if err != nil {
		return err
	}
	title, err := c.readLine(ctx, "Enter song title to search: ")
	if err != nil {
		return err
	}
	item, found, err := c.svc.Search(ctx, idx, title)
	if err != nil {
		return err
	}
	if !found {
		c.println("Song not found.")
		return nil
	}
	c.printf("\nSong found!\n%s\n", item.Render())
	return nil
}

func (c *Console) removeLast(ctx context.Context) error {
	idx, err := c.readIndex(ctx, "Enter playlist index: ")
	if err != nil {
		return err
	}
	item, err := c.svc.RemoveLast(ctx, idx)
	if err != nil {
		return err
	}
	c.printf("Removed %q.\n", item.Title())
	return nil
}

func (c *Console) mergeAndView(ctx context.Context) error {
	i, j, err := c.readPair(ctx)
	if err != nil {
		return err
	}
	merged, err := c.svc.MergeAndView(ctx, i, j)
	if err != nil {
		return err
	}
	c.printf("\n----- %s -----\n", merged.Name())
	for entry := range merged.Display() {
		c.printf("\n%s\n", entry)
	}
	return nil
}

func (c *Console) compare(ctx context.Context) error {
	i, j, err := c.readPair(ctx)
	if err != nil {
		return err
	}
	cmp, err := c.svc.Compare(ctx, i, j)
	if err != nil {
		return err
	}
	c.printf("Result: %s.\n", cmp)
	return nil
}

func (c *Console) save(ctx context.Context) error {
	idx, err := c.readIndex(ctx, "Enter playlist index: ")
	if err != nil {
		return err
	}
	path, err := c.svc.Save(ctx, idx)
	if err != nil {
		return err
	}
	c.printf("Playlist saved to %s successfully.\n", path)
	return nil
}

func (c *Console) importFile(ctx context.Context) error {
	idx, err := c.readIndex(ctx, "Enter playlist index: ")
	if err != nil {
		return err
	}
	path, err := c.readLine(ctx, "Enter file path: ")
	if err != nil {
		return err
	}
	added, err := c.svc.Import(ctx, idx, strings.TrimSpace(path))
	if added > 0 {
		c.printf("Imported %d songs.\n", added)
	}
	return err
}

func (c *Console) list(ctx context.Context) error {
	summaries, err := c.svc.List(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		c.println("No playlists yet.")
		return nil
	}
	for _, s := range summaries {
		c.printf("[%d] %s (%d/%d songs)\n", s.Index, s.Name, s.Size, s.Capacity)
	}
	return nil
}

func (c *Console) archive(ctx context.Context) error {
	idx, err := c.readIndex(ctx, "Enter playlist index: ")
	if err != nil {
		return err
	}
	snap, err := c.svc.Archive(ctx, idx)
	if err != nil {
		return err
	}
	c.printf("Playlist archived as %s.\n", snap.ID)
	return nil
}

func (c *Console) restore(ctx context.Context) error {
	snapshots, err := c.svc.Snapshots(ctx)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		c.println("No archived playlists.")
		return nil
	}
	for _, snap := range snapshots {
		c.printf("%s  %s (%d songs, %s)\n", snap.ID, snap.Name, len(snap.Titles), snap.SavedAt.Format("2006-01-02 15:04"))
	}
	raw, err := c.readLine(ctx, "Enter snapshot id: ")
	if err != nil {
		return err
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid snapshot id %q", raw)
	}
	idx, err := c.svc.Restore(ctx, id)
	if err != nil {
		return err
	}
	c.printf("Snapshot restored at index %d.\n", idx)
	return nil
}

func (c *Console) readPair(ctx context.Context) (int, int, error) {
	i, err := c.readIndex(ctx, "Enter first playlist index: ")
	if err != nil {
		return 0, 0, err
	}
	j, err := c.readIndex(ctx, "Enter second playlist index: ")
	if err != nil {
		return 0, 0, err
	}
	return i, j, nil
}

// readIndex reads an integer. Anything unparsable is reported as an invalid index.
func (c *Console) readIndex(ctx context.Context, prompt string) (int, error) {
	raw, err := c.readLine(ctx, prompt)
	if err != nil {
		return 0, err
	}
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", store.ErrInvalidIndex, raw)
	}
	return idx, nil
}

// readLine prompts and waits for the next line. A canceled ctx returns
// immediately even while the reader is still blocked.
func (c *Console) readLine(ctx context.Context, prompt string) (string, error) {
	c.printf("%s", prompt)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case in, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return in.text, in.err
	}
}

// readLines feeds c.lines until input ends, a read fails or done is closed.
func (c *Console) readLines(done <-chan struct{}) {
	defer close(c.lines)
	for {
		text, err := c.nextLine()
		if errors.Is(err, io.EOF) {
			return
		}
		select {
		case c.lines <- inputLine{text: text, err: err}:
		case <-done:
			return
		}
		if err != nil && !errors.Is(err, ErrInputTooLong) {
			return
		}
	}
}

// nextLine reads one line without its terminator. Lines over MaxLineBytes
// are consumed in full and reported as ErrInputTooLong.
func (c *Console) nextLine() (string, error) {
	var (
		buf     []byte
		tooLong bool
	)
	for {
		chunk, err := c.in.ReadSlice('\n')
		if len(buf)+len(chunk) > MaxLineBytes {
			tooLong = true
			buf = nil
		} else if !tooLong {
			buf = append(buf, chunk...)
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && (len(buf) > 0 || tooLong) {
			break
		}
		if err != nil {
			return "", err
		}
		break
	}
	if tooLong {
		return "", ErrInputTooLong
	}
	return strings.TrimRight(string(buf), "\r\n"), nil
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(line string) {
	fmt.Fprintln(c.out, line)
}
