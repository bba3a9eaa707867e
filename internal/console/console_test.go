package console

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixtape/internal/app/playlists"
	"mixtape/internal/export"
	"mixtape/internal/playlist"
	"mixtape/internal/store"
)

type harness struct {
	dir   string
	store *store.Store
	svc   playlists.Service
}

func newHarness(t *testing.T, storeCap, playlistCap int) *harness {
	t.Helper()
	dir := t.TempDir()
	st := store.New(storeCap, playlistCap)
	svc := playlists.New(st, playlists.Options{
		Writer:  export.Writer{Dir: dir, Mode: export.ModeOverwrite, Format: playlist.FormatSong},
		Journal: export.Journal{Path: filepath.Join(dir, export.DefaultJournalFile)},
	})
	return &harness{dir: dir, store: st, svc: svc}
}

func (h *harness) run(t *testing.T, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, New(h.svc, in, &out, nil).Run(context.Background()))
	return out.String()
}

func TestRunExitsOnZero(t *testing.T) {
	h := newHarness(t, 2, 2)

	out := h.run(t, "0")

	assert.Contains(t, out, "Welcome to Music Playlist Manager")
	assert.Contains(t, out, "1. Create Playlist")
	assert.Contains(t, out, farewell)
	assert.NotContains(t, out, "Archive Playlist")
}

func TestRunExitsOnEOF(t *testing.T) {
	h := newHarness(t, 2, 2)

	var out bytes.Buffer
	err := New(h.svc, strings.NewReader("1\nHalf"), &out, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), "created at index 0")
	assert.Contains(t, out.String(), farewell)
}

func TestRunInvalidChoice(t *testing.T) {
	h := newHarness(t, 2, 2)

	out := h.run(t, "abc", "42", "0")

	assert.Equal(t, 2, strings.Count(out, "Invalid choice!"))
}

func TestRunRoadTripScenario(t *testing.T) {
	h := newHarness(t, 2, 3)

	out := h.run(t,
		"1", "Road Trip",
		"2", "0", "A", "X", "3.5",
		"2", "0", "B", "Y", "4.0",
		"3", "0",
		"4", "0", "B",
		"8", "0",
		"0",
	)

	assert.Contains(t, out, `Playlist "Road Trip" created at index 0.`)
	assert.Equal(t, 2, strings.Count(out, "Song added successfully!"))
	assert.Contains(t, out, "Song 1:\nTitle: A\nArtist: X\nDuration: 3.50 min")
	assert.Contains(t, out, "Song found!\nTitle: B")
	assert.Contains(t, out, "saved to "+filepath.Join(h.dir, "Road Trip.txt"))

	data, err := os.ReadFile(filepath.Join(h.dir, "Road Trip.txt"))
	require.NoError(t, err)
	assert.Equal(t, "SONG,A,X,3.50\nSONG,B,Y,4.00\n", string(data))

	journal, err := os.ReadFile(filepath.Join(h.dir, export.DefaultJournalFile))
	require.NoError(t, err)
	assert.Equal(t, "A\nB\n", string(journal))
}

func TestRunSoftAndHardFailures(t *testing.T) {
	h := newHarness(t, 1, 1)

	out := h.run(t,
		"1", "Only",
		"1", "Second",
		"5", "0",
		"2", "0", "A", "X", "1",
		"2", "0", "B", "X", "1",
		"2", "7", "C", "X", "1",
		"3", "x",
		"4", "0", "missing",
		"2", "0", "D", "X", "soon",
		"0",
	)

	assert.Contains(t, out, "Cannot create more playlists, the store is full!")
	assert.Contains(t, out, "Error: playlist is empty, nothing to remove.")
	assert.Contains(t, out, "Playlist is full!")
	assert.Equal(t, 2, strings.Count(out, "Invalid playlist index!"))
	assert.Contains(t, out, "Song not found.")
	assert.Contains(t, out, `Error: invalid duration "soon"`)
	assert.Contains(t, out, farewell)
	assert.Equal(t, 1, h.store.Len())
}

func TestRunShowEmptyAndRemove(t *testing.T) {
	h := newHarness(t, 2, 2)

	out := h.run(t,
		"1", "Empty",
		"3", "0",
		"2", "0", "Last", "X", "2",
		"5", "0",
		"0",
	)

	assert.Contains(t, out, playlist.EmptyMessage)
	assert.Contains(t, out, `Removed "Last".`)
}

func TestRunMergeCompareAndList(t *testing.T) {
	h := newHarness(t, 2, 2)

	out := h.run(t,
		"1", "A",
		"1", "B",
		"2", "0", "A1", "X", "1",
		"2", "0", "A2", "X", "1",
		"2", "1", "B1", "Y", "1",
		"6", "0", "1",
		"7", "0", "1",
		"7", "1", "1",
		"10",
		"0",
	)

	assert.Contains(t, out, "----- "+playlist.MergedName+" -----")
	assert.Contains(t, out, "Song 3:\nTitle: B1")
	assert.Contains(t, out, "Result: "+store.FirstLarger.String())
	assert.Contains(t, out, "Result: "+store.Equal.String())
	assert.Contains(t, out, "[0] A (2/2 songs)")
	assert.Contains(t, out, "[1] B (1/2 songs)")
	assert.Equal(t, 2, h.store.Len())
}

func TestRunImport(t *testing.T) {
	h := newHarness(t, 1, 5)
	path := filepath.Join(h.dir, "import.txt")
	require.NoError(t, os.WriteFile(path, []byte("SONG,A,X,3.50\nSONG,B,Y,4.00\n"), 0o644))

	out := h.run(t,
		"1", "Imported",
		"9", "0", path,
		"9", "0", filepath.Join(h.dir, "missing.txt"),
		"0",
	)

	assert.Contains(t, out, "Imported 2 songs.")
	assert.Contains(t, out, "Error opening file!")
	p, err := h.store.Playlist(0)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Size())
}

func TestRunListEmpty(t *testing.T) {
	h := newHarness(t, 1, 1)

	out := h.run(t, "10", "0")

	assert.Contains(t, out, "No playlists yet.")
}

func TestRunAcceptsLongLines(t *testing.T) {
	h := newHarness(t, 2, 2)
	name := strings.Repeat("x", 70000)

	out := h.run(t, "1", name, "1", "Still here", "0")

	assert.Contains(t, out, farewell)
	assert.Equal(t, []string{name, "Still here"}, h.store.Names())
}

func TestRunSkipsOversizedLine(t *testing.T) {
	h := newHarness(t, 2, 2)

	out := h.run(t,
		strings.Repeat("9", MaxLineBytes+10),
		"1", strings.Repeat("y", MaxLineBytes+1),
		"1", "Still here",
		"0",
	)

	assert.Equal(t, 2, strings.Count(out, "Input too long, line skipped."))
	assert.Contains(t, out, farewell)
	assert.Equal(t, []string{"Still here"}, h.store.Names())
}

func TestRunCanceledContextExitsCleanly(t *testing.T) {
	h := newHarness(t, 2, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := New(h.svc, strings.NewReader("1\nNever\n"), &out, nil).Run(ctx)

	require.NoError(t, err)
	assert.Contains(t, out.String(), farewell)
	assert.Equal(t, 0, h.store.Len())
}

func TestRunCancelWhileWaitingForInput(t *testing.T) {
	h := newHarness(t, 2, 2)
	ctx, cancel := context.WithCancel(context.Background())
	in, w := io.Pipe()
	defer w.Close()

	var out bytes.Buffer
	errc := make(chan error, 1)
	go func() { errc <- New(h.svc, in, &out, nil).Run(ctx) }()

	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "Run did not return after cancel")
	}
	assert.Contains(t, out.String(), farewell)
}

func TestRunQuickAddSkipsJournal(t *testing.T) {
	h := newHarness(t, 1, 3)

	out := h.run(t,
		"1", "Mixed",
		"2", "0", "Entered", "X", "3",
		"11", "0", "Quick", "Y", "2.5",
		"3", "0",
		"0",
	)

	assert.Contains(t, out, "11. Quick Add Song (not journaled)")
	assert.Equal(t, 2, strings.Count(out, "Song added successfully!"))
	assert.Contains(t, out, "Song 2:\nTitle: Quick\nArtist: Y\nDuration: 2.50 min")

	journal, err := os.ReadFile(filepath.Join(h.dir, export.DefaultJournalFile))
	require.NoError(t, err)
	assert.Equal(t, "Entered\n", string(journal))
}
