package playlists

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"

	"mixtape/internal/archive"
	"mixtape/internal/export"
	"mixtape/internal/logging"
	"mixtape/internal/media"
	"mixtape/internal/playlist"
	"mixtape/internal/store"
)

// Store captures the playlist registry the service works against.
type Store interface {
	CreatePlaylist(name string) (int, error)
	CreatePlaylistWithCapacity(name string, capacity int) (int, error)
	Playlist(i int) (*playlist.Playlist, error)
	Compare(i, j int) (store.Comparison, error)
	MergeAndView(i, j int) (*playlist.Playlist, error)
	Len() int
}

// Archiver persists playlist snapshots outside the process.
type Archiver interface {
	Save(ctx context.Context, p *playlist.Playlist) (archive.Snapshot, error)
	List(ctx context.Context) ([]archive.Snapshot, error)
	Restore(ctx context.Context, id uuid.UUID) (*playlist.Playlist, error)
}

// Summary describes one playlist in the store.
type Summary struct {
	Index    int
	Name     string
	Size     int
	Capacity int
}

// Service coordinates playlist operations.
type Service interface {
	Create(ctx context.Context, name string) (int, error)
	AddSong(ctx context.Context, index int, title, artist string, durationMinutes float64) error
	AddEntered(ctx context.Context, index int, song *media.Song) error
	RemoveLast(ctx context.Context, index int) (media.Item, error)
	Display(ctx context.Context, index int) (iter.Seq[string], error)
	Search(ctx context.Context, index int, title string) (media.Item, bool, error)
	Compare(ctx context.Context, i, j int) (store.Comparison, error)
	MergeAndView(ctx context.Context, i, j int) (*playlist.Playlist, error)
	Save(ctx context.Context, index int) (string, error)
	Import(ctx context.Context, index int, path string) (int, error)
	Archive(ctx context.Context, index int) (archive.Snapshot, error)
	Snapshots(ctx context.Context) ([]archive.Snapshot, error)
	Restore(ctx context.Context, id uuid.UUID) (int, error)
	List(ctx context.Context) ([]Summary, error)
	ArchiveEnabled() bool
}

// Options wires the optional collaborators of the service.
type Options struct {
	Writer   export.Writer
	Journal  export.Journal
	Archiver Archiver
	Logger   *logging.Logger
}

type service struct {
	store    Store
	writer   export.Writer
	journal  export.Journal
	archiver Archiver
	logger   *logging.Logger
}

// New constructs a Service backed by the provided Store.
func New(store Store, opts Options) Service {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &service{
		store:    store,
		writer:   opts.Writer,
		journal:  opts.Journal,
		archiver: opts.Archiver,
		logger:   logger,
	}
}

// IsSoft reports whether err is a failure the caller reports and moves past.
// ErrEmptyPlaylist is deliberately not soft.
func IsSoft(err error) bool {
	return errors.Is(err, playlist.ErrPlaylistFull) ||
		errors.Is(err, store.ErrStoreFull) ||
		errors.Is(err, store.ErrInvalidIndex) ||
		errors.Is(err, export.ErrFileOpen) ||
		errors.Is(err, archive.ErrNotConfigured)
}

func (s *service) observe(ctx context.Context, op string, index int, start time.Time, err error) {
	s.logger.PlaylistOp(ctx, op, index, time.Since(start), err, IsSoft(err))
}

func (s *service) Create(ctx context.Context, name string) (idx int, err error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	start := time.Now()
	idx, err = s.store.CreatePlaylist(name)
	s.observe(ctx, "create", idx, start, err)
	return idx, err
}

func (s *service) AddSong(ctx context.Context, index int, title, artist string, durationMinutes float64) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { s.observe(ctx, "add", index, start, err) }()

	p, err := s.store.Playlist(index)
	if err != nil {
		return err
	}
	return p.AddSong(title, artist, durationMinutes)
}

// AddEntered adds a song filled in interactively. Its title goes to the
// journal whether or not the playlist had room.
func (s *service) AddEntered(ctx context.Context, index int, song *media.Song) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if song == nil {
		return errors.New("song is required")
	}
	start := time.Now()
	defer func() { s.observe(ctx, "add_entered", index, start, err) }()

	p, err := s.store.Playlist(index)
	if err != nil {
		return err
	}
	addErr := p.AddItem(song)
	if jerr := s.journal.Record(song.Title()); jerr != nil {
		s.logger.WithContext(ctx).Warn().Err(jerr).Str("journal", s.journal.Path).Msg("Journal write failed")
	}
	return addErr
}

func (s *service) RemoveLast(ctx context.Context, index int) (item media.Item, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { s.observe(ctx, "remove_last", index, start, err) }()

	p, err := s.store.Playlist(index)
	if err != nil {
		return nil, err
	}
	return p.RemoveLast()
}

func (s *service) Display(ctx context.Context, index int) (iter.Seq[string], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.store.Playlist(index)
	if err != nil {
		return nil, err
	}
	return p.Display(), nil
}

func (s *service) Search(ctx context.Context, index int, title string) (media.Item, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	p, err := s.store.Playlist(index)
	if err != nil {
		return nil, false, err
	}
	item, found := p.Search(title)
	s.logger.WithContext(ctx).Debug().Int("playlist", index).Str("title", title).Bool("found", found).Msg("Search")
	return item, found, nil
}

func (s *service) Compare(ctx context.Context, i, j int) (store.Comparison, error) {
	if err := ctx.Err(); err != nil {
		return store.Equal, err
	}
	return s.store.Compare(i, j)
}

func (s *service) MergeAndView(ctx context.Context, i, j int) (merged *playlist.Playlist, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { s.observe(ctx, "merge", i, start, err) }()

	return s.store.MergeAndView(i, j)
}

func (s *service) Save(ctx context.Context, index int) (path string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	start := time.Now()
	defer func() { s.observe(ctx, "save", index, start, err) }()

	p, err := s.store.Playlist(index)
	if err != nil {
		return "", err
	}
	path, err = s.writer.Save(p)
	if err != nil {
		return path, err
	}
	s.logger.WithFields(map[string]interface{}{
		"playlist_name": p.Name(),
		"path":          path,
		"items":         p.Size(),
		"mode":          string(s.writer.Mode),
	}).Info().Msg("Playlist saved")
	return path, nil
}

// Import loads a saved file into the playlist at index. Items beyond the
// playlist's capacity are dropped and reported with ErrPlaylistFull.
func (s *service) Import(ctx context.Context, index int, path string) (added int, err error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	start := time.Now()
	defer func() { s.observe(ctx, "import", index, start, err) }()

	p, err := s.store.Playlist(index)
	if err != nil {
		return 0, err
	}
	items, err := export.Load(path)
	if err != nil {
		return 0, err
	}
	for i, item := range items {
		if err := p.AddItem(item); err != nil {
			return added, fmt.Errorf("import %s: %d of %d items skipped: %w", path, len(items)-i, len(items), err)
		}
		added++
	}
	return added, nil
}

func (s *service) ArchiveEnabled() bool { return s.archiver != nil }

func (s *service) Archive(ctx context.Context, index int) (snap archive.Snapshot, err error) {
	if err := ctx.Err(); err != nil {
		return archive.Snapshot{}, err
	}
	start := time.Now()
	defer func() { s.observe(ctx, "archive", index, start, err) }()

	if s.archiver == nil {
		return archive.Snapshot{}, archive.ErrNotConfigured
	}
	p, err := s.store.Playlist(index)
	if err != nil {
		return archive.Snapshot{}, err
	}
	return s.archiver.Save(ctx, p)
}

func (s *service) Snapshots(ctx context.Context) ([]archive.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.archiver == nil {
		return nil, archive.ErrNotConfigured
	}
	return s.archiver.List(ctx)
}

// Restore copies an archived snapshot into a new playlist and returns its index.
func (s *service) Restore(ctx context.Context, id uuid.UUID) (idx int, err error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	start := time.Now()
	idx = -1
	defer func() { s.observe(ctx, "restore", idx, start, err) }()

	if s.archiver == nil {
		return -1, archive.ErrNotConfigured
	}
	restored, err := s.archiver.Restore(ctx, id)
	if err != nil {
		return -1, err
	}
	idx, err = s.store.CreatePlaylistWithCapacity(restored.Name(), restored.Capacity())
	if err != nil {
		return -1, err
	}
	p, err := s.store.Playlist(idx)
	if err != nil {
		return -1, err
	}
	for _, item := range restored.Items() {
		if err := p.AddItem(item); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

func (s *service) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := s.store.Len()
	summaries := make([]Summary, 0, n)
	for i := 0; i < n; i++ {
		p, err := s.store.Playlist(i)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, Summary{Index: i, Name: p.Name(), Size: p.Size(), Capacity: p.Capacity()})
	}
	return summaries, nil
}
