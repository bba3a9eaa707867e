// Package archive keeps point-in-time copies of playlists in PostgreSQL.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"mixtape/internal/media"
	"mixtape/internal/playlist"
)

// ErrNotConfigured is returned when no archive database is available.
var ErrNotConfigured = errors.New("archive database not configured")

// Snapshot summarises one archived playlist.
type Snapshot struct {
	ID       uuid.UUID
	Name     string
	Capacity int
	Titles   []string
	SavedAt  time.Time
}

// Archive persists playlist snapshots.
type Archive struct {
	db  *sql.DB
	now func() time.Time
}

// New sets up an Archive using the provided database handle.
func New(db *sql.DB) *Archive {
	return &Archive{db: db, now: func() time.Time { return time.Now().UTC() }}
}

const schema = `
CREATE TABLE IF NOT EXISTS playlist_snapshots (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	capacity INTEGER NOT NULL,
	titles TEXT[] NOT NULL DEFAULT '{}',
	saved_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS playlist_snapshot_items (
	snapshot_id UUID NOT NULL REFERENCES playlist_snapshots(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	kind TEXT NOT NULL,
	line TEXT NOT NULL,
	PRIMARY KEY (snapshot_id, position)
)`

// EnsureSchema creates the snapshot tables when they do not exist.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	if a == nil || a.db == nil {
		return ErrNotConfigured
	}
	if _, err := a.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure archive schema: %w", err)
	}
	return nil
}

// Save stores a copy of p and returns the new snapshot.
func (a *Archive) Save(ctx context.Context, p *playlist.Playlist) (snap Snapshot, err error) {
	if a == nil || a.db == nil {
		return Snapshot{}, ErrNotConfigured
	}
	if p == nil {
		return Snapshot{}, errors.New("playlist is required")
	}

	items := p.Items()
	snap = Snapshot{
		ID:       uuid.New(),
		Name:     p.Name(),
		Capacity: p.Capacity(),
		Titles:   make([]string, len(items)),
		SavedAt:  a.now(),
	}
	for i, item := range items {
		snap.Titles[i] = item.Title()
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO playlist_snapshots (id, name, capacity, titles, saved_at)
		VALUES ($1, $2, $3, $4, $5)`,
		snap.ID.String(), snap.Name, snap.Capacity, pq.Array(snap.Titles), snap.SavedAt,
	); err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}

	if err = insertItemsTx(ctx, tx, snap.ID, items); err != nil {
		return Snapshot{}, err
	}

	if err = tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit snapshot: %w", err)
	}
	return snap, nil
}

func insertItemsTx(ctx context.Context, tx *sql.Tx, id uuid.UUID, items []media.Item) error {
	for i, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO playlist_snapshot_items (snapshot_id, position, kind, line)
			VALUES ($1, $2, $3, $4)`,
			id.String(), i, string(item.Kind()), item.Serialize(),
		); err != nil {
			return fmt.Errorf("insert snapshot item %d: %w", i, err)
		}
	}
	return nil
}

// List returns every snapshot, newest first.
func (a *Archive) List(ctx context.Context) ([]Snapshot, error) {
	if a == nil || a.db == nil {
		return nil, ErrNotConfigured
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT id, name, capacity, titles, saved_at
		FROM playlist_snapshots
		ORDER BY saved_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var (
			snap Snapshot
			id   string
		)
		if err := rows.Scan(&id, &snap.Name, &snap.Capacity, pq.Array(&snap.Titles), &snap.SavedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if snap.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse snapshot id: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// Restore rebuilds the playlist stored under id.
func (a *Archive) Restore(ctx context.Context, id uuid.UUID) (*playlist.Playlist, error) {
	if a == nil || a.db == nil {
		return nil, ErrNotConfigured
	}

	var (
		name     string
		capacity int
	)
	err := a.db.QueryRowContext(ctx, `
		SELECT name, capacity
		FROM playlist_snapshots
		WHERE id = $1`, id.String()).Scan(&name, &capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT line
		FROM playlist_snapshot_items
		WHERE snapshot_id = $1
		ORDER BY position`, id.String())
	if err != nil {
		return nil, fmt.Errorf("list snapshot items: %w", err)
	}
	defer rows.Close()

	p := playlist.New(name, capacity)
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan snapshot item: %w", err)
		}
		item, err := media.ParseLine(line)
		if err != nil {
			return nil, err
		}
		if err := p.AddItem(item); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot items: %w", err)
	}
	return p, nil
}
