package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"mixtape/internal/config"
)

const (
	initialPingBackoff = 250 * time.Millisecond
	maxPingBackoff     = 2 * time.Second
)

// errArchiveUnreachable marks an archive database that never answered a ping.
var errArchiveUnreachable = errors.New("archive database unreachable")

// openArchiveDB opens the archive database and pings it with backoff until it
// answers, cfg.ConnectTimeout elapses or ctx is canceled.
func openArchiveDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	backoff := initialPingBackoff
	for {
		err = db.PingContext(pingCtx)
		if err == nil {
			return db, nil
		}

		wait := time.NewTimer(backoff)
		select {
		case <-pingCtx.Done():
			wait.Stop()
			_ = db.Close()
			return nil, fmt.Errorf("%w after %s: %w", errArchiveUnreachable, cfg.ConnectTimeout, err)
		case <-wait.C:
		}

		backoff = min(backoff*2, maxPingBackoff)
	}
}
