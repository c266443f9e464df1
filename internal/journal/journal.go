// Package journal is an optional, append-only record of specialization
// and ambiguity events, backed by a pure-Go (cgo-free) sqlite database.
// It is never consulted on the dispatch hot path: only MethodTable's
// AddMethod (each ambiguity, found before the new method is linked in)
// and publish (each specialization, after its cache entry is installed)
// append to it.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS specializations (
	id TEXT PRIMARY KEY,
	method_uid INTEGER NOT NULL,
	signature TEXT NOT NULL,
	cache_key TEXT NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS ambiguities (
	id TEXT PRIMARY KEY,
	sig_a TEXT NOT NULL,
	sig_b TEXT NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);
`

// Journal appends specialization and ambiguity events to a sqlite
// database for offline inspection (gfctl inspect prints the latest
// specializations and the ambiguity count).
type Journal struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database handle.
func (j *Journal) Close() error { return j.db.Close() }

// RecordSpecialization appends a cache_method decision: the method UID,
// its original signature, and the generalized key published to the
// cache. Returns the UUID correlation id assigned to the row.
func (j *Journal) RecordSpecialization(ctx context.Context, methodUID uint64, signature, cacheKey string) (string, error) {
	id := uuid.NewString()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO specializations (id, method_uid, signature, cache_key, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		id, methodUID, signature, cacheKey, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("recording specialization: %w", err)
	}
	return id, nil
}

// RecordAmbiguity appends an ambiguity warning fired at AddMethod time.
func (j *Journal) RecordAmbiguity(ctx context.Context, sigA, sigB string) (string, error) {
	id := uuid.NewString()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO ambiguities (id, sig_a, sig_b, recorded_at) VALUES (?, ?, ?, ?)`,
		id, sigA, sigB, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("recording ambiguity: %w", err)
	}
	return id, nil
}

// SpecializationEvent is one row read back from the journal.
type SpecializationEvent struct {
	ID         string
	MethodUID  uint64
	Signature  string
	CacheKey   string
	RecordedAt time.Time
}

// TailSpecializations returns the most recent n specialization events,
// newest first.
func (j *Journal) TailSpecializations(ctx context.Context, n int) ([]SpecializationEvent, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, method_uid, signature, cache_key, recorded_at FROM specializations ORDER BY recorded_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying specializations: %w", err)
	}
	defer rows.Close()

	var out []SpecializationEvent
	for rows.Next() {
		var e SpecializationEvent
		if err := rows.Scan(&e.ID, &e.MethodUID, &e.Signature, &e.CacheKey, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning specialization row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AmbiguityEvent is one row read back from the journal's ambiguities
// table.
type AmbiguityEvent struct {
	ID         string
	SigA       string
	SigB       string
	RecordedAt time.Time
}

// Ambiguous returns every recorded ambiguity warning, newest first.
func (j *Journal) Ambiguous(ctx context.Context) ([]AmbiguityEvent, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, sig_a, sig_b, recorded_at FROM ambiguities ORDER BY recorded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying ambiguities: %w", err)
	}
	defer rows.Close()

	var out []AmbiguityEvent
	for rows.Next() {
		var e AmbiguityEvent
		if err := rows.Scan(&e.ID, &e.SigA, &e.SigB, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning ambiguity row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
