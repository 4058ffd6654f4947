// Package archive persists the committed intentions. The on-disk form
// mirrors the original single-blob layout: one key/value row whose value
// is the whole newest-first list, read in full on open and rewritten in
// full on every append.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"manifest/internal/intention"
)

// StorageKey is the fixed key the archive blob lives under.
const StorageKey = "quantum_manifest_v5"

// envelopeVersion tags the blob so a future schema change can migrate.
const envelopeVersion = 1

type envelope struct {
	Version    int                   `json:"version"`
	Intentions []intention.Intention `json:"intentions"`
}

// Store is the append-only intention archive. Appends rewrite the whole
// blob synchronously; a crash mid-write is not recovered, only tolerated
// on the next load.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	items  []intention.Intention
	logger *zap.Logger
}

// Open initializes the SQLite database at the given path and loads the
// persisted list. A corrupt or unreadable blob is logged and treated as an
// empty archive, never as a fatal error.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	s.load()
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS manifest_blobs (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create archive schema: %w", err)
	}
	return nil
}

// load reads the persisted blob. Parse failures start an empty archive.
func (s *Store) load() {
	var raw []byte
	err := s.db.QueryRow(
		"SELECT value FROM manifest_blobs WHERE key = ?", StorageKey,
	).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		return
	case err != nil:
		s.logger.Warn("archive read failed, starting empty", zap.Error(err))
		return
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.logger.Warn("archive blob unparseable, starting empty", zap.Error(err))
		return
	}
	s.items = env.Intentions
}

// Append prepends the record and persists the full list before returning.
func (s *Store) Append(it intention.Intention) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]intention.Intention, 0, len(s.items)+1)
	updated = append(updated, it)
	updated = append(updated, s.items...)

	raw, err := json.Marshal(envelope{Version: envelopeVersion, Intentions: updated})
	if err != nil {
		return fmt.Errorf("failed to encode archive: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO manifest_blobs (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		StorageKey, raw,
	)
	if err != nil {
		return fmt.Errorf("failed to persist archive: %w", err)
	}
	s.items = updated
	return nil
}

// List returns the archived intentions newest-first. The slice is a copy;
// callers cannot mutate the archive through it.
func (s *Store) List() []intention.Intention {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]intention.Intention, len(s.items))
	copy(out, s.items)
	return out
}

// Find returns the archived intention with the given id.
func (s *Store) Find(id string) (intention.Intention, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return intention.Intention{}, false
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
