// Package history records completed CLI invocations in a local SQLite
// database for the history command.
package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/exa-go/internal/domain"
	"github.com/doeshing/exa-go/internal/ports"
)

// SQLiteStore persists invocation records in <dir>/history.db. When the
// database cannot be opened the store degrades to a no-op so history never
// blocks the actual command.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore creates (or opens) the history database.
func NewSQLiteStore(dir string) *SQLiteStore {
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return &SQLiteStore{}
	}
	db, err := sql.Open("sqlite", filepath.Join(dir, "history.db"))
	if err != nil {
		return &SQLiteStore{}
	}
	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return &SQLiteStore{}
	}
	return store
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS invocations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		command TEXT,
		query TEXT,
		status TEXT,
		key_index INTEGER,
		cache_hit INTEGER,
		duration_ms INTEGER
	);`)
	return err
}

// Save inserts a new record.
func (s *SQLiteStore) Save(rec domain.InvocationRecord) error {
	if s.db == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO invocations
		(timestamp, command, query, status, key_index, cache_hit, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.Format(domain.TimestampFormat),
		rec.Command,
		rec.Query,
		rec.Status,
		rec.KeyIndex,
		boolToInt(rec.CacheHit),
		rec.DurationMS,
	)
	return err
}

// Records returns invocation records newest-first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.InvocationRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, command, query, status, key_index, cache_hit, duration_ms FROM invocations")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE query LIKE ? OR command LIKE ?")
		args = append(args, "%"+search+"%", "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []domain.InvocationRecord
	for rows.Next() {
		var rec domain.InvocationRecord
		var ts string
		var cacheHit int
		if err := rows.Scan(&ts, &rec.Command, &rec.Query, &rec.Status, &rec.KeyIndex, &cacheHit, &rec.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			rec.Timestamp = t
		}
		rec.CacheHit = cacheHit == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
