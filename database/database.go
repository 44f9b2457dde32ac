package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const driverName = "sqlite"

// Store is the single on-disk SQLite location used by every operation.
// It holds no connection; each operation acquires its own Handle.
type Store struct {
	Path string
}

// NewStore returns a Store for the database file at path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Handle is a scoped connection to the store. Close it on every exit path.
type Handle struct {
	DB   *sql.DB
	path string
}

// Open connects to the store, creating the database file when it does not
// exist yet.
func (s *Store) Open(ctx context.Context) (*Handle, error) {
	if s == nil || s.Path == "" {
		return nil, newError(KindStorageUnavailable, "open", "no database path configured", nil)
	}

	conn, err := sql.Open(driverName, s.Path)
	if err != nil {
		return nil, newError(KindStorageUnavailable, "open", "", err).withPath(s.Path)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		msg := ""
		if isCantOpen(err) {
			msg = "cannot create or open database file"
		}
		return nil, newError(KindStorageUnavailable, "open", msg, err).withPath(s.Path)
	}

	return &Handle{DB: conn, path: s.Path}, nil
}

// Remove deletes the database file. It reports whether a file was removed.
func (s *Store) Remove() (bool, error) {
	if _, err := os.Stat(s.Path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, newError(KindStorageUnavailable, "reset", "", err).withPath(s.Path)
	}
	if err := os.Remove(s.Path); err != nil {
		return false, newError(KindStorageUnavailable, "reset", "", err).withPath(s.Path)
	}
	// SQLite side files left behind by an interrupted writer.
	for _, suffix := range []string{"-journal", "-wal", "-shm"} {
		os.Remove(s.Path + suffix)
	}
	return true, nil
}

// Exists reports whether the database file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Close releases the connection.
func (h *Handle) Close() error {
	if h == nil || h.DB == nil {
		return nil
	}
	return h.DB.Close()
}

// tableExists looks the table up in sqlite_master. Names compare without
// case, the way SQLite resolves them in statements.
func (h *Handle) tableExists(ctx context.Context, table string) (bool, error) {
	var name string
	err := h.DB.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE", table,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up table %s: %w", table, err)
	}
	return true, nil
}

// quoteIdent wraps an identifier in double quotes, doubling embedded quotes.
// SQLite accepts the same quoted identifier syntax as PostgreSQL.
func quoteIdent(name string) string {
	return pq.QuoteIdentifier(name)
}

func isCantOpen(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		return serr.Code()&0xff == sqlite3.SQLITE_CANTOPEN
	}
	return false
}
