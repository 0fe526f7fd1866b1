// Package store keeps reading state (reader preferences and last reading
// position) per publication in a SQLite database.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"epubnav/prefs"
	"epubnav/publication"
)

// ErrNotFound is returned when there is no stored state for publication.
var ErrNotFound = errors.New("reading state not found")

// Memory opens private in-memory database.
const Memory = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS reading_state (
	publication TEXT PRIMARY KEY NOT NULL,
	preferences TEXT NOT NULL DEFAULT '{}',
	locator     TEXT,
	updated_at  INTEGER NOT NULL
);
`

// State is stored reading state of a publication.
type State struct {
	Preferences prefs.Preferences
	// Locator is nil when reading position was never saved.
	Locator   *publication.Locator
	UpdatedAt time.Time
}

// Store is a reading state database. Single connection is shared and
// guarded, store is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	log  *zap.Logger
	now  func() time.Time
}

// Open opens (creating if necessary) database at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	flags := []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenCreate}
	if path == Memory {
		flags = append(flags, sqlite.OpenMemory)
	} else {
		flags = append(flags, sqlite.OpenWAL)
	}
	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, fmt.Errorf("unable to open state database '%s': %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare state database '%s': %w", path, err)
	}
	log.Debug("State database opened", zap.String("path", path))
	return &Store{conn: conn, log: log.Named("store"), now: time.Now}, nil
}

// Close closes database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// exec runs fn holding connection, ctx cancellation interrupts running
// statements.
func (s *Store) exec(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return errors.New("state database is closed")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)
	return fn(s.conn)
}

// Load returns stored state of publication id.
func (s *Store) Load(ctx context.Context, id string) (State, error) {
	var (
		st    State
		found bool
	)
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`SELECT preferences, locator, updated_at FROM reading_state WHERE publication = ?`,
			&sqlitex.ExecOptions{
				Args: []any{id},
				ResultFunc: func(stmt *sqlite.Stmt) error {
					found = true
					p, err := prefs.FromJSON([]byte(stmt.ColumnText(0)))
					if err != nil {
						return fmt.Errorf("preferences: %w", err)
					}
					st.Preferences = p
					if stmt.ColumnType(1) != sqlite.TypeNull {
						loc, err := publication.LocatorFromJSON([]byte(stmt.ColumnText(1)))
						if err != nil {
							return fmt.Errorf("locator: %w", err)
						}
						st.Locator = &loc
					}
					st.UpdatedAt = time.UnixMilli(stmt.ColumnInt64(2))
					return nil
				},
			})
	})
	if err != nil {
		return State{}, fmt.Errorf("unable to load reading state of '%s': %w", id, err)
	}
	if !found {
		return State{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return st, nil
}

// SavePreferences stores reader preferences of publication id.
func (s *Store) SavePreferences(ctx context.Context, id string, p prefs.Preferences) error {
	data, err := p.MarshalJSON()
	if err != nil {
		return fmt.Errorf("unable to encode preferences: %w", err)
	}
	err = s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`INSERT INTO reading_state (publication, preferences, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (publication) DO UPDATE SET preferences = excluded.preferences, updated_at = excluded.updated_at`,
			&sqlitex.ExecOptions{Args: []any{id, string(data), s.now().UnixMilli()}})
	})
	if err != nil {
		return fmt.Errorf("unable to save preferences of '%s': %w", id, err)
	}
	s.log.Debug("Preferences saved", zap.String("publication", id), zap.Int("count", p.Len()))
	return nil
}

// SaveLocator stores last reading position of publication id.
func (s *Store) SaveLocator(ctx context.Context, id string, loc publication.Locator) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("unable to encode locator: %w", err)
	}
	err = s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn,
			`INSERT INTO reading_state (publication, locator, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (publication) DO UPDATE SET locator = excluded.locator, updated_at = excluded.updated_at`,
			&sqlitex.ExecOptions{Args: []any{id, string(data), s.now().UnixMilli()}})
	})
	if err != nil {
		return fmt.Errorf("unable to save locator of '%s': %w", id, err)
	}
	s.log.Debug("Locator saved", zap.String("publication", id), zap.Stringer("locator", loc))
	return nil
}

// Remove forgets state of publication id. Removing unknown publication is
// not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	err := s.exec(ctx, func(conn *sqlite.Conn) (err error) {
		defer sqlitex.Save(conn)(&err)
		return sqlitex.Execute(conn, `DELETE FROM reading_state WHERE publication = ?`,
			&sqlitex.ExecOptions{Args: []any{id}})
	})
	if err != nil {
		return fmt.Errorf("unable to remove reading state of '%s': %w", id, err)
	}
	return nil
}

// List returns identifiers of publications with stored state in natural
// order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.exec(ctx, func(conn *sqlite.Conn) error {
		return sqlitex.Execute(conn, `SELECT publication FROM reading_state`,
			&sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					ids = append(ids, stmt.ColumnText(0))
					return nil
				},
			})
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list reading states: %w", err)
	}
	sort.Sort(natural.StringSlice(ids))
	return ids, nil
}
