// Package store persists project state (groups, their timelines and last
// computed keyframes) in a single sqlite file.
package store

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS groups (
	id         TEXT PRIMARY KEY,
	prefix     TEXT NOT NULL,
	rows       INTEGER NOT NULL,
	cols       INTEGER NOT NULL,
	flap_time  REAL NOT NULL,
	characters TEXT NOT NULL,
	current    TEXT NOT NULL,
	created    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	id        TEXT PRIMARY KEY,
	group_id  TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	key_time  REAL NOT NULL,
	text      TEXT NOT NULL,
	formatted TEXT NOT NULL,
	policy    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_group ON entries(group_id, key_time);
CREATE TABLE IF NOT EXISTS keyframes (
	group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	seq      INTEGER NOT NULL,
	flap     INTEGER NOT NULL,
	frame    INTEGER NOT NULL,
	angle    REAL NOT NULL,
	PRIMARY KEY (group_id, seq)
);
`

var ErrNotFound = errors.New("not found in project")

// Store is a project database. Like the rest of the engine it is meant to be
// used from a single goroutine.
type Store struct {
	path string
	conn *sqlite.Conn
	log  *zap.Logger
}

// Open opens or creates project database. Path ":memory:" is accepted for
// transient projects.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	flags := []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenCreate}
	if path == ":memory:" {
		flags = append(flags, sqlite.OpenMemory)
	} else {
		flags = append(flags, sqlite.OpenWAL)
	}
	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, fmt.Errorf("unable to open project '%s': %w", path, err)
	}
	s := &Store{path: path, conn: conn, log: log.Named("store")}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	s.log.Debug("Project opened", zap.String("path", path))
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *Store) migrate() (err error) {
	if err := sqlitex.ExecuteTransient(s.conn, "PRAGMA foreign_keys = ON;", nil); err != nil {
		return fmt.Errorf("unable to enable foreign keys: %w", err)
	}

	var version int
	err = sqlitex.ExecuteTransient(s.conn, "PRAGMA user_version;", &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			version = stmt.ColumnInt(0)
			return nil
		}})
	if err != nil {
		return fmt.Errorf("unable to read project version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("project was created by newer version of the program (schema %d > %d)", version, schemaVersion)
	}

	defer sqlitex.Save(s.conn)(&err)
	if err = sqlitex.ExecuteScript(s.conn, schema, nil); err != nil {
		return fmt.Errorf("unable to create project schema: %w", err)
	}
	if err = sqlitex.ExecuteTransient(s.conn, fmt.Sprintf("PRAGMA user_version = %d;", schemaVersion), nil); err != nil {
		return fmt.Errorf("unable to set project version: %w", err)
	}
	return nil
}

// Backup writes consistent copy of the project database to path.
func (s *Store) Backup(path string) error {
	if err := sqlitex.ExecuteTransient(s.conn, "VACUUM INTO ?;", &sqlitex.ExecOptions{Args: []any{path}}); err != nil {
		return fmt.Errorf("unable to copy project to '%s': %w", path, err)
	}
	return nil
}
