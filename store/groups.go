package store

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"splitflap/registry"
)

// SaveGroup inserts group or updates its mutable state.
func (s *Store) SaveGroup(g *registry.Group) error {
	err := sqlitex.Execute(s.conn, `
		INSERT INTO groups (id, prefix, rows, cols, flap_time, characters, current, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET current = excluded.current;`,
		&sqlitex.ExecOptions{Args: []any{
			g.ID, g.Prefix, g.Rows, g.Cols, g.FlapTime, g.Alphabet.String(), g.Current, g.Created.UTC().Format(time.RFC3339Nano),
		}})
	if err != nil {
		return fmt.Errorf("unable to save group %s: %w", g.ID, err)
	}
	s.log.Debug("Group saved", zap.String("group", g.ID))
	return nil
}

// DeleteGroup removes group together with its timeline and keyframes.
func (s *Store) DeleteGroup(id string) error {
	err := sqlitex.Execute(s.conn, `DELETE FROM groups WHERE id = ?;`, &sqlitex.ExecOptions{Args: []any{id}})
	if err != nil {
		return fmt.Errorf("unable to delete group %s: %w", id, err)
	}
	if s.conn.Changes() == 0 {
		return fmt.Errorf("group %s: %w", id, ErrNotFound)
	}
	return nil
}

// LoadRegistry reads all groups of the project.
func (s *Store) LoadRegistry() (*registry.Registry, error) {
	reg := registry.New()
	err := sqlitex.Execute(s.conn, `
		SELECT id, prefix, rows, cols, flap_time, characters, current, created FROM groups ORDER BY id;`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			g, err := registry.NewGroup(stmt.ColumnText(0), registry.Metadata{
				RowCount:   stmt.ColumnInt(2),
				ColCount:   stmt.ColumnInt(3),
				FlapTime:   stmt.ColumnFloat(4),
				Characters: stmt.ColumnText(5),
			})
			if err != nil {
				return err
			}
			g.Prefix = stmt.ColumnText(1)
			if err := g.SetCurrent(stmt.ColumnText(6)); err != nil {
				s.log.Warn("Ignoring stored group state", zap.String("group", g.ID), zap.Error(err))
			}
			if created, err := time.Parse(time.RFC3339Nano, stmt.ColumnText(7)); err == nil {
				g.Created = created
			}
			return reg.Register(g)
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to load groups: %w", err)
	}
	return reg, nil
}
