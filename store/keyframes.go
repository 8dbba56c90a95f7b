package store

import (
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"splitflap/registry"
	"splitflap/schedule"
)

// KeyframeSink stores keyframes of applied schedule replacing previous ones.
// Everything between Begin and End happens in a single savepoint.
type KeyframeSink struct {
	s       *Store
	seq     int
	release func(*error)
}

func (s *Store) KeyframeSink() *KeyframeSink {
	return &KeyframeSink{s: s}
}

func (k *KeyframeSink) Begin(g *registry.Group) (err error) {
	k.release = sqlitex.Save(k.s.conn)
	k.seq = 0
	defer func() {
		if err != nil {
			k.release(&err)
			k.release = nil
		}
	}()
	if err = sqlitex.Execute(k.s.conn, `DELETE FROM keyframes WHERE group_id = ?;`, &sqlitex.ExecOptions{Args: []any{g.ID}}); err != nil {
		return fmt.Errorf("unable to clear keyframes of group %s: %w", g.ID, err)
	}
	return nil
}

func (k *KeyframeSink) Keyframe(groupID string, kf schedule.Keyframe) error {
	if k.release == nil {
		return fmt.Errorf("keyframe for group %s received outside of Begin/End", groupID)
	}
	err := sqlitex.Execute(k.s.conn, `INSERT INTO keyframes (group_id, seq, flap, frame, angle) VALUES (?, ?, ?, ?, ?);`,
		&sqlitex.ExecOptions{Args: []any{groupID, k.seq, kf.Flap, kf.Frame, kf.Angle}})
	if err != nil {
		return fmt.Errorf("unable to store keyframe: %w", err)
	}
	k.seq++
	return nil
}

func (k *KeyframeSink) End(groupID string) (err error) {
	if k.release == nil {
		return fmt.Errorf("group %s was never started", groupID)
	}
	k.release(&err)
	k.release = nil
	return err
}

// Keyframes returns stored keyframes of a group in emission order.
func (s *Store) Keyframes(groupID string) ([]schedule.Keyframe, error) {
	var out []schedule.Keyframe
	err := sqlitex.Execute(s.conn, `SELECT flap, frame, angle FROM keyframes WHERE group_id = ? ORDER BY seq;`,
		&sqlitex.ExecOptions{
			Args: []any{groupID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				out = append(out, schedule.Keyframe{Flap: stmt.ColumnInt(0), Frame: stmt.ColumnInt(1), Angle: stmt.ColumnFloat(2)})
				return nil
			}})
	if err != nil {
		return nil, fmt.Errorf("unable to load keyframes of group %s: %w", groupID, err)
	}
	return out, nil
}
