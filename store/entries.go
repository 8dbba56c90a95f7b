package store

import (
	"fmt"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"splitflap/common"
	"splitflap/timeline"
)

// SaveTimeline replaces all stored entries of the timeline group.
func (s *Store) SaveTimeline(tl *timeline.Timeline) (err error) {
	defer sqlitex.Save(s.conn)(&err)

	if err = sqlitex.Execute(s.conn, `DELETE FROM entries WHERE group_id = ?;`, &sqlitex.ExecOptions{Args: []any{tl.GroupID()}}); err != nil {
		return fmt.Errorf("unable to clear timeline of group %s: %w", tl.GroupID(), err)
	}
	for _, e := range tl.Entries() {
		err = sqlitex.Execute(s.conn, `
			INSERT INTO entries (id, group_id, key_time, text, formatted, policy) VALUES (?, ?, ?, ?, ?, ?);`,
			&sqlitex.ExecOptions{Args: []any{e.ID, e.GroupID, e.KeyTime, e.Text, e.Formatted, e.Policy.String()}})
		if err != nil {
			return fmt.Errorf("unable to save entry %s: %w", e.ID, err)
		}
	}
	s.log.Debug("Timeline saved", zap.String("group", tl.GroupID()), zap.Int("entries", tl.Len()))
	return nil
}

// LoadTimeline reads timeline of a group. Entries were validated when added,
// they are restored as is.
func (s *Store) LoadTimeline(groupID string, options ...timeline.Option) (*timeline.Timeline, error) {
	var entries []timeline.Entry
	err := sqlitex.Execute(s.conn, `
		SELECT id, group_id, key_time, text, formatted, policy FROM entries WHERE group_id = ? ORDER BY key_time;`,
		&sqlitex.ExecOptions{
			Args: []any{groupID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				policy, err := common.ParsePolicy(stmt.ColumnText(5))
				if err != nil {
					return err
				}
				entries = append(entries, timeline.Entry{
					ID:        stmt.ColumnText(0),
					GroupID:   stmt.ColumnText(1),
					KeyTime:   stmt.ColumnFloat(2),
					Text:      stmt.ColumnText(3),
					Formatted: stmt.ColumnText(4),
					Policy:    policy,
				})
				return nil
			}})
	if err != nil {
		return nil, fmt.Errorf("unable to load timeline of group %s: %w", groupID, err)
	}

	tl := timeline.New(groupID, options...)
	if err := tl.Restore(entries); err != nil {
		return nil, err
	}
	return tl, nil
}
