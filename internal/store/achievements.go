package store

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// SaveAchievements marks the named flags as earned for a user. Flags are
// monotonic: a row is only ever inserted, never flipped back.
func (s *Store) SaveAchievements(ctx context.Context, userID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}
	insert := qb.Insert("achievements").Columns("user_id", "name", "achieved")
	for _, name := range names {
		insert = insert.Values(userID, name, 1)
	}
	query, args, err := insert.
		Suffix("ON CONFLICT (user_id, name) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save achievements: %w", err)
	}
	return nil
}

// ListAchievements returns the names of the flags a user has earned.
func (s *Store) ListAchievements(ctx context.Context, userID int64) ([]string, error) {
	query, args, err := qb.Select("name").
		From("achievements").
		Where(squirrel.Eq{"user_id": userID, "achieved": 1}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return names, nil
}
