package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/kvasha/digitype/internal/model"
)

// RecordProgress stores one completed session. Records are immutable after
// creation; only the calendar date of the timestamp is kept.
func (s *Store) RecordProgress(ctx context.Context, userID int64, wpm, accuracy float64, date time.Time) error {
	query, args, err := qb.Insert("progress").
		Columns("user_id", "wpm", "accuracy", "date").
		Values(userID, wpm, accuracy, date.Format(dateLayout)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record progress: %w", err)
	}
	return nil
}

// ListProgress returns a user's records within the inclusive date range,
// ordered by date ascending.
func (s *Store) ListProgress(ctx context.Context, filter model.ProgressFilter) ([]model.ProgressRecord, error) {
	query, args, err := qb.Select("id", "user_id", "wpm", "accuracy", "date").
		From("progress").
		Where(squirrel.Eq{"user_id": filter.UserID}).
		Where(squirrel.GtOrEq{"date": filter.From.Format(dateLayout)}).
		Where(squirrel.LtOrEq{"date": filter.To.Format(dateLayout)}).
		OrderBy("date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.ProgressRecord
	for rows.Next() {
		var (
			rec  model.ProgressRecord
			date string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.WPM, &rec.Accuracy, &date); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		parsed, err := time.ParseInLocation(dateLayout, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("failed to parse progress date: %w", err)
		}
		rec.Date = parsed
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return records, nil
}

// Leaderboard returns one row per username holding that user's best WPM
// with its accuracy and date, ranked by best WPM descending then accuracy
// descending.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}
	query, args, err := qb.Select("u.username", "MAX(p.wpm) AS max_wpm", "p.accuracy", "p.date").
		From("progress p").
		Join("users u ON p.user_id = u.id").
		GroupBy("u.username").
		OrderBy("max_wpm DESC", "p.accuracy DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var board []model.LeaderboardRow
	for rows.Next() {
		var (
			row  model.LeaderboardRow
			date string
		)
		if err := rows.Scan(&row.Username, &row.MaxWPM, &row.Accuracy, &date); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard: %w", err)
		}
		parsed, err := time.ParseInLocation(dateLayout, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("failed to parse leaderboard date: %w", err)
		}
		row.Date = parsed
		board = append(board, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	return board, nil
}
