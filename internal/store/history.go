package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SessionRecord is one finished study session as kept in local history.
type SessionRecord struct {
	SessionID    string
	Mode         string
	Title        string
	Total        int
	Correct      int
	Incorrect    int
	DurationSecs int
	Submitted    bool
	FinishedAt   time.Time
}

// HistoryRepo persists finished sessions for the history screen.
type HistoryRepo interface {
	Append(ctx context.Context, rec SessionRecord) error
	Recent(ctx context.Context, limit int) ([]SessionRecord, error)
}

type historyRepo struct {
	db *sql.DB
}

func (r *historyRepo) Append(ctx context.Context, rec SessionRecord) error {
	submitted := 0
	if rec.Submitted {
		submitted = 1
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO session_history
		(session_id, mode, title, total, correct, incorrect, duration_secs, submitted, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Mode, rec.Title, rec.Total, rec.Correct, rec.Incorrect,
		rec.DurationSecs, submitted, rec.FinishedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("append session history: %w", err)
	}
	return nil
}

// Recent returns the most recently finished sessions, newest first.
func (r *historyRepo) Recent(ctx context.Context, limit int) ([]SessionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT session_id, mode, title, total, correct,
		incorrect, duration_secs, submitted, finished_at
		FROM session_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query session history: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var rec SessionRecord
		var submitted int
		var finishedAt string
		if err := rows.Scan(&rec.SessionID, &rec.Mode, &rec.Title, &rec.Total, &rec.Correct,
			&rec.Incorrect, &rec.DurationSecs, &submitted, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan session history: %w", err)
		}
		rec.Submitted = submitted != 0
		if t, err := time.Parse(time.RFC3339, finishedAt); err == nil {
			rec.FinishedAt = t
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session history: %w", err)
	}
	return out, nil
}
