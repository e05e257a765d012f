package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// HistoryRecord is a persisted study history row.
type HistoryRecord struct {
	ID        string
	Sequence  int64
	UserID    string
	Topic     string
	Mode      string
	StudyData json.RawMessage
	CreatedAt time.Time
}

// HistoryRepo persists per-user study history.
type HistoryRepo interface {
	// Append stores rec and assigns its Sequence.
	Append(ctx context.Context, rec *HistoryRecord) error

	// Recent returns up to limit rows for userID, newest first. StudyData
	// is not loaded.
	Recent(ctx context.Context, userID string, limit int) ([]HistoryRecord, error)

	// Clear deletes every row for userID and reports how many were removed.
	Clear(ctx context.Context, userID string) (int64, error)
}

type historyRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *historyRepo) Append(ctx context.Context, rec *HistoryRecord) error {
	for col, v := range map[string]any{"id": rec.ID, "user_id": rec.UserID, "topic": rec.Topic, "mode": rec.Mode} {
		if err := historyFields.check(studyHistoriesTable, col, v); err != nil {
			return fmt.Errorf("save study history: %w", err)
		}
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	data := rec.StudyData
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(studyHistoriesTable).
		Columns("id", "sequence", "user_id", "topic", "mode", "study_data", "created_at").
		Values(rec.ID, seqNum, rec.UserID, rec.Topic, rec.Mode, string(data), rec.CreatedAt.UTC()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save study history: %w", err)
	}
	rec.Sequence = seqNum
	return nil
}

func (r *historyRepo) Recent(ctx context.Context, userID string, limit int) ([]HistoryRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence", "user_id", "topic", "mode", "created_at").
		From(entsql.Table(studyHistoriesTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query study history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.UserID, &rec.Topic, &rec.Mode, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan study history: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *historyRepo) Clear(ctx context.Context, userID string) (int64, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(studyHistoriesTable).
		Where(entsql.EQ("user_id", userID)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear study history: %w", err)
	}
	return res.RowsAffected()
}
