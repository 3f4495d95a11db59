package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/gomibot/internal/calendar"
	"github.com/sandevgo/gomibot/internal/core"
)

type ScheduleRepo struct {
	db *sql.DB
}

func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

const scheduleColumns = `user_id, weekday, garbage_type, note, updated_at`

// GetByUser returns the user's entries in Monday-first order.
func (r *ScheduleRepo) GetByUser(ctx context.Context, userID string) ([]core.ScheduleEntry, error) {
	return r.query(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE user_id = ? ORDER BY weekday`, userID)
}

func (r *ScheduleRepo) GetAll(ctx context.Context) ([]core.ScheduleEntry, error) {
	return r.query(ctx, `SELECT `+scheduleColumns+` FROM schedules ORDER BY user_id, weekday`)
}

// Update writes the entry for (userID, day), creating it when absent.
func (r *ScheduleRepo) Update(ctx context.Context, userID string, day calendar.Weekday, garbageType, note string) error {
	if !day.Valid() {
		return fmt.Errorf("invalid weekday %d", int(day))
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO schedules (user_id, weekday, garbage_type, note)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, weekday) DO UPDATE SET
			garbage_type = excluded.garbage_type,
			note = excluded.note,
			updated_at = CURRENT_TIMESTAMP`,
		userID, int(day), garbageType, note,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	return nil
}

// Seed creates an empty row for every weekday the user does not have yet.
func (r *ScheduleRepo) Seed(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO schedules (user_id, weekday, garbage_type, note) VALUES (?, ?, '', ?) ON CONFLICT DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare seed: %w", err)
	}
	defer stmt.Close()

	for _, day := range calendar.All() {
		if _, err := stmt.ExecContext(ctx, userID, int(day), core.NoteNone); err != nil {
			return fmt.Errorf("failed to seed %s: %w", day, err)
		}
	}

	return tx.Commit()
}

func (r *ScheduleRepo) query(ctx context.Context, query string, args ...any) ([]core.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var entries []core.ScheduleEntry
	for rows.Next() {
		var e core.ScheduleEntry
		var day int
		if err := rows.Scan(&e.UserID, &day, &e.GarbageType, &e.Note, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		e.Day = calendar.Weekday(day)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
