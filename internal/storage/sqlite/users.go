package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/gomibot/internal/core"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `user_id, status, morning_time, night_time, created_at, updated_at`

func (r *UserRepo) Get(ctx context.Context, userID string) (core.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = ?`, userID)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("user %s: %w", userID, core.ErrNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetActiveUsers(ctx context.Context) ([]core.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users WHERE status = ? ORDER BY user_id`, core.UserActive)
}

func (r *UserRepo) List(ctx context.Context) ([]core.User, error) {
	return r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY user_id`)
}

// Register inserts the user as ACTIVE. created is false when the user already existed.
func (r *UserRepo) Register(ctx context.Context, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (user_id, status) VALUES (?, ?) ON CONFLICT(user_id) DO NOTHING`,
		userID, core.UserActive,
	)
	if err != nil {
		return false, fmt.Errorf("failed to register user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to register user: %w", err)
	}
	return n == 1, nil
}

func (r *UserRepo) SetStatus(ctx context.Context, userID string, status core.UserStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`,
		status, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return expectOne(res, userID)
}

func (r *UserRepo) SetReminderTime(ctx context.Context, userID string, slot core.Slot, hhmm string) error {
	var column string
	switch slot {
	case core.SlotMorning:
		column = "morning_time"
	case core.SlotNight:
		column = "night_time"
	default:
		return fmt.Errorf("unknown reminder slot %q", slot)
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+column+` = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`,
		hhmm, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder time: %w", err)
	}
	return expectOne(res, userID)
}

func (r *UserRepo) query(ctx context.Context, query string, args ...any) ([]core.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (core.User, error) {
	var u core.User
	err := s.Scan(&u.ID, &u.Status, &u.MorningTime, &u.NightTime, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func expectOne(res sql.Result, userID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", userID, core.ErrNotFound)
	}
	return nil
}
