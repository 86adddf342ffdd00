package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// DeletionReport summarizes what an account-data deletion removed.
type DeletionReport struct {
	Links      int64 `json:"deleted_links"`
	Categories int64 `json:"deleted_categories"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, display_name, created_at, updated_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.DisplayName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// DeleteAccountData removes all of a user's links and categories and then the
// user row itself, in one transaction. Sessions go with the user so the
// caller's token stops working immediately.
func (r *Repository) DeleteAccountData(ctx context.Context, userID string) (*DeletionReport, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	report := &DeletionReport{}

	res, err := tx.ExecContext(ctx, `DELETE FROM links WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("deleting links: %w", err)
	}
	report.Links, _ = res.RowsAffected()

	res, err = tx.ExecContext(ctx, `DELETE FROM categories WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("deleting categories: %w", err)
	}
	report.Categories, _ = res.RowsAffected()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return nil, fmt.Errorf("deleting sessions: %w", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("deleting user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrUserNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return report, nil
}
