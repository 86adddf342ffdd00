package category

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrCategoryNotFound = errors.New("category not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListForUser returns all categories owned by userID, ordered by name.
func (r *Repository) ListForUser(ctx context.Context, userID string) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories WHERE user_id = ?
		ORDER BY name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		var createdAt, updatedAt string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetOwned returns the category only if it belongs to userID.
func (r *Repository) GetOwned(ctx context.Context, userID, id string) (*Category, error) {
	var c Category
	var createdAt, updatedAt string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&c.ID, &c.UserID, &c.Name, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &c, nil
}

func (r *Repository) getByName(ctx context.Context, userID, name string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM categories WHERE user_id = ? AND name = ?
	`, userID, name).Scan(&id)
	if err == sql.ErrNoRows {
		return "", ErrCategoryNotFound
	}
	return id, err
}

// Create inserts a category for userID. The name must already be trimmed.
func (r *Repository) Create(ctx context.Context, userID, name string) (*Category, error) {
	c := &Category{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.UserID, c.Name, now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetOrCreate returns the id of the (userID, name) category, creating it if
// needed. Lookup-then-create is not atomic, so a concurrent request may win
// the insert; the (user_id, name) unique constraint makes that loser's insert
// fail, and the re-query picks up the row the winner created. The creation
// error propagates only when the re-query still finds nothing.
func (r *Repository) GetOrCreate(ctx context.Context, userID, name string) (string, error) {
	id, err := r.getByName(ctx, userID, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		return "", err
	}

	created, createErr := r.Create(ctx, userID, name)
	if createErr == nil {
		return created.ID, nil
	}
	if !isUniqueConstraintError(createErr) {
		return "", createErr
	}

	id, err = r.getByName(ctx, userID, name)
	if err != nil {
		return "", createErr
	}
	return id, nil
}

// Delete removes one owned category, clearing the category reference on all
// of the user's links in the same transaction. The links themselves survive.
func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	count, err := r.DeleteMany(ctx, userID, []string{id})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// DeleteMany removes the owned categories in ids and clears the category
// reference on their links, atomically. Returns how many categories were
// actually deleted; ids not owned by userID are ignored.
func (r *Repository) DeleteMany(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
	}
	in := strings.Join(placeholders, ",")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE links SET category_id = NULL, updated_at = ?
		WHERE user_id = ? AND category_id IN (`+in+`)
	`, append([]any{time.Now().UTC().Format(time.RFC3339)}, args...)...)
	if err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM categories WHERE user_id = ? AND id IN (`+in+`)
	`, args...)
	if err != nil {
		return 0, err
	}
	deleted, _ := result.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(deleted), nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") || strings.Contains(err.Error(), "duplicate key"))
}
