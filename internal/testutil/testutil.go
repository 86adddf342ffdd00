// Package testutil provides shared test fixtures backed by in-memory SQLite.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/linkden/api/internal/database"
)

// TestDB creates an in-memory SQLite database with migrations applied.
// The database is automatically closed when the test completes.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		t.Fatalf("running migrations: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db.DB
}

// CreateTestUser inserts a user row directly and returns its id.
func CreateTestUser(t *testing.T, db *sql.DB, displayName string) string {
	t.Helper()

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := db.ExecContext(context.Background(), `
		INSERT INTO users (id, display_name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, id, displayName, now, now)
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}

	return id
}

// CreateTestCategory inserts a category row directly and returns its id.
func CreateTestCategory(t *testing.T, db *sql.DB, userID, name string) string {
	t.Helper()

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := db.ExecContext(context.Background(), `
		INSERT INTO categories (id, user_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, userID, name, now, now)
	if err != nil {
		t.Fatalf("creating test category: %v", err)
	}

	return id
}

// TestLink describes a link row to be inserted by CreateTestLink.
type TestLink struct {
	UserID     string
	URL        string
	Title      *string
	CategoryID *string
	IsFavorite bool
	CreatedAt  time.Time
}

// CreateTestLink inserts a link row directly and returns its id.
// A zero CreatedAt defaults to the current time.
func CreateTestLink(t *testing.T, db *sql.DB, link TestLink) string {
	t.Helper()

	id := uuid.NewString()
	createdAt := link.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	ts := createdAt.UTC().Format(time.RFC3339)

	favorite := 0
	if link.IsFavorite {
		favorite = 1
	}

	_, err := db.ExecContext(context.Background(), `
		INSERT INTO links (id, user_id, url, title, category_id, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, link.UserID, link.URL, link.Title, link.CategoryID, favorite, ts, ts)
	if err != nil {
		t.Fatalf("creating test link: %v", err)
	}

	return id
}

// Ptr returns a pointer to v, for optional fixture fields.
func Ptr[T any](v T) *T {
	return &v
}
