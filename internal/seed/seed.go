// Package seed populates a development database with demo data.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/linkden/api/internal/auth"
	"github.com/linkden/api/internal/category"
	"github.com/linkden/api/internal/link"
)

const demoUserName = "demo"

// Run populates the database with seed data for development.
// It is idempotent — if data already exists, it logs and returns nil.
func Run(ctx context.Context, db *sql.DB) error {
	// Idempotency check
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE display_name = ?`, demoUserName).Scan(&count); err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	slog.Info("seeding database...")

	now := time.Now().UTC().Format(time.RFC3339)
	userID := uuid.NewString()
	if _, err := db.ExecContext(ctx,
		`INSERT INTO users (id, display_name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		userID, demoUserName, now, now,
	); err != nil {
		return fmt.Errorf("creating demo user: %w", err)
	}

	categoryRepo := category.NewRepository(db)
	linkRepo := link.NewRepository(db)

	categoryIDs := make(map[string]string)
	for _, name := range []string{"Reading", "Go", "Tools"} {
		created, err := categoryRepo.Create(ctx, userID, name)
		if err != nil {
			return fmt.Errorf("creating category %q: %w", name, err)
		}
		categoryIDs[name] = created.ID
	}

	seedLinks := []struct {
		url         string
		title       string
		description string
		category    string
		favorite    bool
	}{
		{"https://go.dev/blog/", "The Go Blog", "News and articles from the Go team", "Go", true},
		{"https://pkg.go.dev/", "Go Packages", "Package discovery and documentation", "Go", false},
		{"https://sqlite.org/wal.html", "Write-Ahead Logging", "How WAL mode works in SQLite", "Reading", false},
		{"https://github.com/knadh/koanf", "koanf", "Simple, extensible config management", "Tools", false},
		{"https://ogp.me/", "The Open Graph protocol", "Metadata markup for web pages", "Reading", true},
	}
	for _, l := range seedLinks {
		catID := categoryIDs[l.category]
		created, err := linkRepo.Create(ctx, link.CreateParams{
			UserID:      userID,
			URL:         l.url,
			Title:       &l.title,
			Description: &l.description,
			CategoryID:  &catID,
		})
		if err != nil {
			return fmt.Errorf("creating link %q: %w", l.url, err)
		}
		if l.favorite {
			if err := linkRepo.SetFavorite(ctx, userID, created.ID, true); err != nil {
				return fmt.Errorf("marking favorite: %w", err)
			}
		}
	}

	sessionStore := auth.NewSessionStore(db, 720*time.Hour)
	token, err := sessionStore.Create(userID)
	if err != nil {
		return fmt.Errorf("creating demo session: %w", err)
	}

	slog.Info("database seeded",
		"user", demoUserName,
		"links", len(seedLinks),
		"categories", len(categoryIDs),
		"token", token,
	)
	return nil
}
