package link

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrLinkNotFound  = errors.New("link not found")
	ErrInvalidCursor = errors.New("cursor does not reference a known link")
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateParams carries the already-validated fields of a new link.
type CreateParams struct {
	UserID      string
	URL         string
	Title       *string
	Description *string
	ImageURL    *string
	CategoryID  *string
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (*Link, error) {
	l := &Link{
		ID:          uuid.NewString(),
		UserID:      params.UserID,
		URL:         params.URL,
		Title:       params.Title,
		Description: params.Description,
		ImageURL:    params.ImageURL,
		CategoryID:  params.CategoryID,
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO links (id, user_id, url, title, description, image_url, category_id, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`, l.ID, l.UserID, l.URL, l.Title, l.Description, l.ImageURL, l.CategoryID,
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetOwned returns the link only if it belongs to userID.
func (r *Repository) GetOwned(ctx context.Context, userID, id string) (*Link, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, url, title, description, image_url, category_id, is_favorite, created_at, updated_at
		FROM links WHERE id = ? AND user_id = ?
	`, id, userID)
	return scanLink(row.Scan)
}

// List returns one page of the user's links plus a continuation cursor.
//
// Sort order is always created_at DESC, id DESC: the id tie-break keeps
// pagination stable when several links share a creation timestamp. The
// cursor is the id of the last row of the previous page; the query resumes
// strictly after that row. One extra row is fetched to decide whether a next
// page exists.
func (r *Repository) List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	var conditions []string
	var args []any
	conditions = append(conditions, "user_id = ?")
	args = append(args, userID)

	if opts.FavoritesOnly {
		conditions = append(conditions, "is_favorite = 1")
	}
	if opts.CategoryID != "" {
		conditions = append(conditions, "category_id = ?")
		args = append(args, opts.CategoryID)
	}

	// Search matches the title when one exists; the URL is only consulted
	// for links that never got a title. A titled link whose title does not
	// contain the term is excluded even when its URL does.
	if q := strings.TrimSpace(opts.Query); q != "" {
		conditions = append(conditions, "(instr(lower(title), ?) > 0 OR (title IS NULL AND instr(lower(url), ?) > 0))")
		lowered := strings.ToLower(q)
		args = append(args, lowered, lowered)
	}

	if opts.Cursor != "" {
		var cursorCreatedAt string
		err := r.db.QueryRowContext(ctx, `
			SELECT created_at FROM links WHERE id = ? AND user_id = ?
		`, opts.Cursor, userID).Scan(&cursorCreatedAt)
		if err == sql.ErrNoRows {
			return nil, ErrInvalidCursor
		}
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, "(created_at < ? OR (created_at = ? AND id < ?))")
		args = append(args, cursorCreatedAt, cursorCreatedAt, opts.Cursor)
	}

	query := `
		SELECT id, user_id, url, title, description, image_url, category_id, is_favorite, created_at, updated_at
		FROM links WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY created_at DESC, id DESC
		LIMIT ?`
	args = append(args, limit+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		l, err := scanLink(rows.Scan)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{Links: links}
	if len(links) > limit {
		result.Links = links[:limit]
		last := result.Links[limit-1].ID
		result.NextCursor = &last
	}
	return result, nil
}

// SetFavorite flips the favorite flag on an owned link.
func (r *Repository) SetFavorite(ctx context.Context, userID, id string, favorite bool) error {
	fav := 0
	if favorite {
		fav = 1
	}
	result, err := r.db.ExecContext(ctx, `
		UPDATE links SET is_favorite = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, fav, time.Now().UTC().Format(time.RFC3339), id, userID)
	if err != nil {
		return err
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// UpdateMetadata replaces title, description and category on an owned link.
// Nil title/description clear the stored values.
func (r *Repository) UpdateMetadata(ctx context.Context, userID, id string, title, description, categoryID *string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE links SET title = ?, description = ?, category_id = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`, title, description, categoryID, time.Now().UTC().Format(time.RFC3339), id, userID)
	if err != nil {
		return err
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// Delete removes an owned link.
func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM links WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return err
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func scanLink(scan func(...any) error) (*Link, error) {
	var l Link
	var title, description, imageURL, categoryID sql.NullString
	var isFavorite int
	var createdAt, updatedAt string

	err := scan(&l.ID, &l.UserID, &l.URL, &title, &description, &imageURL, &categoryID, &isFavorite, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}

	if title.Valid {
		l.Title = &title.String
	}
	if description.Valid {
		l.Description = &description.String
	}
	if imageURL.Valid {
		l.ImageURL = &imageURL.String
	}
	if categoryID.Valid {
		l.CategoryID = &categoryID.String
	}
	l.IsFavorite = isFavorite != 0
	l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	l.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &l, nil
}
