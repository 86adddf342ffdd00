package link

import "time"

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000

	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Link struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	URL         string    `json:"url"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CategoryID  *string   `json:"category_id,omitempty"`
	IsFavorite  bool      `json:"is_favorite"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListOptions filters and pages a user's link list. Zero values mean
// "no filter", a zero Limit means DefaultPageSize.
type ListOptions struct {
	Query         string
	Cursor        string
	Limit         int
	FavoritesOnly bool
	CategoryID    string
}

// ListResult is one page plus the continuation cursor. NextCursor is nil at
// the end of the list; otherwise it is the id of the last returned link.
type ListResult struct {
	Links      []Link  `json:"links"`
	NextCursor *string `json:"next_cursor"`
}
