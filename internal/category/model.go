package category

import "time"

// MaxNameLength is the longest trimmed category name the store accepts.
const MaxNameLength = 50

type Category struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Selector is the category choice submitted with a link.
type Selector struct {
	// Mode is ModeSelect (pick an existing category or none) or ModeNew
	// (create one by name if it does not exist yet).
	Mode string `json:"category_mode"`
	ID   string `json:"category_id"`
	Name string `json:"category_name"`
}

const (
	ModeSelect = "select"
	ModeNew    = "new"
)
