package category

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrMissingName       = errors.New("category name is required")
	ErrNameTooLong       = errors.New("category name is too long")
	ErrInvalidCategoryID = errors.New("category id is not valid")
)

// Resolver turns a Selector into a definite category id (or none).
type Resolver struct {
	repo *Repository
}

func NewResolver(repo *Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve validates the selector and returns the chosen category id, or nil
// for "no category".
//
// ModeNew trims and validates the name, then gets-or-creates the
// (userID, name) category; it is the only mode with a side effect.
// ModeSelect (the default) treats an empty id as "no category" and otherwise
// requires a UUID-shaped id referencing a category owned by userID, so a
// caller can never attach links to another user's category.
func (r *Resolver) Resolve(ctx context.Context, userID string, sel Selector) (*string, error) {
	if sel.Mode == ModeNew {
		name := strings.TrimSpace(sel.Name)
		if name == "" {
			return nil, ErrMissingName
		}
		if len(name) > MaxNameLength {
			return nil, ErrNameTooLong
		}

		id, err := r.repo.GetOrCreate(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		return &id, nil
	}

	if sel.ID == "" {
		return nil, nil
	}
	if !IsUUID(sel.ID) {
		return nil, ErrInvalidCategoryID
	}

	c, err := r.repo.GetOwned(ctx, userID, sel.ID)
	if err != nil {
		return nil, err
	}
	return &c.ID, nil
}

// IsUUID reports whether s is a canonical 36-character UUID.
func IsUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
