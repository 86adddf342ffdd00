package category

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/linkden/api/internal/testutil"
)

func TestResolve_NewTrimsAndCreates(t *testing.T) {
	db := testutil.TestDB(t)
	userID := testutil.CreateTestUser(t, db, "alice")
	resolver := NewResolver(NewRepository(db))

	id, err := resolver.Resolve(context.Background(), userID, Selector{Mode: ModeNew, Name: "  Work  "})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id == nil {
		t.Fatal("expected a category id")
	}

	var name string
	if err := db.QueryRow(`SELECT name FROM categories WHERE id = ?`, *id).Scan(&name); err != nil {
		t.Fatalf("reading category: %v", err)
	}
	if name != "Work" {
		t.Errorf("stored name = %q, want trimmed %q", name, "Work")
	}
}

func TestResolve_NewValidatesName(t *testing.T) {
	db := testutil.TestDB(t)
	userID := testutil.CreateTestUser(t, db, "alice")
	resolver := NewResolver(NewRepository(db))

	if _, err := resolver.Resolve(context.Background(), userID, Selector{Mode: ModeNew, Name: "   "}); !errors.Is(err, ErrMissingName) {
		t.Errorf("blank name: got %v, want ErrMissingName", err)
	}

	long := strings.Repeat("x", MaxNameLength+1)
	if _, err := resolver.Resolve(context.Background(), userID, Selector{Mode: ModeNew, Name: long}); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("long name: got %v, want ErrNameTooLong", err)
	}
}

func TestResolve_SelectEmptyMeansNoCategory(t *testing.T) {
	db := testutil.TestDB(t)
	userID := testutil.CreateTestUser(t, db, "alice")
	resolver := NewResolver(NewRepository(db))

	id, err := resolver.Resolve(context.Background(), userID, Selector{Mode: ModeSelect})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != nil {
		t.Errorf("got %q, want nil", *id)
	}
}

func TestResolve_SelectRejectsMalformedID(t *testing.T) {
	db := testutil.TestDB(t)
	userID := testutil.CreateTestUser(t, db, "alice")
	resolver := NewResolver(NewRepository(db))

	_, err := resolver.Resolve(context.Background(), userID, Selector{Mode: ModeSelect, ID: "not-a-uuid"})
	if !errors.Is(err, ErrInvalidCategoryID) {
		t.Errorf("got %v, want ErrInvalidCategoryID", err)
	}
}

func TestResolve_SelectRejectsForeignCategory(t *testing.T) {
	db := testutil.TestDB(t)
	alice := testutil.CreateTestUser(t, db, "alice")
	bob := testutil.CreateTestUser(t, db, "bob")
	resolver := NewResolver(NewRepository(db))

	bobCat := testutil.CreateTestCategory(t, db, bob, "Secret")

	_, err := resolver.Resolve(context.Background(), alice, Selector{Mode: ModeSelect, ID: bobCat})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("got %v, want ErrCategoryNotFound", err)
	}

	missing := uuid.NewString()
	_, err = resolver.Resolve(context.Background(), alice, Selector{Mode: ModeSelect, ID: missing})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("got %v, want ErrCategoryNotFound", err)
	}
}

func TestResolve_SelectReturnsOwnedCategory(t *testing.T) {
	db := testutil.TestDB(t)
	userID := testutil.CreateTestUser(t, db, "alice")
	resolver := NewResolver(NewRepository(db))

	catID := testutil.CreateTestCategory(t, db, userID, "Work")

	id, err := resolver.Resolve(context.Background(), userID, Selector{Mode: ModeSelect, ID: catID})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id == nil || *id != catID {
		t.Errorf("got %v, want %q", id, catID)
	}
}
