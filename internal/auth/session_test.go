package auth

import (
	"testing"
	"time"

	"github.com/linkden/api/internal/testutil"
)

func TestSessionStore_CreateAndValidate(t *testing.T) {
	db := testutil.TestDB(t)
	userID := testutil.CreateTestUser(t, db, "alice")
	store := NewSessionStore(db, 24*time.Hour)

	token, err := store.Create(userID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	got, err := store.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got != userID {
		t.Fatalf("expected %s, got %s", userID, got)
	}
}

func TestSessionStore_ValidateExpired(t *testing.T) {
	db := testutil.TestDB(t)
	userID := testutil.CreateTestUser(t, db, "alice")
	store := NewSessionStore(db, -1*time.Hour) // already expired

	token, err := store.Create(userID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.Validate(token); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	db := testutil.TestDB(t)
	userID := testutil.CreateTestUser(t, db, "alice")
	store := NewSessionStore(db, 24*time.Hour)

	token, err := store.Create(userID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Delete(token); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.Validate(token); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestSessionStore_DeleteForUser(t *testing.T) {
	db := testutil.TestDB(t)
	userID := testutil.CreateTestUser(t, db, "alice")
	store := NewSessionStore(db, 24*time.Hour)

	first, _ := store.Create(userID)
	second, _ := store.Create(userID)

	if err := store.DeleteForUser(userID); err != nil {
		t.Fatalf("DeleteForUser: %v", err)
	}

	for _, token := range []string{first, second} {
		if _, err := store.Validate(token); err != ErrSessionNotFound {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	}
}

func TestSessionStore_DeleteExpired(t *testing.T) {
	db := testutil.TestDB(t)
	userID := testutil.CreateTestUser(t, db, "alice")
	store := NewSessionStore(db, -1*time.Hour) // already expired

	if _, err := store.Create(userID); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.DeleteExpired(); err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		t.Fatalf("QueryRow: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 sessions, got %d", count)
	}
}

func TestSessionStore_ValidateNonexistent(t *testing.T) {
	db := testutil.TestDB(t)
	store := NewSessionStore(db, 24*time.Hour)

	if _, err := store.Validate("nonexistent-token"); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
