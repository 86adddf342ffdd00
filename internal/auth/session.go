package auth

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// SessionStore persists bearer tokens in the sessions table. Tokens are
// opaque random strings; expiry is enforced at validation time.
type SessionStore struct {
	db  *sql.DB
	ttl time.Duration
}

func NewSessionStore(db *sql.DB, ttl time.Duration) *SessionStore {
	return &SessionStore{db: db, ttl: ttl}
}

// Create issues a new session token for the user.
func (s *SessionStore) Create(userID string) (string, error) {
	token := generateToken(32)
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, user_id, token, expires_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		ulid.Make().String(), userID, token,
		now.Add(s.ttl).Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Validate resolves a token to its user, rejecting expired sessions.
func (s *SessionStore) Validate(token string) (string, error) {
	var userID, expiresAt string
	err := s.db.QueryRow(
		`SELECT user_id, expires_at FROM sessions WHERE token = ?`, token,
	).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSessionNotFound
		}
		return "", err
	}

	expiry, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil || time.Now().After(expiry) {
		return "", ErrSessionNotFound
	}
	return userID, nil
}

// Delete revokes a single session token.
func (s *SessionStore) Delete(token string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	return err
}

// DeleteForUser revokes every session belonging to a user.
func (s *SessionStore) DeleteForUser(userID string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

// DeleteExpired removes sessions past their expiry. Intended to run
// periodically from the app.
func (s *SessionStore) DeleteExpired() error {
	_, err := s.db.Exec(
		`DELETE FROM sessions WHERE expires_at < ?`,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
