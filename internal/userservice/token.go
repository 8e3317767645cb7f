package userservice

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base32"
	"errors"
	"time"
)

func hashToken(token string) []byte {
	hash := sha256.Sum256([]byte(token))
	return hash[:]
}

func newToken(userID int, ttl time.Duration) (*Token, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return nil, err
	}

	token := &Token{
		Plain:  base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes),
		UserID: userID,
		Expiry: time.Now().Add(ttl),
	}

	token.Hash = hashToken(token.Plain)

	return token, nil
}

func (m *userModel) createToken(ctx context.Context, userID int, ttl time.Duration) (*Token, error) {
	token, err := newToken(userID, ttl)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO auth_tokens (hash, user_id, expiry)
		VALUES ($1, $2, $3)`

	_, err = m.db.ExecContext(ctx, query, token.Hash, token.UserID, token.Expiry)
	if err != nil {
		return nil, err
	}

	return token, nil
}

func (m *userModel) getUserByTokenHash(ctx context.Context, hash []byte) (*User, error) {
	query := `
		SELECT u.id, u.username, u.email, coalesce(u.display_name, ''), u.is_admin, u.is_active, u.version
		FROM users u
		INNER JOIN auth_tokens t ON u.id = t.user_id
		WHERE t.hash = $1 AND t.expiry > $2`

	var u User
	err := m.db.QueryRowContext(ctx, query, hash, time.Now()).Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.IsAdmin, &u.IsActive, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

func (m *userModel) deleteTokensForUser(ctx context.Context, userID int) error {
	query := `
		DELETE FROM auth_tokens
		WHERE user_id = $1`

	_, err := m.db.ExecContext(ctx, query, userID)
	return err
}
