package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
)

// TokenRepository stores refresh tokens
type TokenRepository struct {
	db DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db DB) *TokenRepository {
	return &TokenRepository{
		db: db,
	}
}

// CreateToken stores a refresh token for a user.
func (r *TokenRepository) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expiry_date, revoked)
		VALUES ($1, $2, $3, false)
	`

	if _, err := r.db.Exec(ctx, query, token, userID, expiryDate); err != nil {
		return fmt.Errorf("error storing refresh token: %w", err)
	}

	return nil
}

// GetTokenByValue returns the owning user id, expiry and revocation state of
// a refresh token.
func (r *TokenRepository) GetTokenByValue(ctx context.Context, token string) (userID int64, expiryDate time.Time, revoked bool, err error) {
	query := `SELECT user_id, expiry_date, revoked FROM refresh_tokens WHERE token = $1`

	err = r.db.QueryRow(ctx, query, token).Scan(&userID, &expiryDate, &revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, time.Time{}, false, apperrors.ErrTokenNotFound
		}
		return 0, time.Time{}, false, fmt.Errorf("error retrieving refresh token: %w", err)
	}

	return userID, expiryDate, revoked, nil
}

// RevokeToken marks a refresh token as revoked.
func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE refresh_tokens SET revoked = true WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}

	return nil
}

// RevokeAllUserTokens revokes every refresh token of a user.
func (r *TokenRepository) RevokeAllUserTokens(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE refresh_tokens SET revoked = true WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("error revoking user tokens: %w", err)
	}
	return nil
}

// CleanupExpiredTokens deletes expired tokens and returns how many were removed.
func (r *TokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expiry_date < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("error cleaning up expired tokens: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
