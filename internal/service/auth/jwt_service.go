// Package auth provides token issuance/verification and password
// comparison for the authentication flow.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Claims holds the verified contents of a session token.
type Claims struct {
	UserID   uuid.UUID
	Subject  string
	IssuedAt time.Time
	ID       string
}

// JWTService defines the interface for session token operations.
// Tokens are opaque signed strings embedding the user ID; whether a
// given token still authenticates is decided by the user's active token
// set, not by the token itself.
type JWTService interface {
	// GenerateToken creates a signed token for the given user ID.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies a token's signature and structure and
	// returns its claims. Returns ErrInvalidToken or ErrExpiredToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}
