package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asmamir/task-manager-api/internal/config"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

// newTestJWTService builds a service with a fixed clock so expiry
// behavior is deterministic.
func newTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) *hmacJWTService {
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
		clockSkew:     2 * time.Minute,
	}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("accepts long secret", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{JWTSecret: "too-short"})
		assert.Error(t, err)
	})
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	svc := newTestJWTService(testSecret, time.Hour, func() time.Time { return fixedTime })

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateTokenWithoutExpiry(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	// Zero lifetime issues tokens with no expiry claim; only logout
	// revokes them.
	genSvc := newTestJWTService(testSecret, 0, func() time.Time { return fixedTime })
	token, err := genSvc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	// Still valid years later.
	valSvc := newTestJWTService(testSecret, 0, func() time.Time {
		return fixedTime.Add(10 * 365 * 24 * time.Hour)
	})
	claims, err := valSvc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := time.Hour
	userID := uuid.New()

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (JWTService, string) {
				svc := newTestJWTService(testSecret, lifetime, func() time.Time { return fixedTime })
				token, _ := svc.GenerateToken(context.Background(), userID)
				return svc, token
			},
		},
		{
			name: "expired token",
			setupFunc: func() (JWTService, string) {
				genSvc := newTestJWTService(testSecret, lifetime, func() time.Time { return fixedTime })
				token, _ := genSvc.GenerateToken(context.Background(), userID)

				valSvc := newTestJWTService(testSecret, lifetime, func() time.Time {
					return fixedTime.Add(lifetime + time.Hour)
				})
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "wrong signing key",
			setupFunc: func() (JWTService, string) {
				genSvc := newTestJWTService(testSecret, lifetime, func() time.Time { return fixedTime })
				token, _ := genSvc.GenerateToken(context.Background(), userID)

				valSvc := newTestJWTService(
					"another-secret-that-is-long-enough-too",
					lifetime,
					func() time.Time { return fixedTime })
				return valSvc, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (JWTService, string) {
				svc := newTestJWTService(testSecret, lifetime, func() time.Time { return fixedTime })
				return svc, "this.is.not.a.valid.jwt"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "empty token",
			setupFunc: func() (JWTService, string) {
				svc := newTestJWTService(testSecret, lifetime, func() time.Time { return fixedTime })
				return svc, ""
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc()
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, userID, claims.UserID)
			}
		})
	}
}
