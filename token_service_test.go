package auth_test

import (
	"testing"
	"time"

	auth "github.com/gira-app/go-auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *auth.SimpleConfig {
	return &auth.SimpleConfig{
		SigningSecret:   "test-signing-secret",
		AccessTokenTTL:  900,
		RefreshTokenTTL: 604800,
		Issuer:          "test-issuer",
	}
}

func newActiveIdentity() *MockIdentity {
	identity := &MockIdentity{}
	identity.On("ID").Return("user-123")
	identity.On("Email").Return("amina@example.com")
	identity.On("Role").Return(auth.RoleAgent)
	identity.On("IsActive").Return(true)
	identity.On("IsEmailVerified").Return(true)
	return identity
}

func TestNewTokenService(t *testing.T) {
	t.Run("creates token service with logger", func(t *testing.T) {
		logger := &MockLogger{}

		service := auth.NewTokenService(newTestConfig(), logger)

		assert.NotNil(t, service)
	})

	t.Run("creates token service with nil logger", func(t *testing.T) {
		service := auth.NewTokenService(newTestConfig(), nil)

		assert.NotNil(t, service)
	})
}

func TestTokenService_IssueAccessToken(t *testing.T) {
	service := auth.NewTokenService(newTestConfig(), &MockLogger{})

	t.Run("issues a token that validates back to the same claims", func(t *testing.T) {
		identity := newActiveIdentity()

		tokenString, expiresAt, err := service.IssueAccessToken(identity)

		assert.NoError(t, err)
		assert.NotEmpty(t, tokenString)
		assert.True(t, expiresAt.After(time.Now()))

		claims, err := service.Validate(tokenString)
		require.NoError(t, err)

		assert.Equal(t, "amina@example.com", claims.Subject())
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, "amina@example.com", claims.Email())
		assert.Equal(t, auth.RoleAgent, claims.Role())
		assert.Equal(t, auth.TokenTypeAccess, claims.TokenType())
		assert.True(t, claims.Active())
		assert.True(t, claims.EmailVerified())
		assert.NotEmpty(t, claims.TokenID())
		assert.False(t, claims.IsExpired(time.Now()))

		identity.AssertExpectations(t)
	})

	t.Run("signs with HS512", func(t *testing.T) {
		identity := newActiveIdentity()

		tokenString, _, err := service.IssueAccessToken(identity)
		require.NoError(t, err)

		token, err := jwt.ParseWithClaims(tokenString, &auth.JWTClaims{}, func(token *jwt.Token) (any, error) {
			return auth.DeriveSigningKey("test-signing-secret"), nil
		})

		require.NoError(t, err)
		assert.Equal(t, jwt.SigningMethodHS512.Alg(), token.Method.Alg())
	})

	t.Run("sets expiration from the configured TTL", func(t *testing.T) {
		identity := newActiveIdentity()

		before := time.Now()
		_, expiresAt, err := service.IssueAccessToken(identity)
		after := time.Now()

		require.NoError(t, err)
		assert.True(t, expiresAt.After(before.Add(900*time.Second-time.Second)))
		assert.True(t, expiresAt.Before(after.Add(900*time.Second+time.Second)))
	})

	t.Run("every issuance carries a fresh token id", func(t *testing.T) {
		identity := newActiveIdentity()

		first, _, err := service.IssueAccessToken(identity)
		require.NoError(t, err)
		second, _, err := service.IssueAccessToken(identity)
		require.NoError(t, err)

		firstClaims, err := service.Validate(first)
		require.NoError(t, err)
		secondClaims, err := service.Validate(second)
		require.NoError(t, err)

		assert.NotEqual(t, firstClaims.TokenID(), secondClaims.TokenID())
	})

	t.Run("rejects nil identity", func(t *testing.T) {
		tokenString, _, err := service.IssueAccessToken(nil)

		assert.Error(t, err)
		assert.Empty(t, tokenString)
	})
}

func TestTokenService_IssueRefreshToken(t *testing.T) {
	service := auth.NewTokenService(newTestConfig(), &MockLogger{})

	identity := newActiveIdentity()

	tokenString, expiresAt, err := service.IssueRefreshToken(identity)
	require.NoError(t, err)

	claims, err := service.Validate(tokenString)
	require.NoError(t, err)

	assert.Equal(t, auth.TokenTypeRefresh, claims.TokenType())
	// refresh tokens outlive access tokens by configuration
	assert.True(t, expiresAt.After(time.Now().Add(900*time.Second)))
}

func TestTokenService_PurposeTokens(t *testing.T) {
	service := auth.NewTokenService(newTestConfig(), &MockLogger{})

	t.Run("verification token carries identity and a 24h expiry", func(t *testing.T) {
		tokenString, err := service.IssueVerificationToken("user-9", "yanis@example.com")
		require.NoError(t, err)

		claims, err := service.Validate(tokenString)
		require.NoError(t, err)

		assert.Equal(t, auth.TokenTypeVerification, claims.TokenType())
		assert.Equal(t, "user-9", claims.UserID())
		assert.Equal(t, "yanis@example.com", claims.Email())
		assert.Empty(t, claims.Role())

		expected := time.Now().Add(auth.VerificationTokenTTL)
		assert.WithinDuration(t, expected, claims.Expires(), 2*time.Second)
	})

	t.Run("password reset token expires after one hour", func(t *testing.T) {
		tokenString, err := service.IssuePasswordResetToken("user-9", "yanis@example.com")
		require.NoError(t, err)

		claims, err := service.Validate(tokenString)
		require.NoError(t, err)

		assert.Equal(t, auth.TokenTypePasswordReset, claims.TokenType())
		expected := time.Now().Add(auth.PasswordResetTokenTTL)
		assert.WithinDuration(t, expected, claims.Expires(), 2*time.Second)
	})

	t.Run("rejects empty arguments", func(t *testing.T) {
		_, err := service.IssueVerificationToken("", "yanis@example.com")
		assert.Error(t, err)

		_, err = service.IssuePasswordResetToken("user-9", "")
		assert.Error(t, err)
	})
}

func TestTokenService_Validate(t *testing.T) {
	cfg := newTestConfig()
	logger := &MockLogger{}
	logger.On("Error", mock.Anything, mock.Anything).Maybe()
	service := auth.NewTokenService(cfg, logger)

	t.Run("returns error for expired token", func(t *testing.T) {
		now := time.Now()
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    cfg.Issuer,
				Subject:   "expired@example.com",
				IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
			},
			TokenUse: auth.TokenTypeAccess,
		}

		tokenString, err := service.SignClaims(claims)
		require.NoError(t, err)

		validated, err := service.Validate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, validated)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
		assert.True(t, auth.IsTokenExpiredError(err))
	})

	t.Run("returns error for token signed with a different secret", func(t *testing.T) {
		otherCfg := newTestConfig()
		otherCfg.SigningSecret = "a-completely-different-secret"
		otherService := auth.NewTokenService(otherCfg, logger)

		identity := newActiveIdentity()
		tokenString, _, err := otherService.IssueAccessToken(identity)
		require.NoError(t, err)

		validated, err := service.Validate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, validated)
		assert.ErrorIs(t, err, auth.ErrBadSignature)
		assert.True(t, auth.IsBadSignatureError(err))
	})

	t.Run("returns error for tampered token", func(t *testing.T) {
		identity := newActiveIdentity()
		tokenString, _, err := service.IssueAccessToken(identity)
		require.NoError(t, err)

		tampered := tokenString[:len(tokenString)-4] + "AAAA"

		validated, err := service.Validate(tampered)

		assert.Error(t, err)
		assert.Nil(t, validated)
	})

	t.Run("returns error for malformed token", func(t *testing.T) {
		validated, err := service.Validate("not.a.valid.jwt.token")

		assert.Error(t, err)
		assert.Nil(t, validated)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("returns error for token signed with a different algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"iss": cfg.Issuer,
			"sub": "alg@example.com",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		tokenString, err := token.SignedString(auth.DeriveSigningKey(cfg.SigningSecret))
		require.NoError(t, err)

		validated, err := service.Validate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, validated)
	})

	t.Run("returns error for wrong issuer", func(t *testing.T) {
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Subject:   "issuer@example.com",
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			TokenUse: auth.TokenTypeAccess,
		}

		tokenString, err := service.SignClaims(claims)
		require.NoError(t, err)

		validated, err := service.Validate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, validated)
	})
}

func TestTokenService_ValidateType(t *testing.T) {
	service := auth.NewTokenService(newTestConfig(), &MockLogger{})

	t.Run("accepts the matching type", func(t *testing.T) {
		identity := newActiveIdentity()
		tokenString, _, err := service.IssueAccessToken(identity)
		require.NoError(t, err)

		claims, err := service.ValidateType(tokenString, auth.TokenTypeAccess)

		assert.NoError(t, err)
		assert.NotNil(t, claims)
	})

	t.Run("rejects a verification token presented as an access token", func(t *testing.T) {
		tokenString, err := service.IssueVerificationToken("user-9", "yanis@example.com")
		require.NoError(t, err)

		claims, err := service.ValidateType(tokenString, auth.TokenTypeAccess)

		assert.Error(t, err)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, auth.ErrWrongTokenType)
	})

	t.Run("rejects an access token presented for refresh", func(t *testing.T) {
		identity := newActiveIdentity()
		tokenString, _, err := service.IssueAccessToken(identity)
		require.NoError(t, err)

		claims, err := service.ValidateType(tokenString, auth.TokenTypeRefresh)

		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestTokenService_SignClaims(t *testing.T) {
	service := auth.NewTokenService(newTestConfig(), &MockLogger{})

	t.Run("rejects nil claims", func(t *testing.T) {
		_, err := service.SignClaims(nil)
		assert.Error(t, err)
	})

	t.Run("rejects claims with an unknown token type", func(t *testing.T) {
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "typeless@example.com",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			TokenUse: auth.TokenType("BOGUS"),
		}

		_, err := service.SignClaims(claims)
		assert.Error(t, err)
	})
}
