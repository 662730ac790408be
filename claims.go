package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType tags every token with the purpose it was issued for. A token is
// only honored for that purpose; the type is immutable once signed.
type TokenType string

const (
	// TokenTypeAccess is a short-lived token authorizing ordinary API calls.
	TokenTypeAccess TokenType = "ACCESS"
	// TokenTypeRefresh is a long-lived token used only to mint new access tokens.
	TokenTypeRefresh TokenType = "REFRESH"
	// TokenTypeVerification is a single-purpose token for email confirmation.
	TokenTypeVerification TokenType = "VERIFICATION"
	// TokenTypePasswordReset is a single-purpose token for password recovery.
	TokenTypePasswordReset TokenType = "PASSWORD_RESET"
)

// IsValid checks the type against the known token purposes.
func (t TokenType) IsValid() bool {
	switch t {
	case TokenTypeAccess, TokenTypeRefresh, TokenTypeVerification, TokenTypePasswordReset:
		return true
	default:
		return false
	}
}

// AuthClaims represents structured JWT claims with purpose and role checking
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
	Role() string
	TokenType() TokenType
	TokenID() string
	Active() bool
	EmailVerified() bool
	Expires() time.Time
	IssuedAt() time.Time
	IsExpired(now time.Time) bool
}

// JWTClaims is the concrete implementation of AuthClaims.
//
// The subject is the user's email; userId and role ride alongside the
// registered claims so a request can be authorized entirely from the token,
// without a storage round-trip. Account-state flags are captured at issuance
// time for the same reason; a token stays usable until expiry even if the
// account is disabled afterwards.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID           string    `json:"userId,omitempty"`
	UserEmail     string    `json:"email,omitempty"`
	UserRole      string    `json:"role,omitempty"`
	TokenUse      TokenType `json:"type,omitempty"`
	AccountActive bool      `json:"active,omitempty"`
	Verified      bool      `json:"emailVerified,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Email returns the email claim, falling back to the subject which carries
// the email for tokens issued by this module.
func (c *JWTClaims) Email() string {
	if c.UserEmail != "" {
		return c.UserEmail
	}
	return c.Subject()
}

// Role returns the role claim
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// TokenType returns the purpose the token was issued for
func (c *JWTClaims) TokenType() TokenType {
	return c.TokenUse
}

// TokenID returns the unique token id (jti)
func (c *JWTClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// Active reports the account-state flag captured at issuance time
func (c *JWTClaims) Active() bool {
	return c.AccountActive
}

// EmailVerified reports whether the account's email was confirmed at issuance time
func (c *JWTClaims) EmailVerified() bool {
	return c.Verified
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// IsExpired compares the expiry against the given time without re-verifying
// the signature. A claim set with no expiry is treated as expired.
func (c *JWTClaims) IsExpired(now time.Time) bool {
	if c.RegisteredClaims.ExpiresAt == nil {
		return true
	}
	return !now.Before(c.RegisteredClaims.ExpiresAt.Time)
}

// IsType confirms the token was issued for the expected purpose. Callers
// acting on any non-access token must perform this check before trusting
// the claims.
func (c *JWTClaims) IsType(expected TokenType) bool {
	return c.TokenUse == expected
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
