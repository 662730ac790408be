package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an identity
type Identity interface {
	ID() string
	Email() string
	DisplayName() string
	Role() string
	IsActive() bool
	IsEmailVerified() bool
}

// UserRecord is the shape the external user store hands back. This module
// never persists it; lookups and updates go through the narrow interfaces
// below.
type UserRecord struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Role          UserRole  `json:"role"`
	PasswordHash  string    `json:"-"`
	Active        bool      `json:"active"`
	EmailVerified bool      `json:"email_verified"`
}

// IdentityProvider ensure we have a store to retrieve auth identity
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// UserFinder is the read side of the external user store.
type UserFinder interface {
	GetByIdentifier(ctx context.Context, identifier string) (*UserRecord, error)
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)
}

// UserMutator covers the two writes the verification and password reset
// flows need. Everything else about user persistence stays outside this
// module.
type UserMutator interface {
	MarkEmailVerified(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
}

// AccountRegistrerer is the interface we need to handle new user registrations
type AccountRegistrerer interface {
	RegisterUser(ctx context.Context, user *UserRecord) (*UserRecord, error)
}

// Mailer is the narrow capability interface for outbound email. The module
// only ever needs these two sends; delivery, templating, and retries belong
// to the implementation.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
	SendPasswordResetEmail(ctx context.Context, email, token string) error
}

// NoopMailer discards every message. Useful in tests and in deployments
// that deliver notifications through another channel.
type NoopMailer struct{}

// SendVerificationEmail implements Mailer.
func (NoopMailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	return nil
}

// SendPasswordResetEmail implements Mailer.
func (NoopMailer) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	return nil
}

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	AccessToken      string     `json:"access_token"`
	RefreshToken     string     `json:"refresh_token"`
	TokenType        string     `json:"token_type"`
	ExpiresIn        int64      `json:"expires_in"`
	AccessExpiresAt  time.Time  `json:"access_expires_at"`
	RefreshExpiresAt time.Time  `json:"refresh_expires_at"`
	Principal        *Principal `json:"user,omitempty"`
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	PrincipalFromToken(token string) (*Principal, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
