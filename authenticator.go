package auth

import (
	"context"
	"reflect"
	"time"

	"github.com/goliatone/go-errors"
)

var _ Authenticator = &Auther{}

// Auther wires the identity provider and token service into the login,
// refresh, verification, and password reset flows. It keeps no per-user
// state; everything a request needs rides in the token or comes from the
// provider.
type Auther struct {
	provider     IdentityProvider
	users        UserFinder
	mutator      UserMutator
	mailer       Mailer
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, cfg Config) *Auther {
	return &Auther{
		provider:     provider,
		tokenService: NewTokenService(cfg, defLogger{}),
		mailer:       NoopMailer{},
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service, mostly for tests that need
// deterministic clocks or keys.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithUserStore attaches the read side of the user store, required by the
// verification and password reset flows.
func (s *Auther) WithUserStore(users UserFinder) *Auther {
	s.users = users
	return s
}

// WithUserMutator attaches the write side of the user store.
func (s *Auther) WithUserMutator(mutator UserMutator) *Auther {
	s.mutator = mutator
	return s
}

// WithMailer attaches an outbound mailer for verification and reset links.
func (s *Auther) WithMailer(mailer Mailer) *Auther {
	if mailer != nil {
		s.mailer = mailer
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies credentials and mints an access and refresh token pair.
// An unverified email does not block login; routes that need a verified
// address enforce that themselves.
func (s *Auther) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	var err error
	var identity Identity

	if identity, err = s.provider.VerifyIdentity(ctx, identifier, password); err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		return nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return nil, ErrIdentityNotFound
	}

	return s.issueTokenPair(identity)
}

// Refresh trades a valid refresh token for a fresh pair. The account is
// re-fetched so a deactivation after issuance cuts the renewal chain even
// though outstanding access tokens ride out their TTL.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenService.ValidateType(refreshToken, TokenTypeRefresh)
	if err != nil {
		s.logger.Error("Refresh token validation failed", "error", err)
		return nil, err
	}

	identifier := claims.Email()
	if identifier == "" {
		identifier = claims.Subject()
	}

	identity, err := s.provider.FindIdentityByIdentifier(ctx, identifier)
	if err != nil {
		s.logger.Error("Refresh identity lookup failed", "error", err)
		return nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		return nil, ErrIdentityNotFound
	}

	if !identity.IsActive() {
		return nil, ErrAccountDisabled
	}

	return s.issueTokenPair(identity)
}

// PrincipalFromToken verifies an access token and resolves its principal.
func (s *Auther) PrincipalFromToken(token string) (*Principal, error) {
	claims, err := s.tokenService.ValidateType(token, TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	return ResolvePrincipal(claims, s.logger)
}

// RequestEmailVerification issues a VERIFICATION token and mails it. Already
// verified accounts are a no-op so resubmitting the form is harmless.
func (s *Auther) RequestEmailVerification(ctx context.Context, email string) error {
	user, err := s.findUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	if user.EmailVerified {
		return nil
	}

	token, err := s.tokenService.IssueVerificationToken(user.ID.String(), user.Email)
	if err != nil {
		return err
	}

	return s.mailer.SendVerificationEmail(ctx, user.Email, token)
}

// ConfirmEmailVerification consumes a VERIFICATION token and flips the flag
// on the account it names.
func (s *Auther) ConfirmEmailVerification(ctx context.Context, token string) error {
	claims, err := s.tokenService.ValidateType(token, TokenTypeVerification)
	if err != nil {
		return err
	}

	if s.mutator == nil {
		return errors.New("authenticator has no user mutator configured", errors.CategoryInternal)
	}

	return s.mutator.MarkEmailVerified(ctx, claims.UserID())
}

// InitializePasswordReset issues a PASSWORD_RESET token and mails it. A miss
// returns nil so the endpoint never discloses which emails exist.
func (s *Auther) InitializePasswordReset(ctx context.Context, email string) error {
	user, err := s.findUserByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Debug("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.tokenService.IssuePasswordResetToken(user.ID.String(), user.Email)
	if err != nil {
		return err
	}

	return s.mailer.SendPasswordResetEmail(ctx, user.Email, token)
}

// FinalizePasswordReset consumes a PASSWORD_RESET token and stores the new
// password hash.
func (s *Auther) FinalizePasswordReset(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokenService.ValidateType(token, TokenTypePasswordReset)
	if err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	if s.mutator == nil {
		return errors.New("authenticator has no user mutator configured", errors.CategoryInternal)
	}

	return s.mutator.UpdatePassword(ctx, claims.UserID(), hash)
}

func (s *Auther) issueTokenPair(identity Identity) (*TokenPair, error) {
	accessToken, accessExpiresAt, err := s.tokenService.IssueAccessToken(identity)
	if err != nil {
		s.logger.Error("failed to issue access token", "error", err)
		return nil, err
	}

	refreshToken, refreshExpiresAt, err := s.tokenService.IssueRefreshToken(identity)
	if err != nil {
		s.logger.Error("failed to issue refresh token", "error", err)
		return nil, err
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        int64(time.Until(accessExpiresAt).Seconds()),
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt,
		Principal:        principalFromIdentity(identity),
	}, nil
}

func (s *Auther) findUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	if s.users == nil {
		return nil, errors.New("authenticator has no user store configured", errors.CategoryInternal)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrIdentityNotFound
	}
	return user, nil
}

func principalFromIdentity(identity Identity) *Principal {
	if identity == nil {
		return nil
	}
	if principal, ok := identity.(*Principal); ok {
		return principal
	}
	return &Principal{
		UserID:        identity.ID(),
		UserEmail:     identity.Email(),
		UserRole:      identity.Role(),
		Active:        identity.IsActive(),
		EmailVerified: identity.IsEmailVerified(),
	}
}
