package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

const (
	// VerificationTokenTTL is the fixed lifetime of email verification tokens.
	VerificationTokenTTL = 24 * time.Hour
	// PasswordResetTokenTTL is the fixed lifetime of password reset tokens.
	PasswordResetTokenTTL = time.Hour
)

// TokenService issues and verifies signed tokens. Issuance is pure
// computation: no I/O, no persistence, a fresh jti on every call. Tokens of
// the same type for the same identity are never de-duplicated or tracked;
// they simply expire.
type TokenService interface {
	IssueAccessToken(identity Identity) (string, time.Time, error)
	IssueRefreshToken(identity Identity) (string, time.Time, error)
	IssueVerificationToken(userID, email string) (string, error)
	IssuePasswordResetToken(userID, email string) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
	ValidateType(tokenString string, expected TokenType) (AuthClaims, error)
}

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	logger     Logger
}

// NewTokenService creates a new TokenService instance from the given config.
// The signing key is derived once here and shared, read-only, by every
// subsequent issue and verify call.
func NewTokenService(cfg Config, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: DeriveSigningKey(cfg.GetSigningSecret()),
		accessTTL:  time.Duration(cfg.GetAccessTokenTTL()) * time.Second,
		refreshTTL: time.Duration(cfg.GetRefreshTokenTTL()) * time.Second,
		issuer:     cfg.GetIssuer(),
		logger:     logger,
	}
}

// IssueAccessToken builds and signs a short-lived ACCESS claim set for an
// identity that already passed authentication. This method does not
// authenticate anything itself.
func (ts *TokenServiceImpl) IssueAccessToken(identity Identity) (string, time.Time, error) {
	return ts.issueIdentityToken(identity, TokenTypeAccess, ts.accessTTL)
}

// IssueRefreshToken builds and signs a long-lived REFRESH claim set.
func (ts *TokenServiceImpl) IssueRefreshToken(identity Identity) (string, time.Time, error) {
	return ts.issueIdentityToken(identity, TokenTypeRefresh, ts.refreshTTL)
}

func (ts *TokenServiceImpl) issueIdentityToken(identity Identity, use TokenType, ttl time.Duration) (string, time.Time, error) {
	if identity == nil {
		return "", time.Time{}, errors.New("identity is required", errors.CategoryBadInput)
	}

	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   identity.Email(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UID:           identity.ID(),
		UserEmail:     identity.Email(),
		UserRole:      identity.Role(),
		TokenUse:      use,
		AccountActive: identity.IsActive(),
		Verified:      identity.IsEmailVerified(),
	}

	ensureTokenID(&claims.RegisteredClaims)

	token, err := ts.SignClaims(claims)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// IssueVerificationToken builds a 24h VERIFICATION token carrying identity
// claims only; no role is needed to confirm an email address.
func (ts *TokenServiceImpl) IssueVerificationToken(userID, email string) (string, error) {
	return ts.issuePurposeToken(userID, email, TokenTypeVerification, VerificationTokenTTL)
}

// IssuePasswordResetToken builds a 1h PASSWORD_RESET token carrying identity
// claims only.
func (ts *TokenServiceImpl) IssuePasswordResetToken(userID, email string) (string, error) {
	return ts.issuePurposeToken(userID, email, TokenTypePasswordReset, PasswordResetTokenTTL)
}

func (ts *TokenServiceImpl) issuePurposeToken(userID, email string, use TokenType, ttl time.Duration) (string, error) {
	if userID == "" || email == "" {
		return "", ErrNoEmptyString
	}

	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID:       userID,
		UserEmail: email,
		TokenUse:  use,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}
	if !claims.TokenUse.IsValid() {
		return "", errors.New("claims carry an unknown token type", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses a token string, verifying signature, issuer, and expiry,
// and returns structured claims. Failures are terminal; there is nothing to
// retry.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode)
		}
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrTokenMalformed
}

// ValidateType runs Validate and then confirms the token purpose. Acting on
// a non-access token without this check is a security defect: a verification
// token must never pass as an access token.
func (ts *TokenServiceImpl) ValidateType(tokenString string, expected TokenType) (AuthClaims, error) {
	claims, err := ts.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	if err := VerifyTokenType(claims, expected); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyTokenType confirms already verified claims match the expected
// purpose. Exposed for callers that hold claims rather than the raw token.
func VerifyTokenType(claims AuthClaims, expected TokenType) error {
	if claims == nil {
		return ErrTokenMalformed
	}
	if claims.TokenType() != expected {
		return withDetails(ErrWrongTokenType, map[string]any{
			"expected": string(expected),
			"actual":   string(claims.TokenType()),
		})
	}
	return nil
}
