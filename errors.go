package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	// TextCodeTokenMalformed flags tokens that could not be decoded at all.
	TextCodeTokenMalformed = "TOKEN_MALFORMED"
	// TextCodeBadSignature flags tokens whose signature does not match the signing key.
	TextCodeBadSignature = "TOKEN_BAD_SIGNATURE"
	// TextCodeTokenExpired flags tokens past their expiry.
	TextCodeTokenExpired = "TOKEN_EXPIRED"
	// TextCodeWrongTokenType flags tokens presented for a purpose they were not issued for.
	TextCodeWrongTokenType = "TOKEN_WRONG_TYPE"
	// TextCodeAccountDisabled flags valid tokens whose account has been deactivated.
	TextCodeAccountDisabled = "ACCOUNT_DISABLED"
	// TextCodeEmailNotVerified flags accounts that have not confirmed their email.
	TextCodeEmailNotVerified = "EMAIL_NOT_VERIFIED"
	// TextCodeInsufficientRole flags principals missing a required role.
	TextCodeInsufficientRole = "INSUFFICIENT_ROLE"
	// TextCodeMissingCredentials flags requests carrying no bearer token at all.
	TextCodeMissingCredentials = "MISSING_CREDENTIALS"
)

// ErrTokenMalformed is returned when a token cannot be parsed as a compact JWT.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrBadSignature is returned when the token signature does not verify
// against the configured signing key.
var ErrBadSignature = goerrors.New("token signature is invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeBadSignature).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when a token is past its expiry.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrWrongTokenType is returned when a token is presented for a purpose it
// was not issued for, e.g. a verification token used as an access token.
var ErrWrongTokenType = goerrors.New("token type does not match expected use", goerrors.CategoryAuth).
	WithTextCode(TextCodeWrongTokenType).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountDisabled is returned when an otherwise valid token belongs to a
// deactivated account.
var ErrAccountDisabled = goerrors.New("account is disabled", goerrors.CategoryAuth).
	WithTextCode(TextCodeAccountDisabled).
	WithCode(goerrors.CodeUnauthorized)

// ErrEmailNotVerified is returned when a route requires a confirmed email
// address and the principal has not verified theirs.
var ErrEmailNotVerified = goerrors.New("email address not verified", goerrors.CategoryAuthz).
	WithTextCode(TextCodeEmailNotVerified).
	WithCode(goerrors.CodeForbidden)

// ErrInsufficientRole is returned when the principal's role is not in the
// route's allowed role set.
var ErrInsufficientRole = goerrors.New("required role not granted", goerrors.CategoryAuthz).
	WithTextCode(TextCodeInsufficientRole).
	WithCode(goerrors.CodeForbidden)

// ErrMissingCredentials is returned when a request carries no bearer token.
var ErrMissingCredentials = goerrors.New("missing authentication credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeMissingCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrMismatchedHashAndPassword is returned when a password comparison fails.
// The message names neither the email nor the password, and lookup misses in
// UserProvider surface as this same error.
var ErrMismatchedHashAndPassword = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString is returned when a required string argument is empty.
var ErrNoEmptyString = goerrors.New("value must not be empty", goerrors.CategoryBadInput).
	WithCode(goerrors.CodeBadRequest)

// withDetails copies a sentinel and attaches diagnostic metadata. The copy
// keeps the sentinel in its unwrap chain so errors.Is against the sentinel
// still matches.
func withDetails(sentinel *goerrors.Error, metadata map[string]any) *goerrors.Error {
	detailed := sentinel.Clone()
	detailed.Source = sentinel
	return detailed.WithMetadata(metadata)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsBadSignatureError will check for signature verification failures.
func IsBadSignatureError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeBadSignature {
		return true
	}
	return strings.Contains(err.Error(), "signature is invalid")
}
