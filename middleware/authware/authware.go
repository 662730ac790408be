// Package authware guards routes with bearer token authentication and
// explicit role checks. Every request is judged on its token alone; the
// middleware holds no per-request state between invocations.
package authware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	auth "github.com/gira-app/go-auth"
	"github.com/goliatone/go-router"
)

var (
	defaultTokenLookup       = "header:" + router.HeaderAuthorization
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// TokenValidator validates a raw token string into verified claims. The
// auth TokenService satisfies it.
type TokenValidator interface {
	Validate(tokenString string) (auth.AuthClaims, error)
}

// Config defines the configuration for the auth middleware
type Config struct {
	// Filter defines a function to skip the middleware for a request
	Filter func(router.Context) bool

	// SuccessHandler runs once a request has been fully authorized
	SuccessHandler router.HandlerFunc

	// ErrorHandler receives every authentication and authorization failure.
	// It defaults to the uniform JSON responder.
	ErrorHandler router.ErrorHandler

	// TokenValidator is required for token validation
	TokenValidator TokenValidator

	// ContextKey defines the key for storing the principal in the router
	// context
	ContextKey string

	// TokenLookup defines where to look for the token
	// Format: "header:Authorization,cookie:jwt,query:auth_token,param:token"
	TokenLookup string

	// AuthScheme is the expected prefix on the Authorization header
	AuthScheme string

	// AllowedRoles restricts the route to principals holding one of the
	// listed roles. Empty means any authenticated principal passes.
	AllowedRoles []auth.UserRole

	// RequireVerifiedEmail rejects principals that have not confirmed
	// their email address
	RequireVerifiedEmail bool

	// ContextEnricher propagates the principal to the standard Go context.
	// If provided, it is called after all checks pass.
	ContextEnricher func(c context.Context, principal *auth.Principal) context.Context

	Logger auth.Logger
}

// New creates the auth middleware
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		policy := auth.NewAccessPolicy(cfg.AllowedRoles...)

		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return ctx.Next()
			}

			raw, err := ExtractRawTokenFromContext(ctx, cfg.getExtractors())
			if err != nil {
				return cfg.ErrorHandler(ctx, auth.ErrMissingCredentials)
			}

			claims, err := cfg.TokenValidator.Validate(raw)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if err := auth.VerifyTokenType(claims, auth.TokenTypeAccess); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			principal, err := auth.ResolvePrincipal(claims, cfg.Logger)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if !principal.Active {
				return cfg.ErrorHandler(ctx, auth.ErrAccountDisabled)
			}

			if cfg.RequireVerifiedEmail && !principal.EmailVerified {
				return cfg.ErrorHandler(ctx, auth.ErrEmailNotVerified)
			}

			if err := policy.Allow(principal.Role()); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, principal)

			if cfg.ContextEnricher != nil {
				stdCtx := ctx.Context()
				ctx.SetContext(cfg.ContextEnricher(stdCtx, principal))
			}

			return cfg.SuccessHandler(ctx)
		}
	}
}

// RequireRoles is a convenience constructor for the common case of a route
// that only differs from the defaults in its allowed role list.
func RequireRoles(validator TokenValidator, roles ...auth.UserRole) router.MiddlewareFunc {
	return New(Config{
		TokenValidator: validator,
		AllowedRoles:   roles,
	})
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: middleware configuration: TokenValidator is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(ctx router.Context) error {
			return ctx.Next()
		}
	}

	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}

	if cfg.ErrorHandler == nil {
		responder := NewResponder(cfg.Logger)
		cfg.ErrorHandler = responder.Respond
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

func (cfg *Config) getExtractors() []TokenExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// ExtractRawTokenFromContext runs the extractor chain until one of them
// yields a token.
func ExtractRawTokenFromContext(ctx router.Context, extractors []TokenExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

type TokenExtractor func(c router.Context) (string, error)

// GetExtractors parses a lookup expression into an extractor chain.
func GetExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	extractors := make([]TokenExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	// header:Authorization,cookie:jwt,query:auth_token,param:token
	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, tokenFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

// tokenFromHeader returns a function that extracts token from the request header.
func tokenFromHeader(header string, authScheme string) TokenExtractor {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		l := len(authScheme)
		if l == 0 {
			fmt.Println("[WARNING] Missing auth scheme in config definition")
			return "", ErrJWTMissingOrMalformed
		}
		authScheme = strings.TrimSpace(authScheme)
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrJWTMissingOrMalformed
	}
}

// tokenFromQuery returns a function that extracts token from the query string.
func tokenFromQuery(param string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// tokenFromParam returns a function that extracts token from the url param string.
func tokenFromParam(param string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Param(param)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// tokenFromCookie returns a function that extracts token from the named cookie.
func tokenFromCookie(name string) TokenExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

type noopLogger struct{}

func (noopLogger) Debug(format string, args ...any) {}
func (noopLogger) Info(format string, args ...any)  {}
func (noopLogger) Warn(format string, args ...any)  {}
func (noopLogger) Error(format string, args ...any) {}
