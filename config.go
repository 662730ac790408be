package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// Config holds auth options
type Config interface {
	GetSigningSecret() string
	GetAccessTokenTTL() int
	GetRefreshTokenTTL() int
	GetIssuer() string
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
}

// SimpleConfig is a plain struct implementation of Config. The zero value is
// normalized to development-safe defaults mirroring the original deployment:
// 900s access tokens, 7 day refresh tokens, issuer "gira-app".
type SimpleConfig struct {
	SigningSecret   string `json:"signing_secret"`
	AccessTokenTTL  int    `json:"access_token_ttl"`
	RefreshTokenTTL int    `json:"refresh_token_ttl"`
	Issuer          string `json:"issuer"`
	ContextKey      string `json:"context_key"`
	TokenLookup     string `json:"token_lookup"`
	AuthScheme      string `json:"auth_scheme"`
}

const (
	// DefaultAccessTokenTTL is the access token lifetime in seconds.
	DefaultAccessTokenTTL = 900
	// DefaultRefreshTokenTTL is the refresh token lifetime in seconds (7 days).
	DefaultRefreshTokenTTL = 604800
	// DefaultIssuer is the iss claim stamped on every token.
	DefaultIssuer = "gira-app"
	// DefaultContextKey is where the middleware stores the resolved principal.
	DefaultContextKey = "user"
	// DefaultTokenLookup instructs the middleware to read the standard header.
	DefaultTokenLookup = "header:Authorization"
	// DefaultAuthScheme is the bearer prefix expected on the header value.
	DefaultAuthScheme = "Bearer"
)

// NewDevelopmentConfig returns a config usable without any external input.
// Every value is development-safe and must be overridden for production.
func NewDevelopmentConfig() *SimpleConfig {
	cfg := &SimpleConfig{}
	cfg.normalize()
	return cfg
}

func (c *SimpleConfig) normalize() {
	if c.SigningSecret == "" {
		c.SigningSecret = DevelopmentSigningSecret
	}
	if c.AccessTokenTTL <= 0 {
		c.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if c.RefreshTokenTTL <= 0 {
		c.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	if c.Issuer == "" {
		c.Issuer = DefaultIssuer
	}
	if c.ContextKey == "" {
		c.ContextKey = DefaultContextKey
	}
	if c.TokenLookup == "" {
		c.TokenLookup = DefaultTokenLookup
	}
	if c.AuthScheme == "" {
		c.AuthScheme = DefaultAuthScheme
	}
}

// Validate checks the config after normalization. A refresh token that
// outlives its access token is the only ordering we enforce; secrets are
// stretched by DeriveSigningKey so short values are legal, just discouraged.
func (c *SimpleConfig) Validate() error {
	c.normalize()
	return validation.ValidateStruct(c,
		validation.Field(&c.SigningSecret, validation.Required),
		validation.Field(&c.AccessTokenTTL, validation.Required, validation.Min(1)),
		validation.Field(&c.RefreshTokenTTL, validation.Required, validation.Min(c.AccessTokenTTL)),
		validation.Field(&c.Issuer, validation.Required),
	)
}

// GetSigningSecret returns the shared secret the signing key derives from.
func (c *SimpleConfig) GetSigningSecret() string {
	c.normalize()
	return c.SigningSecret
}

// GetAccessTokenTTL returns the access token lifetime in seconds.
func (c *SimpleConfig) GetAccessTokenTTL() int {
	c.normalize()
	return c.AccessTokenTTL
}

// GetRefreshTokenTTL returns the refresh token lifetime in seconds.
func (c *SimpleConfig) GetRefreshTokenTTL() int {
	c.normalize()
	return c.RefreshTokenTTL
}

// GetIssuer returns the iss claim value.
func (c *SimpleConfig) GetIssuer() string {
	c.normalize()
	return c.Issuer
}

// GetContextKey returns the router-locals key for the resolved principal.
func (c *SimpleConfig) GetContextKey() string {
	c.normalize()
	return c.ContextKey
}

// GetTokenLookup returns the token extraction instruction.
func (c *SimpleConfig) GetTokenLookup() string {
	c.normalize()
	return c.TokenLookup
}

// GetAuthScheme returns the bearer scheme prefix.
func (c *SimpleConfig) GetAuthScheme() string {
	c.normalize()
	return c.AuthScheme
}
