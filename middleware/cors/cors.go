// Package cors applies the cross-origin policy for browser clients of the
// API. Development mode reflects any origin; production only answers for
// the configured origin list.
package cors

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-router"
)

// DefaultMaxAge is how long, in seconds, browsers may cache a preflight
// response.
const DefaultMaxAge = 3600

var defaultMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}

var defaultHeaders = []string{"Authorization", "Content-Type"}

// Config defines the configuration for CORS middleware
type Config struct {
	// Skip defines a function to skip middleware
	Skip func(router.Context) bool

	// AllowAllOrigins reflects any request origin. Intended for
	// development only; it wins over AllowedOrigins when set.
	AllowAllOrigins bool

	// AllowedOrigins is the explicit origin allow list used in production
	AllowedOrigins []string

	// AllowedMethods defaults to the full method list the API serves
	AllowedMethods []string

	// AllowedHeaders defaults to Authorization and Content-Type
	AllowedHeaders []string

	// AllowCredentials permits cookies and Authorization headers on
	// cross-origin requests
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds
	MaxAge int
}

// New creates a new CORS middleware
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := configDefault(config...)

		return func(ctx router.Context) error {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return ctx.Next()
			}

			origin := ctx.Header("Origin")
			allowed := cfg.resolveOrigin(origin)

			if allowed != "" {
				ctx.SetHeader("Access-Control-Allow-Origin", allowed)
				if cfg.AllowCredentials {
					ctx.SetHeader("Access-Control-Allow-Credentials", "true")
				}
				// caches must not serve one origin's response to another
				if !cfg.AllowAllOrigins {
					ctx.SetHeader("Vary", "Origin")
				}
			}

			if strings.EqualFold(ctx.Method(), "OPTIONS") {
				if allowed != "" {
					ctx.SetHeader("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
					ctx.SetHeader("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
					ctx.SetHeader("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				}
				return ctx.NoContent(router.StatusNoContent)
			}

			return ctx.Next()
		}
	}
}

// resolveOrigin returns the value for Access-Control-Allow-Origin, or ""
// when the origin is not allowed.
func (cfg Config) resolveOrigin(origin string) string {
	if origin == "" {
		return ""
	}

	if cfg.AllowAllOrigins {
		// reflect rather than "*" so credentialed requests still work
		return origin
	}

	for _, candidate := range cfg.AllowedOrigins {
		if strings.EqualFold(candidate, origin) {
			return origin
		}
	}

	return ""
}

// configDefault returns a default config
func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.AllowedMethods == nil {
		cfg.AllowedMethods = defaultMethods
	}

	if cfg.AllowedHeaders == nil {
		cfg.AllowedHeaders = defaultHeaders
	}

	if cfg.MaxAge == 0 {
		cfg.MaxAge = DefaultMaxAge
	}

	return cfg
}
