package auth

import (
	"fmt"
)

var _ Identity = &Principal{}

// Principal is the request-scoped identity snapshot built from verified
// token claims. It is assembled without touching storage, so it reflects
// the account as it was when the token was issued.
type Principal struct {
	UserID        string   `json:"id"`
	UserEmail     string   `json:"email"`
	FirstName     string   `json:"prenom,omitempty"`
	LastName      string   `json:"nom,omitempty"`
	UserRole      UserRole `json:"role"`
	Active        bool     `json:"actif"`
	EmailVerified bool     `json:"emailVerifie"`
}

func (p *Principal) ID() string {
	return p.UserID
}

func (p *Principal) Email() string {
	return p.UserEmail
}

func (p *Principal) DisplayName() string {
	if p.FirstName == "" && p.LastName == "" {
		return p.UserEmail
	}
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}

func (p *Principal) Role() UserRole {
	return p.UserRole
}

func (p *Principal) IsActive() bool {
	return p.Active
}

func (p *Principal) IsEmailVerified() bool {
	return p.EmailVerified
}

// HasAnyRole reports whether the principal holds one of the given roles.
// An empty list means no role restriction.
func (p *Principal) HasAnyRole(roles ...UserRole) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if p.UserRole == role {
			return true
		}
	}
	return false
}

// ResolvePrincipal builds a Principal from verified claims. A missing or
// unknown role claim degrades to the default role rather than failing the
// request; the event is logged because it usually means tokens minted by an
// older build are still in circulation.
func ResolvePrincipal(claims AuthClaims, logger Logger) (*Principal, error) {
	if claims == nil {
		return nil, ErrTokenMalformed
	}
	if logger == nil {
		logger = defLogger{}
	}

	email := claims.Email()
	if email == "" {
		email = claims.Subject()
	}

	role := claims.Role()
	if parsed, valid := ParseRole(role); valid {
		role = parsed
	} else {
		logger.Warn("principal resolution: unknown role %q for user %s, using %s", claims.Role(), claims.UserID(), DefaultRole)
		role = DefaultRole
	}

	return &Principal{
		UserID:        claims.UserID(),
		UserEmail:     email,
		UserRole:      role,
		Active:        claims.Active(),
		EmailVerified: claims.EmailVerified(),
	}, nil
}

// NewPrincipalFromUser builds a Principal straight from a stored user
// record, for callers that authenticated against storage rather than a
// token.
func NewPrincipalFromUser(user *UserRecord) *Principal {
	if user == nil {
		return nil
	}
	return &Principal{
		UserID:        user.ID.String(),
		UserEmail:     user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		UserRole:      user.Role,
		Active:        user.Active,
		EmailVerified: user.EmailVerified,
	}
}
