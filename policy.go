package auth

// AccessPolicy declares which roles may reach a protected resource. Empty
// policies allow any authenticated principal.
type AccessPolicy struct {
	allowed RoleSet
}

// NewAccessPolicy builds a policy allowing exactly the listed roles.
func NewAccessPolicy(roles ...UserRole) AccessPolicy {
	return AccessPolicy{allowed: NewRoleSet(roles...)}
}

// AllowedRoles returns the roles the policy accepts.
func (p AccessPolicy) AllowedRoles() []UserRole {
	return p.allowed.Roles()
}

// IsOpen reports whether the policy has no role restriction.
func (p AccessPolicy) IsOpen() bool {
	return len(p.allowed) == 0
}

// Allow checks a role against the policy. Membership is literal: there is
// no hierarchy between roles, so a broader policy must list every role it
// accepts.
func (p AccessPolicy) Allow(role UserRole) error {
	if p.IsOpen() {
		return nil
	}
	if p.allowed.Contains(role) {
		return nil
	}
	return withDetails(ErrInsufficientRole, map[string]any{
		"role":     role,
		"required": p.allowed.String(),
	})
}

// AllowPrincipal checks a principal against the policy, rejecting disabled
// accounts before looking at the role.
func (p AccessPolicy) AllowPrincipal(principal *Principal) error {
	if principal == nil {
		return ErrMissingCredentials
	}
	if !principal.Active {
		return ErrAccountDisabled
	}
	return p.Allow(principal.Role())
}

// PolicyRegistry is a static route-to-policy table. Routes declare their
// allowed roles once, at registration time, and the table is read-only
// afterwards, so lookups need no locking.
type PolicyRegistry struct {
	policies map[string]AccessPolicy
}

// NewPolicyRegistry returns an empty registry.
func NewPolicyRegistry() *PolicyRegistry {
	return &PolicyRegistry{policies: map[string]AccessPolicy{}}
}

// Register declares the roles allowed on a route. The key is whatever the
// host router uses to name the route, typically "METHOD /path". Registering
// the same key twice replaces the earlier policy.
func (r *PolicyRegistry) Register(route string, roles ...UserRole) *PolicyRegistry {
	r.policies[route] = NewAccessPolicy(roles...)
	return r
}

// Lookup returns the policy declared for a route.
func (r *PolicyRegistry) Lookup(route string) (AccessPolicy, bool) {
	policy, ok := r.policies[route]
	return policy, ok
}

// Allow checks a role against the route's declared policy. Routes absent
// from the registry are treated as requiring authentication only, the same
// as an open policy.
func (r *PolicyRegistry) Allow(route string, role UserRole) error {
	policy, ok := r.Lookup(route)
	if !ok {
		return nil
	}
	return policy.Allow(role)
}

// Routes returns the registered route keys.
func (r *PolicyRegistry) Routes() []string {
	out := make([]string, 0, len(r.policies))
	for route := range r.policies {
		out = append(out, route)
	}
	return out
}
