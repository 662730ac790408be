// Package auth provides the stateless authentication and authorization
// core for the GIRA platform: JWT issuance and verification, principal
// resolution, role policies, and the credential flows built on them.
//
// Tokens:
//   - Four purposes share one HS512 codec: ACCESS, REFRESH, VERIFICATION,
//     and PASSWORD_RESET. The type claim is always checked before a token
//     is acted on, so a verification link can never double as an API
//     credential.
//   - Verification is self-contained. No session table, no token store,
//     no revocation list; a token is valid until its expiry and carries
//     everything a request needs, including the account's active and
//     emailVerified flags as of issuance.
//
// Principals and roles:
//   - ResolvePrincipal turns verified claims into a request-scoped
//     Principal. Roles are flat (PASSAGER, AGENT, ADMIN) and route
//     policies list every role they accept; there is no hierarchy to
//     climb.
//
// The middleware subpackages adapt these primitives to go-router:
// middleware/authware guards routes and renders uniform failure bodies,
// middleware/cors applies the browser cross-origin policy.
package auth
