//go:build race

package auth

import "golang.org/x/crypto/bcrypt"

// Race-enabled builds run bcrypt an order of magnitude slower; the lower
// cost keeps the suite inside its timeouts.
func passwordHashCost() int {
	return bcrypt.DefaultCost
}
