package auth

import "crypto/sha512"

// DevelopmentSigningSecret is the fallback signing secret used when no secret
// is configured. It exists so local development works out of the box and must
// never reach production.
const DevelopmentSigningSecret = "defaultSecretKeyForDevelopmentOnlyChangeInProduction"

// hs512KeySize is the minimum key size for HMAC-SHA512 signing.
const hs512KeySize = sha512.Size

// DeriveSigningKey turns the configured secret into the symmetric signing key
// used for the lifetime of the process. Secrets shorter than 64 bytes are
// stretched through SHA-512 so the key always meets HS512 strength; longer
// secrets are used as-is. The returned slice is never mutated after startup
// and is safe to share across concurrent verifications.
func DeriveSigningKey(secret string) []byte {
	if secret == "" {
		secret = DevelopmentSigningSecret
	}

	raw := []byte(secret)
	if len(raw) >= hs512KeySize {
		return raw
	}

	sum := sha512.Sum512(raw)
	return sum[:]
}
