package auth

import "cognicard/internal/domain/models"

// JWTVerifier validates bearer tokens.
// The middleware only depends on this interface, so tests can swap in a fake.
type JWTVerifier interface {
	// VerifyToken validates a JWT and returns its claims.
	// Invalid, expired or wrongly signed tokens return domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close releases any resources held by the verifier
	Close() error
}
