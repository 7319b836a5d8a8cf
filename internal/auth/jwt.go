// Package auth implements the out-of-core collaborator contract named in
// the external interfaces spec: RS256 JWT issuance/validation and a
// Redis-backed jti blacklist for invalidation. The core ingestion and
// transcoding pipeline never consults this package.
package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes access tokens from refresh tokens, both signed
// with the same key pair. Validate checks the signature, the presence of
// exp and the token_type claim; it does not check a per-user token
// version, and both types share the same expiry check.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	// ErrUnexpectedSigningMethod is returned when a token's header names
	// an algorithm other than RS256.
	ErrUnexpectedSigningMethod = errors.New("unexpected signing method")

	// ErrInvalidTokenType is returned when a token presented for one
	// purpose (e.g. refresh) carries the other type's token_type claim.
	ErrInvalidTokenType = errors.New("invalid token type")
)

// Claims is the JWT payload this service issues and validates: sub, jti,
// a per-user token version, and token_type, on top of the registered
// exp/nbf/iat claims.
type Claims struct {
	Version   int       `json:"version"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// Issuer signs and validates RS256 JWTs for a single key pair.
type Issuer struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

// NewIssuer parses PEM-encoded PKCS#1/PKCS#8 RSA key material. privateKeyPEM
// may be empty for an issuer that only validates (e.g. a read-only
// service holding just the public key).
func NewIssuer(privateKeyPEM, publicKeyPEM string) (*Issuer, error) {
	iss := &Issuer{}

	if privateKeyPEM != "" {
		key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse RS256 private key: %w", err)
		}
		iss.privateKey = key
	}

	if publicKeyPEM != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse RS256 public key: %w", err)
		}
		iss.publicKey = key
	}

	return iss, nil
}

// Issue signs a new token for subject (the user id, as a string) with
// the given token type, version, and TTL. The algorithm is always
// RS256: an earlier revision of this system passed a duration where an
// algorithm name was expected, a typo this implementation does not
// reproduce.
func (i *Issuer) Issue(subject string, version int, tokenType TokenType, ttl time.Duration) (string, error) {
	if i.privateKey == nil {
		return "", errors.New("issuer has no private key configured")
	}

	now := time.Now()
	claims := Claims{
		Version:   version,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(i.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token's signature and expiry, and
// confirms its token_type matches want. It does not consult the
// blacklist; callers combine this with Blacklist.IsRevoked.
func (i *Issuer) Validate(tokenString string, want TokenType) (*Claims, error) {
	if i.publicKey == nil {
		return nil, errors.New("issuer has no public key configured")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedSigningMethod, t.Header["alg"])
		}
		return i.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}
	if claims.TokenType != want {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrInvalidTokenType, claims.TokenType, want)
	}
	if claims.ExpiresAt == nil {
		return nil, errors.New("token is missing required exp claim")
	}

	return claims, nil
}
