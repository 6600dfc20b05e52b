package utils // package utils provides helper functions for token creation and hashing

import (
	"errors" // sentinel errors for token parsing
	"fmt"    // error wrapping
	"time"   // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// ErrInvalidToken is returned by ParseAccessToken for any token that is not
// a valid, unexpired HS256 token signed with the expected secret.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of an access token. ID and IsAdmin identify the
// caller; the registered claims carry sub, iat and exp.
type Claims struct {
	ID      string `json:"id"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp.  Clients send the token in the Authorization header as
// "Bearer <token>" when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user ID, the admin flag and a TTL.  The subject claim
// mirrors the id claim so that generic JWT tooling can read the caller.
func NewAccessToken(secret, userID string, isAdmin bool, ttl time.Duration) (AccessToken, error) {
	now := time.Now().UTC()
	// Calculate the expiration time by adding the TTL to the issue time.
	exp := now.Add(ttl)
	claims := Claims{
		ID:      userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	// Create a new token object with the HS256 signing method and sign it
	// with the provided secret.
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature, the algorithm and the expiry of
// raw and returns its claims.  Any failure is reported as ErrInvalidToken
// wrapping the underlying cause.
func ParseAccessToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		// Return the secret bytes used to sign the token.
		return []byte(secret), nil
	},
		// Only HS256 is accepted; this also rejects "none".
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
