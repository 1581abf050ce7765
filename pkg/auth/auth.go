// Package auth provides credential hashing and the authentication gate
// shared by every protected handler.
//
// Two credential forms are supported: Basic (email:password, used only to
// obtain a token) and opaque session tokens. Every failure mode collapses
// to ErrUnauthorized; the gate never reveals which check failed.
package auth

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"

	"filevault/pkg/metadata"
	"filevault/pkg/session"
)

// ErrUnauthorized is the single error returned for any authentication
// failure: missing or malformed header, invalid base64, unknown user,
// wrong password, absent or expired token.
var ErrUnauthorized = errors.New("unauthorized")

const basicPrefix = "Basic "

// Digest returns the hex-encoded SHA-1 digest of plaintext. Deterministic,
// no error path; used only for equality comparison, never decoded.
func Digest(plaintext string) string {
	sum := sha1.Sum([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// DecodeBasic extracts email and password from a Basic authorization
// header value. The password may itself contain colons; only the first
// colon splits.
func DecodeBasic(header string) (email, password string, err error) {
	if !strings.HasPrefix(header, basicPrefix) {
		return "", "", ErrUnauthorized
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, basicPrefix))
	if err != nil {
		return "", "", ErrUnauthorized
	}

	email, password, found := strings.Cut(string(raw), ":")
	if !found || email == "" || password == "" {
		return "", "", ErrUnauthorized
	}
	return email, password, nil
}

// Gate resolves credentials to a user identity. It is constructed once at
// startup with the shared store handles and reused by every handler.
type Gate struct {
	Metadata metadata.Store
	Sessions session.Store
}

// UserFromBasic authenticates a Basic authorization header value and
// returns the matching user.
func (g *Gate) UserFromBasic(ctx context.Context, header string) (*metadata.User, error) {
	email, password, err := DecodeBasic(header)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := g.Metadata.GetUserByCredentials(ctx, email, Digest(password))
	if err != nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// UserIDFromToken resolves an opaque session token to a user ID. An empty
// token short-circuits without touching the session store.
func (g *Gate) UserIDFromToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}

	userID, err := g.Sessions.Resolve(ctx, token)
	if err != nil {
		return "", ErrUnauthorized
	}
	return userID, nil
}
