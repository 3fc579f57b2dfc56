// Package auth checks bearer credentials against a set of allowed tokens and
// a block list.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync/atomic"
)

// Sentinel errors returned by Authenticate. The server maps each to a status.
var (
	// ErrMissingOrMalformed means there was no Authorization header or it was
	// not a bearer credential.
	ErrMissingOrMalformed = errors.New("missing or invalid token")
	// ErrBlocked means the token is on the block list.
	ErrBlocked = errors.New("token blocked")
	// ErrUnrecognized means the token is not allowed. A blank token after the
	// scheme is unrecognized rather than malformed.
	ErrUnrecognized = errors.New("invalid token")
)

const bearerPrefix = "bearer "

type tokenSets struct {
	allowed map[string]struct{}
	blocked map[string]struct{}
}

// Authenticator validates bearer tokens. It is safe for concurrent use, and the
// token sets can be replaced while requests are in flight.
type Authenticator struct {
	sets atomic.Pointer[tokenSets]
}

// New creates an Authenticator. An empty allow list admits no token.
func New(allowed, blocked []string) *Authenticator {
	a := &Authenticator{}
	a.Update(allowed, blocked)
	return a
}

// Update atomically replaces both token sets.
func (a *Authenticator) Update(allowed, blocked []string) {
	a.sets.Store(&tokenSets{
		allowed: toSet(allowed),
		blocked: toSet(blocked),
	})
}

// Authenticate extracts the token from an Authorization header value and checks
// it. The scheme is matched case-insensitively. The block list wins over the
// allow list.
func (a *Authenticator) Authenticate(header string) (string, error) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrMissingOrMalformed
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])

	sets := a.sets.Load()
	if _, ok := sets.blocked[token]; ok {
		return "", ErrBlocked
	}
	if _, ok := sets.allowed[token]; !ok {
		return "", ErrUnrecognized
	}
	return token, nil
}

// Counts returns the number of allowed and blocked tokens.
func (a *Authenticator) Counts() (allowed, blocked int) {
	sets := a.sets.Load()
	return len(sets.allowed), len(sets.blocked)
}

// ParseList splits a comma-separated token list, trimming blanks and dropping
// empty entries.
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Fingerprint returns a short stable digest of token that is safe to log.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:4])
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}
