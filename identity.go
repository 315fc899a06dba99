package main

import (
	"github.com/golang-jwt/jwt/v5"
)

// anonymousName is the username stamped on envelopes from unauthenticated
// senders.
const anonymousName = "anônimo"

// identity is the resolved authentication outcome for a connection. The zero
// value is anonymous.
type identity struct {
	name          string
	authenticated bool
}

func (id identity) username() string {
	if id.authenticated {
		return id.name
	}
	return anonymousName
}

// directory maps a verified subject to its display name.
type directory interface {
	displayName(subject string) (string, bool)
}

type staticDirectory map[string]string

func (d staticDirectory) displayName(subject string) (string, bool) {
	name, ok := d[subject]
	return name, ok
}

type accessClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// resolver verifies bearer tokens against an HMAC trust root and looks the
// subject up in the directory.
type resolver struct {
	key      []byte
	subjects directory
}

func newResolver(key []byte, subjects directory) *resolver {
	return &resolver{key: key, subjects: subjects}
}

// resolve never fails past its own boundary: an absent credential, a token
// that does not verify, and a subject the directory does not know all
// collapse to the anonymous identity.
func (rv *resolver) resolve(token string) identity {
	if token == "" {
		return identity{}
	}
	var claims accessClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return rv.key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		incr("tokens.invalid", 1)
		return identity{}
	}
	name, ok := rv.subjects.displayName(claims.UserID)
	if !ok {
		incr("tokens.invalid", 1)
		return identity{}
	}
	return identity{name: name, authenticated: true}
}
