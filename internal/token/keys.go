// Package token issues and validates the HS256 bearer tokens handed out by
// POST /authorize.
package token

import "errors"

// ErrEmptySecret is returned when no signing secret is configured.
var ErrEmptySecret = errors.New("token secret is empty")

// Keys holds the encoding and decoding halves of the HMAC signing key.
// For HS256 both are the same bytes; they are kept apart so call sites read
// the same way they would for an asymmetric algorithm.
type Keys struct {
	encoding []byte
	decoding []byte
}

// NewKeys derives signing keys from secret.
func NewKeys(secret string) (*Keys, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	b := []byte(secret)
	return &Keys{encoding: b, decoding: b}, nil
}
