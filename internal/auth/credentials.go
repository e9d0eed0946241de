package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrMissingCredentials is returned when the client id or secret is empty.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrWrongCredentials is returned when the client id or secret does not match.
	ErrWrongCredentials = errors.New("wrong credentials")
	// ErrBusy is returned when no verification slot frees up in time.
	ErrBusy = errors.New("too many concurrent verifications")
)

const (
	// DefaultMaxConcurrent bounds in-flight argon2 verifications. Each one
	// allocates argon2Memory KiB.
	DefaultMaxConcurrent = 4
	// slotWait is how long Verify waits for a free slot.
	slotWait = 2 * time.Second
)

// ClientVerifier checks a client id and secret against one configured pair.
// Only the argon2id hash of the secret is retained.
type ClientVerifier struct {
	clientID   string
	secretHash string
	slots      *semaphore.Weighted
}

// NewClientVerifier hashes secret and returns a verifier for the pair.
// At most maxConcurrent verifications run at once; a non-positive value
// selects DefaultMaxConcurrent.
func NewClientVerifier(clientID, secret string, maxConcurrent int) (*ClientVerifier, error) {
	if clientID == "" || secret == "" {
		return nil, ErrMissingCredentials
	}
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	hash, err := HashSecret(secret)
	if err != nil {
		return nil, fmt.Errorf("hash client secret: %w", err)
	}

	return &ClientVerifier{
		clientID:   clientID,
		secretHash: hash,
		slots:      semaphore.NewWeighted(int64(maxConcurrent)),
	}, nil
}

// Verify validates the presented credentials.
// The secret is always hashed, even when the id is wrong. If every slot
// stays taken until ctx ends or slotWait passes, ErrBusy is returned.
func (v *ClientVerifier) Verify(ctx context.Context, clientID, secret string) error {
	if clientID == "" || secret == "" {
		return ErrMissingCredentials
	}

	// Wait for a slot
	waitCtx, cancel := context.WithTimeout(ctx, slotWait)
	defer cancel()
	if err := v.slots.Acquire(waitCtx, 1); err != nil {
		return ErrBusy
	}
	defer v.slots.Release(1)

	idOK := subtle.ConstantTimeCompare([]byte(clientID), []byte(v.clientID)) == 1

	secretOK, err := VerifySecret(secret, v.secretHash)
	if err != nil {
		return fmt.Errorf("verify client secret: %w", err)
	}

	if !idOK || !secretOK {
		return ErrWrongCredentials
	}

	return nil
}
