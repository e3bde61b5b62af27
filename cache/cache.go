package cache

import (
	"context"
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a store key.
const MaxKeyLength = 512

// Sentinel errors for store operations.
var (
	ErrNilStore   = errors.New("cache: store is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Store is the interface for persisting resolved metadata values.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; it returns ("", false) on miss.
// - Durability: Set is best-effort; a failed durable write must not lose
//   the in-memory value for the current session.
type Store interface {
	// Get retrieves a stored value. Returns ("", false) on miss.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a value, overwriting any previous one. Idempotent.
	Set(ctx context.Context, key, value string) error
}

// ValidateKey checks if a key is valid for storage.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
