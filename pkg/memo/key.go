package memo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// KeyFunc derives the cache key for an argument value. Implementations must
// be deterministic: equal argument structures must produce equal keys. The
// wrapper performs no collision checking on caller-supplied key functions.
type KeyFunc[A any] func(args A) (string, error)

// DefaultKey derives a deterministic key from args by canonical structural
// serialization: the arguments are JSON-encoded (map keys sorted by the
// encoder, struct fields in declaration order) and the encoding is hashed
// with SHA256. Structurally equal arguments always produce the same 64-char
// hex key; arguments differing in any element produce different keys absent
// hash collisions.
//
// Arguments must be JSON-serializable. Channels, funcs, and cyclic values
// return an error before the wrapped computation is consulted.
func DefaultKey(args any) (string, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("failed to serialize key arguments: %w", err)
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// defaultKeyFunc adapts DefaultKey to a typed KeyFunc.
func defaultKeyFunc[A any](args A) (string, error) {
	return DefaultKey(args)
}
