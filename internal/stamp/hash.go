package stamp

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the memoization cache of the default Hasher.
const DefaultCacheSize = 256

// Hasher computes stamp hashes and memoizes them by serialized input.
//
// The cache is content-addressed, so an entry can never be stale; the bound
// only limits memory. A Hasher is safe for concurrent use.
type Hasher struct {
	cache *lru.Cache[string, string]
}

// NewHasher returns a Hasher whose cache holds at most size entries.
func NewHasher(size int) (*Hasher, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("NewHasher: %w", err)
	}
	return &Hasher{cache: cache}, nil
}

var defaultHasher = mustHasher(DefaultCacheSize)

func mustHasher(size int) *Hasher {
	h, err := NewHasher(size)
	if err != nil {
		panic(err)
	}
	return h
}

// Hash returns the 32-character hash of parts. Order matters: the parts are
// serialized as an ordered array before hashing.
func (h *Hasher) Hash(parts []string) string {
	input := string(Serialize(parts))
	if cached, ok := h.cache.Get(input); ok {
		return cached
	}

	result := digest(input)
	h.cache.Add(input, result)
	return result
}

// Len reports how many inputs are currently memoized.
func (h *Hasher) Len() int {
	return h.cache.Len()
}

// Purge drops every memoized entry.
func (h *Hasher) Purge() {
	h.cache.Purge()
}

// digest is SHA-256 over the UTF-8 bytes of input, truncated to HashLength.
func digest(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:HashLength]
}
