package hashtable

import "github.com/cespare/xxhash/v2"

// HashFunc maps a key to a 64-bit hash. The table only uses the low
// Shift() bits, so the low bits must be well mixed.
type HashFunc func(key string) uint64

const (
	fnvOffsetBasis = 2166136261
	fnvPrime       = 16777619
)

// FNV hashes key by multiplying the running hash by the 32-bit FNV
// prime, then XORing in the next byte, starting from the 32-bit
// offset basis. The arithmetic is done in 64 bits.
func FNV(key string) uint64 {
	var hash uint64 = fnvOffsetBasis

	for i := 0; i < len(key); i++ {
		hash = (hash * fnvPrime) ^ uint64(key[i])
	}

	return hash
}

// XXHash hashes key with xxHash64.
func XXHash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// HashByName returns the hash function called name ("fnv" or "xxhash").
func HashByName(name string) (HashFunc, bool) {
	switch name {
	case "fnv":
		return FNV, true
	case "xxhash":
		return XXHash, true
	default:
		return nil, false
	}
}
