// Package hashcache hashes a candidate codec's leading probe bytes so
// pkg/dispatch can remember a CheckStyle verdict without re-probing a
// file it has already seen.
package hashcache

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given byte prefix.
func ID(data []byte) uint64 {
	return xxhash.Sum64(data)
}
