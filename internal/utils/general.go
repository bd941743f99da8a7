package utils

import (
	"encoding/binary"
	"hash/fnv"
)

// HashInts folds a sequence of integers into one fnv-1a fingerprint.
// Used for tabu fingerprints: the caller quantizes floats to integers first
// so the hash does not depend on platform float formatting.
func HashInts(values []int64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Hash returns an fnv-1a fingerprint of a string.
func Hash(s string) int {
	h := fnv.New32a()
	h.Write([]byte(s))
	return int(h.Sum32())
}
