package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Bytes returns the 64-bit xxHash of b.
func Bytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Long returns the 64-bit xxHash of the little-endian bytes of v.
func Long(v int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return xxhash.Sum64(buf[:])
}

// Combine folds h into seed. The result depends on the order of the calls.
func Combine(seed, h uint64) uint64 {
	return 31*seed + h
}
