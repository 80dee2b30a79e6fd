// Package hash provides the hash functions used on the block hot path and
// the checksum used by serialized pages.
//
// # Value hashing
//
// Value hashes are 64-bit xxHash (github.com/cespare/xxhash/v2). Fixed-width
// values are hashed over their little-endian bytes, so a value hashes the
// same no matter which block encoding holds it:
//
//	h := hash.Long(42)
//	h = hash.Combine(h, hash.Bytes([]byte("abc")))
//
// # CRC32-Castagnoli (CRC32C)
//
// Serialized pages carry a CRC32C of their stored payload. Go's crc32
// package uses SSE4.2 / ARM CRC instructions when available.
package hash
