package hash

import "hash/crc32"

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// VerifyCRC32C reports whether data has checksum sum.
func VerifyCRC32C(data []byte, sum uint32) bool {
	return CRC32C(data) == sum
}
