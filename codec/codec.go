// Package codec centralizes the compression of serialized pages.
//
// Codec names are written into every page frame, so they are a
// breaking-change boundary: renaming a codec makes pages written with the
// old name undecodable.
package codec

import (
	"errors"
	"fmt"
	"sort"
)

// ErrSizeMismatch is returned when decompressed data does not have the
// size recorded at compression time.
var ErrSizeMismatch = errors.New("decompressed size mismatch")

// Codec compresses and decompresses byte slices.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name returns the stable name written into page frames.
	Name() string

	// Compress returns the compressed form of src. A nil result means src
	// did not compress and should be stored as is.
	Compress(src []byte) ([]byte, error)

	// Decompress restores uncompressedSize bytes from src.
	Decompress(src []byte, uncompressedSize int) ([]byte, error)
}

// Default is the codec used when none is configured.
var Default Codec = LZ4{}

var builtins = map[string]Codec{
	None{}.Name(): None{},
	LZ4{}.Name():  LZ4{},
	Zstd{}.Name(): Zstd{},
	S2{}.Name():   S2{},
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	c, ok := builtins[name]
	return c, ok
}

// Names returns the names of the built-in codecs in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkSize(c Codec, got, want int) error {
	if got != want {
		return fmt.Errorf("%s: %w: got %d bytes, want %d", c.Name(), ErrSizeMismatch, got, want)
	}
	return nil
}

// None stores data uncompressed.
type None struct{}

func (None) Name() string { return "none" }

// Compress always reports src as incompressible.
func (None) Compress([]byte) ([]byte, error) { return nil, nil }

func (c None) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	if err := checkSize(c, len(src), uncompressedSize); err != nil {
		return nil, err
	}
	return src, nil
}
