// Package conv provides checked integer conversions.
//
// Blocks index positions and byte offsets with int, but offsets and frame
// fields are bounded to 32 bits. Every narrowing conversion of computed
// sizes goes through this package.
//
// For conversions that are provably safe (loop indices bounded by a
// validated position count), use direct casts instead.
package conv
