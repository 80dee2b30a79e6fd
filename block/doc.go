// Package block implements the in-memory columnar value container used on
// the query execution path.
//
// A Block is an immutable, positionally indexed run of values of one Type
// in one physical layout (its Encoding). Blocks are produced by a Builder,
// read through two access tiers, and moved between processes through a
// Serde backed by an encoding Registry.
//
// # Access tiers
//
// Typed accessors (Boolean, Long, Double, Slice, Array, ObjectValue) return
// the logical value at a position. The accessor must agree with the
// Type's Kind; a mismatch returns ErrTypeMismatch and a null position
// returns ErrNullValue (ObjectValue returns nil for nulls instead).
//
// Byte-level accessors (ByteAt, ShortAt, IntAt, LongAt, FloatAt, DoubleAt,
// SliceAt) read little-endian bytes inside the physical span of a value
// without materializing it, so hashing, equality and ordering can run over
// large batches:
//
//	v, err := b.LongAt(position, 0)
//	same, err := b.RangeEqual(position, 0, other, otherPosition, 0, 8)
//
// # Layouts
//
//	FIXED_WIDTH     one buffer, FixedSize bytes per position
//	VARIABLE_WIDTH  offsets + data
//	DICTIONARY      dictionary block + int32 ids
//	RLE             one-position value block + repeat count
//	ARRAY           offsets into an element block
//
// Null positions are tracked in a Roaring bitmap shared by region views.
//
// # Ownership
//
// Region returns a view that shares the backing buffers of its source;
// SingleValueBlock and decoded blocks own their storage. Slices returned by
// Slice and SliceAt alias block storage and must not be modified.
//
// # Concurrency
//
// Built blocks are safe for concurrent reads. A Builder has a single writer
// and becomes exhausted after Build.
package block
