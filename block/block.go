package block

// Block is an immutable, positionally indexed run of values of one Type.
//
// Every position-taking method returns ErrOutOfRange for positions outside
// [0, PositionCount()). Byte-level methods additionally validate the byte
// range against the value's physical span.
type Block interface {
	// PositionCount returns the number of positions in the block.
	PositionCount() int

	// Type returns the logical type of the values.
	Type() Type

	// Encoding returns the physical encoding used to serialize the block.
	Encoding() Encoding

	// SizeInBytes returns an estimate of the memory retained by the block.
	SizeInBytes() int

	// IsNull reports whether the value at position is null.
	IsNull(position int) (bool, error)

	// Length returns the length of the physical value span at position.
	Length(position int) (int, error)

	ByteAt(position, offset int) (byte, error)
	ShortAt(position, offset int) (int16, error)
	IntAt(position, offset int) (int32, error)
	LongAt(position, offset int) (int64, error)
	FloatAt(position, offset int) (float32, error)
	DoubleAt(position, offset int) (float64, error)

	// SliceAt returns length bytes at offset in the value at position. The
	// returned slice aliases block storage.
	SliceAt(position, offset, length int) ([]byte, error)

	// BytesEqual compares length bytes at offset in the value at position
	// with length bytes at otherOffset in other.
	BytesEqual(position, offset int, other []byte, otherOffset, length int) (bool, error)

	// BytesCompare compares bytes in the value at position with bytes in
	// other, lexicographically by unsigned byte and then by length.
	BytesCompare(position, offset, length int, other []byte, otherOffset, otherLength int) (int, error)

	// RangeEqual compares byte ranges of two block values.
	RangeEqual(position, offset int, other Block, otherPosition, otherOffset, length int) (bool, error)

	// RangeHash hashes length bytes at offset in the value at position.
	RangeHash(position, offset, length int) (uint64, error)

	// RangeCompare orders byte ranges of two block values like BytesCompare.
	RangeCompare(position, offset, length int, other Block, otherPosition, otherOffset, otherLength int) (int, error)

	// AppendSliceTo writes length bytes at offset in the value at position
	// into the current entry of bb. The caller closes the entry.
	AppendSliceTo(position, offset, length int, bb Builder) error

	Boolean(position int) (bool, error)
	Long(position int) (int64, error)
	Double(position int) (float64, error)

	// Slice returns the value at position. The returned slice aliases block
	// storage.
	Slice(position int) ([]byte, error)

	// Array returns the elements of the array at position as a view.
	Array(position int) (Block, error)

	// ObjectValue materializes the value at position, or nil if it is null.
	ObjectValue(session Session, position int) (any, error)

	// EqualTo reports logical equality with the value at otherPosition in
	// other, independent of either block's encoding. Two nulls are equal.
	EqualTo(position int, other Block, otherPosition int) (bool, error)

	// Hash returns the hash of the value at position; nulls hash to 0.
	Hash(position int) (uint64, error)

	// CompareTo orders the value at position against the value at
	// otherPosition in other under order.
	CompareTo(order SortOrder, position int, other Block, otherPosition int) (int, error)

	// AppendTo copies the value at position into bb as a new entry.
	AppendTo(position int, bb Builder) error

	// Region returns a view of [positionOffset, positionOffset+length)
	// sharing this block's storage.
	Region(positionOffset, length int) (Block, error)

	// SingleValueBlock returns a one-position block holding an independent
	// copy of the value at position.
	SingleValueBlock(position int) (Block, error)
}

// Builder accumulates values for a new Block. A builder has a single
// writer; after Build every mutating method returns ErrBuilderExhausted.
//
// Raw writes append bytes to the current entry, CloseEntry finishes it.
// The typed Append methods write a whole entry.
type Builder interface {
	WriteByte(v byte) error
	WriteShort(v int16) error
	WriteInt(v int32) error
	WriteLong(v int64) error
	WriteFloat(v float32) error
	WriteDouble(v float64) error
	WriteBytes(p []byte) error

	// CloseEntry finishes the current entry and advances the position count.
	CloseEntry() error

	// AppendNull appends a null entry. The current entry must be empty.
	AppendNull() error

	AppendBoolean(v bool) error
	AppendLong(v int64) error
	AppendDouble(v float64) error
	AppendSlice(v []byte) error

	// PositionCount returns the number of closed entries.
	PositionCount() int

	// SizeInBytes estimates the memory held by the builder.
	SizeInBytes() int

	// Type returns the type of the block being built.
	Type() Type

	// Build finalizes the entries into an immutable Block.
	Build() (Block, error)
}
