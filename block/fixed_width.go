package block

import (
	"fmt"

	"github.com/hupe1980/colblock/internal/nulls"
)

func init() { Register(fixedWidthEncoding{}) }

// FixedWidthBlock stores fixedSize bytes per position in a single buffer.
// Null positions hold zero bytes.
type FixedWidthBlock struct {
	accessor
	typ       Type
	fixedSize int
	count     int
	data      []byte
	nulls     nulls.Set
	size      int
}

var _ Block = (*FixedWidthBlock)(nil)

// NewFixedWidthBlock returns a block of positionCount values stored in data.
// isNull may be nil when there are no nulls. The block takes ownership of
// data.
func NewFixedWidthBlock(t Type, positionCount int, data []byte, isNull []bool) (*FixedWidthBlock, error) {
	set, err := nullSet(isNull, positionCount)
	if err != nil {
		return nil, err
	}
	return newFixedWidthBlock(t, positionCount, data, set)
}

func newFixedWidthBlock(t Type, positionCount int, data []byte, set nulls.Set) (*FixedWidthBlock, error) {
	fixedSize := t.FixedSize()
	if fixedSize <= 0 {
		return nil, fmt.Errorf("%w: type %s has no fixed size", ErrInvalidBlock, t.Name())
	}
	if positionCount < 0 || len(data) != positionCount*fixedSize {
		return nil, fmt.Errorf("%w: %d bytes for %d positions of %d bytes", ErrInvalidBlock, len(data), positionCount, fixedSize)
	}

	b := &FixedWidthBlock{
		typ:       t,
		fixedSize: fixedSize,
		count:     positionCount,
		data:      data,
		nulls:     set,
		size:      len(data) + set.SizeInBytes(),
	}
	b.accessor = accessor{b}
	return b, nil
}

func (b *FixedWidthBlock) PositionCount() int { return b.count }

func (b *FixedWidthBlock) Type() Type { return b.typ }

func (b *FixedWidthBlock) Encoding() Encoding { return fixedWidthEncoding{} }

func (b *FixedWidthBlock) SizeInBytes() int { return b.size }

func (b *FixedWidthBlock) IsNull(position int) (bool, error) {
	if err := checkPosition(position, b.count); err != nil {
		return false, err
	}
	return b.nulls.Contains(position), nil
}

func (b *FixedWidthBlock) valueSpan(position int) ([]byte, error) {
	if err := checkPosition(position, b.count); err != nil {
		return nil, err
	}
	start := position * b.fixedSize
	return b.data[start : start+b.fixedSize : start+b.fixedSize], nil
}

func (b *FixedWidthBlock) Region(positionOffset, length int) (Block, error) {
	if err := checkRegion(positionOffset, length, b.count); err != nil {
		return nil, err
	}
	start := positionOffset * b.fixedSize
	end := start + length*b.fixedSize
	return newFixedWidthBlock(b.typ, length, b.data[start:end:end], b.nulls.Region(positionOffset, length))
}

func (b *FixedWidthBlock) SingleValueBlock(position int) (Block, error) {
	span, err := b.valueSpan(position)
	if err != nil {
		return nil, err
	}
	return NewFixedWidthBlock(b.typ, 1, append([]byte(nil), span...), []bool{b.nulls.Contains(position)})
}

// FixedWidthBuilder builds a FixedWidthBlock. Every entry must hold exactly
// the type's fixed size in bytes.
type FixedWidthBuilder struct {
	entryWriter
	state
	typ       Type
	fixedSize int
	data      []byte
	entry     int
	count     int
	nulls     nulls.Builder
}

var _ Builder = (*FixedWidthBuilder)(nil)

// NewFixedWidthBuilder returns a builder for t with room for
// expectedEntries values.
func NewFixedWidthBuilder(t Type, expectedEntries int) *FixedWidthBuilder {
	fixedSize := t.FixedSize()
	bb := &FixedWidthBuilder{
		typ:       t,
		fixedSize: fixedSize,
		data:      make([]byte, 0, max(expectedEntries, 0)*max(fixedSize, 0)),
	}
	bb.entryWriter.sink = bb
	return bb
}

func (bb *FixedWidthBuilder) WriteBytes(p []byte) error {
	if err := bb.check(); err != nil {
		return err
	}
	if bb.entry+len(p) > bb.fixedSize {
		return fmt.Errorf("%w: entry of %d bytes exceeds fixed size %d", ErrInvalidEntry, bb.entry+len(p), bb.fixedSize)
	}
	bb.data = append(bb.data, p...)
	bb.entry += len(p)
	return nil
}

func (bb *FixedWidthBuilder) CloseEntry() error {
	if err := bb.check(); err != nil {
		return err
	}
	if bb.entry != bb.fixedSize {
		return fmt.Errorf("%w: entry of %d bytes, want %d", ErrInvalidEntry, bb.entry, bb.fixedSize)
	}
	bb.entry = 0
	bb.count++
	return nil
}

func (bb *FixedWidthBuilder) AppendNull() error {
	if err := bb.check(); err != nil {
		return err
	}
	if bb.entry != 0 {
		return fmt.Errorf("%w: null appended to an open entry", ErrInvalidEntry)
	}
	bb.data = append(bb.data, make([]byte, bb.fixedSize)...)
	bb.nulls.Add(bb.count)
	bb.count++
	return nil
}

func (bb *FixedWidthBuilder) PositionCount() int { return bb.count }

func (bb *FixedWidthBuilder) SizeInBytes() int { return len(bb.data) + bb.nulls.SizeInBytes() }

func (bb *FixedWidthBuilder) Type() Type { return bb.typ }

func (bb *FixedWidthBuilder) Build() (Block, error) {
	if err := bb.check(); err != nil {
		return nil, err
	}
	if bb.entry != 0 {
		return nil, fmt.Errorf("%w: unclosed entry of %d bytes", ErrInvalidEntry, bb.entry)
	}
	if err := bb.finish(); err != nil {
		return nil, err
	}
	data := bb.data
	bb.data = nil
	return newFixedWidthBlock(bb.typ, bb.count, data, bb.nulls.Build(bb.count))
}

// fixedWidthEncoding payload:
//
//	type | positionCount | nulls | fixedSize | values
type fixedWidthEncoding struct{}

func (fixedWidthEncoding) Name() string { return FixedWidthEncodingName }

func (e fixedWidthEncoding) Write(s *Serde, out *Output, b Block) error {
	fb, err := checkEncoding[*FixedWidthBlock](e, b)
	if err != nil {
		return err
	}
	s.writeType(out, fb.typ)
	out.WriteUvarint(uint64(fb.count))
	if err := writeNulls(out, fb.nulls); err != nil {
		return err
	}
	out.WriteUvarint(uint64(fb.fixedSize))
	out.WriteRaw(fb.data)
	return out.Err()
}

func (fixedWidthEncoding) Read(s *Serde, in *Input) (Block, error) {
	t, err := s.readType(in)
	if err != nil {
		return nil, err
	}
	count := in.ReadCount(maxPositions)
	set, err := readNulls(in, count)
	if err != nil {
		return nil, err
	}
	fixedSize := in.ReadCount(maxPositions)
	if err := in.Err(); err != nil {
		return nil, err
	}
	if fixedSize != t.FixedSize() {
		return nil, corruptf("fixed size %d for type %s of size %d", fixedSize, t.Name(), t.FixedSize())
	}
	data := in.ReadRaw(count * fixedSize)
	if err := in.Err(); err != nil {
		return nil, err
	}
	return newFixedWidthBlock(t, count, data, set)
}
