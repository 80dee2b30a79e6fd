package block

import (
	"fmt"

	"github.com/hupe1980/colblock/internal/nulls"
)

func init() { Register(variableWidthEncoding{}) }

// VariableWidthBlock stores values back to back in a data buffer. Value p
// spans data[offsets[p]:offsets[p+1]]. Null positions have an empty span.
type VariableWidthBlock struct {
	accessor
	typ     Type
	count   int
	offsets []int32
	data    []byte
	nulls   nulls.Set
	size    int
}

var _ Block = (*VariableWidthBlock)(nil)

// NewVariableWidthBlock returns a block of positionCount values. offsets
// holds positionCount+1 non-decreasing entries into data. isNull may be nil
// when there are no nulls. The block takes ownership of offsets and data.
func NewVariableWidthBlock(t Type, positionCount int, offsets []int32, data []byte, isNull []bool) (*VariableWidthBlock, error) {
	set, err := nullSet(isNull, positionCount)
	if err != nil {
		return nil, err
	}
	if positionCount < 0 {
		return nil, fmt.Errorf("%w: negative position count %d", ErrInvalidBlock, positionCount)
	}
	if err := validateOffsets(offsets, positionCount, len(data)); err != nil {
		return nil, err
	}
	return newVariableWidthBlock(t, positionCount, offsets, data, set), nil
}

func newVariableWidthBlock(t Type, positionCount int, offsets []int32, data []byte, set nulls.Set) *VariableWidthBlock {
	b := &VariableWidthBlock{
		typ:     t,
		count:   positionCount,
		offsets: offsets,
		data:    data,
		nulls:   set,
	}
	b.size = int(offsets[positionCount]-offsets[0]) + 4*len(offsets) + set.SizeInBytes()
	b.accessor = accessor{b}
	return b
}

func (b *VariableWidthBlock) PositionCount() int { return b.count }

func (b *VariableWidthBlock) Type() Type { return b.typ }

func (b *VariableWidthBlock) Encoding() Encoding { return variableWidthEncoding{} }

func (b *VariableWidthBlock) SizeInBytes() int { return b.size }

func (b *VariableWidthBlock) IsNull(position int) (bool, error) {
	if err := checkPosition(position, b.count); err != nil {
		return false, err
	}
	return b.nulls.Contains(position), nil
}

func (b *VariableWidthBlock) valueSpan(position int) ([]byte, error) {
	if err := checkPosition(position, b.count); err != nil {
		return nil, err
	}
	start, end := b.offsets[position], b.offsets[position+1]
	return b.data[start:end:end], nil
}

func (b *VariableWidthBlock) Region(positionOffset, length int) (Block, error) {
	if err := checkRegion(positionOffset, length, b.count); err != nil {
		return nil, err
	}
	offsets := b.offsets[positionOffset : positionOffset+length+1]
	return newVariableWidthBlock(b.typ, length, offsets, b.data, b.nulls.Region(positionOffset, length)), nil
}

func (b *VariableWidthBlock) SingleValueBlock(position int) (Block, error) {
	span, err := b.valueSpan(position)
	if err != nil {
		return nil, err
	}
	data := append([]byte(nil), span...)
	return NewVariableWidthBlock(b.typ, 1, []int32{0, int32(len(data))}, data, []bool{b.nulls.Contains(position)})
}

// VariableWidthBuilder builds a VariableWidthBlock.
type VariableWidthBuilder struct {
	entryWriter
	state
	typ     Type
	offsets []int32
	data    []byte
	nulls   nulls.Builder
}

var _ Builder = (*VariableWidthBuilder)(nil)

// NewVariableWidthBuilder returns a builder for t with room for
// expectedEntries values.
func NewVariableWidthBuilder(t Type, expectedEntries int) *VariableWidthBuilder {
	expectedEntries = max(expectedEntries, 0)
	offsets := make([]int32, 1, expectedEntries+1)
	bb := &VariableWidthBuilder{
		typ:     t,
		offsets: offsets,
		data:    make([]byte, 0, expectedEntries*16),
	}
	bb.entryWriter.sink = bb
	return bb
}

func (bb *VariableWidthBuilder) WriteBytes(p []byte) error {
	if err := bb.check(); err != nil {
		return err
	}
	if len(bb.data)+len(p) > maxInt32 {
		return fmt.Errorf("%w: block data exceeds %d bytes", ErrInvalidEntry, maxInt32)
	}
	bb.data = append(bb.data, p...)
	return nil
}

func (bb *VariableWidthBuilder) CloseEntry() error {
	if err := bb.check(); err != nil {
		return err
	}
	bb.offsets = append(bb.offsets, int32(len(bb.data)))
	return nil
}

func (bb *VariableWidthBuilder) entryOpen() bool {
	return int(bb.offsets[len(bb.offsets)-1]) != len(bb.data)
}

func (bb *VariableWidthBuilder) AppendNull() error {
	if err := bb.check(); err != nil {
		return err
	}
	if bb.entryOpen() {
		return fmt.Errorf("%w: null appended to an open entry", ErrInvalidEntry)
	}
	bb.nulls.Add(bb.PositionCount())
	bb.offsets = append(bb.offsets, int32(len(bb.data)))
	return nil
}

func (bb *VariableWidthBuilder) PositionCount() int { return len(bb.offsets) - 1 }

func (bb *VariableWidthBuilder) SizeInBytes() int {
	return len(bb.data) + 4*len(bb.offsets) + bb.nulls.SizeInBytes()
}

func (bb *VariableWidthBuilder) Type() Type { return bb.typ }

func (bb *VariableWidthBuilder) Build() (Block, error) {
	if err := bb.check(); err != nil {
		return nil, err
	}
	if bb.entryOpen() {
		return nil, fmt.Errorf("%w: unclosed entry", ErrInvalidEntry)
	}
	if err := bb.finish(); err != nil {
		return nil, err
	}
	count := bb.PositionCount()
	offsets, data := bb.offsets, bb.data
	bb.offsets, bb.data = []int32{0}, nil
	return newVariableWidthBlock(bb.typ, count, offsets, data, bb.nulls.Build(count)), nil
}

// variableWidthEncoding payload:
//
//	type | positionCount | nulls | offsets[1:] rebased to 0 | data length | data
type variableWidthEncoding struct{}

func (variableWidthEncoding) Name() string { return VariableWidthEncodingName }

func (e variableWidthEncoding) Write(s *Serde, out *Output, b Block) error {
	vb, err := checkEncoding[*VariableWidthBlock](e, b)
	if err != nil {
		return err
	}
	s.writeType(out, vb.typ)
	out.WriteUvarint(uint64(vb.count))
	if err := writeNulls(out, vb.nulls); err != nil {
		return err
	}
	base := vb.offsets[0]
	for _, off := range vb.offsets[1:] {
		out.WriteUint32(uint32(off - base))
	}
	out.WriteBytes(vb.data[base:vb.offsets[vb.count]])
	return out.Err()
}

func (variableWidthEncoding) Read(s *Serde, in *Input) (Block, error) {
	t, err := s.readType(in)
	if err != nil {
		return nil, err
	}
	count := in.ReadCount(maxPositions)
	set, err := readNulls(in, count)
	if err != nil {
		return nil, err
	}
	ends := in.ReadInt32s(count)
	data := in.ReadBytes()
	if err := in.Err(); err != nil {
		return nil, err
	}
	offsets := make([]int32, count+1)
	copy(offsets[1:], ends)
	if err := validateOffsets(offsets, count, len(data)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if int(offsets[count]) != len(data) {
		return nil, corruptf("offsets cover %d of %d data bytes", offsets[count], len(data))
	}
	return newVariableWidthBlock(t, count, offsets, data, set), nil
}
