package block

import (
	"fmt"

	"github.com/hupe1980/colblock/internal/conv"
	"github.com/hupe1980/colblock/internal/nulls"
)

func init() { Register(arrayEncoding{}) }

// ArrayBlock stores arrays as ranges of an element block. Array p holds
// elements [offsets[p], offsets[p+1]). Byte-level accessors do not apply
// to arrays and return ErrTypeMismatch.
type ArrayBlock struct {
	accessor
	typ      Type
	count    int
	offsets  []int32
	elements Block
	nulls    nulls.Set
	size     int
}

var _ Block = (*ArrayBlock)(nil)

// NewArrayBlock returns a block of positionCount arrays over elements.
// offsets holds positionCount+1 non-decreasing element positions. isNull
// may be nil when there are no nulls.
func NewArrayBlock(t Type, positionCount int, offsets []int32, elements Block, isNull []bool) (*ArrayBlock, error) {
	set, err := nullSet(isNull, positionCount)
	if err != nil {
		return nil, err
	}
	if positionCount < 0 {
		return nil, fmt.Errorf("%w: negative position count %d", ErrInvalidBlock, positionCount)
	}
	if err := validateOffsets(offsets, positionCount, elements.PositionCount()); err != nil {
		return nil, err
	}
	return newArrayBlock(t, positionCount, offsets, elements, set)
}

func newArrayBlock(t Type, positionCount int, offsets []int32, elements Block, set nulls.Set) (*ArrayBlock, error) {
	if t.Kind() != KindArray {
		return nil, fmt.Errorf("%w: array block of type %s", ErrTypeMismatch, t.Name())
	}

	b := &ArrayBlock{
		typ:      t,
		count:    positionCount,
		offsets:  offsets,
		elements: elements,
		nulls:    set,
	}
	b.size = 4*len(offsets) + set.SizeInBytes()
	if n := elements.PositionCount(); n > 0 {
		span := int64(offsets[positionCount] - offsets[0])
		b.size += int(int64(elements.SizeInBytes()) * span / int64(n))
	}
	b.accessor = accessor{b}
	return b, nil
}

// Elements returns the element block shared by all positions.
func (b *ArrayBlock) Elements() Block { return b.elements }

func (b *ArrayBlock) PositionCount() int { return b.count }

func (b *ArrayBlock) Type() Type { return b.typ }

func (b *ArrayBlock) Encoding() Encoding { return arrayEncoding{} }

func (b *ArrayBlock) SizeInBytes() int { return b.size }

func (b *ArrayBlock) IsNull(position int) (bool, error) {
	if err := checkPosition(position, b.count); err != nil {
		return false, err
	}
	return b.nulls.Contains(position), nil
}

func (b *ArrayBlock) valueSpan(position int) ([]byte, error) {
	if err := checkPosition(position, b.count); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: array values have no byte representation", ErrTypeMismatch)
}

// Array returns a view of the elements of the array at position.
func (b *ArrayBlock) Array(position int) (Block, error) {
	null, err := b.IsNull(position)
	if err != nil {
		return nil, err
	}
	if null {
		return nil, fmt.Errorf("%w: position %d", ErrNullValue, position)
	}
	start, end := b.offsets[position], b.offsets[position+1]
	return b.elements.Region(int(start), int(end-start))
}

func (b *ArrayBlock) Region(positionOffset, length int) (Block, error) {
	if err := checkRegion(positionOffset, length, b.count); err != nil {
		return nil, err
	}
	end := positionOffset + length + 1
	return newArrayBlock(b.typ, length, b.offsets[positionOffset:end:end], b.elements, b.nulls.Region(positionOffset, length))
}

func (b *ArrayBlock) SingleValueBlock(position int) (Block, error) {
	null, err := b.IsNull(position)
	if err != nil {
		return nil, err
	}
	start, end := b.offsets[position], b.offsets[position+1]
	if null {
		end = start
	}
	view, err := b.elements.Region(int(start), int(end-start))
	if err != nil {
		return nil, err
	}
	elements, err := copyBlock(view)
	if err != nil {
		return nil, err
	}
	return NewArrayBlock(b.typ, 1, []int32{0, end - start}, elements, []bool{null})
}

// ArrayBuilder builds an ArrayBlock. Elements of the current array are
// appended to ElementBuilder and the array is finished with CloseEntry.
// Raw writes and scalar appends return ErrTypeMismatch.
type ArrayBuilder struct {
	entryWriter
	state
	typ      Type
	elements Builder
	offsets  []int32
	nulls    nulls.Builder
}

var _ Builder = (*ArrayBuilder)(nil)

// NewArrayBuilder returns a builder for the array type t whose elements
// are written to elements.
func NewArrayBuilder(t Type, elements Builder, expectedEntries int) *ArrayBuilder {
	offsets := make([]int32, 1, max(expectedEntries, 0)+1)
	bb := &ArrayBuilder{typ: t, elements: elements, offsets: offsets}
	bb.entryWriter.sink = bb
	return bb
}

// ElementBuilder returns the builder receiving the elements of the
// current array.
func (bb *ArrayBuilder) ElementBuilder() Builder { return bb.elements }

func (bb *ArrayBuilder) WriteBytes([]byte) error {
	if err := bb.check(); err != nil {
		return err
	}
	return fmt.Errorf("%w: raw bytes written to array builder", ErrTypeMismatch)
}

func (bb *ArrayBuilder) entryOpen() bool {
	return int(bb.offsets[len(bb.offsets)-1]) != bb.elements.PositionCount()
}

func (bb *ArrayBuilder) CloseEntry() error {
	if err := bb.check(); err != nil {
		return err
	}
	n, err := conv.IntToInt32(bb.elements.PositionCount())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	bb.offsets = append(bb.offsets, n)
	return nil
}

// AppendArray appends a copy of every position of elements as one array.
// Elements of another type are rejected before anything is copied. If a
// copy fails anyway, the entry stays open and the builder is unusable.
func (bb *ArrayBuilder) AppendArray(elements Block) error {
	if err := bb.check(); err != nil {
		return err
	}
	if bb.entryOpen() {
		return fmt.Errorf("%w: array appended to an open entry", ErrInvalidEntry)
	}
	if want, got := bb.elements.Type(), elements.Type(); elements.PositionCount() > 0 && got.Name() != want.Name() {
		return fmt.Errorf("%w: %s elements appended to %s", ErrTypeMismatch, got.Name(), bb.typ.Name())
	}
	for p := 0; p < elements.PositionCount(); p++ {
		if err := elements.AppendTo(p, bb.elements); err != nil {
			return err
		}
	}
	return bb.CloseEntry()
}

func (bb *ArrayBuilder) AppendNull() error {
	if err := bb.check(); err != nil {
		return err
	}
	if bb.entryOpen() {
		return fmt.Errorf("%w: null appended to an open entry", ErrInvalidEntry)
	}
	bb.nulls.Add(bb.PositionCount())
	bb.offsets = append(bb.offsets, bb.offsets[len(bb.offsets)-1])
	return nil
}

func (bb *ArrayBuilder) PositionCount() int { return len(bb.offsets) - 1 }

func (bb *ArrayBuilder) SizeInBytes() int {
	return bb.elements.SizeInBytes() + 4*len(bb.offsets) + bb.nulls.SizeInBytes()
}

func (bb *ArrayBuilder) Type() Type { return bb.typ }

func (bb *ArrayBuilder) Build() (Block, error) {
	if err := bb.check(); err != nil {
		return nil, err
	}
	if bb.entryOpen() {
		return nil, fmt.Errorf("%w: unclosed array entry", ErrInvalidEntry)
	}
	elements, err := bb.elements.Build()
	if err != nil {
		return nil, err
	}
	if err := bb.finish(); err != nil {
		return nil, err
	}
	count := bb.PositionCount()
	return newArrayBlock(bb.typ, count, bb.offsets, elements, bb.nulls.Build(count))
}

// arrayEncoding payload:
//
//	type | positionCount | nulls | offsets[1:] rebased to 0 | element block
type arrayEncoding struct{}

func (arrayEncoding) Name() string { return ArrayEncodingName }

func (e arrayEncoding) Write(s *Serde, out *Output, b Block) error {
	ab, err := checkEncoding[*ArrayBlock](e, b)
	if err != nil {
		return err
	}
	s.writeType(out, ab.typ)
	out.WriteUvarint(uint64(ab.count))
	if err := writeNulls(out, ab.nulls); err != nil {
		return err
	}
	base := ab.offsets[0]
	for _, off := range ab.offsets[1:] {
		out.WriteUint32(uint32(off - base))
	}
	elements, err := ab.elements.Region(int(base), int(ab.offsets[ab.count]-base))
	if err != nil {
		return err
	}
	return s.WriteBlock(out, elements)
}

func (arrayEncoding) Read(s *Serde, in *Input) (Block, error) {
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
	if err := in.Err(); err != nil {
		return nil, err
	}
	elements, err := s.ReadBlock(in)
	if err != nil {
		return nil, err
	}
	offsets := make([]int32, count+1)
	copy(offsets[1:], ends)
	if err := validateOffsets(offsets, count, elements.PositionCount()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if int(offsets[count]) != elements.PositionCount() {
		return nil, corruptf("offsets cover %d of %d elements", offsets[count], elements.PositionCount())
	}
	return newArrayBlock(t, count, offsets, elements, set)
}
