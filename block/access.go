package block

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/hupe1980/colblock/internal/hash"
)

// valueBlock is implemented by every block variant in this package. It
// exposes the physical bytes of one position.
type valueBlock interface {
	Block
	valueSpan(position int) ([]byte, error)
}

// accessor implements the parts of Block that are identical for every
// variant on top of IsNull, Type and valueSpan. Variants embed it and set
// self to themselves.
type accessor struct {
	self valueBlock
}

// spanOf returns the physical bytes of position in b.
func spanOf(b Block, position int) ([]byte, error) {
	if vb, ok := b.(valueBlock); ok {
		return vb.valueSpan(position)
	}
	n, err := b.Length(position)
	if err != nil {
		return nil, err
	}
	return b.SliceAt(position, 0, n)
}

func (a accessor) bytesAt(position, offset, length int) ([]byte, error) {
	span, err := a.self.valueSpan(position)
	if err != nil {
		return nil, err
	}
	if err := checkSpan(offset, length, len(span)); err != nil {
		return nil, err
	}
	return span[offset : offset+length : offset+length], nil
}

func (a accessor) Length(position int) (int, error) {
	span, err := a.self.valueSpan(position)
	if err != nil {
		return 0, err
	}
	return len(span), nil
}

func (a accessor) ByteAt(position, offset int) (byte, error) {
	b, err := a.bytesAt(position, offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (a accessor) ShortAt(position, offset int) (int16, error) {
	b, err := a.bytesAt(position, offset, 2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

func (a accessor) IntAt(position, offset int) (int32, error) {
	b, err := a.bytesAt(position, offset, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (a accessor) LongAt(position, offset int) (int64, error) {
	b, err := a.bytesAt(position, offset, 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (a accessor) FloatAt(position, offset int) (float32, error) {
	b, err := a.bytesAt(position, offset, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (a accessor) DoubleAt(position, offset int) (float64, error) {
	b, err := a.bytesAt(position, offset, 8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

func (a accessor) SliceAt(position, offset, length int) ([]byte, error) {
	return a.bytesAt(position, offset, length)
}

func (a accessor) BytesEqual(position, offset int, other []byte, otherOffset, length int) (bool, error) {
	b, err := a.bytesAt(position, offset, length)
	if err != nil {
		return false, err
	}
	if err := checkSpan(otherOffset, length, len(other)); err != nil {
		return false, err
	}
	return bytes.Equal(b, other[otherOffset:otherOffset+length]), nil
}

func (a accessor) BytesCompare(position, offset, length int, other []byte, otherOffset, otherLength int) (int, error) {
	b, err := a.bytesAt(position, offset, length)
	if err != nil {
		return 0, err
	}
	if err := checkSpan(otherOffset, otherLength, len(other)); err != nil {
		return 0, err
	}
	return bytes.Compare(b, other[otherOffset:otherOffset+otherLength]), nil
}

func (a accessor) RangeEqual(position, offset int, other Block, otherPosition, otherOffset, length int) (bool, error) {
	b, err := a.bytesAt(position, offset, length)
	if err != nil {
		return false, err
	}
	o, err := other.SliceAt(otherPosition, otherOffset, length)
	if err != nil {
		return false, err
	}
	return bytes.Equal(b, o), nil
}

func (a accessor) RangeHash(position, offset, length int) (uint64, error) {
	b, err := a.bytesAt(position, offset, length)
	if err != nil {
		return 0, err
	}
	return hash.Bytes(b), nil
}

func (a accessor) RangeCompare(position, offset, length int, other Block, otherPosition, otherOffset, otherLength int) (int, error) {
	b, err := a.bytesAt(position, offset, length)
	if err != nil {
		return 0, err
	}
	o, err := other.SliceAt(otherPosition, otherOffset, otherLength)
	if err != nil {
		return 0, err
	}
	return bytes.Compare(b, o), nil
}

func (a accessor) AppendSliceTo(position, offset, length int, bb Builder) error {
	b, err := a.bytesAt(position, offset, length)
	if err != nil {
		return err
	}
	return bb.WriteBytes(b)
}

// typedSpan validates kind and nullness before returning the value bytes.
func (a accessor) typedSpan(position int, want Kind) ([]byte, error) {
	if err := checkKind(a.self.Type(), want); err != nil {
		return nil, err
	}
	null, err := a.self.IsNull(position)
	if err != nil {
		return nil, err
	}
	if null {
		return nil, fmt.Errorf("%w: position %d", ErrNullValue, position)
	}
	return a.self.valueSpan(position)
}

func (a accessor) Boolean(position int) (bool, error) {
	b, err := a.typedSpan(position, KindBoolean)
	if err != nil {
		return false, err
	}
	if len(b) != 1 {
		return false, fmt.Errorf("%w: boolean value of %d bytes", ErrTypeMismatch, len(b))
	}
	return b[0] != 0, nil
}

func (a accessor) Long(position int) (int64, error) {
	b, err := a.typedSpan(position, KindLong)
	if err != nil {
		return 0, err
	}
	switch len(b) {
	case 1:
		return int64(int8(b[0])), nil
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(b))), nil
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(b))), nil
	case 8:
		return int64(binary.LittleEndian.Uint64(b)), nil
	default:
		return 0, fmt.Errorf("%w: long value of %d bytes", ErrTypeMismatch, len(b))
	}
}

func (a accessor) Double(position int) (float64, error) {
	b, err := a.typedSpan(position, KindDouble)
	if err != nil {
		return 0, err
	}
	switch len(b) {
	case 4:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))), nil
	case 8:
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	default:
		return 0, fmt.Errorf("%w: double value of %d bytes", ErrTypeMismatch, len(b))
	}
}

func (a accessor) Slice(position int) ([]byte, error) {
	return a.typedSpan(position, KindSlice)
}

func (a accessor) Array(position int) (Block, error) {
	if err := checkKind(a.self.Type(), KindArray); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %T holds no array elements", ErrTypeMismatch, a.self)
}

func (a accessor) ObjectValue(session Session, position int) (any, error) {
	null, err := a.self.IsNull(position)
	if err != nil || null {
		return nil, err
	}
	return a.self.Type().ObjectValue(session, a.self, position)
}

func (a accessor) EqualTo(position int, other Block, otherPosition int) (bool, error) {
	null, err := a.self.IsNull(position)
	if err != nil {
		return false, err
	}
	otherNull, err := other.IsNull(otherPosition)
	if err != nil {
		return false, err
	}
	if null || otherNull {
		return null && otherNull, nil
	}
	return a.self.Type().EqualTo(a.self, position, other, otherPosition)
}

func (a accessor) Hash(position int) (uint64, error) {
	null, err := a.self.IsNull(position)
	if err != nil || null {
		return 0, err
	}
	return a.self.Type().Hash(a.self, position)
}

func (a accessor) CompareTo(order SortOrder, position int, other Block, otherPosition int) (int, error) {
	return order.CompareBlockValue(a.self.Type(), a.self, position, other, otherPosition)
}

func (a accessor) AppendTo(position int, bb Builder) error {
	null, err := a.self.IsNull(position)
	if err != nil {
		return err
	}
	if null {
		return bb.AppendNull()
	}
	return a.self.Type().AppendTo(a.self, position, bb)
}
