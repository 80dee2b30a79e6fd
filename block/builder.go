package block

import (
	"encoding/binary"
	"fmt"
	"math"
)

// rawSink is the part of a Builder that entryWriter builds on.
type rawSink interface {
	WriteBytes(p []byte) error
	CloseEntry() error
	Type() Type
}

// entryWriter implements the fixed-size raw writes and the typed appends
// on top of WriteBytes and CloseEntry.
type entryWriter struct {
	sink    rawSink
	scratch [8]byte
}

func (w *entryWriter) WriteByte(v byte) error {
	w.scratch[0] = v
	return w.sink.WriteBytes(w.scratch[:1])
}

func (w *entryWriter) WriteShort(v int16) error {
	binary.LittleEndian.PutUint16(w.scratch[:2], uint16(v))
	return w.sink.WriteBytes(w.scratch[:2])
}

func (w *entryWriter) WriteInt(v int32) error {
	binary.LittleEndian.PutUint32(w.scratch[:4], uint32(v))
	return w.sink.WriteBytes(w.scratch[:4])
}

func (w *entryWriter) WriteLong(v int64) error {
	binary.LittleEndian.PutUint64(w.scratch[:8], uint64(v))
	return w.sink.WriteBytes(w.scratch[:8])
}

func (w *entryWriter) WriteFloat(v float32) error {
	binary.LittleEndian.PutUint32(w.scratch[:4], math.Float32bits(v))
	return w.sink.WriteBytes(w.scratch[:4])
}

func (w *entryWriter) WriteDouble(v float64) error {
	binary.LittleEndian.PutUint64(w.scratch[:8], math.Float64bits(v))
	return w.sink.WriteBytes(w.scratch[:8])
}

func (w *entryWriter) AppendBoolean(v bool) error {
	if err := checkKind(w.sink.Type(), KindBoolean); err != nil {
		return err
	}
	var b byte
	if v {
		b = 1
	}
	if err := w.WriteByte(b); err != nil {
		return err
	}
	return w.sink.CloseEntry()
}

// AppendLong writes v using the type's fixed size. Values that do not fit
// return ErrInvalidEntry.
func (w *entryWriter) AppendLong(v int64) error {
	t := w.sink.Type()
	if err := checkKind(t, KindLong); err != nil {
		return err
	}

	var err error
	switch size := t.FixedSize(); size {
	case 1:
		if v < math.MinInt8 || v > math.MaxInt8 {
			return fmt.Errorf("%w: %d overflows %s", ErrInvalidEntry, v, t.Name())
		}
		err = w.WriteByte(byte(int8(v)))
	case 2:
		if v < math.MinInt16 || v > math.MaxInt16 {
			return fmt.Errorf("%w: %d overflows %s", ErrInvalidEntry, v, t.Name())
		}
		err = w.WriteShort(int16(v))
	case 4:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return fmt.Errorf("%w: %d overflows %s", ErrInvalidEntry, v, t.Name())
		}
		err = w.WriteInt(int32(v))
	case 8:
		err = w.WriteLong(v)
	default:
		return fmt.Errorf("%w: long values of %d bytes", ErrTypeMismatch, size)
	}
	if err != nil {
		return err
	}
	return w.sink.CloseEntry()
}

func (w *entryWriter) AppendDouble(v float64) error {
	t := w.sink.Type()
	if err := checkKind(t, KindDouble); err != nil {
		return err
	}

	var err error
	switch size := t.FixedSize(); size {
	case 4:
		err = w.WriteFloat(float32(v))
	case 8:
		err = w.WriteDouble(v)
	default:
		return fmt.Errorf("%w: double values of %d bytes", ErrTypeMismatch, size)
	}
	if err != nil {
		return err
	}
	return w.sink.CloseEntry()
}

func (w *entryWriter) AppendSlice(v []byte) error {
	if err := checkKind(w.sink.Type(), KindSlice); err != nil {
		return err
	}
	if err := w.sink.WriteBytes(v); err != nil {
		return err
	}
	return w.sink.CloseEntry()
}

// state tracks the Building -> Built transition shared by all builders.
type state struct {
	built bool
}

func (s *state) check() error {
	if s.built {
		return ErrBuilderExhausted
	}
	return nil
}

func (s *state) finish() error {
	if s.built {
		return ErrBuilderExhausted
	}
	s.built = true
	return nil
}

// copyBlock copies b into a new block built by b's type.
func copyBlock(b Block) (Block, error) {
	n := b.PositionCount()
	bb := b.Type().NewBuilder(n)
	for p := 0; p < n; p++ {
		if err := b.AppendTo(p, bb); err != nil {
			return nil, err
		}
	}
	return bb.Build()
}

// validateOffsets checks that offsets holds count+1 non-decreasing entries
// within [0, limit].
func validateOffsets(offsets []int32, count, limit int) error {
	if len(offsets) != count+1 {
		return fmt.Errorf("%w: %d offsets for %d positions", ErrInvalidBlock, len(offsets), count)
	}
	if offsets[0] < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidBlock, offsets[0])
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return fmt.Errorf("%w: offsets decrease at position %d", ErrInvalidBlock, i-1)
		}
	}
	if int(offsets[count]) > limit {
		return fmt.Errorf("%w: offset %d exceeds %d", ErrInvalidBlock, offsets[count], limit)
	}
	return nil
}
