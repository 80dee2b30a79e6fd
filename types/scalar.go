package types

import (
	"bytes"
	"cmp"
	"math"
	"time"

	"github.com/hupe1980/colblock/block"
	"github.com/hupe1980/colblock/internal/hash"
)

var (
	// Boolean is a one-byte true/false type.
	Boolean block.Type = booleanType{}
	// Integer is a 32-bit signed integer.
	Integer block.Type = longType{name: "integer", size: 4}
	// Bigint is a 64-bit signed integer.
	Bigint block.Type = longType{name: "bigint", size: 8}
	// Double is an IEEE 754 double.
	Double block.Type = doubleType{}
	// Timestamp is milliseconds since the Unix epoch, rendered in the
	// session time zone.
	Timestamp block.Type = timestampType{longType{name: "timestamp", size: 8}}
	// Varchar is UTF-8 text.
	Varchar block.Type = sliceType{name: "varchar", text: true}
	// Varbinary is opaque bytes.
	Varbinary block.Type = sliceType{name: "varbinary"}
)

// copyValue is the AppendTo shared by scalar types: it copies the physical
// bytes of the value into a new entry.
func copyValue(b block.Block, position int, bb block.Builder) error {
	n, err := b.Length(position)
	if err != nil {
		return err
	}
	if err := b.AppendSliceTo(position, 0, n, bb); err != nil {
		return err
	}
	return bb.CloseEntry()
}

type booleanType struct{}

func (booleanType) Name() string { return "boolean" }

func (booleanType) Kind() block.Kind { return block.KindBoolean }

func (booleanType) FixedSize() int { return 1 }

func (booleanType) Orderable() bool { return true }

func (booleanType) EqualTo(left block.Block, lp int, right block.Block, rp int) (bool, error) {
	l, err := left.Boolean(lp)
	if err != nil {
		return false, err
	}
	r, err := right.Boolean(rp)
	if err != nil {
		return false, err
	}
	return l == r, nil
}

func (booleanType) Hash(b block.Block, p int) (uint64, error) {
	v, err := b.Boolean(p)
	if err != nil {
		return 0, err
	}
	if v {
		return hash.Long(1), nil
	}
	return hash.Long(0), nil
}

func (booleanType) Compare(left block.Block, lp int, right block.Block, rp int) (int, error) {
	l, err := left.Boolean(lp)
	if err != nil {
		return 0, err
	}
	r, err := right.Boolean(rp)
	if err != nil {
		return 0, err
	}
	switch {
	case l == r:
		return 0, nil
	case r:
		return -1, nil
	default:
		return 1, nil
	}
}

func (booleanType) ObjectValue(_ block.Session, b block.Block, p int) (any, error) {
	return b.Boolean(p)
}

func (booleanType) AppendTo(b block.Block, p int, bb block.Builder) error {
	return copyValue(b, p, bb)
}

func (t booleanType) NewBuilder(expectedEntries int) block.Builder {
	return block.NewFixedWidthBuilder(t, expectedEntries)
}

// longType covers the signed integer types. Values are read with Long
// whatever their width.
type longType struct {
	name string
	size int
}

func (t longType) Name() string { return t.name }

func (longType) Kind() block.Kind { return block.KindLong }

func (t longType) FixedSize() int { return t.size }

func (longType) Orderable() bool { return true }

func (longType) EqualTo(left block.Block, lp int, right block.Block, rp int) (bool, error) {
	c, err := compareLongs(left, lp, right, rp)
	return c == 0, err
}

func (longType) Hash(b block.Block, p int) (uint64, error) {
	v, err := b.Long(p)
	if err != nil {
		return 0, err
	}
	return hash.Long(v), nil
}

func (longType) Compare(left block.Block, lp int, right block.Block, rp int) (int, error) {
	return compareLongs(left, lp, right, rp)
}

func compareLongs(left block.Block, lp int, right block.Block, rp int) (int, error) {
	l, err := left.Long(lp)
	if err != nil {
		return 0, err
	}
	r, err := right.Long(rp)
	if err != nil {
		return 0, err
	}
	return cmp.Compare(l, r), nil
}

func (longType) ObjectValue(_ block.Session, b block.Block, p int) (any, error) {
	return b.Long(p)
}

func (longType) AppendTo(b block.Block, p int, bb block.Builder) error {
	return copyValue(b, p, bb)
}

func (t longType) NewBuilder(expectedEntries int) block.Builder {
	return block.NewFixedWidthBuilder(t, expectedEntries)
}

type timestampType struct {
	longType
}

func (t timestampType) ObjectValue(session block.Session, b block.Block, p int) (any, error) {
	millis, err := b.Long(p)
	if err != nil {
		return nil, err
	}
	loc := time.UTC
	if session != nil && session.TimeZone() != nil {
		loc = session.TimeZone()
	}
	return time.UnixMilli(millis).In(loc), nil
}

func (t timestampType) NewBuilder(expectedEntries int) block.Builder {
	return block.NewFixedWidthBuilder(t, expectedEntries)
}

// doubleType treats all NaNs as equal to each other and -0 as equal to +0,
// and hashes them accordingly.
type doubleType struct{}

func (doubleType) Name() string { return "double" }

func (doubleType) Kind() block.Kind { return block.KindDouble }

func (doubleType) FixedSize() int { return 8 }

func (doubleType) Orderable() bool { return true }

func (doubleType) EqualTo(left block.Block, lp int, right block.Block, rp int) (bool, error) {
	c, err := compareDoubles(left, lp, right, rp)
	return c == 0, err
}

func (doubleType) Hash(b block.Block, p int) (uint64, error) {
	v, err := b.Double(p)
	if err != nil {
		return 0, err
	}
	switch {
	case math.IsNaN(v):
		v = math.NaN()
	case v == 0:
		v = 0
	}
	return hash.Long(int64(math.Float64bits(v))), nil
}

func (doubleType) Compare(left block.Block, lp int, right block.Block, rp int) (int, error) {
	return compareDoubles(left, lp, right, rp)
}

// compareDoubles orders NaN before every other value.
func compareDoubles(left block.Block, lp int, right block.Block, rp int) (int, error) {
	l, err := left.Double(lp)
	if err != nil {
		return 0, err
	}
	r, err := right.Double(rp)
	if err != nil {
		return 0, err
	}
	return cmp.Compare(l, r), nil
}

func (doubleType) ObjectValue(_ block.Session, b block.Block, p int) (any, error) {
	return b.Double(p)
}

func (doubleType) AppendTo(b block.Block, p int, bb block.Builder) error {
	return copyValue(b, p, bb)
}

func (t doubleType) NewBuilder(expectedEntries int) block.Builder {
	return block.NewFixedWidthBuilder(t, expectedEntries)
}

type sliceType struct {
	name string
	text bool
}

func (t sliceType) Name() string { return t.name }

func (sliceType) Kind() block.Kind { return block.KindSlice }

func (sliceType) FixedSize() int { return 0 }

func (sliceType) Orderable() bool { return true }

func (sliceType) EqualTo(left block.Block, lp int, right block.Block, rp int) (bool, error) {
	l, err := left.Slice(lp)
	if err != nil {
		return false, err
	}
	r, err := right.Slice(rp)
	if err != nil {
		return false, err
	}
	return bytes.Equal(l, r), nil
}

func (sliceType) Hash(b block.Block, p int) (uint64, error) {
	v, err := b.Slice(p)
	if err != nil {
		return 0, err
	}
	return hash.Bytes(v), nil
}

func (sliceType) Compare(left block.Block, lp int, right block.Block, rp int) (int, error) {
	l, err := left.Slice(lp)
	if err != nil {
		return 0, err
	}
	r, err := right.Slice(rp)
	if err != nil {
		return 0, err
	}
	return bytes.Compare(l, r), nil
}

func (t sliceType) ObjectValue(_ block.Session, b block.Block, p int) (any, error) {
	v, err := b.Slice(p)
	if err != nil {
		return nil, err
	}
	if t.text {
		return string(v), nil
	}
	return bytes.Clone(v), nil
}

func (sliceType) AppendTo(b block.Block, p int, bb block.Builder) error {
	return copyValue(b, p, bb)
}

func (t sliceType) NewBuilder(expectedEntries int) block.Builder {
	return block.NewVariableWidthBuilder(t, expectedEntries)
}

