package nulls

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is an immutable view over the null positions [offset, offset+count)
// of a shared bitmap.
type Set struct {
	rb     *roaring.Bitmap
	offset uint32
	count  int
	total  int // positions covered by rb when it was built
}

// Empty returns a Set of count positions without nulls.
func Empty(count int) Set {
	return Set{count: count, total: count}
}

// FromBools returns a Set with the positions set in isNull.
func FromBools(isNull []bool) Set {
	var b Builder
	for i, v := range isNull {
		if v {
			b.Add(i)
		}
	}
	return b.Build(len(isNull))
}

// Contains reports whether position p of the view is null.
// The caller validates p.
func (s Set) Contains(p int) bool {
	if s.rb == nil {
		return false
	}
	return s.rb.Contains(s.offset + uint32(p))
}

// Count returns the number of null positions in the view.
func (s Set) Count() int {
	if s.rb == nil || s.count == 0 {
		return 0
	}
	last := uint64(s.offset) + uint64(s.count) - 1
	n := s.rb.Rank(uint32(last))
	if s.offset > 0 {
		n -= s.rb.Rank(s.offset - 1)
	}
	return int(n)
}

// Any reports whether the view holds at least one null.
func (s Set) Any() bool {
	return s.Count() > 0
}

// Len returns the number of positions covered by the view.
func (s Set) Len() int { return s.count }

// Region returns the sub-view [offset, offset+length). The caller validates
// the bounds.
func (s Set) Region(offset, length int) Set {
	return Set{
		rb:     s.rb,
		offset: s.offset + uint32(offset),
		count:  length,
		total:  s.total,
	}
}

// SizeInBytes estimates the memory retained by the view: the bitmap size
// prorated by the share of positions the view covers.
func (s Set) SizeInBytes() int {
	if s.rb == nil || s.total == 0 {
		return 0
	}
	return int(s.rb.GetSizeInBytes() * uint64(s.count) / uint64(s.total))
}

// Compact returns a bitmap holding the view's null positions rebased to
// zero, or nil if the view holds no nulls.
func (s Set) Compact() *roaring.Bitmap {
	if !s.Any() {
		return nil
	}
	out := roaring.New()
	end := uint64(s.offset) + uint64(s.count)
	it := s.rb.Iterator()
	it.AdvanceIfNeeded(s.offset)
	for it.HasNext() {
		v := it.PeekNext()
		if uint64(v) >= end {
			break
		}
		out.Add(v - s.offset)
		it.Next()
	}
	out.RunOptimize()
	return out
}

// MarshalBinary encodes the view's null positions in the Roaring portable
// format. A view without nulls encodes to nil.
func (s Set) MarshalBinary() ([]byte, error) {
	rb := s.Compact()
	if rb == nil {
		return nil, nil
	}
	return rb.ToBytes()
}

// Unmarshal decodes a Set of count positions from the Roaring portable
// format written by MarshalBinary. The returned Set owns its bitmap.
func Unmarshal(data []byte, count int) (Set, error) {
	if len(data) == 0 {
		return Empty(count), nil
	}
	rb := roaring.New()
	if err := rb.UnmarshalBinary(data); err != nil {
		return Set{}, fmt.Errorf("invalid null bitmap: %w", err)
	}
	if !rb.IsEmpty() && int64(rb.Maximum()) >= int64(count) {
		return Set{}, fmt.Errorf("null position %d out of range [0, %d)", rb.Maximum(), count)
	}
	if rb.IsEmpty() {
		return Empty(count), nil
	}
	return Set{rb: rb, count: count, total: count}, nil
}

// Builder accumulates null positions in append order.
type Builder struct {
	rb *roaring.Bitmap
}

// Add marks position p as null.
func (b *Builder) Add(p int) {
	if b.rb == nil {
		b.rb = roaring.New()
	}
	b.rb.Add(uint32(p))
}

// SizeInBytes returns the current size of the bitmap.
func (b *Builder) SizeInBytes() int {
	if b.rb == nil {
		return 0
	}
	return int(b.rb.GetSizeInBytes())
}

// Build freezes the builder into a Set of count positions. The builder must
// not be used afterwards.
func (b *Builder) Build(count int) Set {
	rb := b.rb
	b.rb = nil
	if rb == nil || rb.IsEmpty() {
		return Empty(count)
	}
	rb.RunOptimize()
	return Set{rb: rb, count: count, total: count}
}
