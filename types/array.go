package types

import (
	"fmt"

	"github.com/hupe1980/colblock/block"
	"github.com/hupe1980/colblock/internal/hash"
)

// ArrayType holds arrays of an element type.
type ArrayType struct {
	element block.Type
	name    string
}

// NewArray returns the array(element) type.
func NewArray(element block.Type) *ArrayType {
	return &ArrayType{element: element, name: "array(" + element.Name() + ")"}
}

// Element returns the element type.
func (t *ArrayType) Element() block.Type { return t.element }

func (t *ArrayType) Name() string { return t.name }

func (t *ArrayType) Kind() block.Kind { return block.KindArray }

func (t *ArrayType) FixedSize() int { return 0 }

func (t *ArrayType) Orderable() bool { return t.element.Orderable() }

// EqualTo compares arrays element by element. Null elements are equal to
// each other.
func (t *ArrayType) EqualTo(left block.Block, lp int, right block.Block, rp int) (bool, error) {
	l, err := left.Array(lp)
	if err != nil {
		return false, err
	}
	r, err := right.Array(rp)
	if err != nil {
		return false, err
	}
	if l.PositionCount() != r.PositionCount() {
		return false, nil
	}
	for i := 0; i < l.PositionCount(); i++ {
		eq, err := l.EqualTo(i, r, i)
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func (t *ArrayType) Hash(b block.Block, p int) (uint64, error) {
	elements, err := b.Array(p)
	if err != nil {
		return 0, err
	}
	var h uint64
	for i := 0; i < elements.PositionCount(); i++ {
		eh, err := elements.Hash(i)
		if err != nil {
			return 0, err
		}
		h = hash.Combine(h, eh)
	}
	return h, nil
}

// Compare orders arrays lexicographically by element with null elements
// last, then by length.
func (t *ArrayType) Compare(left block.Block, lp int, right block.Block, rp int) (int, error) {
	l, err := left.Array(lp)
	if err != nil {
		return 0, err
	}
	r, err := right.Array(rp)
	if err != nil {
		return 0, err
	}
	n := min(l.PositionCount(), r.PositionCount())
	for i := 0; i < n; i++ {
		c, err := l.CompareTo(block.AscNullsLast, i, r, i)
		if err != nil || c != 0 {
			return c, err
		}
	}
	switch {
	case l.PositionCount() < r.PositionCount():
		return -1, nil
	case l.PositionCount() > r.PositionCount():
		return 1, nil
	default:
		return 0, nil
	}
}

// ObjectValue returns the elements as a []any.
func (t *ArrayType) ObjectValue(session block.Session, b block.Block, p int) (any, error) {
	elements, err := b.Array(p)
	if err != nil {
		return nil, err
	}
	out := make([]any, elements.PositionCount())
	for i := range out {
		if out[i], err = elements.ObjectValue(session, i); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (t *ArrayType) AppendTo(b block.Block, p int, bb block.Builder) error {
	ab, ok := bb.(*block.ArrayBuilder)
	if !ok {
		return fmt.Errorf("%w: %s value appended to %T", block.ErrTypeMismatch, t.name, bb)
	}
	elements, err := b.Array(p)
	if err != nil {
		return err
	}
	return ab.AppendArray(elements)
}

func (t *ArrayType) NewBuilder(expectedEntries int) block.Builder {
	return block.NewArrayBuilder(t, t.element.NewBuilder(expectedEntries), expectedEntries)
}
