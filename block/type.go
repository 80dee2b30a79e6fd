package block

import (
	"fmt"
	"time"
)

// Kind identifies the physical shape of a type's values and therefore the
// typed accessor that reads them.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindBoolean values are read with Boolean.
	KindBoolean
	// KindLong values are read with Long.
	KindLong
	// KindDouble values are read with Double.
	KindDouble
	// KindSlice values are read with Slice.
	KindSlice
	// KindArray values are read with Array.
	KindArray
)

var kindName = [...]string{
	KindInvalid: "invalid",
	KindBoolean: "boolean",
	KindLong:    "long",
	KindDouble:  "double",
	KindSlice:   "slice",
	KindArray:   "array",
}

// String returns a human-readable name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindName) {
		return kindName[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Type supplies the logical semantics of the values held by a block.
//
// Implementations are expected to read values with the typed accessor that
// matches Kind. Blocks handle nulls before calling EqualTo, Hash, Compare,
// ObjectValue and AppendTo, so those only see non-null positions.
type Type interface {
	// Name returns the type signature, e.g. "bigint" or "array(varchar)".
	// Serialized blocks identify their type by this name.
	Name() string

	// Kind returns the physical shape of the values.
	Kind() Kind

	// FixedSize returns the number of bytes per value, or 0 for
	// variable-width and nested types.
	FixedSize() int

	// Orderable reports whether Compare is supported.
	Orderable() bool

	// EqualTo reports whether two non-null values are equal.
	EqualTo(left Block, leftPosition int, right Block, rightPosition int) (bool, error)

	// Hash returns the hash of a non-null value. Values that are EqualTo
	// must hash identically.
	Hash(b Block, position int) (uint64, error)

	// Compare returns -1, 0 or +1 following the natural ascending order.
	Compare(left Block, leftPosition int, right Block, rightPosition int) (int, error)

	// ObjectValue materializes a non-null value for presentation.
	ObjectValue(session Session, b Block, position int) (any, error)

	// AppendTo copies a non-null value into bb.
	AppendTo(b Block, position int, bb Builder) error

	// NewBuilder returns a builder producing blocks of this type.
	NewBuilder(expectedEntries int) Builder
}

// TypeResolver resolves a type signature written by a serialized block.
type TypeResolver interface {
	Resolve(signature string) (Type, error)
}

// Session carries the context used to materialize values. Blocks pass it
// through to Type.ObjectValue without interpreting it.
type Session interface {
	// TimeZone returns the zone used to render time values.
	TimeZone() *time.Location

	// Locale returns the BCP 47 language tag of the session.
	Locale() string
}

func checkKind(t Type, want Kind) error {
	if got := t.Kind(); got != want {
		return fmt.Errorf("%w: %s value requested from %s block", ErrTypeMismatch, want, t.Name())
	}
	return nil
}
