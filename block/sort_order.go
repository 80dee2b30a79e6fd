package block

import "fmt"

// SortOrder combines a sort direction with the placement of nulls.
type SortOrder uint8

const (
	// AscNullsFirst sorts ascending with nulls before all values.
	AscNullsFirst SortOrder = iota
	// AscNullsLast sorts ascending with nulls after all values.
	AscNullsLast
	// DescNullsFirst sorts descending with nulls before all values.
	DescNullsFirst
	// DescNullsLast sorts descending with nulls after all values.
	DescNullsLast
)

// IsAscending reports whether values sort in ascending order.
func (o SortOrder) IsAscending() bool {
	return o == AscNullsFirst || o == AscNullsLast
}

// IsNullsFirst reports whether nulls sort before all values.
func (o SortOrder) IsNullsFirst() bool {
	return o == AscNullsFirst || o == DescNullsFirst
}

// String returns the SQL spelling of the order.
func (o SortOrder) String() string {
	switch o {
	case AscNullsFirst:
		return "ASC_NULLS_FIRST"
	case AscNullsLast:
		return "ASC_NULLS_LAST"
	case DescNullsFirst:
		return "DESC_NULLS_FIRST"
	case DescNullsLast:
		return "DESC_NULLS_LAST"
	default:
		return fmt.Sprintf("SortOrder(%d)", uint8(o))
	}
}

// CompareBlockValue compares two positions under this order.
//
// Null placement does not depend on the direction: with nulls first a null
// sorts before every value for both ascending and descending orders.
// Non-null values are compared by t and the result is negated for
// descending orders.
func (o SortOrder) CompareBlockValue(t Type, left Block, leftPosition int, right Block, rightPosition int) (int, error) {
	leftNull, err := left.IsNull(leftPosition)
	if err != nil {
		return 0, err
	}
	rightNull, err := right.IsNull(rightPosition)
	if err != nil {
		return 0, err
	}

	switch {
	case leftNull && rightNull:
		return 0, nil
	case leftNull:
		if o.IsNullsFirst() {
			return -1, nil
		}
		return 1, nil
	case rightNull:
		if o.IsNullsFirst() {
			return 1, nil
		}
		return -1, nil
	}

	if !t.Orderable() {
		return 0, fmt.Errorf("%w: type %s is not orderable", ErrTypeMismatch, t.Name())
	}

	c, err := t.Compare(left, leftPosition, right, rightPosition)
	if err != nil {
		return 0, err
	}
	c = sign(c)
	if !o.IsAscending() {
		c = -c
	}
	return c, nil
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	default:
		return 0
	}
}
