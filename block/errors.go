package block

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned when a position, region or byte range falls
	// outside the block.
	ErrOutOfRange = errors.New("out of range")

	// ErrBuilderExhausted is returned when a builder is used after Build.
	ErrBuilderExhausted = errors.New("builder already built")

	// ErrUnknownEncoding is returned when a serialized block names an
	// encoding that is not registered.
	ErrUnknownEncoding = errors.New("unknown block encoding")

	// ErrTypeMismatch is returned when an accessor or write does not match
	// the physical shape of the block's type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrNullValue is returned when a typed accessor reads a null position.
	ErrNullValue = errors.New("value is null")

	// ErrInvalidEntry is returned when a builder entry does not fit the
	// block's physical layout.
	ErrInvalidEntry = errors.New("invalid entry")

	// ErrInvalidBlock is returned when a block is constructed from
	// inconsistent parts.
	ErrInvalidBlock = errors.New("invalid block")

	// ErrCorrupt is returned when a serialized block cannot be decoded.
	ErrCorrupt = errors.New("corrupt block data")
)

// UnknownEncodingError reports the encoding name that could not be resolved.
//
// It matches ErrUnknownEncoding with errors.Is.
type UnknownEncodingError struct {
	Name string
}

func (e *UnknownEncodingError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownEncoding, e.Name)
}

// Is reports whether target is ErrUnknownEncoding.
func (e *UnknownEncodingError) Is(target error) bool {
	return target == ErrUnknownEncoding
}

func checkPosition(position, positionCount int) error {
	if position < 0 || position >= positionCount {
		return fmt.Errorf("%w: position %d not in [0, %d)", ErrOutOfRange, position, positionCount)
	}
	return nil
}

func checkRegion(offset, length, positionCount int) error {
	if offset < 0 || length < 0 || offset > positionCount-length {
		return fmt.Errorf("%w: region [%d, %d+%d) not in [0, %d)", ErrOutOfRange, offset, offset, length, positionCount)
	}
	return nil
}

func checkSpan(offset, length, spanLength int) error {
	if offset < 0 || length < 0 || offset > spanLength-length {
		return fmt.Errorf("%w: bytes [%d, %d+%d) not in value of length %d", ErrOutOfRange, offset, offset, length, spanLength)
	}
	return nil
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}
