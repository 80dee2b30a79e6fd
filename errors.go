package colblock

import (
	"errors"
	"fmt"
)

var (
	// ErrChecksumMismatch is returned when a page payload does not match
	// its checksum.
	ErrChecksumMismatch = errors.New("page checksum mismatch")

	// ErrUnknownCodec is returned when a page names a codec that is not
	// available.
	ErrUnknownCodec = errors.New("unknown codec")

	// ErrInvalidPage is returned when a page frame or payload is malformed.
	ErrInvalidPage = errors.New("invalid page")
)

// ChannelError reports the channel whose block failed to encode or decode.
//
// The underlying error can be accessed via errors.Unwrap.
type ChannelError struct {
	Channel int
	cause   error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("channel %d: %v", e.Channel, e.cause)
}

func (e *ChannelError) Unwrap() error { return e.cause }
