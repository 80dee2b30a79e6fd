package block

import "fmt"

func init() { Register(runLengthEncoding{}) }

// RunLengthBlock repeats a single value positionCount times.
type RunLengthBlock struct {
	accessor
	value Block
	count int
}

var _ Block = (*RunLengthBlock)(nil)

// NewRunLengthBlock returns a block repeating the only position of value
// positionCount times.
func NewRunLengthBlock(value Block, positionCount int) (*RunLengthBlock, error) {
	if value.PositionCount() != 1 {
		return nil, fmt.Errorf("%w: run-length value has %d positions, want 1", ErrInvalidBlock, value.PositionCount())
	}
	if positionCount < 0 {
		return nil, fmt.Errorf("%w: negative position count %d", ErrInvalidBlock, positionCount)
	}
	b := &RunLengthBlock{value: value, count: positionCount}
	b.accessor = accessor{b}
	return b, nil
}

// Value returns the single-position block that is repeated.
func (b *RunLengthBlock) Value() Block { return b.value }

func (b *RunLengthBlock) PositionCount() int { return b.count }

func (b *RunLengthBlock) Type() Type { return b.value.Type() }

func (b *RunLengthBlock) Encoding() Encoding { return runLengthEncoding{} }

func (b *RunLengthBlock) SizeInBytes() int { return b.value.SizeInBytes() }

func (b *RunLengthBlock) IsNull(position int) (bool, error) {
	if err := checkPosition(position, b.count); err != nil {
		return false, err
	}
	return b.value.IsNull(0)
}

func (b *RunLengthBlock) valueSpan(position int) ([]byte, error) {
	if err := checkPosition(position, b.count); err != nil {
		return nil, err
	}
	return spanOf(b.value, 0)
}

func (b *RunLengthBlock) Array(position int) (Block, error) {
	if err := checkPosition(position, b.count); err != nil {
		return nil, err
	}
	return b.value.Array(0)
}

// Region returns a run-length block of length positions over the same
// value.
func (b *RunLengthBlock) Region(positionOffset, length int) (Block, error) {
	if err := checkRegion(positionOffset, length, b.count); err != nil {
		return nil, err
	}
	return NewRunLengthBlock(b.value, length)
}

func (b *RunLengthBlock) SingleValueBlock(position int) (Block, error) {
	if err := checkPosition(position, b.count); err != nil {
		return nil, err
	}
	return b.value.SingleValueBlock(0)
}

// runLengthEncoding payload:
//
//	positionCount | value block
type runLengthEncoding struct{}

func (runLengthEncoding) Name() string { return RunLengthEncodingName }

func (e runLengthEncoding) Write(s *Serde, out *Output, b Block) error {
	rb, err := checkEncoding[*RunLengthBlock](e, b)
	if err != nil {
		return err
	}
	out.WriteUvarint(uint64(rb.count))
	return s.WriteBlock(out, rb.value)
}

func (runLengthEncoding) Read(s *Serde, in *Input) (Block, error) {
	count := in.ReadCount(maxPositions)
	if err := in.Err(); err != nil {
		return nil, err
	}
	value, err := s.ReadBlock(in)
	if err != nil {
		return nil, err
	}
	b, err := NewRunLengthBlock(value, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return b, nil
}
