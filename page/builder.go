package page

import (
	"fmt"

	"github.com/hupe1980/colblock/block"
)

// Builder fills one block builder per channel. Callers append a value to
// every channel and then call DeclarePosition.
type Builder struct {
	types           []block.Type
	builders        []block.Builder
	positionCount   int
	expectedEntries int
}

// NewBuilder returns a builder for channels of the given types.
func NewBuilder(types []block.Type, expectedEntries int) *Builder {
	pb := &Builder{
		types:           append([]block.Type(nil), types...),
		expectedEntries: expectedEntries,
	}
	pb.Reset()
	return pb
}

// Reset discards the appended positions and starts new channel builders.
func (pb *Builder) Reset() {
	pb.builders = make([]block.Builder, len(pb.types))
	for ch, t := range pb.types {
		pb.builders[ch] = t.NewBuilder(pb.expectedEntries)
	}
	pb.positionCount = 0
}

// Types returns the channel types.
func (pb *Builder) Types() []block.Type { return pb.types }

// ChannelCount returns the number of channels.
func (pb *Builder) ChannelCount() int { return len(pb.builders) }

// Builder returns the block builder of channel ch.
func (pb *Builder) Builder(ch int) block.Builder { return pb.builders[ch] }

// DeclarePosition records that a value was appended to every channel.
func (pb *Builder) DeclarePosition() { pb.positionCount++ }

// DeclarePositions records n appended positions.
func (pb *Builder) DeclarePositions(n int) { pb.positionCount += n }

// PositionCount returns the number of declared positions.
func (pb *Builder) PositionCount() int { return pb.positionCount }

// IsEmpty reports whether no position was declared.
func (pb *Builder) IsEmpty() bool { return pb.positionCount == 0 }

// SizeInBytes returns the sum of the channel builder sizes.
func (pb *Builder) SizeInBytes() int {
	size := 0
	for _, bb := range pb.builders {
		size += bb.SizeInBytes()
	}
	return size
}

// Build finalizes every channel. Each channel must hold exactly the
// declared number of positions. The builder must be Reset before reuse.
func (pb *Builder) Build() (*Page, error) {
	for ch, bb := range pb.builders {
		if bb.PositionCount() != pb.positionCount {
			return nil, fmt.Errorf("%w: channel %d has %d positions, declared %d", ErrPositionCountMismatch, ch, bb.PositionCount(), pb.positionCount)
		}
	}
	blocks := make([]block.Block, len(pb.builders))
	for ch, bb := range pb.builders {
		b, err := bb.Build()
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		blocks[ch] = b
	}
	return &Page{positionCount: pb.positionCount, blocks: blocks}, nil
}
