package page

import (
	"errors"
	"fmt"

	"github.com/hupe1980/colblock/block"
)

// ErrPositionCountMismatch is returned when channels disagree on the
// number of positions.
var ErrPositionCountMismatch = errors.New("position count mismatch")

// Page is an immutable set of channels. Every channel holds the same
// number of positions.
type Page struct {
	positionCount int
	blocks        []block.Block
}

// New returns a page over blocks. At least one block is required to derive
// the position count; use NewWithPositionCount for pages without channels.
func New(blocks ...block.Block) (*Page, error) {
	if len(blocks) == 0 {
		return nil, errors.New("page without channels needs an explicit position count")
	}
	return NewWithPositionCount(blocks[0].PositionCount(), blocks...)
}

// NewWithPositionCount returns a page of positionCount positions over
// blocks.
func NewWithPositionCount(positionCount int, blocks ...block.Block) (*Page, error) {
	if positionCount < 0 {
		return nil, fmt.Errorf("negative position count %d", positionCount)
	}
	for ch, b := range blocks {
		if b.PositionCount() != positionCount {
			return nil, fmt.Errorf("%w: channel %d has %d positions, want %d", ErrPositionCountMismatch, ch, b.PositionCount(), positionCount)
		}
	}
	return &Page{positionCount: positionCount, blocks: append([]block.Block(nil), blocks...)}, nil
}

// PositionCount returns the number of positions in every channel.
func (p *Page) PositionCount() int { return p.positionCount }

// ChannelCount returns the number of channels.
func (p *Page) ChannelCount() int { return len(p.blocks) }

// Block returns the block of channel ch.
func (p *Page) Block(ch int) (block.Block, error) {
	if ch < 0 || ch >= len(p.blocks) {
		return nil, fmt.Errorf("%w: channel %d not in [0, %d)", block.ErrOutOfRange, ch, len(p.blocks))
	}
	return p.blocks[ch], nil
}

// Blocks returns the channels. The slice must not be modified.
func (p *Page) Blocks() []block.Block { return p.blocks }

// SizeInBytes returns the sum of the channel sizes.
func (p *Page) SizeInBytes() int {
	size := 0
	for _, b := range p.blocks {
		size += b.SizeInBytes()
	}
	return size
}

// Region returns a page of region views of every channel.
func (p *Page) Region(positionOffset, length int) (*Page, error) {
	if positionOffset < 0 || length < 0 || positionOffset > p.positionCount-length {
		return nil, fmt.Errorf("%w: region [%d, %d+%d) not in [0, %d)", block.ErrOutOfRange, positionOffset, positionOffset, length, p.positionCount)
	}
	blocks := make([]block.Block, len(p.blocks))
	for ch, b := range p.blocks {
		r, err := b.Region(positionOffset, length)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		blocks[ch] = r
	}
	return &Page{positionCount: length, blocks: blocks}, nil
}

// AppendColumn returns a new page with b added as the last channel.
func (p *Page) AppendColumn(b block.Block) (*Page, error) {
	if b.PositionCount() != p.positionCount {
		return nil, fmt.Errorf("%w: column has %d positions, want %d", ErrPositionCountMismatch, b.PositionCount(), p.positionCount)
	}
	blocks := make([]block.Block, 0, len(p.blocks)+1)
	blocks = append(blocks, p.blocks...)
	return &Page{positionCount: p.positionCount, blocks: append(blocks, b)}, nil
}

// SingleValuePage returns a one-position page holding copies of the values
// at position.
func (p *Page) SingleValuePage(position int) (*Page, error) {
	if position < 0 || position >= p.positionCount {
		return nil, fmt.Errorf("%w: position %d not in [0, %d)", block.ErrOutOfRange, position, p.positionCount)
	}
	blocks := make([]block.Block, len(p.blocks))
	for ch, b := range p.blocks {
		single, err := b.SingleValueBlock(position)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		blocks[ch] = single
	}
	return &Page{positionCount: 1, blocks: blocks}, nil
}
