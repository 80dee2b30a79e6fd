package block

import "fmt"

func init() { Register(dictionaryEncoding{}) }

// DictionaryBlock maps each position to a position of a dictionary block.
// Nulls come from the referenced dictionary entry.
type DictionaryBlock struct {
	accessor
	dictionary Block
	ids        []int32
	size       int
}

var _ Block = (*DictionaryBlock)(nil)

// NewDictionaryBlock returns a block whose position p holds
// dictionary[ids[p]]. Every id must be a valid dictionary position. The
// block takes ownership of ids.
func NewDictionaryBlock(dictionary Block, ids []int32) (*DictionaryBlock, error) {
	n := dictionary.PositionCount()
	for p, id := range ids {
		if id < 0 || int(id) >= n {
			return nil, fmt.Errorf("%w: id %d at position %d not in dictionary of %d", ErrInvalidBlock, id, p, n)
		}
	}
	return newDictionaryBlock(dictionary, ids), nil
}

func newDictionaryBlock(dictionary Block, ids []int32) *DictionaryBlock {
	b := &DictionaryBlock{
		dictionary: dictionary,
		ids:        ids,
		size:       dictionary.SizeInBytes() + 4*len(ids),
	}
	b.accessor = accessor{b}
	return b
}

// Dictionary returns the dictionary block.
func (b *DictionaryBlock) Dictionary() Block { return b.dictionary }

// ID returns the dictionary position referenced by position.
func (b *DictionaryBlock) ID(position int) (int, error) {
	if err := checkPosition(position, len(b.ids)); err != nil {
		return 0, err
	}
	return int(b.ids[position]), nil
}

func (b *DictionaryBlock) PositionCount() int { return len(b.ids) }

func (b *DictionaryBlock) Type() Type { return b.dictionary.Type() }

func (b *DictionaryBlock) Encoding() Encoding { return dictionaryEncoding{} }

func (b *DictionaryBlock) SizeInBytes() int { return b.size }

func (b *DictionaryBlock) IsNull(position int) (bool, error) {
	id, err := b.ID(position)
	if err != nil {
		return false, err
	}
	return b.dictionary.IsNull(id)
}

func (b *DictionaryBlock) valueSpan(position int) ([]byte, error) {
	id, err := b.ID(position)
	if err != nil {
		return nil, err
	}
	return spanOf(b.dictionary, id)
}

func (b *DictionaryBlock) Array(position int) (Block, error) {
	id, err := b.ID(position)
	if err != nil {
		return nil, err
	}
	return b.dictionary.Array(id)
}

func (b *DictionaryBlock) Region(positionOffset, length int) (Block, error) {
	if err := checkRegion(positionOffset, length, len(b.ids)); err != nil {
		return nil, err
	}
	end := positionOffset + length
	return newDictionaryBlock(b.dictionary, b.ids[positionOffset:end:end]), nil
}

func (b *DictionaryBlock) SingleValueBlock(position int) (Block, error) {
	id, err := b.ID(position)
	if err != nil {
		return nil, err
	}
	return b.dictionary.SingleValueBlock(id)
}

// dictionaryEncoding payload:
//
//	positionCount | dictionary block | ids
type dictionaryEncoding struct{}

func (dictionaryEncoding) Name() string { return DictionaryEncodingName }

func (e dictionaryEncoding) Write(s *Serde, out *Output, b Block) error {
	db, err := checkEncoding[*DictionaryBlock](e, b)
	if err != nil {
		return err
	}
	out.WriteUvarint(uint64(len(db.ids)))
	if err := s.WriteBlock(out, db.dictionary); err != nil {
		return err
	}
	out.WriteInt32s(db.ids)
	return out.Err()
}

func (dictionaryEncoding) Read(s *Serde, in *Input) (Block, error) {
	count := in.ReadCount(maxPositions)
	if err := in.Err(); err != nil {
		return nil, err
	}
	dictionary, err := s.ReadBlock(in)
	if err != nil {
		return nil, err
	}
	ids := in.ReadInt32s(count)
	if err := in.Err(); err != nil {
		return nil, err
	}
	b, err := NewDictionaryBlock(dictionary, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return b, nil
}
