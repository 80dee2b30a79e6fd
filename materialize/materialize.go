// Package materialize turns pages into rows of Go values for presentation,
// the way a client protocol renders query results.
package materialize

import (
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/colblock/block"
	"github.com/hupe1980/colblock/page"
)

// Column describes one channel of a Result.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Result holds materialized rows. Null values are nil.
type Result struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Builder appends pages to a Result.
type Builder struct {
	session block.Session
	names   []string
	result  Result
}

// NewBuilder returns a builder that materializes values in session and
// names the columns after names.
func NewBuilder(session block.Session, names ...string) *Builder {
	return &Builder{session: session, names: names}
}

// Append materializes every row of p.
func (b *Builder) Append(p *page.Page) error {
	if p.ChannelCount() != len(b.names) {
		return fmt.Errorf("page has %d channels, want %d", p.ChannelCount(), len(b.names))
	}
	if b.result.Columns == nil {
		b.result.Columns = make([]Column, len(b.names))
		for ch, name := range b.names {
			blk, err := p.Block(ch)
			if err != nil {
				return err
			}
			b.result.Columns[ch] = Column{Name: name, Type: blk.Type().Name()}
		}
	}

	for pos := 0; pos < p.PositionCount(); pos++ {
		row := make([]any, p.ChannelCount())
		for ch, blk := range p.Blocks() {
			v, err := blk.ObjectValue(b.session, pos)
			if err != nil {
				return fmt.Errorf("channel %d position %d: %w", ch, pos, err)
			}
			row[ch] = v
		}
		b.result.Rows = append(b.result.Rows, row)
	}
	return nil
}

// Result returns the rows appended so far.
func (b *Builder) Result() *Result {
	r := b.result
	return &r
}

// Materialize is a shortcut for a Builder over pages.
func Materialize(session block.Session, names []string, pages ...*page.Page) (*Result, error) {
	b := NewBuilder(session, names...)
	for _, p := range pages {
		if err := b.Append(p); err != nil {
			return nil, err
		}
	}
	return b.Result(), nil
}

// MarshalJSON encodes the result with github.com/goccy/go-json.
func (r *Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return gojson.Marshal((*plain)(r))
}
