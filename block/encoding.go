package block

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/colblock/internal/nulls"
)

// Names of the built-in encodings. They are written at the start of every
// serialized block and must never change.
const (
	FixedWidthEncodingName    = "FIXED_WIDTH"
	VariableWidthEncodingName = "VARIABLE_WIDTH"
	DictionaryEncodingName    = "DICTIONARY"
	RunLengthEncodingName     = "RLE"
	ArrayEncodingName         = "ARRAY"
)

const (
	maxNameLength = 256
	maxPositions  = maxInt32
	maxNesting    = 64
)

// Encoding serializes one block variant.
//
// Write receives blocks whose Encoding is this encoding. Read must consume
// exactly the bytes Write produced and return a block that owns its
// storage.
type Encoding interface {
	Name() string
	Write(s *Serde, out *Output, b Block) error
	Read(s *Serde, in *Input) (Block, error)
}

// Registry maps encoding names to encodings. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	encodings map[string]Encoding
}

// NewRegistry returns a registry holding encodings.
func NewRegistry(encodings ...Encoding) *Registry {
	r := &Registry{encodings: make(map[string]Encoding, len(encodings))}
	for _, e := range encodings {
		r.Register(e)
	}
	return r
}

// Register adds e. It panics if the name is empty or already registered.
func (r *Registry) Register(e Encoding) {
	name := e.Name()
	if name == "" || len(name) > maxNameLength {
		panic(fmt.Sprintf("block: invalid encoding name %q", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.encodings[name]; dup {
		panic(fmt.Sprintf("block: encoding %q registered twice", name))
	}
	r.encodings[name] = e
}

// Lookup returns the encoding registered under name.
func (r *Registry) Lookup(name string) (Encoding, error) {
	r.mu.RLock()
	e, ok := r.encodings[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownEncodingError{Name: name}
	}
	return e, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.encodings))
	for name := range r.encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the package registry holding the built-in
// encodings.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds e to the package registry. It panics on duplicate names.
func Register(e Encoding) { defaultRegistry.Register(e) }

// Serde writes and reads self-describing blocks.
type Serde struct {
	registry *Registry
	types    TypeResolver
}

// NewSerde returns a Serde resolving serialized type signatures through
// types. A nil registry selects DefaultRegistry.
func NewSerde(types TypeResolver, registry *Registry) *Serde {
	if registry == nil {
		registry = defaultRegistry
	}
	return &Serde{registry: registry, types: types}
}

// Registry returns the registry used to resolve encodings.
func (s *Serde) Registry() *Registry { return s.registry }

// WriteBlock writes the encoding name of b followed by its payload.
func (s *Serde) WriteBlock(out *Output, b Block) error {
	e := b.Encoding()
	// Resolve through the registry so both sides agree on the name.
	if _, err := s.registry.Lookup(e.Name()); err != nil {
		return err
	}
	out.WriteString(e.Name())
	if err := e.Write(s, out, b); err != nil {
		return fmt.Errorf("write %s block: %w", e.Name(), err)
	}
	return out.Err()
}

// ReadBlock reads a block written by WriteBlock. An unregistered encoding
// name returns an *UnknownEncodingError and no block. Blocks nested more
// than 64 levels deep are rejected as corrupt.
func (s *Serde) ReadBlock(in *Input) (Block, error) {
	if in.depth >= maxNesting {
		return nil, corruptf("block nesting exceeds %d levels", maxNesting)
	}
	in.depth++
	defer func() { in.depth-- }()

	name := in.ReadString(maxNameLength)
	if err := in.Err(); err != nil {
		return nil, err
	}
	e, err := s.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	b, err := e.Read(s, in)
	if err != nil {
		return nil, fmt.Errorf("read %s block: %w", name, err)
	}
	if err := in.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

// Marshal serializes b into a new byte slice.
func (s *Serde) Marshal(b Block) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.WriteBlock(NewOutput(&buf), b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a block from data. Trailing bytes are an error.
func (s *Serde) Unmarshal(data []byte) (Block, error) {
	r := bytes.NewReader(data)
	b, err := s.ReadBlock(NewInput(r))
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, corruptf("%d trailing bytes", r.Len())
	}
	return b, nil
}

func (s *Serde) writeType(out *Output, t Type) {
	out.WriteString(t.Name())
}

func (s *Serde) readType(in *Input) (Type, error) {
	name := in.ReadString(maxNameLength)
	if err := in.Err(); err != nil {
		return nil, err
	}
	if s.types == nil {
		return nil, fmt.Errorf("%w: no type resolver for %q", ErrCorrupt, name)
	}
	t, err := s.types.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("resolve type %q: %w", name, err)
	}
	return t, nil
}

// writeNulls writes a flag byte and, when the view has nulls, the bitmap
// rebased to the view.
func writeNulls(out *Output, set nulls.Set) error {
	if !set.Any() {
		out.WriteBool(false)
		return nil
	}
	data, err := set.MarshalBinary()
	if err != nil {
		return err
	}
	out.WriteBool(true)
	out.WriteBytes(data)
	return nil
}

func readNulls(in *Input, positionCount int) (nulls.Set, error) {
	if !in.ReadBool() {
		return nulls.Empty(positionCount), in.Err()
	}
	data := in.ReadBytes()
	if err := in.Err(); err != nil {
		return nulls.Set{}, err
	}
	set, err := nulls.Unmarshal(data, positionCount)
	if err != nil {
		return nulls.Set{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return set, nil
}

// nullSet converts an optional []bool into a Set of count positions.
func nullSet(isNull []bool, count int) (nulls.Set, error) {
	if isNull == nil {
		return nulls.Empty(count), nil
	}
	if len(isNull) != count {
		return nulls.Set{}, fmt.Errorf("%w: %d null flags for %d positions", ErrInvalidBlock, len(isNull), count)
	}
	return nulls.FromBools(isNull), nil
}

// checkEncoding returns the concrete block for an encoding's Write.
func checkEncoding[T Block](e Encoding, b Block) (T, error) {
	v, ok := b.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s cannot write %T", ErrTypeMismatch, e.Name(), b)
	}
	return v, nil
}
