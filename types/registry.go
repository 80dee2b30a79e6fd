package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/hupe1980/colblock/block"
)

var (
	// ErrUnknownType is returned for signatures naming no registered type.
	ErrUnknownType = errors.New("unknown type")

	// ErrInvalidSignature is returned for malformed type signatures.
	ErrInvalidSignature = errors.New("invalid type signature")
)

// Registry resolves type signatures. Base types are looked up by name;
// "array(...)" and "decimal(p,s)" are parsed. It is safe for concurrent
// use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]block.Type
}

var _ block.TypeResolver = (*Registry)(nil)

// NewRegistry returns a registry holding the built-in scalar types.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]block.Type)}
	for _, t := range []block.Type{Boolean, Integer, Bigint, Double, Timestamp, Varchar, Varbinary} {
		r.types[t.Name()] = t
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the shared registry of built-in types.
func Default() *Registry { return defaultRegistry }

// Register adds a base type, replacing any type of the same name.
func (r *Registry) Register(t block.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.Name()] = t
}

// Resolve returns the type for signature. Signatures are case-insensitive
// and may contain spaces around parameters.
func (r *Registry) Resolve(signature string) (block.Type, error) {
	sig := strings.ToLower(strings.TrimSpace(signature))

	name, params, parametric, err := splitSignature(sig)
	if err != nil {
		return nil, err
	}
	if !parametric {
		r.mu.RLock()
		t, ok := r.types[name]
		r.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, signature)
		}
		return t, nil
	}

	switch name {
	case "array":
		element, err := r.Resolve(params)
		if err != nil {
			return nil, err
		}
		return NewArray(element), nil
	case "decimal":
		p, s, ok := strings.Cut(params, ",")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSignature, signature)
		}
		precision, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSignature, signature)
		}
		scale, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSignature, signature)
		}
		return NewDecimal(precision, scale)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, signature)
	}
}

// splitSignature splits "name(params)" into its parts.
func splitSignature(sig string) (name, params string, parametric bool, err error) {
	open := strings.IndexByte(sig, '(')
	if open < 0 {
		if sig == "" || strings.ContainsAny(sig, ")") {
			return "", "", false, fmt.Errorf("%w: %q", ErrInvalidSignature, sig)
		}
		return sig, "", false, nil
	}
	if !strings.HasSuffix(sig, ")") || open == 0 {
		return "", "", false, fmt.Errorf("%w: %q", ErrInvalidSignature, sig)
	}
	return strings.TrimSpace(sig[:open]), strings.TrimSpace(sig[open+1 : len(sig)-1]), true, nil
}
