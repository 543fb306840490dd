package logic

import (
	"fmt"

	"github.com/andywolf/typegate/internal/hint"
)

// Reducer rewrites one signed hint to a lower-level equivalent. The label
// prefixes error messages with the caller's context.
type Reducer func(h hint.Hint, label string) (hint.Hint, error)

// signToReducer maps reducible signs to their reducers. Like the logic
// table, it is built once at startup and never mutated.
var signToReducer = map[hint.Sign]Reducer{
	hint.SignNewType:      reduceNewType,
	hint.SignInitOnly:     reduceInitOnly,
	hint.SignTypedMapping: reduceTypedMapping,
}

// ReducerFor returns the reducer registered for the given sign, if any.
func ReducerFor(sign hint.Sign) (Reducer, bool) {
	r, ok := signToReducer[sign]
	return r, ok
}

// reduceNewType rewrites a new-type alias to the hint it aliases.
func reduceNewType(h hint.Hint, label string) (hint.Hint, error) {
	nt, ok := h.(hint.NewTypeHint)
	if !ok {
		return nil, fmt.Errorf("%s: %T is not a new-type hint", label, h)
	}
	if nt.Underlying == nil {
		return nil, fmt.Errorf("%s: new type %q aliases nothing", label, nt.Name)
	}
	return nt.Underlying, nil
}

// reduceInitOnly rewrites an initialization-only field hint to the hint it
// wraps.
func reduceInitOnly(h hint.Hint, label string) (hint.Hint, error) {
	io, ok := h.(hint.InitOnlyHint)
	if !ok {
		return nil, fmt.Errorf("%s: %T is not an init-only hint", label, h)
	}
	if io.Wrapped == nil {
		return hint.AnyHint{}, nil
	}
	return io.Wrapped, nil
}

// reduceTypedMapping rewrites a typed mapping (fixed named fields) to a
// plain string-keyed mapping, discarding the per-field hints.
func reduceTypedMapping(h hint.Hint, label string) (hint.Hint, error) {
	if _, ok := h.(hint.RecordHint); !ok {
		return nil, fmt.Errorf("%s: %T is not a typed-mapping hint", label, h)
	}
	return hint.MappingHint{Key: hint.Type[string](), Value: nil}, nil
}
