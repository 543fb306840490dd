// Package reduce normalizes hints to their lowest-level equivalent form
// before checking or code generation. Reduction is a pure, total function
// over (hint, config) and is memoized process-wide.
package reduce

import (
	"fmt"
	"io"
	"log"
	"reflect"

	"github.com/andywolf/typegate/internal/cache"
	"github.com/andywolf/typegate/internal/config"
	"github.com/andywolf/typegate/internal/hint"
	"github.com/andywolf/typegate/internal/logic"
)

// Precomputed numeric-tower unions: a float constraint admits ints, a
// complex constraint admits floats and ints, per the implicit numeric-tower
// promotion rule.
var (
	FloatTower   = hint.Union(hint.Type[float64](), hint.Type[int]())
	ComplexTower = hint.Union(hint.Type[complex128](), hint.Type[float64](), hint.Type[int]())
)

// cached memoizes reduceOnce. Identical (hint, config) pairs always reduce
// identically, including replaying the same configuration error.
var cached *cache.Cached

func init() {
	var err error
	cached, err = cache.Wrap(reduceOnce)
	if err != nil {
		log.Fatalf("reduce: failed to wrap reducer: %v", err)
	}
}

// Reduce rewrites h to its canonical lower-level form, or returns it
// unchanged if irreducible. At most one rewrite is applied per call; in
// practice every case reduces to an already-canonical form, so one pass
// suffices. Invalid hints fail with a configuration error.
func Reduce(h hint.Hint, conf config.Config) (hint.Hint, error) {
	out, err := cached.Call(h, conf)
	if err != nil {
		return nil, err
	}
	return out.(hint.Hint), nil
}

// reduceOnce is the uncached reduction: a strictly ordered decision list,
// most likely cases first, evaluated until one branch fires.
func reduceOnce(h hint.Hint, conf config.Config) (hint.Hint, error) {
	sign, signed := hint.SignOf(h)

	// Unsigned hints: plain value spaces with no special structure. This
	// covers every ordinary type, so it is always tested first.
	if !signed {
		switch v := h.(type) {
		case hint.NilHint:
			// nil used as a hint means "the type of nil". Absurdly common,
			// so rewritten early.
			return hint.NilTypeHint{}, nil
		case hint.TypeHint:
			if conf.ExpandNumericTower && v.Type != nil && v.Type.PkgPath() == "" {
				switch v.Type.Kind() {
				case reflect.Float64:
					return FloatTower, nil
				case reflect.Complex128:
					return ComplexTower, nil
				}
			}
		case hint.IOHint:
			// Legacy IO generics are functionally useless as-is; rewrite
			// them to the equivalent structural protocol.
			return reduceIO(v)
		}
		if err := hint.Validate(h); err != nil {
			return nil, fmt.Errorf("reduce: not a valid constraint: %w", err)
		}
		return h, nil
	}

	switch sign {
	case hint.SignTypeVar:
		// A bounded type variable reduces to its bound; an unbounded one
		// passes through.
		tv := h.(hint.TypeVarHint)
		if tv.Bound != nil {
			return tv.Bound, nil
		}
		return h, nil

	case hint.SignAnnotated:
		// Metadata the engine does not understand is discarded by reducing
		// to the wrapped hint. Engine-specific validator metadata keeps the
		// wrapper intact for shape-specific handling downstream.
		ann := h.(hint.AnnotatedHint)
		if hasValidatorMetadata(ann) {
			return h, nil
		}
		if ann.Wrapped == nil {
			return hint.AnyHint{}, nil
		}
		return ann.Wrapped, nil

	case hint.SignArray:
		return reduceArray(h.(hint.ArrayHint))

	case hint.SignSubclass:
		// Type[any] constrains nothing beyond "is a type".
		sub := h.(hint.SubclassHint)
		if isIgnorableBound(sub.Bound) {
			return hint.Type[reflect.Type](), nil
		}
		return h, nil
	}

	// Fallback: signs with a registered reducer rewrite through the
	// registry table; everything else is irreducible.
	if reducer, ok := logic.ReducerFor(sign); ok {
		return reducer(h, "reduce")
	}
	return h, nil
}

// hasValidatorMetadata reports whether any metadata entry is an
// engine-specific validator.
func hasValidatorMetadata(ann hint.AnnotatedHint) bool {
	for _, m := range ann.Metadata {
		if _, ok := m.(hint.ValidatorHint); ok {
			return true
		}
	}
	return false
}

// isIgnorableBound reports whether a subclass bound imposes no constraint.
func isIgnorableBound(bound hint.Hint) bool {
	if bound == nil {
		return true
	}
	_, ok := bound.(hint.AnyHint)
	return ok
}

// ioProtocols maps legacy IO generic kinds to their structural equivalents.
var ioProtocols = map[string]hint.ProtocolHint{
	"IO":       {Name: "IO", Iface: reflect.TypeFor[io.ReadWriteCloser]()},
	"TextIO":   {Name: "TextIO", Iface: reflect.TypeFor[io.ReadWriter]()},
	"BinaryIO": {Name: "BinaryIO", Iface: reflect.TypeFor[io.ReadWriteSeeker]()},
}

func reduceIO(h hint.IOHint) (hint.Hint, error) {
	proto, ok := ioProtocols[h.Kind]
	if !ok {
		return nil, fmt.Errorf("reduce: unknown IO generic %q", h.Kind)
	}
	return proto, nil
}

// reduceArray rewrites a typed-array hint to a validator-style hint
// expressing the same element constraint in the engine's own vocabulary: an
// annotated slice type whose validator checks every item's dtype.
func reduceArray(h hint.ArrayHint) (hint.Hint, error) {
	elem, ok := h.Elem.(hint.TypeHint)
	if !ok || elem.Type == nil {
		return nil, fmt.Errorf("reduce: array element dtype must be a concrete type, got %s", h)
	}
	elemType := elem.Type
	dtype := hint.ValidatorHint{
		Name: fmt.Sprintf("dtype[%s]", elem),
		Check: func(pith any) bool {
			v := reflect.ValueOf(pith)
			switch v.Kind() {
			case reflect.Slice, reflect.Array:
			default:
				return false
			}
			if v.Type().Elem() == elemType {
				return true
			}
			for i := 0; i < v.Len(); i++ {
				item := v.Index(i)
				if item.Kind() == reflect.Interface {
					item = item.Elem()
				}
				if !item.IsValid() || item.Type() != elemType {
					return false
				}
			}
			return true
		},
	}
	// The wrapper constrains the container shape; the validator carries the
	// element dtype constraint.
	wrapped := hint.SequenceHint{Elem: nil}
	return hint.AnnotatedHint{Wrapped: wrapped, Metadata: []any{dtype}}, nil
}
