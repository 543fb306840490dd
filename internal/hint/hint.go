// Package hint defines the structural type-constraint model: the Hint forest,
// the Sign classification of hint shapes, and constructors for every hint kind
// the engine understands. Hints are immutable once built and freely shared.
package hint

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Hint describes a permitted value-space for a pith (a candidate value).
// A hint may carry zero or more child hints (e.g., the element hint of a
// container). A nil Hint means "no constraint" and is ignorable.
type Hint interface {
	// String renders the hint as a compact source-like expression,
	// e.g. "Sequence[int]" or "Tuple[int, str]".
	String() string

	isHint()
}

// TypeHint constrains a pith to instances of a concrete or interface Go type.
// Interface types match by implementation, concrete types by assignability.
type TypeHint struct {
	Type reflect.Type
}

// NilHint is the nil value used directly as a hint. The reducer rewrites it
// to NilTypeHint before checking.
type NilHint struct{}

// NilTypeHint constrains the pith to the nil singleton.
type NilTypeHint struct{}

// AnyHint imposes no constraint: every pith satisfies it.
type AnyHint struct{}

// UnionHint is satisfied when any member hint is satisfied.
type UnionHint struct {
	Members []Hint
}

// TypeVarHint is a named type variable, optionally bounded. Unbounded type
// variables constrain nothing; bounded ones reduce to their bound.
type TypeVarHint struct {
	Name  string
	Bound Hint
}

// AnnotatedHint wraps a hint with arbitrary metadata. Metadata the engine
// does not recognize is discarded by reduction; ValidatorHint metadata is
// engine-specific and preserved.
type AnnotatedHint struct {
	Wrapped  Hint
	Metadata []any
}

// ValidatorHint is an engine-specific predicate over piths, identified by
// name for diagnostics and keyed by function identity for memoization.
type ValidatorHint struct {
	Name  string
	Check func(pith any) bool
}

// ArrayHint constrains a pith to a typed array (slice or array) whose
// element dtype is Elem. Reduced to a validator-style hint before checking.
type ArrayHint struct {
	Elem Hint
}

// SubclassHint constrains a pith to a reflect.Type assignable to Bound.
// A Bound of AnyHint is ignorable and reduces to the bare is-a-type hint.
type SubclassHint struct {
	Bound Hint
}

// IOHint is a legacy IO generic ("IO", "TextIO", "BinaryIO"). Reduced to an
// equivalent structural ProtocolHint.
type IOHint struct {
	Kind string
}

// ProtocolHint constrains a pith structurally: its type must implement the
// named interface.
type ProtocolHint struct {
	Name  string
	Iface reflect.Type
}

// NewTypeHint is a named alias over an underlying hint. Reduced to the
// underlying hint.
type NewTypeHint struct {
	Name       string
	Underlying Hint
}

// InitOnlyHint marks a field hint as initialization-only. Reduced to the
// wrapped hint.
type InitOnlyHint struct {
	Wrapped Hint
}

// RecordHint is a typed mapping with a fixed set of named, typed fields.
// Reduced to a plain MappingHint: per-field checking is out of scope.
type RecordHint struct {
	Fields map[string]Hint
}

// MappingHint constrains a pith to a map whose keys and values satisfy the
// child hints. Nil children are ignorable.
type MappingHint struct {
	Key   Hint
	Value Hint
}

// TupleFixedHint constrains a pith to a fixed-length tuple whose i-th item
// satisfies Elems[i]. A nil element hint is ignorable. The empty Elems slice
// denotes the empty tuple.
type TupleFixedHint struct {
	Elems []Hint
}

// SequenceHint constrains a pith to a sequence (slice or array) whose items
// all satisfy Elem. Checked by pseudo-random single-item sampling.
type SequenceHint struct {
	Elem Hint
}

// ReiterableHint constrains a pith to a reiterable container without random
// access (a map, items being its keys) whose items all satisfy Elem. Checked
// on the structurally first item.
type ReiterableHint struct {
	Elem Hint
}

func (TypeHint) isHint()       {}
func (NilHint) isHint()        {}
func (NilTypeHint) isHint()    {}
func (AnyHint) isHint()        {}
func (UnionHint) isHint()      {}
func (TypeVarHint) isHint()    {}
func (AnnotatedHint) isHint()  {}
func (ValidatorHint) isHint()  {}
func (ArrayHint) isHint()      {}
func (SubclassHint) isHint()   {}
func (IOHint) isHint()         {}
func (ProtocolHint) isHint()   {}
func (NewTypeHint) isHint()    {}
func (InitOnlyHint) isHint()   {}
func (RecordHint) isHint()     {}
func (MappingHint) isHint()    {}
func (TupleFixedHint) isHint() {}
func (SequenceHint) isHint()   {}
func (ReiterableHint) isHint() {}

// Type returns a TypeHint for the Go type T.
func Type[T any]() TypeHint {
	return TypeHint{Type: reflect.TypeFor[T]()}
}

// OfType returns a TypeHint for an already-resolved reflect.Type.
func OfType(t reflect.Type) TypeHint {
	return TypeHint{Type: t}
}

// Union builds a UnionHint over the given members.
func Union(members ...Hint) UnionHint {
	return UnionHint{Members: members}
}

func (h TypeHint) String() string {
	if h.Type == nil {
		return "<invalid type>"
	}
	return typeName(h.Type)
}

func (NilHint) String() string     { return "nil" }
func (NilTypeHint) String() string { return "NilType" }
func (AnyHint) String() string     { return "any" }

func (h UnionHint) String() string {
	parts := make([]string, len(h.Members))
	for i, m := range h.Members {
		parts[i] = hintString(m)
	}
	return strings.Join(parts, " | ")
}

func (h TypeVarHint) String() string {
	if h.Bound != nil {
		return fmt.Sprintf("TypeVar[%s: %s]", h.Name, h.Bound)
	}
	return fmt.Sprintf("TypeVar[%s]", h.Name)
}

func (h AnnotatedHint) String() string {
	parts := []string{hintString(h.Wrapped)}
	for _, m := range h.Metadata {
		if v, ok := m.(ValidatorHint); ok {
			parts = append(parts, v.Name)
			continue
		}
		parts = append(parts, fmt.Sprintf("%v", m))
	}
	return fmt.Sprintf("Annotated[%s]", strings.Join(parts, ", "))
}

func (h ValidatorHint) String() string { return fmt.Sprintf("Is[%s]", h.Name) }
func (h ArrayHint) String() string     { return fmt.Sprintf("Array[%s]", hintString(h.Elem)) }
func (h SubclassHint) String() string  { return fmt.Sprintf("Type[%s]", hintString(h.Bound)) }
func (h IOHint) String() string        { return h.Kind }
func (h ProtocolHint) String() string  { return fmt.Sprintf("Protocol[%s]", h.Name) }
func (h NewTypeHint) String() string {
	return fmt.Sprintf("NewType[%s, %s]", h.Name, hintString(h.Underlying))
}
func (h InitOnlyHint) String() string { return fmt.Sprintf("InitOnly[%s]", hintString(h.Wrapped)) }

func (h RecordHint) String() string {
	names := make([]string, 0, len(h.Fields))
	for name := range h.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, hintString(h.Fields[name]))
	}
	return fmt.Sprintf("Record[%s]", strings.Join(parts, ", "))
}

func (h MappingHint) String() string {
	return fmt.Sprintf("Mapping[%s, %s]", hintString(h.Key), hintString(h.Value))
}

func (h TupleFixedHint) String() string {
	if len(h.Elems) == 0 {
		return "Tuple[()]"
	}
	parts := make([]string, len(h.Elems))
	for i, e := range h.Elems {
		parts[i] = hintString(e)
	}
	return fmt.Sprintf("Tuple[%s]", strings.Join(parts, ", "))
}

func (h SequenceHint) String() string   { return fmt.Sprintf("Sequence[%s]", hintString(h.Elem)) }
func (h ReiterableHint) String() string { return fmt.Sprintf("Reiterable[%s]", hintString(h.Elem)) }

// hintString renders a possibly-nil (ignorable) child hint.
func hintString(h Hint) string {
	if h == nil {
		return "any"
	}
	return h.String()
}

// typeName renders a reflect.Type with the engine's short spelling for the
// common builtin kinds, falling back to the reflect spelling.
func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int64:
		if t.PkgPath() == "" {
			return "int"
		}
	case reflect.Float64:
		if t.PkgPath() == "" {
			return "float"
		}
	case reflect.Complex128:
		if t.PkgPath() == "" {
			return "complex"
		}
	case reflect.String:
		if t.PkgPath() == "" {
			return "str"
		}
	case reflect.Bool:
		if t.PkgPath() == "" {
			return "bool"
		}
	}
	return t.String()
}

// Children returns the child hints of h in declaration order. Plain value
// spaces and leaves return nil. A nil entry is an ignorable child.
func Children(h Hint) []Hint {
	switch v := h.(type) {
	case UnionHint:
		return v.Members
	case TypeVarHint:
		if v.Bound != nil {
			return []Hint{v.Bound}
		}
	case AnnotatedHint:
		return []Hint{v.Wrapped}
	case ArrayHint:
		return []Hint{v.Elem}
	case SubclassHint:
		return []Hint{v.Bound}
	case NewTypeHint:
		return []Hint{v.Underlying}
	case InitOnlyHint:
		return []Hint{v.Wrapped}
	case MappingHint:
		return []Hint{v.Key, v.Value}
	case TupleFixedHint:
		return v.Elems
	case SequenceHint:
		return []Hint{v.Elem}
	case ReiterableHint:
		return []Hint{v.Elem}
	}
	return nil
}

// Validate reports whether h is a well-formed constraint. Malformed hints
// (nil inner types, unknown kinds) are configuration errors surfaced by the
// reducer before any checking happens.
func Validate(h Hint) error {
	switch v := h.(type) {
	case nil:
		return fmt.Errorf("nil Hint interface is not a constraint (use NilHint for the nil singleton)")
	case TypeHint:
		if v.Type == nil {
			return fmt.Errorf("type hint carries no type")
		}
	case UnionHint:
		if len(v.Members) == 0 {
			return fmt.Errorf("union hint has no members")
		}
		for _, m := range v.Members {
			if err := Validate(m); err != nil {
				return fmt.Errorf("union member: %w", err)
			}
		}
	case ProtocolHint:
		if v.Iface == nil || v.Iface.Kind() != reflect.Interface {
			return fmt.Errorf("protocol hint %q does not name an interface type", v.Name)
		}
	case ValidatorHint:
		if v.Check == nil {
			return fmt.Errorf("validator hint %q has no predicate", v.Name)
		}
	case NilHint, NilTypeHint, AnyHint, TypeVarHint, AnnotatedHint, ArrayHint,
		SubclassHint, IOHint, NewTypeHint, InitOnlyHint, RecordHint,
		MappingHint, TupleFixedHint, SequenceHint, ReiterableHint:
		// Structurally well-formed by construction.
	default:
		return fmt.Errorf("%T is not a recognized hint kind", h)
	}
	return nil
}
