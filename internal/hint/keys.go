package hint

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Hints participate in memoization keys. Every hint kind implements
// CacheKey, satisfying the call cache's Keyer interface without importing
// it. Keys are canonical within a process: structurally equal hints produce
// equal keys, and validator predicates are keyed by function identity.
//
// A CacheKey error means the hint is not hashable; the call cache degrades
// to an uncached call in that case rather than failing.

func (h TypeHint) CacheKey() (string, error) {
	if h.Type == nil {
		return "", fmt.Errorf("type hint carries no type")
	}
	return "type:" + typeKey(h.Type), nil
}

func (NilHint) CacheKey() (string, error)     { return "nil", nil }
func (NilTypeHint) CacheKey() (string, error) { return "niltype", nil }
func (AnyHint) CacheKey() (string, error)     { return "any", nil }

func (h UnionHint) CacheKey() (string, error) {
	keys, err := childKeys(h.Members)
	if err != nil {
		return "", err
	}
	return "union(" + keys + ")", nil
}

func (h TypeVarHint) CacheKey() (string, error) {
	bound, err := childKey(h.Bound)
	if err != nil {
		return "", err
	}
	return "typevar(" + h.Name + ":" + bound + ")", nil
}

func (h AnnotatedHint) CacheKey() (string, error) {
	wrapped, err := childKey(h.Wrapped)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(h.Metadata))
	for _, m := range h.Metadata {
		key, err := metadataKey(m)
		if err != nil {
			return "", err
		}
		parts = append(parts, key)
	}
	return "annotated(" + wrapped + ";" + strings.Join(parts, ",") + ")", nil
}

func (h ValidatorHint) CacheKey() (string, error) {
	if h.Check == nil {
		return "", fmt.Errorf("validator hint %q has no predicate", h.Name)
	}
	// Function identity: stable within a process, which is all the
	// process-wide call cache needs.
	return fmt.Sprintf("is(%s@%#x)", h.Name, reflect.ValueOf(h.Check).Pointer()), nil
}

func (h ArrayHint) CacheKey() (string, error) {
	elem, err := childKey(h.Elem)
	if err != nil {
		return "", err
	}
	return "array(" + elem + ")", nil
}

func (h SubclassHint) CacheKey() (string, error) {
	bound, err := childKey(h.Bound)
	if err != nil {
		return "", err
	}
	return "subclass(" + bound + ")", nil
}

func (h IOHint) CacheKey() (string, error) { return "io(" + h.Kind + ")", nil }

func (h ProtocolHint) CacheKey() (string, error) {
	if h.Iface == nil {
		return "", fmt.Errorf("protocol hint %q has no interface", h.Name)
	}
	return "protocol(" + h.Name + "@" + typeKey(h.Iface) + ")", nil
}

func (h NewTypeHint) CacheKey() (string, error) {
	under, err := childKey(h.Underlying)
	if err != nil {
		return "", err
	}
	return "newtype(" + h.Name + ":" + under + ")", nil
}

func (h InitOnlyHint) CacheKey() (string, error) {
	wrapped, err := childKey(h.Wrapped)
	if err != nil {
		return "", err
	}
	return "initonly(" + wrapped + ")", nil
}

func (h RecordHint) CacheKey() (string, error) {
	names := make([]string, 0, len(h.Fields))
	for name := range h.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		key, err := childKey(h.Fields[name])
		if err != nil {
			return "", err
		}
		parts = append(parts, name+":"+key)
	}
	return "record(" + strings.Join(parts, ",") + ")", nil
}

func (h MappingHint) CacheKey() (string, error) {
	keys, err := childKeys([]Hint{h.Key, h.Value})
	if err != nil {
		return "", err
	}
	return "mapping(" + keys + ")", nil
}

func (h TupleFixedHint) CacheKey() (string, error) {
	keys, err := childKeys(h.Elems)
	if err != nil {
		return "", err
	}
	return "tuple(" + keys + ")", nil
}

func (h SequenceHint) CacheKey() (string, error) {
	elem, err := childKey(h.Elem)
	if err != nil {
		return "", err
	}
	return "sequence(" + elem + ")", nil
}

func (h ReiterableHint) CacheKey() (string, error) {
	elem, err := childKey(h.Elem)
	if err != nil {
		return "", err
	}
	return "reiterable(" + elem + ")", nil
}

// typeKey identifies a reflect.Type uniquely within a process. The type
// name alone is ambiguous across packages; the interned descriptor pointer
// disambiguates.
func typeKey(t reflect.Type) string {
	return fmt.Sprintf("%s@%#x", t.String(), reflect.ValueOf(t).Pointer())
}

func childKey(h Hint) (string, error) {
	if h == nil {
		return "_", nil
	}
	keyer, ok := h.(interface{ CacheKey() (string, error) })
	if !ok {
		return "", fmt.Errorf("%T has no cache key", h)
	}
	return keyer.CacheKey()
}

func childKeys(hints []Hint) (string, error) {
	parts := make([]string, len(hints))
	for i, h := range hints {
		key, err := childKey(h)
		if err != nil {
			return "", err
		}
		parts[i] = key
	}
	return strings.Join(parts, ","), nil
}

// metadataKey keys a single metadata value attached to an annotated hint.
// Functions and channels have no value identity usable as a key, so hints
// annotated with them are unhashable and checked uncached.
func metadataKey(m any) (string, error) {
	if v, ok := m.(ValidatorHint); ok {
		return v.CacheKey()
	}
	switch reflect.ValueOf(m).Kind() {
	case reflect.Func, reflect.Chan:
		return "", fmt.Errorf("metadata of kind %T is not hashable", m)
	}
	return fmt.Sprintf("%T=%v", m, m), nil
}
