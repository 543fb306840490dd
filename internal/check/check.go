// Package check evaluates whether a pith satisfies a reduced hint. It is
// the in-process consumer of the sign logic registry's contract: container
// shapes are checked with the registry's sampling policy (first item for
// reiterables, one pseudo-random index for sequences) and the mandatory
// empty-container short-circuit.
package check

import (
	"fmt"
	"reflect"

	"github.com/andywolf/typegate/internal/config"
	"github.com/andywolf/typegate/internal/hint"
	"github.com/andywolf/typegate/internal/logic"
	"github.com/andywolf/typegate/internal/reduce"
)

// Satisfies reports whether pith satisfies h under conf. The hint is
// reduced before evaluation. randomInt is the single per-call pseudo-random
// draw shared by every sequence hint checked during one outer call; nil
// means no draw was provisioned and sequences sample their first item.
func Satisfies(pith any, h hint.Hint, conf config.Config, randomInt *uint32) (bool, error) {
	if h == nil {
		// Ignorable child hint: imposes no constraint.
		return true, nil
	}
	reduced, err := reduce.Reduce(h, conf)
	if err != nil {
		return false, err
	}
	return evalReduced(pith, reduced, conf, randomInt)
}

func evalReduced(pith any, h hint.Hint, conf config.Config, randomInt *uint32) (bool, error) {
	switch v := h.(type) {
	case hint.AnyHint:
		return true, nil

	case hint.NilTypeHint:
		return pith == nil, nil

	case hint.TypeHint:
		return Instance(pith, v.Type), nil

	case hint.UnionHint:
		// Members are evaluated in place, without re-reduction: reducing a
		// tower-expanded member (float inside the float tower) would
		// reproduce the same union and never terminate.
		for _, m := range v.Members {
			ok, err := evalReduced(pith, m, conf, randomInt)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case hint.NilHint:
		return pith == nil, nil

	case hint.TypeVarHint:
		// Unbounded type variables constrain nothing. Bounded ones reach
		// here only as union members; top-level ones reduce to their bound.
		if v.Bound != nil {
			return Satisfies(pith, v.Bound, conf, randomInt)
		}
		return true, nil

	case hint.SequenceHint:
		return evalSequence(pith, v.Elem, conf, randomInt)

	case hint.ReiterableHint:
		return evalReiterable(pith, v.Elem, conf, randomInt)

	case hint.MappingHint:
		return evalMapping(pith, v, conf, randomInt)

	case hint.TupleFixedHint:
		return evalTupleFixed(pith, v, conf, randomInt)

	case hint.AnnotatedHint:
		ok, err := Satisfies(pith, v.Wrapped, conf, randomInt)
		if err != nil || !ok {
			return ok, err
		}
		for _, m := range v.Metadata {
			if val, isValidator := m.(hint.ValidatorHint); isValidator {
				if !val.Check(pith) {
					return false, nil
				}
			}
		}
		return true, nil

	case hint.ValidatorHint:
		return v.Check(pith), nil

	case hint.ProtocolHint:
		if pith == nil {
			return false, nil
		}
		return reflect.TypeOf(pith).Implements(v.Iface), nil

	case hint.SubclassHint:
		t, ok := pith.(reflect.Type)
		if !ok {
			return false, nil
		}
		return subtypeOf(t, v.Bound, conf)

	// Residual reducible kinds: a single reduction pass rewrites one
	// level, so nested aliases land here and recurse through Satisfies.
	case hint.NewTypeHint:
		return Satisfies(pith, v.Underlying, conf, randomInt)
	case hint.IOHint:
		return Satisfies(pith, v, conf, randomInt)
	case hint.ArrayHint:
		return Satisfies(pith, v, conf, randomInt)
	case hint.InitOnlyHint:
		return Satisfies(pith, v.Wrapped, conf, randomInt)
	case hint.RecordHint:
		return evalMapping(pith, hint.MappingHint{Key: hint.Type[string](), Value: nil}, conf, randomInt)
	}

	return false, fmt.Errorf("check: %T escaped reduction", h)
}

// Instance reports whether pith is an instance of t: implementation for
// interface types, exact or assignable type otherwise. With the numeric
// tower disabled an int pith does not satisfy a float constraint.
func Instance(pith any, t reflect.Type) bool {
	if t == nil {
		return false
	}
	if pith == nil {
		return false
	}
	pt := reflect.TypeOf(pith)
	if t.Kind() == reflect.Interface {
		return pt.Implements(t)
	}
	return pt == t || pt.AssignableTo(t)
}

// IsSequence reports whether pith has a sequence shape (slice or array).
// Go has no distinct tuple runtime type, so fixed tuples share the shape.
func IsSequence(pith any) bool {
	switch reflect.ValueOf(pith).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// IsReiterable reports whether pith has a reiterable shape (a map; its
// items are the keys).
func IsReiterable(pith any) bool {
	return reflect.ValueOf(pith).Kind() == reflect.Map
}

// ReiterableFirst returns the structurally first item of a reiterable
// pith. Go randomizes map iteration order, so the first item is defined
// as the minimum key under a total order on the keys' rendered form.
// Repeated calls over the same pith always select the same item.
func ReiterableFirst(pith any) (any, bool) {
	v := reflect.ValueOf(pith)
	if v.Kind() != reflect.Map || v.Len() == 0 {
		return nil, false
	}
	return firstKey(v).Interface(), true
}

func firstKey(v reflect.Value) reflect.Value {
	var best reflect.Value
	var bestRendered string
	iter := v.MapRange()
	for iter.Next() {
		k := iter.Key()
		rendered := fmt.Sprintf("%T\x00%#v", k.Interface(), k.Interface())
		if !best.IsValid() || rendered < bestRendered {
			best, bestRendered = k, rendered
		}
	}
	return best
}

// SequenceIndex returns the index the sequence sampling policy selects for
// a sequence of length n: randomInt mod n when a draw was provisioned,
// index zero otherwise.
func SequenceIndex(randomInt *uint32, n int) int {
	if randomInt == nil || n == 0 {
		return 0
	}
	return int(*randomInt % uint32(n))
}

// evalSequence implements the sequence logic descriptor: instance check,
// then empty-or-sampled-item as a disjunction. The sampled item is the one
// at randomInt mod len, matching the cause finder's policy exactly.
func evalSequence(pith any, elem hint.Hint, conf config.Config, randomInt *uint32) (bool, error) {
	if !IsSequence(pith) {
		return false, nil
	}
	v := reflect.ValueOf(pith)
	if v.Len() == 0 || elem == nil {
		return true, nil
	}
	item := v.Index(SequenceIndex(randomInt, v.Len())).Interface()
	return Satisfies(item, elem, conf, randomInt)
}

// evalReiterable checks the structurally first item, per the reiterable
// logic descriptor.
func evalReiterable(pith any, elem hint.Hint, conf config.Config, randomInt *uint32) (bool, error) {
	if !IsReiterable(pith) {
		return false, nil
	}
	v := reflect.ValueOf(pith)
	if v.Len() == 0 || elem == nil {
		return true, nil
	}
	return Satisfies(firstKey(v).Interface(), elem, conf, randomInt)
}

// evalMapping checks the first key/value pair of a non-empty map.
func evalMapping(pith any, m hint.MappingHint, conf config.Config, randomInt *uint32) (bool, error) {
	if !IsReiterable(pith) {
		return false, nil
	}
	v := reflect.ValueOf(pith)
	if v.Len() == 0 || (m.Key == nil && m.Value == nil) {
		return true, nil
	}
	k := firstKey(v)
	if m.Key != nil {
		ok, err := Satisfies(k.Interface(), m.Key, conf, randomInt)
		if err != nil || !ok {
			return ok, err
		}
	}
	if m.Value != nil {
		return Satisfies(v.MapIndex(k).Interface(), m.Value, conf, randomInt)
	}
	return true, nil
}

// evalTupleFixed checks the pith's length against the hint's declared child
// count, then every position in order. Unlike variadic sequences, fixed
// tuples are checked exhaustively.
func evalTupleFixed(pith any, t hint.TupleFixedHint, conf config.Config, randomInt *uint32) (bool, error) {
	if !IsSequence(pith) {
		return false, nil
	}
	v := reflect.ValueOf(pith)
	if v.Len() != len(t.Elems) {
		return false, nil
	}
	for i, elem := range t.Elems {
		if elem == nil {
			continue
		}
		ok, err := Satisfies(v.Index(i).Interface(), elem, conf, randomInt)
		if err != nil || !ok {
			return ok, err
		}
	}
	return true, nil
}

// subtypeOf reports whether the pith type t is within the subclass bound.
func subtypeOf(t reflect.Type, bound hint.Hint, conf config.Config) (bool, error) {
	reduced, err := reduce.Reduce(bound, conf)
	if err != nil {
		return false, err
	}
	switch b := reduced.(type) {
	case hint.TypeHint:
		if b.Type == nil {
			return false, nil
		}
		if b.Type.Kind() == reflect.Interface {
			return t.Implements(b.Type), nil
		}
		return t == b.Type || t.AssignableTo(b.Type), nil
	case hint.ProtocolHint:
		return t.Implements(b.Iface), nil
	case hint.AnyHint:
		return true, nil
	}
	return false, fmt.Errorf("check: subclass bound %s is not a type", bound)
}

// NeedsRandomInt reports whether checking h requires provisioning the
// per-call pseudo-random integer: true when any reachable hint's sign has
// logic flagged as random-sampling.
func NeedsRandomInt(h hint.Hint) bool {
	if h == nil {
		return false
	}
	if sign, ok := hint.SignOf(h); ok {
		if l, covered := logic.For(sign); covered && l.NeedsRandomInt {
			return true
		}
	}
	for _, child := range hint.Children(h) {
		if NeedsRandomInt(child) {
			return true
		}
	}
	return false
}
