package hint

import (
	"testing"
)

func TestCacheKeyStable(t *testing.T) {
	// Structurally equal hints built independently must key identically.
	tests := []struct {
		name string
		a, b Hint
	}{
		{"type", Type[int](), Type[int]()},
		{"union", Union(Type[int](), Type[string]()), Union(Type[int](), Type[string]())},
		{"sequence", SequenceHint{Elem: Type[int]()}, SequenceHint{Elem: Type[int]()}},
		{"tuple", TupleFixedHint{Elems: []Hint{Type[int](), nil}}, TupleFixedHint{Elems: []Hint{Type[int](), nil}}},
		{"mapping", MappingHint{Key: Type[string]()}, MappingHint{Key: Type[string]()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, err := tt.a.(interface{ CacheKey() (string, error) }).CacheKey()
			if err != nil {
				t.Fatalf("CacheKey() error = %v", err)
			}
			kb, err := tt.b.(interface{ CacheKey() (string, error) }).CacheKey()
			if err != nil {
				t.Fatalf("CacheKey() error = %v", err)
			}
			if ka != kb {
				t.Errorf("keys differ: %q vs %q", ka, kb)
			}
		})
	}
}

func TestCacheKeyDistinct(t *testing.T) {
	tests := []struct {
		name string
		a, b Hint
	}{
		{"different types", Type[int](), Type[string]()},
		{"different shapes", SequenceHint{Elem: Type[int]()}, ReiterableHint{Elem: Type[int]()}},
		{"union order matters", Union(Type[int](), Type[string]()), Union(Type[string](), Type[int]())},
		{"tuple arity", TupleFixedHint{}, TupleFixedHint{Elems: []Hint{nil}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, err := tt.a.(interface{ CacheKey() (string, error) }).CacheKey()
			if err != nil {
				t.Fatalf("CacheKey() error = %v", err)
			}
			kb, err := tt.b.(interface{ CacheKey() (string, error) }).CacheKey()
			if err != nil {
				t.Fatalf("CacheKey() error = %v", err)
			}
			if ka == kb {
				t.Errorf("keys collide: %q", ka)
			}
		})
	}
}

func TestValidatorCacheKeyByIdentity(t *testing.T) {
	check := func(any) bool { return true }
	a := ValidatorHint{Name: "v", Check: check}
	b := ValidatorHint{Name: "v", Check: check}
	other := ValidatorHint{Name: "v", Check: func(any) bool { return false }}

	ka, err := a.CacheKey()
	if err != nil {
		t.Fatalf("CacheKey() error = %v", err)
	}
	kb, _ := b.CacheKey()
	if ka != kb {
		t.Errorf("same predicate keys differ: %q vs %q", ka, kb)
	}
	kOther, _ := other.CacheKey()
	if ka == kOther {
		t.Errorf("distinct predicates share key %q", ka)
	}
}

func TestCacheKeyErrors(t *testing.T) {
	tests := []struct {
		name string
		hint interface{ CacheKey() (string, error) }
	}{
		{"type without type", TypeHint{}},
		{"validator without predicate", ValidatorHint{Name: "v"}},
		{"annotated func metadata", AnnotatedHint{Wrapped: Type[int](), Metadata: []any{func() {}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if key, err := tt.hint.CacheKey(); err == nil {
				t.Errorf("CacheKey() = %q, want error", key)
			}
		})
	}
}
