package logic

import (
	"strings"
	"testing"

	"github.com/andywolf/typegate/internal/hint"
	"github.com/andywolf/typegate/internal/template"
)

func TestForCoversContainerSigns(t *testing.T) {
	tests := []struct {
		sign           hint.Sign
		wantKind       Kind
		needsRandomInt bool
	}{
		{hint.SignReiterable, KindReiterable, false},
		{hint.SignSequence, KindSequence, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.sign), func(t *testing.T) {
			l, ok := For(tt.sign)
			if !ok {
				t.Fatalf("For(%s) = false, want true", tt.sign)
			}
			if l.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", l.Kind, tt.wantKind)
			}
			if l.NeedsRandomInt != tt.needsRandomInt {
				t.Errorf("NeedsRandomInt = %v, want %v", l.NeedsRandomInt, tt.needsRandomInt)
			}
		})
	}
}

func TestForExcludesOtherSigns(t *testing.T) {
	for _, sign := range []hint.Sign{
		hint.SignMapping,
		hint.SignTupleFixed,
		hint.SignAnnotated,
		hint.SignSubclass,
	} {
		if _, ok := For(sign); ok {
			t.Errorf("For(%s) = true, want false (registry is container-only)", sign)
		}
	}
}

func TestRenderCheckReiterable(t *testing.T) {
	l, _ := For(hint.SignReiterable)
	got := l.RenderCheck(map[string]string{"pith": "v", "type": "dict"})
	want := "(instanceof(v, dict) && (empty(v) || first(v)))"
	if got != want {
		t.Errorf("RenderCheck() = %q, want %q", got, want)
	}
}

func TestRenderCheckSequence(t *testing.T) {
	l, _ := For(hint.SignSequence)
	got := l.RenderCheck(map[string]string{"pith": "v", "type": "list", "random": "r"})
	want := "(instanceof(v, list) && (empty(v) || v[r % len(v)]))"
	if got != want {
		t.Errorf("RenderCheck() = %q, want %q", got, want)
	}
}

func TestTemplatesExposeRequiredPlaceholders(t *testing.T) {
	for _, sign := range Signs() {
		l, _ := For(sign)
		code := template.Placeholders(l.CodeTemplate)
		for _, name := range []string{"pith", "type", "child"} {
			if !slicesContain(code, name) {
				t.Errorf("%s code template %q is missing {{%s}}", sign, l.CodeTemplate, name)
			}
		}
		child := template.Placeholders(l.ChildExprTemplate)
		if !slicesContain(child, "pith") {
			t.Errorf("%s child expression %q is missing {{pith}}", sign, l.ChildExprTemplate)
		}
		if l.NeedsRandomInt && !slicesContain(child, "random") {
			t.Errorf("%s child expression %q is missing {{random}}", sign, l.ChildExprTemplate)
		}
	}
}

func slicesContain(names []string, want string) bool {
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}

func TestCheckTemplateIsDisjunctive(t *testing.T) {
	// The empty-container short-circuit must be spelled as a disjunction
	// inside a conjunction, never as a conditional expression.
	for _, sign := range Signs() {
		l, _ := For(sign)
		if !strings.Contains(l.CodeTemplate, "||") || !strings.Contains(l.CodeTemplate, "&&") {
			t.Errorf("%s template %q is not in disjunction/conjunction form", sign, l.CodeTemplate)
		}
		if strings.Contains(l.CodeTemplate, "?") {
			t.Errorf("%s template %q uses a conditional expression", sign, l.CodeTemplate)
		}
	}
}

func TestReducerFor(t *testing.T) {
	reducible := []hint.Sign{hint.SignNewType, hint.SignInitOnly, hint.SignTypedMapping}
	for _, sign := range reducible {
		if _, ok := ReducerFor(sign); !ok {
			t.Errorf("ReducerFor(%s) = false, want true", sign)
		}
	}
	if _, ok := ReducerFor(hint.SignSequence); ok {
		t.Error("ReducerFor(Sequence) = true, want false")
	}
}

func TestReducers(t *testing.T) {
	tests := []struct {
		name string
		sign hint.Sign
		hint hint.Hint
		want string
	}{
		{"newtype unwraps", hint.SignNewType, hint.NewTypeHint{Name: "UserId", Underlying: hint.Type[int]()}, "int"},
		{"initonly unwraps", hint.SignInitOnly, hint.InitOnlyHint{Wrapped: hint.Type[string]()}, "str"},
		{"initonly empty is any", hint.SignInitOnly, hint.InitOnlyHint{}, "any"},
		{"record shallows to mapping", hint.SignTypedMapping, hint.RecordHint{Fields: map[string]hint.Hint{"x": hint.Type[int]()}}, "Mapping[str, any]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reducer, ok := ReducerFor(tt.sign)
			if !ok {
				t.Fatalf("ReducerFor(%s) = false, want true", tt.sign)
			}
			got, err := reducer(tt.hint, "test")
			if err != nil {
				t.Fatalf("reducer error = %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("reducer = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReducersRejectWrongKinds(t *testing.T) {
	reducer, _ := ReducerFor(hint.SignNewType)
	if _, err := reducer(hint.Type[int](), "test"); err == nil {
		t.Error("newtype reducer accepted a plain type hint, want error")
	}

	reducer, _ = ReducerFor(hint.SignNewType)
	if _, err := reducer(hint.NewTypeHint{Name: "Orphan"}, "test"); err == nil {
		t.Error("newtype reducer accepted an alias of nothing, want error")
	}
}
