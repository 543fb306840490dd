package hint

import (
	"testing"
)

func TestSignOf(t *testing.T) {
	tests := []struct {
		name string
		hint Hint
		want Sign
		ok   bool
	}{
		{"annotated", AnnotatedHint{Wrapped: Type[int]()}, SignAnnotated, true},
		{"typevar", TypeVarHint{Name: "T"}, SignTypeVar, true},
		{"newtype", NewTypeHint{Name: "N", Underlying: Type[int]()}, SignNewType, true},
		{"record", RecordHint{}, SignTypedMapping, true},
		{"mapping", MappingHint{}, SignMapping, true},
		{"fixed tuple", TupleFixedHint{}, SignTupleFixed, true},
		{"sequence", SequenceHint{}, SignSequence, true},
		{"reiterable", ReiterableHint{}, SignReiterable, true},
		{"subclass", SubclassHint{}, SignSubclass, true},
		{"initonly", InitOnlyHint{}, SignInitOnly, true},
		{"array", ArrayHint{}, SignArray, true},
		{"validator", ValidatorHint{Name: "v"}, SignValidator, true},
		{"protocol", ProtocolHint{Name: "p"}, SignProtocol, true},

		// Plain value spaces carry no sign.
		{"type unsigned", Type[int](), "", false},
		{"nil unsigned", NilHint{}, "", false},
		{"niltype unsigned", NilTypeHint{}, "", false},
		{"any unsigned", AnyHint{}, "", false},
		{"union unsigned", Union(Type[int]()), "", false},
		{"io unsigned", IOHint{Kind: "IO"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SignOf(tt.hint)
			if ok != tt.ok {
				t.Fatalf("SignOf() ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("SignOf() = %q, want %q", got, tt.want)
			}
		})
	}
}
