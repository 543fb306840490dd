package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/andywolf/typegate/internal/config"
	"github.com/andywolf/typegate/internal/hint"
	"github.com/andywolf/typegate/internal/trace"
)

// memorySink collects events for assertions.
type memorySink struct {
	events []trace.Event
}

func (s *memorySink) WriteOne(e trace.Event) error {
	s.events = append(s.events, e)
	return nil
}

func TestCheckPasses(t *testing.T) {
	e := New(config.Default(), nil)
	tests := []struct {
		name string
		pith any
		hint hint.Hint
	}{
		{"scalar", 42, hint.Type[int]()},
		{"union", "x", hint.Union(hint.Type[int](), hint.Type[string]())},
		{"tuple", []any{1, "x"}, hint.TupleFixedHint{Elems: []hint.Hint{hint.Type[int](), hint.Type[string]()}}},
		{"empty sequence", []int{}, hint.SequenceHint{Elem: hint.Type[string]()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := e.Check(tt.pith, tt.hint); err != nil {
				t.Errorf("Check() error = %v, want nil", err)
			}
		})
	}
}

func TestCheckViolation(t *testing.T) {
	e := New(config.Default(), nil)

	err := e.Check(5, hint.Type[string]())
	if err == nil {
		t.Fatal("Check() error = nil, want violation")
	}
	var violation *Violation
	if !errors.As(err, &violation) {
		t.Fatalf("Check() error = %T, want *Violation", err)
	}
	if violation.Explanation == "" {
		t.Error("Explanation empty, want the cause narrated")
	}
	if violation.CallID == "" {
		t.Error("CallID empty, want a per-call ID")
	}
	if !strings.Contains(err.Error(), violation.Explanation) {
		t.Errorf("Error() = %q, want the explanation included", err.Error())
	}
}

func TestCheckViolationAttribution(t *testing.T) {
	// Force the random draw so the sampled index is the offending one and
	// the verdict is deterministic.
	e := New(config.Default(), nil)
	e.draw = func() uint32 { return 4 } // 4 % 3 == 1

	err := e.Check([]any{"a", 2, "c"}, hint.SequenceHint{Elem: hint.Type[string]()})
	if err == nil {
		t.Fatal("Check() error = nil, want violation")
	}
	var violation *Violation
	if !errors.As(err, &violation) {
		t.Fatalf("Check() error = %T, want *Violation", err)
	}
	if !strings.Contains(violation.Explanation, "index 1") {
		t.Errorf("Explanation = %q, want the sampled index named", violation.Explanation)
	}
}

func TestCheckSamplingConsistency(t *testing.T) {
	// When the draw lands on a valid item the check passes: sampling
	// trades completeness for O(1) cost, and the cause finder sees the
	// same draw.
	e := New(config.Default(), nil)
	e.draw = func() uint32 { return 3 } // 3 % 3 == 0, a valid item

	if err := e.Check([]any{"a", 2, "c"}, hint.SequenceHint{Elem: hint.Type[string]()}); err != nil {
		t.Errorf("Check() error = %v, want nil for a passing sample", err)
	}
}

func TestCheckMalformedHint(t *testing.T) {
	e := New(config.Default(), nil)

	err := e.Check(5, hint.UnionHint{})
	if err == nil {
		t.Fatal("Check() error = nil, want reduction error")
	}
	var violation *Violation
	if errors.As(err, &violation) {
		t.Errorf("Check() error = %v, want a non-violation error for a malformed hint", err)
	}
}

func TestCheckSpelled(t *testing.T) {
	e := New(config.Default(), nil)

	if err := e.CheckSpelled([]any{1, 2}, "Sequence[int]"); err != nil {
		t.Errorf("CheckSpelled() error = %v, want nil", err)
	}
	if err := e.CheckSpelled(5, "str"); err == nil {
		t.Error("CheckSpelled() error = nil, want violation")
	}
	if err := e.CheckSpelled(5, "Nonsense["); err == nil {
		t.Error("CheckSpelled() error = nil, want parse error")
	}
}

func TestCheckEmitsTraceEvents(t *testing.T) {
	sink := &memorySink{}
	e := New(config.Default(), sink)

	if err := e.Check(5, hint.Type[int]()); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	_ = e.Check(5, hint.Type[string]())

	var reduces, checks, violations int
	for _, event := range sink.events {
		switch event.Type {
		case trace.EventReduce:
			reduces++
		case trace.EventCheck:
			checks++
		case trace.EventViolation:
			violations++
		}
		if event.CallID == "" {
			t.Error("event without CallID")
		}
		if event.Timestamp.IsZero() {
			t.Error("event without timestamp")
		}
	}
	if reduces != 2 {
		t.Errorf("reduce events = %d, want 2", reduces)
	}
	if checks != 2 {
		t.Errorf("check events = %d, want 2", checks)
	}
	if violations != 1 {
		t.Errorf("violation events = %d, want 1", violations)
	}

	// The two calls carry distinct call IDs.
	ids := make(map[string]bool)
	for _, event := range sink.events {
		ids[event.CallID] = true
	}
	if len(ids) != 2 {
		t.Errorf("distinct call IDs = %d, want 2", len(ids))
	}
}

func TestCheckTowerConfig(t *testing.T) {
	strict := New(config.Default(), nil)
	if err := strict.Check(3, hint.Type[float64]()); err == nil {
		t.Error("strict Check(int, float) error = nil, want violation")
	}

	tower := New(config.Config{ExpandNumericTower: true}, nil)
	if err := tower.Check(3, hint.Type[float64]()); err != nil {
		t.Errorf("tower Check(int, float) error = %v, want nil", err)
	}
}
