// Package engine orchestrates top-level type checks: hint reduction, check
// evaluation, and violation diagnosis, with per-call trace events.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/andywolf/typegate/internal/cause"
	"github.com/andywolf/typegate/internal/check"
	"github.com/andywolf/typegate/internal/config"
	"github.com/andywolf/typegate/internal/hint"
	"github.com/andywolf/typegate/internal/reduce"
	"github.com/andywolf/typegate/internal/trace"
)

// Sink receives trace events emitted during checking. Implementations must
// be safe for concurrent use.
type Sink interface {
	WriteOne(trace.Event) error
}

// Engine runs type checks under one configuration. The zero value is not
// usable; construct with New.
type Engine struct {
	conf config.Config
	sink Sink

	// draw is a test seam for the per-call pseudo-random draw.
	draw func() uint32
}

// New returns an engine checking under conf. sink may be nil to disable
// tracing.
func New(conf config.Config, sink Sink) *Engine {
	return &Engine{
		conf: conf,
		sink: sink,
		draw: rand.Uint32,
	}
}

// Violation reports that a value does not satisfy a hint. The Explanation
// names the exact offending sub-value and is never empty.
type Violation struct {
	// CallID identifies the failing check call in trace output.
	CallID string

	// Pith is the top-level value that was checked.
	Pith any

	// Hint is the reduced top-level hint that was violated.
	Hint hint.Hint

	// Explanation is the human-readable diagnosis.
	Explanation string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("type check failed: %s", v.Explanation)
}

// Check validates pith against h. It returns nil when pith satisfies h, a
// *Violation when it does not, and any other error only for malformed
// hints.
func (e *Engine) Check(pith any, h hint.Hint) error {
	callID := uuid.New().String()

	reduced, err := reduce.Reduce(h, e.conf)
	if err != nil {
		e.emit(callID, trace.EventError, h, err.Error())
		return fmt.Errorf("reduce %s: %w", h, err)
	}
	e.emit(callID, trace.EventReduce, reduced, "")

	// One pseudo-random draw per top-level call. Every sampled check in
	// this call, and the cause finder after it, sees the same value.
	var randomInt *uint32
	if check.NeedsRandomInt(reduced) {
		r := e.draw()
		randomInt = &r
	}

	ok, err := check.Satisfies(pith, reduced, e.conf, randomInt)
	if err != nil {
		e.emit(callID, trace.EventError, reduced, err.Error())
		return fmt.Errorf("check %s: %w", reduced, err)
	}
	if ok {
		e.emit(callID, trace.EventCheck, reduced, "pass")
		return nil
	}
	e.emit(callID, trace.EventCheck, reduced, "fail")

	c := cause.Find(cause.New(pith, reduced, e.conf, randomInt, callID))
	explanation := c.Explanation
	if explanation == "" {
		// The finder narrates every reachable failure; this fallback
		// guarantees the contract even so.
		explanation = fmt.Sprintf("value %s not %s", cause.Represent(pith), reduced)
	}
	e.emit(callID, trace.EventViolation, reduced, explanation)

	return &Violation{
		CallID:      callID,
		Pith:        pith,
		Hint:        reduced,
		Explanation: explanation,
	}
}

// CheckSpelled parses the hint expression src and validates pith against
// it.
func (e *Engine) CheckSpelled(pith any, src string) error {
	h, err := hint.Parse(src)
	if err != nil {
		return fmt.Errorf("parse hint %q: %w", src, err)
	}
	return e.Check(pith, h)
}

func (e *Engine) emit(callID string, typ trace.EventType, h hint.Hint, detail string) {
	if e.sink == nil {
		return
	}
	spelled := ""
	if h != nil {
		spelled = h.String()
	}
	event := trace.Event{
		Timestamp: time.Now(),
		CallID:    callID,
		Type:      typ,
		Hint:      spelled,
		Detail:    detail,
	}
	// Tracing is best-effort: a sink failure never fails the check.
	_ = e.sink.WriteOne(event)
}
