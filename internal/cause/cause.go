// Package cause locates and describes the exact sub-value responsible for a
// confirmed hint violation. Cause-finding is purely diagnostic: it never
// re-decides pass/fail at the root, only narrates it, and it never fails
// for a value that actually satisfies the hint.
package cause

import (
	"github.com/andywolf/typegate/internal/check"
	"github.com/andywolf/typegate/internal/config"
	"github.com/andywolf/typegate/internal/hint"
	"github.com/andywolf/typegate/internal/reduce"
)

// ViolationCause is one node of the diagnostic search. One instance is
// created per visited sub-value; children derive from their parent by
// Permute and are never merged or cached, keeping the trace tree-shaped and
// specific to one call.
type ViolationCause struct {
	// Pith is the candidate value at this node.
	Pith any

	// Hint is the (reduced) constraint the pith was checked against.
	Hint hint.Hint

	// Sign classifies the hint's shape; empty for plain value spaces.
	Sign hint.Sign

	// ChildHints are the hint's children; a nil entry is ignorable.
	ChildHints []hint.Hint

	// Conf is the caller's read-only configuration.
	Conf config.Config

	// RandomInt is the pseudo-random draw the failed generated check used,
	// if any. It is call-local and threaded through Permute, never shared.
	RandomInt *uint32

	// CallID identifies the failing top-level call in trace output.
	CallID string

	// Explanation is the human-readable account of the violation. Empty
	// means "this node is not the culprit".
	Explanation string
}

// New builds the root cause for a confirmed violation of h by pith.
func New(pith any, h hint.Hint, conf config.Config, randomInt *uint32, callID string) ViolationCause {
	c := ViolationCause{
		Pith:      pith,
		Conf:      conf,
		RandomInt: randomInt,
		CallID:    callID,
	}
	c.setHint(h)
	return c
}

// Permute derives a child cause from c with the pith and hint overridden
// and the explanation cleared. The receiver is copied, never mutated:
// sibling elements each start from the same unmodified parent state.
func (c ViolationCause) Permute(pith any, h hint.Hint) ViolationCause {
	d := c
	d.Pith = pith
	d.Explanation = ""
	d.setHint(h)
	return d
}

// withExplanation copies c with the given explanation attached.
func (c ViolationCause) withExplanation(explanation string) ViolationCause {
	d := c
	d.Explanation = explanation
	return d
}

// setHint installs h, reduced to canonical form, and refreshes the derived
// sign and child-hint fields. Reduction errors cannot occur here for hints
// that already passed the checking phase; on the defensive path the hint is
// kept as-is.
func (c *ViolationCause) setHint(h hint.Hint) {
	if h != nil {
		if reduced, err := reduce.Reduce(h, c.Conf); err == nil {
			h = reduced
		}
	}
	c.Hint = h
	c.Sign = ""
	if h != nil {
		if sign, ok := hint.SignOf(h); ok {
			c.Sign = sign
		}
	}
	c.ChildHints = hint.Children(c.Hint)
}

// Find locates the cause of the violation described by c and returns a
// cause carrying a non-empty explanation when a culprit is identified, or
// c unchanged when this subtree is deeply valid (the violation stems from
// something else the caller attributes separately).
func Find(c ViolationCause) ViolationCause {
	switch c.Sign {
	case hint.SignSequence:
		return findCauseSequenceArgs1(c)
	case hint.SignReiterable:
		return findCauseReiterableArgs1(c)
	case hint.SignTupleFixed:
		return findCauseTupleFixed(c)
	}
	return findCauseLeaf(c)
}

// findCauseLeaf re-evaluates satisfaction for shapes with no recursive
// finder and narrates a failure in one step.
func findCauseLeaf(c ViolationCause) ViolationCause {
	if c.Hint == nil {
		return c
	}
	ok, err := check.Satisfies(c.Pith, c.Hint, c.Conf, c.RandomInt)
	if err == nil && ok {
		return c
	}
	return c.withExplanation(describeMismatch(c))
}
