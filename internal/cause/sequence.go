package cause

import (
	"fmt"
	"reflect"

	"github.com/andywolf/typegate/internal/check"
	"github.com/andywolf/typegate/internal/hint"
)

// findCauseSequenceArgs1 attributes a violation of a single-argument
// variadic sequence hint (e.g. Sequence[int]) to the offending item.
func findCauseSequenceArgs1(c ViolationCause) ViolationCause {
	if c.Sign != hint.SignSequence {
		// Internal-consistency check; unreachable given correct dispatch.
		panic(fmt.Sprintf("cause: %s is not a single-argument sequence hint", c.Hint))
	}

	// Shallow check first: a pith that is not even a sequence needs no
	// deeper traversal.
	if !check.IsSequence(c.Pith) {
		return c.withExplanation(describeMismatch(c))
	}
	v := reflect.ValueOf(c.Pith)

	// All remaining child hints beyond the first, if any, are ignorable.
	var childHint hint.Hint
	if len(c.ChildHints) > 0 {
		childHint = c.ChildHints[0]
	}

	// An empty sequence has no items to violate the child hint, and an
	// ignorable child hint imposes no constraint: either way the sequence
	// satisfies this hint and the violation stems from elsewhere.
	if v.Len() == 0 || childHint == nil {
		return c
	}

	// Choose which items to examine with the same policy the generated
	// check used. When the failed check sampled one pseudo-random index,
	// only that index can be the culprit here: inspect it alone, in O(1).
	// Without a draw, inspect every item in order.
	indices := make([]int, 0, v.Len())
	if c.RandomInt != nil {
		indices = append(indices, check.SequenceIndex(c.RandomInt, v.Len()))
	} else {
		for i := 0; i < v.Len(); i++ {
			indices = append(indices, i)
		}
	}

	for _, i := range indices {
		item := v.Index(i).Interface()
		deep := Find(c.Permute(item, childHint))
		if deep.Explanation != "" {
			deep.Explanation = prefixItem(c, i) + deep.Explanation
			return deep
		}
	}

	// Every examined item is valid: this sequence deeply satisfies the
	// hint. Return the cause unchanged.
	return c
}

// findCauseReiterableArgs1 attributes a violation of a single-argument
// reiterable hint. The sampling policy matches the generated check: only
// the structurally first item is examined.
func findCauseReiterableArgs1(c ViolationCause) ViolationCause {
	if c.Sign != hint.SignReiterable {
		panic(fmt.Sprintf("cause: %s is not a single-argument reiterable hint", c.Hint))
	}

	if !check.IsReiterable(c.Pith) {
		return c.withExplanation(describeMismatch(c))
	}
	v := reflect.ValueOf(c.Pith)

	var childHint hint.Hint
	if len(c.ChildHints) > 0 {
		childHint = c.ChildHints[0]
	}
	if v.Len() == 0 || childHint == nil {
		return c
	}

	// check.ReiterableFirst selects the same item the failed check sampled,
	// so a first-item violation is always rediscovered here.
	item, ok := check.ReiterableFirst(c.Pith)
	if !ok {
		return c
	}
	deep := Find(c.Permute(item, childHint))
	if deep.Explanation != "" {
		deep.Explanation = prefixFirstItem(c) + deep.Explanation
		return deep
	}
	return c
}
