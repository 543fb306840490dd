package cause

import (
	"fmt"
	"reflect"

	"github.com/andywolf/typegate/internal/check"
	"github.com/andywolf/typegate/internal/hint"
)

// findCauseTupleFixed attributes a violation of a fixed-length tuple hint
// (e.g. Tuple[int, str]) to the offending position.
func findCauseTupleFixed(c ViolationCause) ViolationCause {
	if c.Sign != hint.SignTupleFixed {
		// Internal-consistency check; unreachable given correct dispatch.
		panic(fmt.Sprintf("cause: %s is not a fixed-length tuple hint", c.Hint))
	}

	// Shallow check first.
	if !check.IsSequence(c.Pith) {
		return c.withExplanation(describeMismatch(c))
	}
	v := reflect.ValueOf(c.Pith)

	// The empty tuple hint admits only the empty tuple.
	if len(c.ChildHints) == 0 {
		if v.Len() == 0 {
			return c
		}
		return c.withExplanation(fmt.Sprintf("tuple %s non-empty", Represent(c.Pith)))
	}

	// A length mismatch needs no per-position detail: name both lengths.
	if v.Len() != len(c.ChildHints) {
		return c.withExplanation(fmt.Sprintf(
			"tuple %s length %d != %d", Represent(c.Pith), v.Len(), len(c.ChildHints)))
	}

	for i, childHint := range c.ChildHints {
		// Ignorable positions constrain nothing.
		if childHint == nil {
			continue
		}
		deep := Find(c.Permute(v.Index(i).Interface(), childHint))
		if deep.Explanation != "" {
			deep.Explanation = prefixItem(c, i) + deep.Explanation
			return deep
		}
	}

	// Every position is valid: the tuple deeply satisfies this hint.
	return c
}
