package cause

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/andywolf/typegate/internal/hint"
)

// maxRepr caps the rendered length of a pith in explanations so that large
// containers do not drown the diagnosis.
const maxRepr = 64

var (
	indexStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Represent renders a pith for inclusion in an explanation, truncated to a
// readable length.
func Represent(pith any) string {
	if pith == nil {
		return "nil"
	}
	s := fmt.Sprintf("%#v", pith)
	if len(s) > maxRepr {
		s = s[:maxRepr-3] + "..."
	}
	return s
}

// describeMismatch narrates a leaf-level violation: the pith at this node
// does not inhabit the hint's value space.
func describeMismatch(c ViolationCause) string {
	spelled := "<nil>"
	if c.Hint != nil {
		spelled = c.Hint.String()
	}
	return fmt.Sprintf("value %s not %s", Represent(c.Pith), c.styleHint(spelled))
}

// prefixItem renders the attribution prefix for the item at the given index
// of the container pith, e.g. `sequence []int{1, 2} index 1 item `.
func (c ViolationCause) prefixContainer() string {
	return fmt.Sprintf("%s %s ", containerNoun(c.Sign), Represent(c.Pith))
}

func prefixItem(c ViolationCause, index int) string {
	return fmt.Sprintf("%sindex %s item ", c.prefixContainer(), c.styleIndex(index))
}

// prefixFirstItem renders the attribution prefix for the structurally first
// item of a reiterable pith, whose items carry no stable index.
func prefixFirstItem(c ViolationCause) string {
	return c.prefixContainer() + "item "
}

// containerNoun names the container kind being attributed, taken from the
// hint's sign rather than the pith: a fixed-length tuple pith is a plain
// slice or array and would otherwise be indistinguishable from a sequence.
func containerNoun(sign hint.Sign) string {
	switch sign {
	case hint.SignTupleFixed:
		return "tuple"
	case hint.SignReiterable:
		return "reiterable"
	case hint.SignSequence:
		return "sequence"
	}
	return "value"
}

func (c ViolationCause) styleIndex(index int) string {
	s := fmt.Sprintf("%d", index)
	if c.Conf.ColorizeOutput {
		return indexStyle.Render(s)
	}
	return s
}

func (c ViolationCause) styleHint(spelled string) string {
	if c.Conf.ColorizeOutput {
		return hintStyle.Render(spelled)
	}
	return spelled
}
