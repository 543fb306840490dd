// Package logic holds the closed registry of per-shape check logic: for
// each single-argument container sign, the code template and sampling
// policy the generation layer and the cause finder share. Other shapes are
// handled by bespoke logic elsewhere.
package logic

import (
	"log"

	"github.com/andywolf/typegate/internal/hint"
	"github.com/andywolf/typegate/internal/template"
)

// Kind discriminates the two container-logic variants. Both share the same
// field layout; only the child-sampling expression and random-integer
// requirement differ.
type Kind string

const (
	// KindReiterable samples the structurally first item, a stable
	// selection shared with the cause finder so both examine the same
	// item of a given pith.
	KindReiterable Kind = "reiterable"

	// KindSequence samples the item at index random % len, giving O(1)
	// amortized checks on arbitrarily large sequences.
	KindSequence Kind = "sequence"
)

// containerCodeTemplate is the check template shared by every
// single-argument container shape: the pith is an instance of the shape's
// runtime type, AND (the pith is empty OR the sampled child item satisfies
// the child hint).
//
// The empty-container short-circuit must stay in this disjunction/
// conjunction form. A ternary-conditional formulation of the same check is
// known to interact badly with expression-scoping rules in at least one
// target runtime, so the conditional form is rejected outright.
const containerCodeTemplate = `(instanceof({{pith}}, {{type}}) && (empty({{pith}}) || {{child}}))`

// Child-sampling expressions for the two variants.
const (
	reiterableChildExpr = `first({{pith}})`
	sequenceChildExpr   = `{{pith}}[{{random}} % len({{pith}})]`
)

// Logic describes how a single-argument container shape is checked.
type Logic struct {
	// Kind selects the sampling variant.
	Kind Kind

	// CodeTemplate is the full check template, parameterized by the named
	// placeholders {{pith}}, {{type}} and {{child}}.
	CodeTemplate string

	// ChildExprTemplate yields the sampled child item, parameterized by
	// {{pith}} and, for sequences, {{random}}.
	ChildExprTemplate string

	// NeedsRandomInt instructs the generation layer to provision one fresh
	// pseudo-random unsigned 32-bit integer per outer call (not per hint
	// occurrence), so a single draw indexes every sequence hint checked
	// during that call identically.
	NeedsRandomInt bool
}

// RenderCheck renders the full check expression with the child-sampling
// expression substituted into the child-item position of the given values.
func (l Logic) RenderCheck(values map[string]string) string {
	childExpr := template.Render(l.ChildExprTemplate, values)
	merged := template.Merge(values, map[string]string{"child": childExpr})
	return template.Render(l.CodeTemplate, merged)
}

// newContainerLogic is the base constructor both variants specialize.
func newContainerLogic(kind Kind, childExpr string, needsRandomInt bool) Logic {
	return Logic{
		Kind:              kind,
		CodeTemplate:      containerCodeTemplate,
		ChildExprTemplate: childExpr,
		NeedsRandomInt:    needsRandomInt,
	}
}

// signToLogic is the closed sign-to-logic table, built once at startup and
// read-only thereafter.
var signToLogic = map[hint.Sign]Logic{
	hint.SignReiterable: newContainerLogic(KindReiterable, reiterableChildExpr, false),
	hint.SignSequence:   newContainerLogic(KindSequence, sequenceChildExpr, true),
}

// The registry templates are validated once at startup: a container
// template must expose the pith, type and child positions, and a child
// expression must consume the pith (plus the draw when one is
// provisioned). Render silently preserves unknown placeholders, so a
// missing position would otherwise surface only as garbled check code.
func init() {
	for sign, l := range signToLogic {
		requirePlaceholders(string(sign)+" code template", l.CodeTemplate, "pith", "type", "child")
		needed := []string{"pith"}
		if l.NeedsRandomInt {
			needed = append(needed, "random")
		}
		requirePlaceholders(string(sign)+" child expression", l.ChildExprTemplate, needed...)
	}
}

func requirePlaceholders(label, tmpl string, names ...string) {
	have := make(map[string]bool)
	for _, name := range template.Placeholders(tmpl) {
		have[name] = true
	}
	for _, name := range names {
		if !have[name] {
			log.Fatalf("logic: %s is missing placeholder %q", label, name)
		}
	}
}

// For returns the logic registered for the given sign, if any. Only the
// single-argument container signs are covered.
func For(sign hint.Sign) (Logic, bool) {
	l, ok := signToLogic[sign]
	return l, ok
}

// Signs returns the signs covered by the registry.
func Signs() []hint.Sign {
	signs := make([]hint.Sign, 0, len(signToLogic))
	for sign := range signToLogic {
		signs = append(signs, sign)
	}
	return signs
}
