// Package template provides Mustache-style placeholder substitution for the
// engine's check-code templates and diagnostic message templates.
package template

import (
	"regexp"
)

// placeholderPattern matches Mustache-style {{placeholder}} markers.
// It captures the placeholder name inside the double braces.
var placeholderPattern = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)

// Render substitutes Mustache-style {{placeholder}} markers in the template
// with values from the provided map. Unknown placeholders (those not in the
// map) are left as-is in the output, so a partially rendered template can be
// rendered again with the remaining values.
func Render(tmpl string, values map[string]string) string {
	if len(values) == 0 {
		return tmpl
	}

	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		submatches := placeholderPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}
		name := submatches[1]

		if value, ok := values[name]; ok {
			return value
		}

		// Unknown placeholder: leave as-is
		return match
	})
}

// Placeholders returns the distinct placeholder names appearing in the
// template, in first-appearance order.
func Placeholders(tmpl string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(tmpl, -1) {
		if len(m) < 2 || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// Merge merges base placeholder values with overrides. Overrides take
// precedence on name collision.
func Merge(base, overrides map[string]string) map[string]string {
	if len(base) == 0 && len(overrides) == 0 {
		return nil
	}

	result := make(map[string]string, len(base)+len(overrides))

	for k, v := range base {
		result[k] = v
	}

	for k, v := range overrides {
		result[k] = v
	}

	return result
}
