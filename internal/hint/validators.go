package hint

import "reflect"

// Built-in named validators usable as annotated-hint metadata, both from Go
// callers and from the textual hint grammar (e.g. "Annotated[int, positive]").
// The table is built once at startup and treated as read-only thereafter.
var builtinValidators = map[string]ValidatorHint{
	"positive": {Name: "positive", Check: func(pith any) bool {
		switch v := pith.(type) {
		case int:
			return v > 0
		case int64:
			return v > 0
		case float64:
			return v > 0
		}
		return false
	}},
	"nonnegative": {Name: "nonnegative", Check: func(pith any) bool {
		switch v := pith.(type) {
		case int:
			return v >= 0
		case int64:
			return v >= 0
		case float64:
			return v >= 0
		}
		return false
	}},
	"nonempty": {Name: "nonempty", Check: func(pith any) bool {
		v := reflect.ValueOf(pith)
		switch v.Kind() {
		case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
			return v.Len() > 0
		}
		return false
	}},
}

// LookupValidator resolves a named built-in validator.
func LookupValidator(name string) (ValidatorHint, bool) {
	v, ok := builtinValidators[name]
	return v, ok
}

// ValidatorNames returns the names of all built-in validators.
func ValidatorNames() []string {
	names := make([]string, 0, len(builtinValidators))
	for name := range builtinValidators {
		names = append(names, name)
	}
	return names
}
