package hint

// Sign classifies a hint's structural shape. A hint maps to at most one
// sign; hints with no sign are plain, unstructured value spaces (ordinary
// types, unions of types) handled without shape-specific logic.
type Sign string

const (
	// SignAnnotated is a metadata-wrapper hint.
	SignAnnotated Sign = "Annotated"
	// SignTypeVar is a type-variable hint.
	SignTypeVar Sign = "TypeVar"
	// SignNewType is a new-type alias hint.
	SignNewType Sign = "NewType"
	// SignTypedMapping is a typed mapping with named, typed fields.
	SignTypedMapping Sign = "TypedMapping"
	// SignMapping is a key/value mapping hint.
	SignMapping Sign = "Mapping"
	// SignTupleFixed is a fixed-length tuple hint.
	SignTupleFixed Sign = "TupleFixed"
	// SignSequence is a variadic single-argument sequence hint.
	SignSequence Sign = "Sequence"
	// SignReiterable is a variadic single-argument reiterable hint.
	SignReiterable Sign = "Reiterable"
	// SignSubclass is a subclass-of hint.
	SignSubclass Sign = "Subclass"
	// SignInitOnly is an initialization-only field hint.
	SignInitOnly Sign = "InitOnly"
	// SignArray is a typed-array hint.
	SignArray Sign = "Array"
	// SignValidator is an engine-specific validator predicate hint.
	SignValidator Sign = "Validator"
	// SignProtocol is a structural protocol hint.
	SignProtocol Sign = "Protocol"
)

// SignOf returns the sign classifying h, or false if h is a plain value
// space with no special structure. This is the classifier oracle consulted
// by the reducer and the cause finder.
func SignOf(h Hint) (Sign, bool) {
	switch h.(type) {
	case AnnotatedHint:
		return SignAnnotated, true
	case TypeVarHint:
		return SignTypeVar, true
	case NewTypeHint:
		return SignNewType, true
	case RecordHint:
		return SignTypedMapping, true
	case MappingHint:
		return SignMapping, true
	case TupleFixedHint:
		return SignTupleFixed, true
	case SequenceHint:
		return SignSequence, true
	case ReiterableHint:
		return SignReiterable, true
	case SubclassHint:
		return SignSubclass, true
	case InitOnlyHint:
		return SignInitOnly, true
	case ArrayHint:
		return SignArray, true
	case ValidatorHint:
		return SignValidator, true
	case ProtocolHint:
		return SignProtocol, true
	}
	return "", false
}
