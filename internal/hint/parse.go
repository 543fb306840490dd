package hint

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"unicode"
)

// Parse builds a hint forest from a compact textual expression, e.g.
// "Sequence[int]", "Tuple[int, Sequence[str]]", "int | str",
// "Annotated[int, positive]". The grammar exists for the CLI and tests;
// Go callers construct hints directly.
//
// An underscore denotes an ignorable child hint: "Tuple[int, _]".
func Parse(src string) (Hint, error) {
	p := &parser{src: src}
	h, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("hint %q: trailing input at offset %d", src, p.pos)
	}
	return h, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return fmt.Errorf("hint %q: expected %q at offset %d", p.src, string(c), p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) ident() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		r := rune(p.src[p.pos])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("hint %q: expected identifier at offset %d", p.src, start)
	}
	return p.src[start:p.pos], nil
}

// parseUnion parses a '|'-separated union of terms.
func (p *parser) parseUnion() (Hint, error) {
	first, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	members := []Hint{first}
	for {
		p.skipSpace()
		if p.peek() != '|' {
			break
		}
		p.pos++
		next, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return first, nil
	}
	return UnionHint{Members: members}, nil
}

func (p *parser) parseTerm() (Hint, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != '[' {
		return p.atom(name)
	}
	p.pos++ // consume '['
	h, err := p.parametrized(name)
	if err != nil {
		return nil, err
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return h, nil
}

// atom resolves an unparametrized identifier.
func (p *parser) atom(name string) (Hint, error) {
	switch name {
	case "int":
		return Type[int](), nil
	case "float":
		return Type[float64](), nil
	case "complex":
		return Type[complex128](), nil
	case "str", "string":
		return Type[string](), nil
	case "bool":
		return Type[bool](), nil
	case "bytes":
		return Type[[]byte](), nil
	case "any":
		return AnyHint{}, nil
	case "nil", "None":
		return NilHint{}, nil
	case "type":
		return Type[reflect.Type](), nil
	case "IO":
		return IOHint{Kind: "IO"}, nil
	case "TextIO":
		return IOHint{Kind: "TextIO"}, nil
	case "BinaryIO":
		return IOHint{Kind: "BinaryIO"}, nil
	case "Reader":
		return ProtocolHint{Name: "Reader", Iface: reflect.TypeFor[io.Reader]()}, nil
	case "Writer":
		return ProtocolHint{Name: "Writer", Iface: reflect.TypeFor[io.Writer]()}, nil
	}
	return nil, fmt.Errorf("hint %q: unknown type %q", p.src, name)
}

// childOrIgnorable parses one argument hint, where "_" is the ignorable
// (nil) child.
func (p *parser) childOrIgnorable() (Hint, error) {
	p.skipSpace()
	if p.peek() == '_' {
		next := p.pos + 1
		if next >= len(p.src) || !isIdentByte(p.src[next]) {
			p.pos++
			return nil, nil
		}
	}
	return p.parseUnion()
}

func isIdentByte(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

// parametrized parses the bracketed arguments of a parametrized hint. The
// opening bracket is already consumed; the closing bracket is left for the
// caller.
func (p *parser) parametrized(name string) (Hint, error) {
	switch name {
	case "Sequence":
		elem, err := p.childOrIgnorable()
		if err != nil {
			return nil, err
		}
		return SequenceHint{Elem: elem}, nil
	case "Reiterable":
		elem, err := p.childOrIgnorable()
		if err != nil {
			return nil, err
		}
		return ReiterableHint{Elem: elem}, nil
	case "Array":
		elem, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		return ArrayHint{Elem: elem}, nil
	case "Type":
		bound, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		return SubclassHint{Bound: bound}, nil
	case "InitOnly":
		wrapped, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		return InitOnlyHint{Wrapped: wrapped}, nil
	case "Tuple":
		return p.tupleArgs()
	case "Mapping":
		key, err := p.childOrIgnorable()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		value, err := p.childOrIgnorable()
		if err != nil {
			return nil, err
		}
		return MappingHint{Key: key, Value: value}, nil
	case "Annotated":
		return p.annotatedArgs()
	case "NewType":
		alias, err := p.ident()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		under, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		return NewTypeHint{Name: alias, Underlying: under}, nil
	case "TypeVar":
		varName, err := p.ident()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			return TypeVarHint{Name: varName}, nil
		}
		p.pos++
		bound, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		return TypeVarHint{Name: varName, Bound: bound}, nil
	}
	return nil, fmt.Errorf("hint %q: type %q takes no arguments", p.src, name)
}

// tupleArgs parses fixed-tuple arguments. "Tuple[()]" is the empty tuple.
func (p *parser) tupleArgs() (Hint, error) {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], "()") {
		p.pos += 2
		return TupleFixedHint{}, nil
	}
	var elems []Hint
	for {
		elem, err := p.childOrIgnorable()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		p.skipSpace()
		if p.peek() != ',' {
			break
		}
		p.pos++
	}
	return TupleFixedHint{Elems: elems}, nil
}

// annotatedArgs parses "Annotated[hint, meta...]" where each meta is either
// a known validator name or kept as an opaque string the reducer discards.
func (p *parser) annotatedArgs() (Hint, error) {
	wrapped, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	var metadata []any
	for {
		p.skipSpace()
		if p.peek() != ',' {
			break
		}
		p.pos++
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		if v, ok := LookupValidator(name); ok {
			metadata = append(metadata, v)
		} else {
			metadata = append(metadata, name)
		}
	}
	if len(metadata) == 0 {
		return nil, fmt.Errorf("hint %q: Annotated requires at least one metadata argument", p.src)
	}
	return AnnotatedHint{Wrapped: wrapped, Metadata: metadata}, nil
}
