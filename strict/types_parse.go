package strict

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseType parses a declared type spelling into a TypeExpr. The grammar
// mirrors the declaration surface consumed by the extractor:
//
//	int, float, number, string, bool, nil, any, function, void
//	array<T>, hash<K, V>, final<T>, T?, A | B, ClassName
func ParseType(input string) (*TypeExpr, error) {
	p := &typeParser{input: input}
	p.skipSpace()
	ty, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("parse type %q: unexpected %q", input, p.input[p.pos:])
	}
	return ty, nil
}

// MustParseType is ParseType for statically known spellings.
func MustParseType(input string) *TypeExpr {
	ty, err := ParseType(input)
	if err != nil {
		panic(err)
	}
	return ty
}

type typeParser struct {
	input string
	pos   int
}

func (p *typeParser) parseUnion() (*TypeExpr, error) {
	first, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	union := []*TypeExpr{first}
	for {
		p.skipSpace()
		if !p.consume('|') {
			break
		}
		p.skipSpace()
		next, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		union = append(union, next)
	}

	if len(union) == 1 {
		return first, nil
	}
	return &TypeExpr{Kind: TypeUnion, Union: union}, nil
}

func (p *typeParser) parseAtom() (*TypeExpr, error) {
	name := p.readIdent()
	if name == "" {
		return nil, fmt.Errorf("parse type %q: type name expected at offset %d", p.input, p.pos)
	}

	if strings.EqualFold(name, "final") {
		inner, err := p.parseTypeArgs(name, 1)
		if err != nil {
			return nil, err
		}
		return p.finishAtom(Final(inner[0])), nil
	}

	ty := &TypeExpr{Name: name, Kind: resolveTypeName(name)}
	switch ty.Kind {
	case TypeArray:
		args, err := p.parseTypeArgsOptional(name, 1)
		if err != nil {
			return nil, err
		}
		ty.TypeArgs = args
	case TypeHash:
		args, err := p.parseTypeArgsOptional(name, 2)
		if err != nil {
			return nil, err
		}
		ty.TypeArgs = args
	case TypeUnknown:
		// Any other identifier names a class.
		ty.Kind = TypeObject
	}

	return p.finishAtom(ty), nil
}

func (p *typeParser) finishAtom(ty *TypeExpr) *TypeExpr {
	if p.consume('?') {
		ty.Nullable = true
	}
	return ty
}

func (p *typeParser) parseTypeArgsOptional(name string, want int) ([]*TypeExpr, error) {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != '<' {
		return nil, nil
	}
	return p.parseTypeArgs(name, want)
}

func (p *typeParser) parseTypeArgs(name string, want int) ([]*TypeExpr, error) {
	p.skipSpace()
	if !p.consume('<') {
		return nil, fmt.Errorf("parse type %q: %s expects %d type argument(s)", p.input, name, want)
	}

	args := []*TypeExpr{}
	for {
		p.skipSpace()
		arg, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume('>') {
			break
		}
		return nil, fmt.Errorf("parse type %q: expected ',' or '>' at offset %d", p.input, p.pos)
	}

	if len(args) != want {
		return nil, fmt.Errorf("parse type %q: %s expects %d type argument(s), got %d", p.input, name, want, len(args))
	}
	return args, nil
}

func (p *typeParser) readIdent() string {
	start := p.pos
	for p.pos < len(p.input) {
		r := rune(p.input[p.pos])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

func (p *typeParser) consume(ch byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == ch {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func resolveTypeName(name string) TypeKind {
	switch strings.ToLower(name) {
	case "any":
		return TypeAny
	case "int":
		return TypeInt
	case "float":
		return TypeFloat
	case "number":
		return TypeNumber
	case "string":
		return TypeString
	case "bool":
		return TypeBool
	case "nil":
		return TypeNil
	case "array":
		return TypeArray
	case "hash":
		return TypeHash
	case "function":
		return TypeFunction
	case "void", "noreturn":
		return TypeVoid
	}
	return TypeUnknown
}
