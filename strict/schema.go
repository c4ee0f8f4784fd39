package strict

import (
	"strings"
	"sync"
)

// Visibility is derived once from a member's name when its schema is built:
// no leading underscore is public, a single leading underscore protected, a
// double leading underscore private.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

func visibilityOf(name string) Visibility {
	if strings.HasPrefix(name, "__") {
		return Private
	}
	if strings.HasPrefix(name, "_") {
		return Protected
	}
	return Public
}

// Modifier is the method modifier set.
type Modifier int

const (
	ModVirtual Modifier = 1 << iota
	ModAbstract
	ModOverride
	ModStatic
)

func (m Modifier) Has(flag Modifier) bool { return m&flag != 0 }

func (m Modifier) String() string {
	parts := []string{}
	if m.Has(ModVirtual) {
		parts = append(parts, "virtual")
	}
	if m.Has(ModAbstract) {
		parts = append(parts, "abstract")
	}
	if m.Has(ModOverride) {
		parts = append(parts, "override")
	}
	if m.Has(ModStatic) {
		parts = append(parts, "static")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// AttributeSpec is the extracted declaration of one attribute.
type AttributeSpec struct {
	Name       string
	Type       *TypeExpr
	Visibility Visibility
	Final      bool
	HasDefault bool
	Default    Value
}

type ParamSpec struct {
	Name string
	Type *TypeExpr
}

// MethodSpec is the extracted declaration of one method. Body is nil only
// for abstract methods declared without an implementation.
type MethodSpec struct {
	Name       string
	Params     []ParamSpec
	Return     *TypeExpr
	Modifiers  Modifier
	Visibility Visibility
	Body       BodyFunc
	owner      *ClassSchema
}

// Owner is the schema the method was declared on.
func (m *MethodSpec) Owner() *ClassSchema { return m.owner }

// ClassSchema is the extracted, declared structure of one class. It is
// built once at definition time and shared read-only by every instance.
type ClassSchema struct {
	name      string
	attrOrder []string
	attrs     map[string]*AttributeSpec
	methods   map[string]*MethodSpec
	friends   map[string]struct{}
	ancestors []*ClassSchema

	instantiableOnce sync.Once
	instantiableErr  error
}

func (s *ClassSchema) Name() string { return s.name }

// Ancestors returns the direct parent schemas, in declaration order.
func (s *ClassSchema) Ancestors() []*ClassSchema { return s.ancestors }

// AttributeNames lists the class's own attributes in declaration order.
func (s *ClassSchema) AttributeNames() []string { return s.attrOrder }

// Attribute looks up an own attribute by name.
func (s *ClassSchema) Attribute(name string) (*AttributeSpec, bool) {
	spec, ok := s.attrs[name]
	return spec, ok
}

// Method looks up an own method by name.
func (s *ClassSchema) Method(name string) (*MethodSpec, bool) {
	spec, ok := s.methods[name]
	return spec, ok
}

// MethodNames lists the class's own methods, unordered.
func (s *ClassSchema) MethodNames() []string {
	names := make([]string, 0, len(s.methods))
	for name := range s.methods {
		names = append(names, name)
	}
	return names
}

// IsFriend reports whether a caller identity is in the class's friend set.
// Friend grants are declared per class and unioned with ancestor grants at
// schema-build time; they are re-evaluated on every access, never cached
// per instance.
func (s *ClassSchema) IsFriend(caller Caller) bool {
	if caller.Class == "" {
		if caller.Function == "" {
			return false
		}
		_, ok := s.friends[caller.Function]
		return ok
	}
	if _, ok := s.friends[caller.Class]; ok {
		return true
	}
	_, ok := s.friends[caller.Class+"."+caller.Function]
	return ok
}

// resolveAttribute walks the ancestor chain, depth-first in parent order,
// and returns the attribute spec together with its defining schema.
func (s *ClassSchema) resolveAttribute(name string) (*AttributeSpec, *ClassSchema, bool) {
	if spec, ok := s.attrs[name]; ok {
		return spec, s, true
	}
	for _, parent := range s.ancestors {
		if spec, owner, ok := parent.resolveAttribute(name); ok {
			return spec, owner, true
		}
	}
	return nil, nil, false
}

// resolveMethod walks the ancestor chain and returns the most derived
// definition of the named method.
func (s *ClassSchema) resolveMethod(name string) (*MethodSpec, bool) {
	if spec, ok := s.methods[name]; ok {
		return spec, true
	}
	for _, parent := range s.ancestors {
		if spec, ok := parent.resolveMethod(name); ok {
			return spec, true
		}
	}
	return nil, false
}

// isDescendantOf reports whether className is this class or any transitive
// ancestor.
func (s *ClassSchema) isDescendantOf(className string) bool {
	if s.name == className {
		return true
	}
	for _, parent := range s.ancestors {
		if parent.isDescendantOf(className) {
			return true
		}
	}
	return false
}

// allAttributeNames collects own and inherited attribute names, most
// derived first, without duplicates.
func (s *ClassSchema) allAttributeNames() []string {
	seen := make(map[string]struct{})
	var names []string
	s.collectAttributeNames(&names, seen)
	return names
}

func (s *ClassSchema) collectAttributeNames(names *[]string, seen map[string]struct{}) {
	for _, name := range s.attrOrder {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		*names = append(*names, name)
	}
	for _, parent := range s.ancestors {
		parent.collectAttributeNames(names, seen)
	}
}

// abstractMethodNames collects every method name marked abstract anywhere
// in the chain.
func (s *ClassSchema) abstractMethodNames(seen map[string]struct{}) {
	for name, spec := range s.methods {
		if spec.Modifiers.Has(ModAbstract) {
			seen[name] = struct{}{}
		}
	}
	for _, parent := range s.ancestors {
		parent.abstractMethodNames(seen)
	}
}
