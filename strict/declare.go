package strict

import "fmt"

// ConstructorName is the method that runs inside the constructing window.
// It must declare the void return sentinel.
const ConstructorName = "init"

// ClassDecl is the structured declaration surface consumed by the schema
// extractor. The spelling that produced it (a parser, a JSON file, host Go
// code) is outside the engine.
type ClassDecl struct {
	Name       string
	Attributes []AttrDecl
	Methods    []MethodDecl
	Friends    []string
	Parents    []string
}

type AttrDecl struct {
	Name    string
	Type    *TypeExpr
	Default *Value
}

type ParamDecl struct {
	Name string
	Type *TypeExpr
}

type MethodDecl struct {
	Name      string
	Params    []ParamDecl
	Return    *TypeExpr
	Modifiers Modifier
	Body      BodyFunc
}

// buildSchema extracts a ClassSchema from a declaration. Any member missing
// a declared type fails here, once, with an AnnotationError; a malformed
// class can never be instantiated, only rejected.
func buildSchema(decl ClassDecl, parents []*ClassSchema) (*ClassSchema, error) {
	if decl.Name == "" {
		return nil, &AnnotationError{Class: decl.Name, Detail: "class name is required"}
	}

	schema := &ClassSchema{
		name:      decl.Name,
		attrs:     make(map[string]*AttributeSpec, len(decl.Attributes)),
		methods:   make(map[string]*MethodSpec, len(decl.Methods)),
		friends:   make(map[string]struct{}, len(decl.Friends)),
		ancestors: parents,
	}

	for _, attr := range decl.Attributes {
		if attr.Name == "" {
			return nil, &AnnotationError{Class: decl.Name, Detail: "attribute name is required"}
		}
		if attr.Type == nil {
			return nil, &AnnotationError{Class: decl.Name, Member: attr.Name, Detail: "attribute has no type annotation"}
		}
		if _, dup := schema.attrs[attr.Name]; dup {
			return nil, &AnnotationError{Class: decl.Name, Member: attr.Name, Detail: "attribute declared twice"}
		}
		spec := &AttributeSpec{
			Name:       attr.Name,
			Type:       attr.Type,
			Visibility: visibilityOf(attr.Name),
			Final:      attr.Type.Final,
		}
		if attr.Default != nil {
			if err := checkAssignable(*attr.Default, attr.Type); err != nil {
				return nil, attributeMismatch(decl.Name, attr.Name, err)
			}
			spec.HasDefault = true
			spec.Default = *attr.Default
		}
		schema.attrs[attr.Name] = spec
		schema.attrOrder = append(schema.attrOrder, attr.Name)
	}

	for _, method := range decl.Methods {
		if method.Name == "" {
			return nil, &AnnotationError{Class: decl.Name, Detail: "method name is required"}
		}
		if _, dup := schema.methods[method.Name]; dup {
			return nil, &AnnotationError{Class: decl.Name, Member: method.Name, Detail: "method declared twice"}
		}
		if _, clash := schema.attrs[method.Name]; clash {
			return nil, &AnnotationError{Class: decl.Name, Member: method.Name, Detail: "method name collides with an attribute"}
		}
		spec, err := buildMethodSpec(decl.Name, method)
		if err != nil {
			return nil, err
		}
		spec.owner = schema
		schema.methods[method.Name] = spec
	}

	for _, friend := range decl.Friends {
		schema.friends[friend] = struct{}{}
	}
	// Friend grants are inherited: a friend of the base is a friend of
	// every subclass.
	for _, parent := range parents {
		for friend := range parent.friends {
			schema.friends[friend] = struct{}{}
		}
	}

	return schema, nil
}

func buildMethodSpec(className string, method MethodDecl) (*MethodSpec, error) {
	params := make([]ParamSpec, len(method.Params))
	for i, param := range method.Params {
		if param.Type == nil {
			detail := fmt.Sprintf("parameter %s has no type annotation", paramLabel(i, param.Name))
			return nil, &AnnotationError{Class: className, Member: method.Name, Detail: detail}
		}
		params[i] = ParamSpec{Name: param.Name, Type: param.Type}
	}
	if method.Return == nil {
		return nil, &AnnotationError{Class: className, Member: method.Name, Detail: "method has no return type annotation"}
	}
	if method.Name == ConstructorName && method.Return.Kind != TypeVoid {
		return nil, &AnnotationError{Class: className, Member: method.Name, Detail: "constructor must declare the void return type"}
	}
	if method.Body == nil && !method.Modifiers.Has(ModAbstract) {
		return nil, fmt.Errorf("class %s: method %s has no body", className, method.Name)
	}

	return &MethodSpec{
		Name:       method.Name,
		Params:     params,
		Return:     method.Return,
		Modifiers:  method.Modifiers,
		Visibility: visibilityOf(method.Name),
		Body:       method.Body,
	}, nil
}

func paramLabel(index int, name string) string {
	if name == "" {
		return fmt.Sprintf("#%d", index)
	}
	return name
}

func attributeMismatch(className, attrName string, err error) error {
	if mismatch, ok := err.(*TypeMismatchError); ok {
		return &TypeMismatchError{
			Member:     className + "." + attrName,
			ParamIndex: -1,
			Expected:   mismatch.Expected,
			Actual:     mismatch.Actual,
		}
	}
	return err
}
