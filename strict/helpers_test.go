package strict

import (
	"errors"
	"testing"
)

func attr(name, typeSpelling string) AttrDecl {
	return AttrDecl{Name: name, Type: MustParseType(typeSpelling)}
}

func attrWithDefault(name, typeSpelling string, def Value) AttrDecl {
	return AttrDecl{Name: name, Type: MustParseType(typeSpelling), Default: &def}
}

func param(name, typeSpelling string) ParamDecl {
	return ParamDecl{Name: name, Type: MustParseType(typeSpelling)}
}

func noopBody(ctx *CallContext, args []Value) (Value, error) {
	return NewNil(), nil
}

func mustDefine(t *testing.T, reg *Registry, decl ClassDecl) *ClassSchema {
	t.Helper()
	schema, err := reg.Define(decl)
	if err != nil {
		t.Fatalf("define %s: unexpected error: %v", decl.Name, err)
	}
	return schema
}

func mustConstruct(t *testing.T, reg *Registry, caller Caller, className string, args ...Value) *Object {
	t.Helper()
	obj, err := reg.NewInstance(caller, className, args...)
	if err != nil {
		t.Fatalf("new %s: unexpected error: %v", className, err)
	}
	return obj
}

func requireAnnotationError(t *testing.T, err error) *AnnotationError {
	t.Helper()
	var annotation *AnnotationError
	if !errors.As(err, &annotation) {
		t.Fatalf("expected AnnotationError, got %v", err)
	}
	return annotation
}

func requireAccessError(t *testing.T, err error) *AccessError {
	t.Helper()
	var access *AccessError
	if !errors.As(err, &access) {
		t.Fatalf("expected AccessError, got %v", err)
	}
	return access
}

func requireTypeMismatch(t *testing.T, err error) *TypeMismatchError {
	t.Helper()
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
	return mismatch
}

func requireConstError(t *testing.T, err error) *ConstError {
	t.Helper()
	var constErr *ConstError
	if !errors.As(err, &constErr) {
		t.Fatalf("expected ConstError, got %v", err)
	}
	return constErr
}
