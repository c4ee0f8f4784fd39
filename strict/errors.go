package strict

import "fmt"

// AnnotationError reports a declaration with a missing or malformed type
// annotation, or a write to a member that was never declared. It is raised
// at class-definition time, so a malformed class can never be instantiated.
type AnnotationError struct {
	Class  string
	Member string
	Detail string
}

func (e *AnnotationError) Error() string {
	switch {
	case e.Class == "" && e.Member == "":
		return e.Detail
	case e.Class == "":
		return fmt.Sprintf("%s: %s", e.Member, e.Detail)
	case e.Member == "":
		return fmt.Sprintf("class %s: %s", e.Class, e.Detail)
	default:
		return fmt.Sprintf("%s.%s: %s", e.Class, e.Member, e.Detail)
	}
}

// AccessError reports a caller crossing a visibility boundary without a
// friend grant.
type AccessError struct {
	Member string
	Tier   Visibility
	Caller Caller
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s member %s is not accessible to %s", e.Tier, e.Member, e.Caller)
}

// TypeMismatchError reports a value whose runtime type is not assignable to
// a declared type. Member names the attribute, parameter, or return
// position; ParamIndex is the zero-based argument position, or -1.
type TypeMismatchError struct {
	Member     string
	ParamIndex int
	Expected   string
	Actual     string
}

func (e *TypeMismatchError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s expected %s, got %s", e.Member, e.Expected, e.Actual)
}

// ConstError reports a write to a final attribute outside its instance's
// constructing window.
type ConstError struct {
	Class     string
	Attribute string
}

func (e *ConstError) Error() string {
	return fmt.Sprintf("attribute %s.%s is final and cannot be modified after construction", e.Class, e.Attribute)
}

// VirtualMethodError reports a subclass method shadowing an ancestor method
// that is neither virtual nor abstract.
type VirtualMethodError struct {
	Class  string
	Method string
}

func (e *VirtualMethodError) Error() string {
	return fmt.Sprintf("method %s.%s is not virtual or abstract and cannot be overridden", e.Class, e.Method)
}

// OverrideMethodError reports an override marker with nothing to override,
// or an unmarked override of a virtual/abstract ancestor method.
type OverrideMethodError struct {
	Class  string
	Method string
	Detail string
}

func (e *OverrideMethodError) Error() string {
	return fmt.Sprintf("method %s.%s: %s", e.Class, e.Method, e.Detail)
}

// AbstractMethodError reports an instantiation attempt while an abstract
// method is left without a concrete override anywhere in the chain.
type AbstractMethodError struct {
	Class  string
	Method string
}

func (e *AbstractMethodError) Error() string {
	return fmt.Sprintf("class %s cannot be instantiated: abstract method %s has no concrete override", e.Class, e.Method)
}
