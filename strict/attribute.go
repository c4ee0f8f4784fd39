package strict

// Get reads an attribute on behalf of the caller. Reads verify that the
// attribute is declared and that the caller may see it; values themselves
// are never type-checked on the way out, only writes mutate checked state.
// A declared attribute that was never written reads as nil.
func (o *Object) Get(caller Caller, name string) (Value, error) {
	spec, owner, ok := o.class.resolveAttribute(name)
	if !ok {
		return NewNil(), &AnnotationError{Class: o.class.name, Member: name, Detail: "attribute does not exist or has no type annotation"}
	}
	if err := o.registry.checkAccess(owner, name, spec.Visibility, caller); err != nil {
		return NewNil(), err
	}
	if val, present := o.values[name]; present {
		return val, nil
	}
	return NewNil(), nil
}

// Set writes an attribute on behalf of the caller. The check order is
// fixed: existence, access, constness, type. A type mismatch must never
// mask an access violation, and an access violation is reported before
// anything about constness leaks.
func (o *Object) Set(caller Caller, name string, val Value) error {
	spec, owner, ok := o.class.resolveAttribute(name)
	if !ok {
		return &AnnotationError{Class: o.class.name, Member: name, Detail: "attribute does not exist or has no type annotation"}
	}
	if err := o.registry.checkAccess(owner, name, spec.Visibility, caller); err != nil {
		return err
	}
	if spec.Final && !o.constructing.Load() {
		return &ConstError{Class: owner.name, Attribute: name}
	}
	if err := checkAssignable(val, spec.Type); err != nil {
		return attributeMismatch(owner.name, name, err)
	}
	o.values[name] = val
	return nil
}
