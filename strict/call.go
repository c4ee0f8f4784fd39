package strict

import "fmt"

// BodyFunc is a host-provided method or function body. It receives the
// CallContext whose identity was fixed when the body was wrapped, and the
// positional arguments already validated against the declaration.
type BodyFunc func(ctx *CallContext, args []Value) (Value, error)

// CallContext carries the identity of the code currently executing. It is
// established once, at the wrapping boundary, and is the only identity the
// engine will use for accesses made through it.
type CallContext struct {
	registry *Registry
	self     *Object
	identity Caller
}

func (c *CallContext) Registry() *Registry { return c.registry }

func (c *CallContext) Identity() Caller { return c.identity }

// Self returns the receiver, or nil inside static methods and free
// functions.
func (c *CallContext) Self() *Object { return c.self }

// GetAttr reads an attribute of the receiver with this context's identity.
func (c *CallContext) GetAttr(name string) (Value, error) {
	if c.self == nil {
		return NewNil(), fmt.Errorf("%s has no receiver", c.identity)
	}
	return c.self.Get(c.identity, name)
}

// SetAttr writes an attribute of the receiver with this context's identity.
func (c *CallContext) SetAttr(name string, val Value) error {
	if c.self == nil {
		return fmt.Errorf("%s has no receiver", c.identity)
	}
	return c.self.Set(c.identity, name, val)
}

// CallMethod invokes a method on the receiver with this context's identity.
func (c *CallContext) CallMethod(name string, args ...Value) (Value, error) {
	if c.self == nil {
		return NewNil(), fmt.Errorf("%s has no receiver", c.identity)
	}
	return c.self.Call(c.identity, name, args...)
}

// GetFrom reads an attribute of another object with this context's
// identity; friend grants and class membership apply as usual.
func (c *CallContext) GetFrom(obj *Object, name string) (Value, error) {
	return obj.Get(c.identity, name)
}

// SetOn writes an attribute of another object with this context's identity.
func (c *CallContext) SetOn(obj *Object, name string, val Value) error {
	return obj.Set(c.identity, name, val)
}

// CallOn invokes a method on another object with this context's identity.
func (c *CallContext) CallOn(obj *Object, name string, args ...Value) (Value, error) {
	return obj.Call(c.identity, name, args...)
}

// New constructs an instance of a registered class with this context's
// identity.
func (c *CallContext) New(className string, args ...Value) (*Object, error) {
	return c.registry.NewInstance(c.identity, className, args...)
}

// Call invokes a declared method on behalf of the caller. The method is
// resolved through the ancestor chain (overrides shadow), its visibility
// tier is checked before anything runs, positional arguments are validated
// in declaration order, and the returned value is validated after the body
// finishes unless the return type is the void sentinel.
func (o *Object) Call(caller Caller, name string, args ...Value) (Value, error) {
	spec, ok := o.class.resolveMethod(name)
	if !ok {
		return NewNil(), &AnnotationError{Class: o.class.name, Member: name, Detail: "method does not exist or has no type annotation"}
	}
	return o.registry.invokeMethod(o, spec, caller, args)
}

// CallStatic invokes a static method without an instance.
func (r *Registry) CallStatic(caller Caller, className, methodName string, args ...Value) (Value, error) {
	schema, err := r.Lookup(className)
	if err != nil {
		return NewNil(), err
	}
	spec, ok := schema.resolveMethod(methodName)
	if !ok {
		return NewNil(), &AnnotationError{Class: className, Member: methodName, Detail: "method does not exist or has no type annotation"}
	}
	if !spec.Modifiers.Has(ModStatic) {
		return NewNil(), fmt.Errorf("method %s.%s is not static", className, methodName)
	}
	return r.invokeMethod(nil, spec, caller, args)
}

func (r *Registry) invokeMethod(self *Object, spec *MethodSpec, caller Caller, args []Value) (Value, error) {
	if err := r.checkAccess(spec.owner, spec.Name, spec.Visibility, caller); err != nil {
		return NewNil(), err
	}
	label := spec.owner.name + "." + spec.Name
	if err := validateArgs(label, spec.Params, args); err != nil {
		return NewNil(), err
	}
	if spec.Body == nil {
		return NewNil(), &AbstractMethodError{Class: spec.owner.name, Method: spec.Name}
	}

	ctx := &CallContext{
		registry: r,
		self:     self,
		identity: MethodCaller(spec.owner.name, spec.Name),
	}
	result, err := spec.Body(ctx, args)
	if err != nil {
		return NewNil(), err
	}
	if err := checkReturn(label, spec.Return, result); err != nil {
		return NewNil(), err
	}
	return result, nil
}

func validateArgs(label string, params []ParamSpec, args []Value) error {
	if len(args) != len(params) {
		return &TypeMismatchError{
			Member:     label,
			ParamIndex: -1,
			Expected:   fmt.Sprintf("%d arguments", len(params)),
			Actual:     fmt.Sprintf("%d arguments", len(args)),
		}
	}
	for i, param := range params {
		if err := checkAssignable(args[i], param.Type); err != nil {
			mismatch, ok := err.(*TypeMismatchError)
			if !ok {
				return err
			}
			return &TypeMismatchError{
				Member:     fmt.Sprintf("%s parameter %s", label, paramLabel(i, param.Name)),
				ParamIndex: i,
				Expected:   mismatch.Expected,
				Actual:     mismatch.Actual,
			}
		}
	}
	return nil
}

func checkReturn(label string, ret *TypeExpr, result Value) error {
	if ret.Kind == TypeVoid {
		return nil
	}
	if err := checkAssignable(result, ret); err != nil {
		mismatch, ok := err.(*TypeMismatchError)
		if !ok {
			return err
		}
		return &TypeMismatchError{
			Member:     fmt.Sprintf("return value for %s", label),
			ParamIndex: -1,
			Expected:   mismatch.Expected,
			Actual:     mismatch.Actual,
		}
	}
	return nil
}
