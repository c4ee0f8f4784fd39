package strict

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Object is one constructed instance. Its values map is exclusively owned;
// the schema is shared read-only across every instance of the class. The
// constructing flag transitions exactly once, from true to false, the
// moment the constructor returns control, whether it completed normally,
// returned an error, or panicked.
type Object struct {
	registry     *Registry
	class        *ClassSchema
	id           string
	values       map[string]Value
	constructing atomic.Bool
}

func (o *Object) Class() *ClassSchema { return o.class }

func (o *Object) ClassName() string { return o.class.name }

// ID is a process-unique instance identity, used in diagnostics and the
// inspector CLI.
func (o *Object) ID() string { return o.id }

// Constructing reports whether the instance is still inside its
// constructing window; final attribute writes are legal only then.
func (o *Object) Constructing() bool { return o.constructing.Load() }

// Describe renders a short handle like "#<Account 1a2b3c4d>".
func (o *Object) Describe() string {
	short := o.id
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("#<%s %s>", o.class.name, short)
}

// NewInstance constructs an instance of a registered class. Abstractness is
// re-checked here, lazily, to catch abstract methods left unresolved
// through the whole chain. Declared defaults are seeded, then the class's
// constructor runs inside the constructing window with the given arguments.
func (r *Registry) NewInstance(caller Caller, className string, args ...Value) (*Object, error) {
	schema, err := r.Lookup(className)
	if err != nil {
		return nil, err
	}
	if err := schema.checkInstantiable(); err != nil {
		return nil, err
	}

	obj := &Object{
		registry: r,
		class:    schema,
		id:       uuid.NewString(),
		values:   make(map[string]Value),
	}
	for _, name := range schema.allAttributeNames() {
		spec, _, _ := schema.resolveAttribute(name)
		if spec.HasDefault {
			obj.values[name] = spec.Default
		}
	}

	obj.constructing.Store(true)
	err = obj.runConstructor(caller, args)
	// The window closes when the constructor returns control, successful
	// or not.
	obj.constructing.Store(false)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (o *Object) runConstructor(caller Caller, args []Value) error {
	ctor, ok := o.class.resolveMethod(ConstructorName)
	if !ok {
		if len(args) > 0 {
			return &TypeMismatchError{
				Member:     o.class.name + "." + ConstructorName,
				ParamIndex: -1,
				Expected:   "0 arguments",
				Actual:     fmt.Sprintf("%d arguments", len(args)),
			}
		}
		return nil
	}
	defer closeWindowOnPanic(o)
	_, err := o.registry.invokeMethod(o, ctor, caller, args)
	return err
}

func closeWindowOnPanic(o *Object) {
	if r := recover(); r != nil {
		o.constructing.Store(false)
		panic(r)
	}
}
