package strict

import "fmt"

// FuncDecl declares a free function that opts in to parameter and return
// validation. No access tier applies; there is no enclosing class.
type FuncDecl struct {
	Name   string
	Params []ParamDecl
	Return *TypeExpr
	Body   BodyFunc
}

// Function is a wrapped free function. Inside its body the call context
// carries the function's own name as identity, so friend grants of the
// form "function" resolve naturally.
type Function struct {
	registry *Registry
	name     string
	params   []ParamSpec
	ret      *TypeExpr
	body     BodyFunc
}

// DefineFunc validates a free function's annotations and returns the
// wrapped callable. Missing parameter or return annotations fail here,
// before the function can ever run.
func (r *Registry) DefineFunc(decl FuncDecl) (*Function, error) {
	if decl.Name == "" {
		return nil, &AnnotationError{Detail: "function name is required"}
	}
	params := make([]ParamSpec, len(decl.Params))
	for i, param := range decl.Params {
		if param.Type == nil {
			detail := fmt.Sprintf("parameter %s has no type annotation", paramLabel(i, param.Name))
			return nil, &AnnotationError{Member: decl.Name, Detail: detail}
		}
		params[i] = ParamSpec{Name: param.Name, Type: param.Type}
	}
	if decl.Return == nil {
		return nil, &AnnotationError{Member: decl.Name, Detail: "function has no return type annotation"}
	}
	if decl.Body == nil {
		return nil, fmt.Errorf("function %s has no body", decl.Name)
	}

	return &Function{
		registry: r,
		name:     decl.Name,
		params:   params,
		ret:      decl.Return,
		body:     decl.Body,
	}, nil
}

// MustDefineFunc is DefineFunc for statically known declarations.
func (r *Registry) MustDefineFunc(decl FuncDecl) *Function {
	fn, err := r.DefineFunc(decl)
	if err != nil {
		panic(err)
	}
	return fn
}

func (f *Function) Name() string { return f.name }

// Call validates the arguments, runs the body, and validates the return
// value unless the declared return is the void sentinel.
func (f *Function) Call(args ...Value) (Value, error) {
	if err := validateArgs(f.name, f.params, args); err != nil {
		return NewNil(), err
	}

	ctx := &CallContext{
		registry: f.registry,
		identity: FreeFunctionCaller(f.name),
	}
	result, err := f.body(ctx, args)
	if err != nil {
		return NewNil(), err
	}
	if err := checkReturn(f.name, f.ret, result); err != nil {
		return NewNil(), err
	}
	return result, nil
}
