package strict

import (
	"testing"
)

func defineCalculator(t *testing.T, reg *Registry) {
	t.Helper()
	mustDefine(t, reg, ClassDecl{
		Name:       "Calculator",
		Attributes: []AttrDecl{attrWithDefault("__total", "int", NewInt(0))},
		Methods: []MethodDecl{
			{
				Name:   "add",
				Params: []ParamDecl{param("amount", "int")},
				Return: IntType(),
				Body: func(ctx *CallContext, args []Value) (Value, error) {
					total, err := ctx.GetAttr("__total")
					if err != nil {
						return NewNil(), err
					}
					next := NewInt(total.Int() + args[0].Int())
					if err := ctx.SetAttr("__total", next); err != nil {
						return NewNil(), err
					}
					return next, nil
				},
			},
			{
				Name:   "lying",
				Return: IntType(),
				Body: func(ctx *CallContext, args []Value) (Value, error) {
					return NewString("not an int"), nil
				},
			},
			{
				Name:      "zero",
				Return:    IntType(),
				Modifiers: ModStatic,
				Body: func(ctx *CallContext, args []Value) (Value, error) {
					return NewInt(0), nil
				},
			},
		},
	})
}

func TestCallValidatesArgumentTypes(t *testing.T) {
	reg := NewRegistry()
	defineCalculator(t, reg)
	calc := mustConstruct(t, reg, Caller{}, "Calculator")

	result, err := calc.Call(Caller{}, "add", NewInt(4))
	if err != nil {
		t.Fatalf("valid call failed: %v", err)
	}
	if result.Int() != 4 {
		t.Fatalf("unexpected result: %#v", result)
	}

	_, err = calc.Call(Caller{}, "add", NewString("four"))
	mismatch := requireTypeMismatch(t, err)
	if mismatch.ParamIndex != 0 {
		t.Fatalf("mismatch should name the parameter index: %+v", mismatch)
	}
	if mismatch.Expected != "int" || mismatch.Actual != "string" {
		t.Fatalf("unexpected payload: %+v", mismatch)
	}
}

func TestCallValidatesArgumentCount(t *testing.T) {
	reg := NewRegistry()
	defineCalculator(t, reg)
	calc := mustConstruct(t, reg, Caller{}, "Calculator")

	_, err := calc.Call(Caller{}, "add")
	mismatch := requireTypeMismatch(t, err)
	if mismatch.Expected != "1 arguments" || mismatch.Actual != "0 arguments" {
		t.Fatalf("unexpected payload: %+v", mismatch)
	}
}

func TestCallValidatesReturnValue(t *testing.T) {
	reg := NewRegistry()
	defineCalculator(t, reg)
	calc := mustConstruct(t, reg, Caller{}, "Calculator")

	_, err := calc.Call(Caller{}, "lying")
	mismatch := requireTypeMismatch(t, err)
	if mismatch.Expected != "int" || mismatch.Actual != "string" {
		t.Fatalf("unexpected payload: %+v", mismatch)
	}
}

func TestCallToUndeclaredMethodRejected(t *testing.T) {
	reg := NewRegistry()
	defineCalculator(t, reg)
	calc := mustConstruct(t, reg, Caller{}, "Calculator")

	_, err := calc.Call(Caller{}, "subtract")
	requireAnnotationError(t, err)
}

func TestMethodBodyRunsWithItsOwnIdentity(t *testing.T) {
	reg := NewRegistry()
	defineCalculator(t, reg)
	calc := mustConstruct(t, reg, Caller{}, "Calculator")

	// add touches the private __total through its fixed identity; the
	// external caller never gains that access.
	if _, err := calc.Call(Caller{}, "add", NewInt(2)); err != nil {
		t.Fatalf("method denied access to its own private state: %v", err)
	}
	_, err := calc.Get(Caller{}, "__total")
	requireAccessError(t, err)
}

func TestStaticMethodCalledWithoutInstance(t *testing.T) {
	reg := NewRegistry()
	defineCalculator(t, reg)

	result, err := reg.CallStatic(Caller{}, "Calculator", "zero")
	if err != nil {
		t.Fatalf("static call failed: %v", err)
	}
	if result.Int() != 0 {
		t.Fatalf("unexpected result: %#v", result)
	}

	if _, err := reg.CallStatic(Caller{}, "Calculator", "add", NewInt(1)); err == nil {
		t.Fatalf("instance method must not be callable statically")
	}
}

func TestStaticMethodValidatesLikeInstanceMethod(t *testing.T) {
	reg := NewRegistry()
	mustDefine(t, reg, ClassDecl{
		Name: "Parser",
		Methods: []MethodDecl{{
			Name:      "parse",
			Params:    []ParamDecl{param("input", "string")},
			Return:    IntType(),
			Modifiers: ModStatic,
			Body: func(ctx *CallContext, args []Value) (Value, error) {
				return NewInt(int64(len(args[0].String()))), nil
			},
		}},
	})

	_, err := reg.CallStatic(Caller{}, "Parser", "parse", NewInt(3))
	requireTypeMismatch(t, err)

	result, err := reg.CallStatic(Caller{}, "Parser", "parse", NewString("abc"))
	if err != nil {
		t.Fatalf("static call failed: %v", err)
	}
	if result.Int() != 3 {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestFreeFunctionValidatesParamsAndReturn(t *testing.T) {
	reg := NewRegistry()
	double := reg.MustDefineFunc(FuncDecl{
		Name:   "double",
		Params: []ParamDecl{param("n", "int")},
		Return: IntType(),
		Body: func(ctx *CallContext, args []Value) (Value, error) {
			return NewInt(args[0].Int() * 2), nil
		},
	})

	result, err := double.Call(NewInt(21))
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if result.Int() != 42 {
		t.Fatalf("unexpected result: %#v", result)
	}

	_, err = double.Call(NewString("21"))
	requireTypeMismatch(t, err)
}

func TestFreeFunctionIdentityMatchesFriendGrants(t *testing.T) {
	reg := NewRegistry()
	defineVault(t, reg)
	vault := mustConstruct(t, reg, Caller{}, "Vault")

	// "audit" is a declared friend of Vault; an unrelated function is not.
	audit := reg.MustDefineFunc(FuncDecl{
		Name:   "audit",
		Params: []ParamDecl{},
		Return: StringType(),
		Body: func(ctx *CallContext, args []Value) (Value, error) {
			return ctx.GetFrom(vault, "_ledger")
		},
	})
	result, err := audit.Call()
	if err != nil {
		t.Fatalf("friend function denied: %v", err)
	}
	if result.String() != "ledger" {
		t.Fatalf("unexpected result: %#v", result)
	}

	intruder := reg.MustDefineFunc(FuncDecl{
		Name:   "intruder",
		Params: []ParamDecl{},
		Return: StringType(),
		Body: func(ctx *CallContext, args []Value) (Value, error) {
			return ctx.GetFrom(vault, "_ledger")
		},
	})
	_, err = intruder.Call()
	requireAccessError(t, err)
}

func TestVoidReturnSkipsValidation(t *testing.T) {
	reg := NewRegistry()
	mustDefine(t, reg, ClassDecl{
		Name: "Logger",
		Methods: []MethodDecl{{
			Name:   "log",
			Params: []ParamDecl{param("line", "string")},
			Return: VoidType(),
			Body: func(ctx *CallContext, args []Value) (Value, error) {
				// Whatever a void body returns is ignored by the checker.
				return NewInt(99), nil
			},
		}},
	})
	logger := mustConstruct(t, reg, Caller{}, "Logger")

	if _, err := logger.Call(Caller{}, "log", NewString("hello")); err != nil {
		t.Fatalf("void method failed: %v", err)
	}
}
