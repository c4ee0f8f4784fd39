package strict

type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypeAny
	TypeInt
	TypeFloat
	TypeNumber
	TypeString
	TypeBool
	TypeNil
	TypeArray
	TypeHash
	TypeFunction
	TypeObject
	TypeUnion
	// TypeVoid is the shared sentinel for "no value" (constructors) and
	// "never returns". Return checking is skipped for it, but the
	// annotation itself is still mandatory.
	TypeVoid
)

// TypeExpr is a declared type. Name carries the class name for TypeObject
// and the source spelling elsewhere. Final marks an attribute type writable
// only during its owning instance's constructing window.
type TypeExpr struct {
	Kind     TypeKind
	Name     string
	TypeArgs []*TypeExpr
	Union    []*TypeExpr
	Nullable bool
	Final    bool
}

func typeOf(kind TypeKind) *TypeExpr { return &TypeExpr{Kind: kind} }

// Convenience constructors for host code declaring schemas by hand.
func AnyType() *TypeExpr    { return typeOf(TypeAny) }
func IntType() *TypeExpr    { return typeOf(TypeInt) }
func FloatType() *TypeExpr  { return typeOf(TypeFloat) }
func NumberType() *TypeExpr { return typeOf(TypeNumber) }
func StringType() *TypeExpr { return typeOf(TypeString) }
func BoolType() *TypeExpr   { return typeOf(TypeBool) }
func NilType() *TypeExpr    { return typeOf(TypeNil) }
func VoidType() *TypeExpr   { return typeOf(TypeVoid) }

func ArrayType(elem *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: TypeArray, TypeArgs: []*TypeExpr{elem}}
}

func HashType(key, value *TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: TypeHash, TypeArgs: []*TypeExpr{key, value}}
}

func FunctionType() *TypeExpr { return typeOf(TypeFunction) }

// ObjectType declares "instance of className"; values whose class is
// className or any descendant of it are assignable.
func ObjectType(className string) *TypeExpr {
	return &TypeExpr{Kind: TypeObject, Name: className}
}

func UnionType(options ...*TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: TypeUnion, Union: options}
}

// Final wraps a copy of ty with the final qualifier set.
func Final(ty *TypeExpr) *TypeExpr {
	if ty == nil {
		return nil
	}
	qualified := *ty
	qualified.Final = true
	return &qualified
}

// Nullable wraps a copy of ty that also accepts nil.
func Nullable(ty *TypeExpr) *TypeExpr {
	if ty == nil {
		return nil
	}
	qualified := *ty
	qualified.Nullable = true
	return &qualified
}
