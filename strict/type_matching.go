package strict

import (
	"fmt"
	"reflect"
)

// checkAssignable verifies a runtime value against a declared type and
// reports a TypeMismatchError carrying both spellings on failure.
func checkAssignable(val Value, ty *TypeExpr) error {
	matches, err := valueMatchesType(val, ty)
	if err != nil {
		return err
	}
	if matches {
		return nil
	}
	return &TypeMismatchError{
		ParamIndex: -1,
		Expected:   formatTypeExpr(ty),
		Actual:     formatValueTypeExpr(val),
	}
}

type typeMatchVisit struct {
	valueKind ValueKind
	valueID   uintptr
	ty        *TypeExpr
}

type typeMatchState struct {
	active map[typeMatchVisit]struct{}
}

func valueMatchesType(val Value, ty *TypeExpr) (bool, error) {
	state := typeMatchState{
		active: make(map[typeMatchVisit]struct{}),
	}
	return state.matches(val, ty)
}

func (s *typeMatchState) matches(val Value, ty *TypeExpr) (bool, error) {
	if ty == nil {
		return false, fmt.Errorf("missing type expression")
	}

	if visit, ok := typeMatchVisitFor(val, ty); ok {
		if _, seen := s.active[visit]; seen {
			// Recursive value/type pair already being validated higher in the stack.
			return true, nil
		}
		s.active[visit] = struct{}{}
		defer delete(s.active, visit)
	}

	if ty.Nullable && val.Kind() == KindNil {
		return true, nil
	}
	switch ty.Kind {
	case TypeAny:
		return true, nil
	case TypeInt:
		return val.Kind() == KindInt, nil
	case TypeFloat:
		return val.Kind() == KindFloat, nil
	case TypeNumber:
		return val.Kind() == KindInt || val.Kind() == KindFloat, nil
	case TypeString:
		return val.Kind() == KindString, nil
	case TypeBool:
		return val.Kind() == KindBool, nil
	case TypeNil, TypeVoid:
		return val.Kind() == KindNil, nil
	case TypeFunction:
		return val.Kind() == KindFunction, nil
	case TypeArray:
		if val.Kind() != KindArray {
			return false, nil
		}
		if len(ty.TypeArgs) == 0 {
			return true, nil
		}
		if len(ty.TypeArgs) != 1 {
			return false, fmt.Errorf("array type expects exactly 1 type argument")
		}
		elemType := ty.TypeArgs[0]
		for _, elem := range val.Array() {
			matches, err := s.matches(elem, elemType)
			if err != nil {
				return false, err
			}
			if !matches {
				return false, nil
			}
		}
		return true, nil
	case TypeHash:
		if val.Kind() != KindHash {
			return false, nil
		}
		if len(ty.TypeArgs) == 0 {
			return true, nil
		}
		if len(ty.TypeArgs) != 2 {
			return false, fmt.Errorf("hash type expects exactly 2 type arguments")
		}
		keyType := ty.TypeArgs[0]
		valueType := ty.TypeArgs[1]
		for key, value := range val.Hash() {
			keyMatches, err := s.matches(NewString(key), keyType)
			if err != nil {
				return false, err
			}
			if !keyMatches {
				return false, nil
			}
			valueMatches, err := s.matches(value, valueType)
			if err != nil {
				return false, err
			}
			if !valueMatches {
				return false, nil
			}
		}
		return true, nil
	case TypeObject:
		if val.Kind() != KindInstance {
			return false, nil
		}
		obj := val.Instance()
		if obj == nil || obj.class == nil {
			return false, nil
		}
		return obj.class.isDescendantOf(ty.Name), nil
	case TypeUnion:
		for _, option := range ty.Union {
			matches, err := s.matches(val, option)
			if err != nil {
				return false, err
			}
			if matches {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unknown type %s", ty.Name)
	}
}

func typeMatchVisitFor(val Value, ty *TypeExpr) (typeMatchVisit, bool) {
	if ty == nil {
		return typeMatchVisit{}, false
	}

	var valueID uintptr
	switch val.Kind() {
	case KindArray:
		valueID = reflect.ValueOf(val.Array()).Pointer()
	case KindHash:
		valueID = reflect.ValueOf(val.Hash()).Pointer()
	default:
		return typeMatchVisit{}, false
	}
	if valueID == 0 {
		return typeMatchVisit{}, false
	}

	return typeMatchVisit{
		valueKind: val.Kind(),
		valueID:   valueID,
		ty:        ty,
	}, true
}
