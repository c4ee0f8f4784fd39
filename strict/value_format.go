package strict

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// formatValueTypeExpr renders the runtime type of a value for mismatch
// diagnostics, e.g. "array<int | string>".
func formatValueTypeExpr(val Value) string {
	state := valueTypeFormatState{
		seenArrays: make(map[uintptr]struct{}),
		seenHashes: make(map[uintptr]struct{}),
	}
	return state.format(val)
}

type valueTypeFormatState struct {
	seenArrays map[uintptr]struct{}
	seenHashes map[uintptr]struct{}
}

func (s *valueTypeFormatState) format(val Value) string {
	switch val.Kind() {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindInstance:
		if obj := val.Instance(); obj != nil {
			return obj.ClassName()
		}
		return "instance"
	case KindArray:
		return s.formatArray(val.Array())
	case KindHash:
		return s.formatHash(val.Hash())
	default:
		return val.Kind().String()
	}
}

func (s *valueTypeFormatState) formatArray(values []Value) string {
	if len(values) == 0 {
		return "array<empty>"
	}

	id := reflect.ValueOf(values).Pointer()
	if id != 0 {
		if _, seen := s.seenArrays[id]; seen {
			return "array<...>"
		}
		s.seenArrays[id] = struct{}{}
		defer delete(s.seenArrays, id)
	}

	elementTypes := make(map[string]struct{}, len(values))
	for _, value := range values {
		elementTypes[s.format(value)] = struct{}{}
	}
	return "array<" + joinSortedTypes(elementTypes) + ">"
}

func (s *valueTypeFormatState) formatHash(values map[string]Value) string {
	if len(values) == 0 {
		return "hash<empty>"
	}

	id := reflect.ValueOf(values).Pointer()
	if id != 0 {
		if _, seen := s.seenHashes[id]; seen {
			return "hash<...>"
		}
		s.seenHashes[id] = struct{}{}
		defer delete(s.seenHashes, id)
	}

	valueTypes := make(map[string]struct{}, len(values))
	for _, value := range values {
		valueTypes[s.format(value)] = struct{}{}
	}
	return "hash<string, " + joinSortedTypes(valueTypes) + ">"
}

func joinSortedTypes(typeSet map[string]struct{}) string {
	if len(typeSet) == 0 {
		return "empty"
	}
	parts := make([]string, 0, len(typeSet))
	for typeName := range typeSet {
		parts = append(parts, typeName)
	}
	sort.Strings(parts)
	return strings.Join(parts, " | ")
}

// FormatValue renders a value for display; used by the inspector CLI.
func FormatValue(val Value) string {
	switch val.Kind() {
	case KindNil:
		return "nil"
	case KindBool:
		return fmt.Sprintf("%t", val.Bool())
	case KindInt:
		return fmt.Sprintf("%d", val.Int())
	case KindFloat:
		return fmt.Sprintf("%g", val.Float())
	case KindString:
		return fmt.Sprintf("%q", val.String())
	case KindArray:
		parts := make([]string, len(val.Array()))
		for i, elem := range val.Array() {
			parts[i] = FormatValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindHash:
		entries := val.Hash()
		keys := make([]string, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, key := range keys {
			parts[i] = fmt.Sprintf("%s: %s", key, FormatValue(entries[key]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindFunction:
		if fn := val.Function(); fn != nil {
			return fmt.Sprintf("function %s", fn.Name())
		}
		return "function"
	case KindInstance:
		if obj := val.Instance(); obj != nil {
			return obj.Describe()
		}
		return "instance"
	default:
		return val.Kind().String()
	}
}
