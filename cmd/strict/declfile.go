package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/mgomes/strictscript/strict"
)

// declFormatConstraint is the range of declaration-file format versions
// this build understands.
const declFormatConstraint = "^1"

type declFile struct {
	Version string      `json:"version"`
	Classes []declClass `json:"classes"`
}

type declClass struct {
	Name       string       `json:"name"`
	Parents    []string     `json:"parents"`
	Friends    []string     `json:"friends"`
	Attributes []declAttr   `json:"attributes"`
	Methods    []declMethod `json:"methods"`
}

type declAttr struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default any    `json:"default"`
}

type declMethod struct {
	Name      string      `json:"name"`
	Params    []declParam `json:"params"`
	Return    string      `json:"return"`
	Modifiers []string    `json:"modifiers"`
}

type declParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// loadDeclFile reads a declaration file and defines every class it holds,
// in file order, into a fresh registry.
func loadDeclFile(path string) (*strict.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read declarations: %w", err)
	}
	return loadDecls(data)
}

func loadDecls(data []byte) (*strict.Registry, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var file declFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse declarations: %w", err)
	}
	if err := checkDeclVersion(file.Version); err != nil {
		return nil, err
	}

	registry := strict.NewRegistry()
	for _, class := range file.Classes {
		decl, err := class.toClassDecl()
		if err != nil {
			return nil, err
		}
		if _, err := registry.Define(decl); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func checkDeclVersion(raw string) error {
	if raw == "" {
		return fmt.Errorf("declaration file has no format version")
	}
	version, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("declaration format version %q: %w", raw, err)
	}
	constraint, err := semver.NewConstraint(declFormatConstraint)
	if err != nil {
		return err
	}
	if !constraint.Check(version) {
		return fmt.Errorf("declaration format version %s is not supported (want %s)", version, declFormatConstraint)
	}
	return nil
}

func (c declClass) toClassDecl() (strict.ClassDecl, error) {
	decl := strict.ClassDecl{
		Name:    c.Name,
		Parents: c.Parents,
		Friends: c.Friends,
	}

	for _, attr := range c.Attributes {
		ty, err := strict.ParseType(attr.Type)
		if err != nil {
			return decl, fmt.Errorf("class %s attribute %s: %w", c.Name, attr.Name, err)
		}
		attrDecl := strict.AttrDecl{Name: attr.Name, Type: ty}
		if attr.Default != nil {
			def, err := valueFromJSON(attr.Default)
			if err != nil {
				return decl, fmt.Errorf("class %s attribute %s default: %w", c.Name, attr.Name, err)
			}
			attrDecl.Default = &def
		}
		decl.Attributes = append(decl.Attributes, attrDecl)
	}

	for _, method := range c.Methods {
		methodDecl, err := method.toMethodDecl(c.Name)
		if err != nil {
			return decl, err
		}
		decl.Methods = append(decl.Methods, methodDecl)
	}
	return decl, nil
}

func (m declMethod) toMethodDecl(className string) (strict.MethodDecl, error) {
	decl := strict.MethodDecl{Name: m.Name}

	for _, param := range m.Params {
		ty, err := strict.ParseType(param.Type)
		if err != nil {
			return decl, fmt.Errorf("class %s method %s parameter %s: %w", className, m.Name, param.Name, err)
		}
		decl.Params = append(decl.Params, strict.ParamDecl{Name: param.Name, Type: ty})
	}

	if m.Return != "" {
		ret, err := strict.ParseType(m.Return)
		if err != nil {
			return decl, fmt.Errorf("class %s method %s return: %w", className, m.Name, err)
		}
		decl.Return = ret
	}

	for _, modifier := range m.Modifiers {
		switch strings.ToLower(modifier) {
		case "virtual":
			decl.Modifiers |= strict.ModVirtual
		case "abstract":
			decl.Modifiers |= strict.ModAbstract
		case "override":
			decl.Modifiers |= strict.ModOverride
		case "static":
			decl.Modifiers |= strict.ModStatic
		default:
			return decl, fmt.Errorf("class %s method %s: unknown modifier %q", className, m.Name, modifier)
		}
	}

	// Declaration files carry contracts, not code: concrete methods get a
	// stub body returning the declared type's zero value so the contract
	// checks stay explorable.
	if !decl.Modifiers.Has(strict.ModAbstract) && decl.Return != nil {
		stub := zeroValueOf(decl.Return)
		decl.Body = func(ctx *strict.CallContext, args []strict.Value) (strict.Value, error) {
			return stub, nil
		}
	}
	return decl, nil
}

func zeroValueOf(ty *strict.TypeExpr) strict.Value {
	if ty == nil || ty.Nullable {
		return strict.NewNil()
	}
	switch ty.Kind {
	case strict.TypeInt, strict.TypeNumber:
		return strict.NewInt(0)
	case strict.TypeFloat:
		return strict.NewFloat(0)
	case strict.TypeString:
		return strict.NewString("")
	case strict.TypeBool:
		return strict.NewBool(false)
	case strict.TypeArray:
		return strict.NewArray([]strict.Value{})
	case strict.TypeHash:
		return strict.NewHash(map[string]strict.Value{})
	default:
		return strict.NewNil()
	}
}

func valueFromJSON(raw any) (strict.Value, error) {
	switch v := raw.(type) {
	case nil:
		return strict.NewNil(), nil
	case bool:
		return strict.NewBool(v), nil
	case string:
		return strict.NewString(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return strict.NewInt(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return strict.NewNil(), err
		}
		return strict.NewFloat(f), nil
	case []any:
		elems := make([]strict.Value, len(v))
		for i, item := range v {
			elem, err := valueFromJSON(item)
			if err != nil {
				return strict.NewNil(), err
			}
			elems[i] = elem
		}
		return strict.NewArray(elems), nil
	case map[string]any:
		entries := make(map[string]strict.Value, len(v))
		for key, item := range v {
			entry, err := valueFromJSON(item)
			if err != nil {
				return strict.NewNil(), err
			}
			entries[key] = entry
		}
		return strict.NewHash(entries), nil
	default:
		return strict.NewNil(), fmt.Errorf("unsupported literal %T", raw)
	}
}
