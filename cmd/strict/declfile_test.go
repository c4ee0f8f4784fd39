package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgomes/strictscript/strict"
)

const sampleDecls = `{
  "version": "1.0",
  "classes": [
    {
      "name": "Account",
      "friends": ["audit"],
      "attributes": [
        {"name": "owner", "type": "string", "default": "unset"},
        {"name": "_balance", "type": "int", "default": 0},
        {"name": "__pin", "type": "final<string>", "default": "0000"}
      ],
      "methods": [
        {"name": "init", "params": [{"name": "owner", "type": "string"}], "return": "void"},
        {"name": "balance", "return": "int"},
        {"name": "describe", "return": "string", "modifiers": ["virtual"]},
        {"name": "zero", "return": "int", "modifiers": ["static"]}
      ]
    },
    {
      "name": "Savings",
      "parents": ["Account"],
      "methods": [
        {"name": "describe", "return": "string", "modifiers": ["override"]}
      ]
    }
  ]
}`

func writeDecls(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "decls.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write decls: %v", err)
	}
	return path
}

func TestLoadDeclFileDefinesClasses(t *testing.T) {
	registry, err := loadDeclFile(writeDecls(t, sampleDecls))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	names := registry.ClassNames()
	if len(names) != 2 || names[0] != "Account" || names[1] != "Savings" {
		t.Fatalf("unexpected classes: %v", names)
	}

	schema, err := registry.Lookup("Account")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	pin, ok := schema.Attribute("__pin")
	if !ok {
		t.Fatalf("__pin not extracted")
	}
	if !pin.Final || pin.Visibility != strict.Private {
		t.Fatalf("__pin spec wrong: %+v", pin)
	}
	if !pin.HasDefault || pin.Default.String() != "0000" {
		t.Fatalf("__pin default wrong: %+v", pin)
	}
}

func TestLoadDeclsEnforcesContracts(t *testing.T) {
	// Shadowing a non-virtual inherited method without a marker is a
	// definition-time failure.
	bad := `{
  "version": "1.0",
  "classes": [
    {"name": "Base", "methods": [{"name": "run", "return": "int"}]},
    {"name": "Derived", "parents": ["Base"],
     "methods": [{"name": "run", "return": "int", "modifiers": ["override"]}]}
  ]
}`
	_, err := loadDecls([]byte(bad))
	var virtual *strict.VirtualMethodError
	if !errors.As(err, &virtual) {
		t.Fatalf("expected VirtualMethodError, got %v", err)
	}
}

func TestLoadDeclsRejectsBadVersions(t *testing.T) {
	cases := []struct {
		name    string
		version string
		want    string
	}{
		{"missing", "", "no format version"},
		{"unparseable", "banana", "banana"},
		{"unsupported", "2.0", "not supported"},
	}
	for _, tc := range cases {
		content := `{"version": "` + tc.version + `", "classes": []}`
		if tc.version == "" {
			content = `{"classes": []}`
		}
		_, err := loadDecls([]byte(content))
		if err == nil {
			t.Fatalf("%s: expected version error", tc.name)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

func TestLoadDeclsRejectsBadTypeSpelling(t *testing.T) {
	content := `{
  "version": "1.0",
  "classes": [
    {"name": "Broken", "attributes": [{"name": "x", "type": "array<"}]}
  ]
}`
	_, err := loadDecls([]byte(content))
	if err == nil {
		t.Fatalf("expected type parse error")
	}
	if !strings.Contains(err.Error(), "Broken") || !strings.Contains(err.Error(), "x") {
		t.Fatalf("error should name class and attribute: %v", err)
	}
}

func TestStubBodiesReturnDeclaredZeroValue(t *testing.T) {
	registry, err := loadDecls([]byte(sampleDecls))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	account, err := registry.NewInstance(strict.Caller{}, "Account", strict.NewString("mia"))
	if err != nil {
		t.Fatalf("construct failed: %v", err)
	}

	result, err := account.Call(strict.Caller{}, "balance")
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if result.Kind() != strict.KindInt || result.Int() != 0 {
		t.Fatalf("int stub should return 0: %#v", result)
	}

	result, err = account.Call(strict.Caller{}, "describe")
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if result.Kind() != strict.KindString || result.String() != "" {
		t.Fatalf("string stub should return empty string: %#v", result)
	}
}

func TestAbstractDeclsHaveNoStubBody(t *testing.T) {
	content := `{
  "version": "1.0",
  "classes": [
    {"name": "Shape", "methods": [{"name": "area", "return": "float", "modifiers": ["abstract"]}]}
  ]
}`
	registry, err := loadDecls([]byte(content))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	_, err = registry.NewInstance(strict.Caller{}, "Shape")
	var abstract *strict.AbstractMethodError
	if !errors.As(err, &abstract) {
		t.Fatalf("expected AbstractMethodError, got %v", err)
	}
}

func TestLoadDeclsRejectsUnknownModifier(t *testing.T) {
	content := `{
  "version": "1.0",
  "classes": [
    {"name": "C", "methods": [{"name": "m", "return": "void", "modifiers": ["inline"]}]}
  ]
}`
	_, err := loadDecls([]byte(content))
	if err == nil || !strings.Contains(err.Error(), "unknown modifier") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValueFromJSONDistinguishesIntAndFloat(t *testing.T) {
	content := `{
  "version": "1.0",
  "classes": [
    {"name": "Mixed", "attributes": [
      {"name": "count", "type": "int", "default": 3},
      {"name": "ratio", "type": "float", "default": 0.5},
      {"name": "tags", "type": "array<string>", "default": ["a", "b"]}
    ]}
  ]
}`
	registry, err := loadDecls([]byte(content))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	obj, err := registry.NewInstance(strict.Caller{}, "Mixed")
	if err != nil {
		t.Fatalf("construct failed: %v", err)
	}
	count, err := obj.Get(strict.Caller{}, "count")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if count.Kind() != strict.KindInt || count.Int() != 3 {
		t.Fatalf("count default wrong: %#v", count)
	}
	ratio, err := obj.Get(strict.Caller{}, "ratio")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ratio.Kind() != strict.KindFloat {
		t.Fatalf("ratio default should be float: %#v", ratio)
	}
	tags, err := obj.Get(strict.Caller{}, "tags")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if tags.Kind() != strict.KindArray || len(tags.Array()) != 2 {
		t.Fatalf("tags default wrong: %#v", tags)
	}
}
