package strict

import (
	"testing"
)

func TestDefineAndLookupRoundTrip(t *testing.T) {
	reg := NewRegistry()
	defined := mustDefine(t, reg, ClassDecl{
		Name:       "Account",
		Attributes: []AttrDecl{attr("balance", "int")},
	})

	found, err := reg.Lookup("Account")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if found != defined {
		t.Fatalf("lookup returned a different schema")
	}
}

func TestDefineIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	first := mustDefine(t, reg, ClassDecl{
		Name:       "Account",
		Attributes: []AttrDecl{attr("balance", "int")},
	})
	second := mustDefine(t, reg, ClassDecl{
		Name:       "Account",
		Attributes: []AttrDecl{attr("other", "string")},
	})

	if first != second {
		t.Fatalf("redefinition should return the published schema")
	}
	if _, ok := second.Attribute("balance"); !ok {
		t.Fatalf("published schema lost its attributes")
	}
}

func TestDefineFailureDoesNotOccupyName(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Define(ClassDecl{
		Name:       "Account",
		Attributes: []AttrDecl{{Name: "balance"}},
	})
	requireAnnotationError(t, err)

	// The name stays free for a corrected declaration.
	mustDefine(t, reg, ClassDecl{
		Name:       "Account",
		Attributes: []AttrDecl{attr("balance", "int")},
	})
}

func TestDefineRequiresParentsFirst(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Define(ClassDecl{
		Name:    "Derived",
		Parents: []string{"Missing"},
	})
	if err == nil {
		t.Fatalf("expected unresolved parent error")
	}
}

func TestClassNamesSorted(t *testing.T) {
	reg := NewRegistry()
	mustDefine(t, reg, ClassDecl{Name: "Zeta"})
	mustDefine(t, reg, ClassDecl{Name: "Alpha"})

	names := reg.ClassNames()
	if len(names) != 2 || names[0] != "Alpha" || names[1] != "Zeta" {
		t.Fatalf("unexpected class names: %v", names)
	}
}
