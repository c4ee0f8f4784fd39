package strict

// checkInheritanceContract cross-checks the virtual/override/abstract
// markers between a freshly built schema and its ancestors. It runs once,
// at definition time; abstractness left unresolved through the whole chain
// is caught separately at first instantiation.
func checkInheritanceContract(schema *ClassSchema) error {
	for name, method := range schema.methods {
		inherited := findInheritedMethod(schema, name)

		if method.Modifiers.Has(ModOverride) {
			if inherited == nil {
				return &OverrideMethodError{
					Class:  schema.name,
					Method: name,
					Detail: "marked override but no ancestor declares this method",
				}
			}
			if !overridable(inherited) {
				return &VirtualMethodError{Class: inherited.owner.name, Method: name}
			}
			continue
		}

		if inherited != nil {
			if !overridable(inherited) {
				return &VirtualMethodError{Class: inherited.owner.name, Method: name}
			}
			return &OverrideMethodError{
				Class:  schema.name,
				Method: name,
				Detail: "overrides a virtual or abstract method without the override marker",
			}
		}
	}
	return nil
}

func overridable(method *MethodSpec) bool {
	return method.Modifiers.Has(ModVirtual) || method.Modifiers.Has(ModAbstract)
}

// findInheritedMethod returns the most derived ancestor definition of a
// method name, or nil when no ancestor declares it.
func findInheritedMethod(schema *ClassSchema, name string) *MethodSpec {
	for _, parent := range schema.ancestors {
		if spec, ok := parent.resolveMethod(name); ok {
			return spec
		}
	}
	return nil
}

// checkInstantiable verifies every abstract method in the chain has a
// concrete most-derived implementation. The answer is computed once per
// schema and reused; abstract base classes may exist, they just cannot be
// constructed.
func (s *ClassSchema) checkInstantiable() error {
	s.instantiableOnce.Do(func() {
		abstract := make(map[string]struct{})
		s.abstractMethodNames(abstract)
		for name := range abstract {
			spec, ok := s.resolveMethod(name)
			if !ok || spec.Modifiers.Has(ModAbstract) {
				s.instantiableErr = &AbstractMethodError{Class: s.name, Method: name}
				return
			}
		}
	})
	return s.instantiableErr
}
