package strict

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps class names to their extracted schemas. It starts empty,
// is populated at class-definition time, and is read-only afterwards apart
// from further registrations. Concurrent first definition of one class is
// compute-once publish-once: every caller observes the same schema or the
// same error.
type Registry struct {
	mu      sync.Mutex
	classes map[string]*registryEntry
}

type registryEntry struct {
	once   sync.Once
	schema *ClassSchema
	err    error
}

func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*registryEntry)}
}

// Define extracts a schema from the declaration, validates the inheritance
// contract against the already-defined parents, and publishes the result.
// Defining an already-registered name is idempotent and returns the
// published schema.
func (r *Registry) Define(decl ClassDecl) (*ClassSchema, error) {
	r.mu.Lock()
	entry, ok := r.classes[decl.Name]
	if !ok {
		entry = &registryEntry{}
		r.classes[decl.Name] = entry
	}
	r.mu.Unlock()

	entry.once.Do(func() {
		entry.schema, entry.err = r.define(decl)
		if entry.err != nil {
			// A failed definition does not occupy the name.
			r.mu.Lock()
			delete(r.classes, decl.Name)
			r.mu.Unlock()
		}
	})
	return entry.schema, entry.err
}

func (r *Registry) define(decl ClassDecl) (*ClassSchema, error) {
	parents := make([]*ClassSchema, len(decl.Parents))
	for i, parentName := range decl.Parents {
		parent, err := r.Lookup(parentName)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", decl.Name, err)
		}
		parents[i] = parent
	}

	schema, err := buildSchema(decl, parents)
	if err != nil {
		return nil, err
	}
	if err := checkInheritanceContract(schema); err != nil {
		return nil, err
	}
	return schema, nil
}

// MustDefine is Define for statically known declarations.
func (r *Registry) MustDefine(decl ClassDecl) *ClassSchema {
	schema, err := r.Define(decl)
	if err != nil {
		panic(err)
	}
	return schema
}

// Lookup returns the published schema for a class name.
func (r *Registry) Lookup(name string) (*ClassSchema, error) {
	r.mu.Lock()
	entry, ok := r.classes[name]
	r.mu.Unlock()
	if !ok || entry.schema == nil {
		return nil, fmt.Errorf("class %s is not defined", name)
	}
	return entry.schema, nil
}

// ClassNames lists the registered classes in sorted order.
func (r *Registry) ClassNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.classes))
	for name, entry := range r.classes {
		if entry.schema != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
