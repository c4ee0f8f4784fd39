// Package strict overlays a dynamically-typed object model with declared,
// checked structure. A class is described once, through a ClassDecl, and the
// engine enforces the declaration on every construction, attribute access,
// and method call afterwards:
//   - Every attribute, parameter, and return position must carry a declared
//     type; an undeclared one rejects the class at definition time.
//   - Attribute writes are type-checked against the declaration; final
//     attributes accept writes only while their instance is constructing.
//   - Member names drive visibility: public, `_` protected, `__` private,
//     with friend identities exempted per class.
//   - virtual/abstract/override markers form an inheritance contract that is
//     validated when a subclass is defined, and abstractness is re-checked
//     at first instantiation.
//
// Caller identity is always explicit: operations take a Caller, and method
// bodies run inside a CallContext whose identity was fixed when the method
// was wrapped. Nothing is recovered from the call stack.
package strict
