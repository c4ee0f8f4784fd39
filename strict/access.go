package strict

// Caller is the explicit identity of the code performing an access or call.
// It is established once, at the wrapping boundary, and passed along; the
// engine never inspects an execution stack to recover it.
//
// The zero Caller is anonymous external code: it holds no class membership
// and can match no friend grant.
type Caller struct {
	Class    string
	Function string
}

func (c Caller) String() string {
	switch {
	case c.Class != "" && c.Function != "":
		return c.Class + "." + c.Function
	case c.Class != "":
		return c.Class
	case c.Function != "":
		return c.Function
	default:
		return "<external>"
	}
}

// FreeFunctionCaller identifies a free function by name.
func FreeFunctionCaller(name string) Caller {
	return Caller{Function: name}
}

// MethodCaller identifies a method of a class.
func MethodCaller(class, method string) Caller {
	return Caller{Class: class, Function: method}
}

// checkAccess resolves the visibility tier of a member defined on owner and
// decides whether the caller may touch it. Tier rules:
//   - public: always permitted.
//   - protected: the defining class, any descendant, or a friend.
//   - private: exactly the defining class, or a friend.
//
// The caller's class membership is resolved against the registry, not
// against the apparent type of the accessed object.
func (r *Registry) checkAccess(owner *ClassSchema, member string, tier Visibility, caller Caller) error {
	if tier == Public {
		return nil
	}
	if owner.IsFriend(caller) {
		return nil
	}
	if caller.Class != "" {
		if caller.Class == owner.name {
			return nil
		}
		if tier == Protected {
			if callerClass, err := r.Lookup(caller.Class); err == nil && callerClass.isDescendantOf(owner.name) {
				return nil
			}
		}
	}
	return &AccessError{Member: owner.name + "." + member, Tier: tier, Caller: caller}
}
