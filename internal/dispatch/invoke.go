package dispatch

import "github.com/multimethod/genfunc/internal/types"

// AddInvoke registers override as an invoke-style override of base,
// lazily allocating base's private Invokes sub-table on first use. No
// back-pointer from the sub-table to base is kept — invoke never needs
// to walk back up to its parent.
func AddInvoke(base *Method, override *Method) {
	if base.Invokes == nil {
		base.Invokes = NewMethodTable(len(base.Sig.Elements), NoopWarner{})
	}
	base.Invokes.AddMethod(override)
}

// Invoke dispatches args against base's private override sub-table
// first (ordinary full-search specificity rules, no cache, since
// override tables are expected to stay small), falling back to base
// itself when no override matches.
func Invoke(base *Method, args []types.Type) (*Method, types.Subst) {
	if base.Invokes != nil {
		if m, subst, competitors := base.Invokes.mtAssocByType(args); m != nil && len(competitors) <= 1 {
			return m, subst
		}
	}
	subst, _ := types.TypeMatch(base.Sig, types.TTuple{Elements: args})
	return base, subst
}
