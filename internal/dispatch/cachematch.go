package dispatch

import "github.com/multimethod/genfunc/internal/types"

// cacheMatchByType reports whether a concrete call's argument-type tuple
// matches a cache entry's (possibly generalized) key by structural type
// comparison: every slot of args must be a subtype of the corresponding
// key slot, with a trailing TSeq in key absorbing any remaining args.
// Subtype's TType case already requires exact equality rather than mere
// subtyping, so a Type{T} slot is matched precisely without a separate
// by-value comparison.
func cacheMatchByType(key types.TTuple, args []types.Type) bool {
	kMin, kVararg := arity(key.Elements)
	if kVararg {
		if len(args) < kMin {
			return false
		}
	} else if len(args) != kMin {
		return false
	}
	for i, a := range args {
		kt := elementAt(key.Elements, kVararg, i)
		if kt == nil {
			return false
		}
		if !types.Subtype(a, kt) {
			return false
		}
	}
	return true
}
