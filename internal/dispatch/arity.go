package dispatch

import "github.com/multimethod/genfunc/internal/types"

// ArityMatches reports whether nargs arguments could possibly satisfy
// sig: exactly min for a fixed-arity signature, or at least min for a
// vararg one. Checked before any element-wise type comparison runs.
func ArityMatches(sig types.TTuple, nargs int) bool {
	min, vararg := arity(sig.Elements)
	if vararg {
		return nargs >= min
	}
	return nargs == min
}

// ArityCompatible reports whether two signatures could ever both match
// some common call: equal fixed arities, or — whenever exactly one is
// vararg — the vararg side's minimum no greater than the fixed side's
// count.
func ArityCompatible(a, b types.TTuple) bool {
	aMin, aVararg := arity(a.Elements)
	bMin, bVararg := arity(b.Elements)
	switch {
	case aVararg && bVararg:
		return true
	case aVararg:
		return aMin <= bMin
	case bVararg:
		return bMin <= aMin
	default:
		return aMin == bMin
	}
}
