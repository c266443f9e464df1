package dispatch

import "github.com/multimethod/genfunc/internal/types"

// MoreSpecific reports whether signature a should be tried before
// signature b during dispatch: compare element-wise, and a side wins
// outright only if it's at least as specific in every slot and strictly
// more specific in at least one. types.TypeMoreSpecific judges each
// pair; the tuple recursion and tie-break walk are in-scope
// method-ordering logic.
func MoreSpecific(a, b types.TTuple) bool {
	ae, be := a.Elements, b.Elements
	aMin, aVararg := arity(ae)
	bMin, bVararg := arity(be)

	n := aMin
	if bMin > n {
		n = bMin
	}

	aWins, bWins := false, false
	for i := 0; i < n; i++ {
		at := elementAt(ae, aVararg, i)
		bt := elementAt(be, bVararg, i)
		if at == nil || bt == nil {
			continue
		}
		if types.TypeMoreSpecific(at, bt) {
			aWins = true
		} else if types.TypeMoreSpecific(bt, at) {
			bWins = true
		}
	}

	switch {
	case aWins && !bWins:
		return true
	case bWins && !aWins:
		return false
	}

	// Tied on every shared element (or no elements at all): fall back to
	// the vararg effective-arity rule. A non-vararg signature that
	// matches only a finite arity is more specific than a vararg
	// signature that also matches it.
	if aVararg != bVararg {
		return !aVararg
	}
	// Equal varargness and tied elements: prefer the longer fixed
	// prefix.
	return aMin > bMin
}

// arity returns the minimum number of elements a tuple's element slice
// requires and whether its last element is a TSeq.
func arity(elems []types.Type) (min int, vararg bool) {
	if len(elems) == 0 {
		return 0, false
	}
	if _, ok := elems[len(elems)-1].(types.TSeq); ok {
		return len(elems) - 1, true
	}
	return len(elems), false
}

// elementAt returns the type at position i of a tuple's element slice,
// treating a trailing TSeq as repeating indefinitely, or nil if i is out
// of range for a non-vararg tuple.
func elementAt(elems []types.Type, vararg bool, i int) types.Type {
	fixed := len(elems)
	if vararg {
		fixed--
	}
	if i < fixed {
		return elems[i]
	}
	if vararg {
		return elems[len(elems)-1].(types.TSeq).Elem
	}
	return nil
}
