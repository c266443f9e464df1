package dispatch

import "github.com/multimethod/genfunc/internal/types"

// specialize computes the cache key for a call that was just resolved to
// m via full definition search: given the call's concrete argument
// types, it widens them to the most general tuple that still guarantees
// a future call hits the cache instead of falling through to a full
// search again.
//
// Five steps, applied slot by slot:
//  1. a slot whose corresponding signature element is exactly Any is
//     generalized to Any in the key (any future argument there is
//     guaranteed to keep dispatching to m);
//  2. a slot bound to an unconstrained TVar is generalized to the
//     TVar's upper bound, not left as the call's concrete type;
//  3. a Type{Type{X}} argument in a Type{T} slot is keyed as Type{Any};
//     cache matching compares Type{...} slots by exact equality, so
//     that key is hit only by a Type{Any} argument, not by other
//     Type{Type{Y}} arguments;
//  4. a vararg signature's trailing arguments beyond the fixed prefix
//     collapse to a single generalized TSeq slot instead of one entry
//     per call arity;
//  5. when the generalized key overlaps a sibling method that m does
//     not strictly dominate, the generalized key is discarded and the
//     call's exact argument types are used as the key instead. No
//     dummy (nil-Method) shadow entries are inserted.
func specialize(m *Method, args []types.Type, siblings *MethodList) types.TTuple {
	sigElems := m.Sig.Elements
	sigMin, sigVararg := arity(sigElems)
	repeated := repeatedTVars(sigElems)

	out := make([]types.Type, 0, len(args))
	for i, a := range args {
		sigSlot := elementAt(sigElems, sigVararg, i)
		if sigSlot == nil {
			out = append(out, a)
			continue
		}
		out = append(out, generalizeSlot(sigSlot, a, repeated))
		if sigVararg && i >= sigMin {
			// Step 4: collapse the rest of the vararg tail into
			// one generalized slot and stop.
			out[len(out)-1] = types.TSeq{Elem: generalizeSlot(sigSlot, a, repeated)}
			break
		}
	}
	if sigVararg && len(args) <= sigMin {
		// No vararg args were supplied at all; still advertise the
		// tail so the cache key's arity matches the signature's.
		if tailElem, ok := sigElems[len(sigElems)-1].(types.TSeq); ok {
			out = append(out, types.TSeq{Elem: tailElem.Elem})
		}
	}

	key := types.TTuple{Elements: out}

	if siblingAmbiguous(key, m, siblings) {
		// Step 5: don't publish an over-generalized key; fall back
		// to the exact call shape so the next structurally
		// different call re-runs full search instead of being
		// shortcut to the wrong method.
		return types.TTuple{Elements: args}
	}
	return key
}

// repeatedTVars returns the set of type-variable names that appear in
// more than one slot of a signature. A slot bound to one of these can't
// be generalized to its bare upper bound the way a single-occurrence
// TVar can: doing so would erase the constraint that both occurrences
// must agree to the same type, silently corrupting the cache. Repeated
// slots keep their concrete argument type instead.
func repeatedTVars(elems []types.Type) map[string]bool {
	counts := map[string]int{}
	var walk func(t types.Type)
	walk = func(t types.Type) {
		switch tt := t.(type) {
		case types.TVar:
			counts[tt.Name]++
		case types.TSeq:
			walk(tt.Elem)
		}
	}
	for _, e := range elems {
		walk(e)
	}
	repeated := map[string]bool{}
	for name, n := range counts {
		if n > 1 {
			repeated[name] = true
		}
	}
	return repeated
}

// generalizeSlot widens a single concrete argument type to the widest
// type that still guarantees the same method would be selected, given
// the method's declared signature slot.
func generalizeSlot(sigSlot types.Type, concrete types.Type, repeated map[string]bool) types.Type {
	switch s := sigSlot.(type) {
	case types.TCon:
		if types.IsAny(s) {
			return types.Any // step 1
		}
		return s
	case types.TVar:
		if repeated[s.Name] {
			return concrete
		}
		return s.UpperBound() // step 2
	case types.TType:
		if inner, ok := s.Type.(types.TVar); ok {
			_ = inner
			if ct, ok := concrete.(types.TType); ok {
				if _, nested := ct.Type.(types.TType); nested {
					return types.WrapType(types.Any) // step 3
				}
			}
		}
		return sigSlot
	default:
		return sigSlot
	}
}

// siblingAmbiguous reports whether generalizing to key could cause a
// future call to match key but actually prefer a sibling method over m,
// meaning key must not be published as-is.
func siblingAmbiguous(key types.TTuple, m *Method, siblings *MethodList) bool {
	if siblings == nil {
		return false
	}
	ambiguous := false
	siblings.Each(func(other *Method) bool {
		if other == m {
			return true
		}
		if !ArityCompatible(key, other.Sig) {
			return true
		}
		if MoreSpecific(m.Sig, other.Sig) {
			return true // m wins wherever both apply
		}
		// other is more specific than m, or neither dominates: a call
		// matching both the generalized key and other's signature
		// must not be shortcut to m.
		if overlap(key, other.Sig) {
			ambiguous = true
			return false
		}
		return true
	})
	return ambiguous
}

// overlap reports whether some concrete argument tuple could satisfy
// both a and b.
func overlap(a, b types.TTuple) bool {
	if !ArityCompatible(a, b) {
		return false
	}
	aMin, aVararg := arity(a.Elements)
	bMin, bVararg := arity(b.Elements)
	n := aMin
	if bMin > n {
		n = bMin
	}
	for i := 0; i < n; i++ {
		at := elementAt(a.Elements, aVararg, i)
		bt := elementAt(b.Elements, bVararg, i)
		if at == nil || bt == nil {
			continue
		}
		if types.IsBottom(types.TypeIntersection(at, bt)) {
			return false
		}
	}
	return true
}
