package dispatch

import "github.com/multimethod/genfunc/internal/types"

// Dispatcher answers calls against one MethodTable: argument-based
// lookup, lookup by a bare signature, and candidate enumeration.
type Dispatcher struct {
	Table   *MethodTable
	Inferer Inferer
}

// NewDispatcher wraps table with the dispatch operations.
func NewDispatcher(table *MethodTable, inferer Inferer) *Dispatcher {
	return &Dispatcher{Table: table, Inferer: inferer}
}

// Dispatch tries the three-tier cache first; on a miss, it runs the full
// definition search, specializes the result, publishes it to the cache,
// and returns it; on zero matches, it consults Inferer if one was
// supplied. Ambiguity between equally-specific definitions is a
// definition-time diagnostic only (see AddMethod) — dispatch always
// returns the first matching definition in defs order, deterministically,
// never an ambiguity error.
func (d *Dispatcher) Dispatch(args []types.Type) (*Method, types.Subst, error) {
	if m := d.Table.cacheLookup(args); m != nil {
		s, _ := matchSubst(m, args)
		return m, s, nil
	}

	best, subst, _ := d.Table.mtAssocByType(args)
	if best == nil {
		if d.Inferer != nil {
			if inferredSubst, err := d.Inferer.Infer(types.TTuple{Elements: args}, types.Subst{}); err == nil {
				if m, s, _ := d.Table.mtAssocByType(applySubstToArgs(args, inferredSubst)); m != nil {
					return m, s, nil
				}
			} else {
				return nil, nil, &InferenceError{Cause: err}
			}
		}
		return nil, nil, &NoMethodError{Args: args}
	}

	key := specialize(best, args, d.Table.Defs())
	d.Table.publish(key, best)
	return best, subst, nil
}

// mtAssocByType runs the full definition search: walk defs in
// specificity order, collecting every method whose signature admits
// args; the first (most specific) is the candidate answer, and any other
// candidate found with equal specificity to it is reported as a
// competitor for callers that care about ambiguity (e.g.
// MethodLookupByType) — Dispatch itself ignores competitors and always
// returns best, the first match in defs order, deterministically.
func (t *MethodTable) mtAssocByType(args []types.Type) (best *Method, subst types.Subst, competitors []*Method) {
	argTuple := types.TTuple{Elements: args}
	t.defs.Each(func(m *Method) bool {
		if !ArityMatches(m.Sig, len(args)) {
			return true
		}
		s, ok := types.TypeMatch(m.Sig, argTuple)
		if !ok {
			return true
		}
		if best == nil {
			best = m
			subst = s
			return true
		}
		if MoreSpecific(best.Sig, m.Sig) {
			return true // best still wins, m is shadowed
		}
		competitors = append(competitors, m)
		return true
	})
	if best != nil {
		competitors = append([]*Method{best}, competitors...)
	}
	return best, subst, competitors
}

func matchSubst(m *Method, args []types.Type) (types.Subst, bool) {
	return types.TypeMatch(m.Sig, types.TTuple{Elements: args})
}

func applySubstToArgs(args []types.Type, s types.Subst) []types.Type {
	out := make([]types.Type, len(args))
	for i, a := range args {
		out[i] = a.Apply(s)
	}
	return out
}

// MethodLookupByType runs the full definition search directly against a
// signature, bypassing the cache entirely — used by the introspection
// service and by tooling that wants to ask "what would handle this
// shape" without perturbing the cache.
func (d *Dispatcher) MethodLookupByType(sig types.TTuple) (*Method, bool) {
	m, _, competitors := d.Table.mtAssocByType(sig.Elements)
	if m == nil || len(competitors) > 1 {
		return nil, false
	}
	return m, true
}

// MatchingMethods returns every definition whose signature could match
// some call compatible with sig, most specific first, capped at limit
// (limit <= 0 means unbounded).
func (d *Dispatcher) MatchingMethods(sig types.TTuple, limit int) []*Method {
	var out []*Method
	d.Table.Defs().Each(func(m *Method) bool {
		if !overlap(sig, m.Sig) {
			return true
		}
		out = append(out, m)
		return limit <= 0 || len(out) < limit
	})
	return out
}
