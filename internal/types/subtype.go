package types

// This file implements the type-lattice predicates the dispatch engine
// matches signatures with: Subtype, TypesEqual, TypeIntersection,
// TypeMatch, TypeMoreSpecific, InstantiateTypeWith, WrapType,
// ExtractTypeConstructorName.

// Subtype reports whether a is a subtype of b under the lattice: Any is
// top, Bottom is bottom, unions distribute, tuples compare element-wise
// (with TSeq absorbing a variable tail), and a bound TVar is a subtype of
// its bound.
func Subtype(a, b Type) bool {
	if IsAny(b) {
		return true
	}
	if IsBottom(a) {
		return true
	}
	if IsBottom(b) {
		return IsBottom(a)
	}
	if IsAny(a) {
		return IsAny(b)
	}

	switch av := a.(type) {
	case TUnion:
		for _, m := range av.Types {
			if !Subtype(m, b) {
				return false
			}
		}
		return true
	case TVar:
		return Subtype(av.UpperBound(), b)
	}

	switch bv := b.(type) {
	case TUnion:
		for _, m := range bv.Types {
			if Subtype(a, m) {
				return true
			}
		}
		return false
	case TVar:
		_ = bv
		return false
	}

	switch av := a.(type) {
	case TCon:
		bc, ok := b.(TCon)
		return ok && av.Name == bc.Name && av.Module == bc.Module
	case TApp:
		bApp, ok := b.(TApp)
		if !ok {
			return false
		}
		if !Subtype(av.Constructor, bApp.Constructor) {
			return false
		}
		if len(av.Args) != len(bApp.Args) {
			return false
		}
		for i := range av.Args {
			if !Subtype(av.Args[i], bApp.Args[i]) {
				return false
			}
		}
		return true
	case TTuple:
		return tupleSubtype(av, b)
	case TType:
		bt, ok := b.(TType)
		return ok && TypesEqual(av.Type, bt.Type)
	case TFunc:
		bf, ok := b.(TFunc)
		if !ok || len(av.Params) != len(bf.Params) {
			return false
		}
		for i := range av.Params {
			if !Subtype(bf.Params[i], av.Params[i]) { // contravariant
				return false
			}
		}
		return Subtype(av.ReturnType, bf.ReturnType)
	default:
		return TypesEqual(a, b)
	}
}

func tupleSubtype(a TTuple, b Type) bool {
	bt, ok := b.(TTuple)
	if !ok {
		return false
	}
	ae := a.Elements
	be := bt.Elements
	i, j := 0, 0
	for i < len(ae) && j < len(be) {
		aSeq, aIsSeq := ae[i].(TSeq)
		bSeq, bIsSeq := be[j].(TSeq)
		switch {
		case aIsSeq && bIsSeq:
			return Subtype(aSeq.Elem, bSeq.Elem)
		case bIsSeq:
			if !Subtype(ae[i], bSeq.Elem) {
				return false
			}
			i++
		case aIsSeq:
			return false
		default:
			if !Subtype(ae[i], be[j]) {
				return false
			}
			i++
			j++
		}
	}
	if i < len(ae) {
		if aSeq, ok := ae[i].(TSeq); ok && i == len(ae)-1 {
			_ = aSeq
			return j == len(be)
		}
		return false
	}
	if j < len(be) {
		if bSeq, ok := be[j].(TSeq); ok && j == len(be)-1 {
			_ = bSeq
			return true
		}
		return false
	}
	return true
}

// TypesEqual reports whether a and b have the same String() rendering:
// same structure and names. Type-variable bounds and kinds are not
// compared.
func TypesEqual(a, b Type) bool {
	return a.String() == b.String()
}

// TypesEqualGeneric compares two signatures exactly as TypesEqual does.
// A free type variable and its upper bound are told apart by name only:
// (T, T) and (Any, Any) compare unequal, and so do two signatures that
// differ only in the names of their type variables.
func TypesEqualGeneric(a, b Type) bool {
	return TypesEqual(a, b)
}

// TypeIntersection computes the meet of a and b, returning Bottom when the
// two types share no values.
func TypeIntersection(a, b Type) Type {
	if IsAny(a) {
		return b
	}
	if IsAny(b) {
		return a
	}
	if IsBottom(a) || IsBottom(b) {
		return Bottom
	}
	if au, ok := a.(TUnion); ok {
		var members []Type
		for _, m := range au.Types {
			r := TypeIntersection(m, b)
			if !IsBottom(r) {
				members = append(members, r)
			}
		}
		if len(members) == 0 {
			return Bottom
		}
		return NormalizeUnion(members)
	}
	if bu, ok := b.(TUnion); ok {
		return TypeIntersection(bu, a)
	}
	if Subtype(a, b) {
		return a
	}
	if Subtype(b, a) {
		return b
	}
	switch av := a.(type) {
	case TApp:
		bApp, ok := b.(TApp)
		if !ok || len(av.Args) != len(bApp.Args) {
			return Bottom
		}
		ctor := TypeIntersection(av.Constructor, bApp.Constructor)
		if IsBottom(ctor) {
			return Bottom
		}
		args := make([]Type, len(av.Args))
		for i := range av.Args {
			args[i] = TypeIntersection(av.Args[i], bApp.Args[i])
			if IsBottom(args[i]) {
				return Bottom
			}
		}
		return TApp{Constructor: ctor, Args: args}
	case TTuple:
		bt, ok := b.(TTuple)
		if !ok || len(av.Elements) != len(bt.Elements) {
			return Bottom
		}
		elems := make([]Type, len(av.Elements))
		for i := range av.Elements {
			elems[i] = TypeIntersection(av.Elements[i], bt.Elements[i])
			if IsBottom(elems[i]) {
				return Bottom
			}
		}
		return TTuple{Elements: elems}
	}
	return Bottom
}

// TypeMatch attempts to match a concrete argument type against a
// (possibly polymorphic) parameter type, returning the substitution that
// binds the parameter's free type variables to make the match succeed.
// Used by full definition search when the cache misses.
func TypeMatch(param, arg Type) (Subst, bool) {
	return typeMatch(param, arg, Subst{})
}

func typeMatch(param, arg Type, s Subst) (Subst, bool) {
	param = param.Apply(s)
	switch p := param.(type) {
	case TVar:
		if bound, ok := s[p.Name]; ok {
			return typeMatch(bound, arg, s)
		}
		if !Subtype(arg, p.UpperBound()) {
			return nil, false
		}
		ns := Subst{}
		for k, v := range s {
			ns[k] = v
		}
		ns[p.Name] = arg
		return ns, true
	case TApp:
		aApp, ok := arg.(TApp)
		if !ok || len(p.Args) != len(aApp.Args) {
			return nil, false
		}
		cur := s
		var matched bool
		cur, matched = typeMatch(p.Constructor, aApp.Constructor, cur)
		if !matched {
			return nil, false
		}
		for i := range p.Args {
			cur, matched = typeMatch(p.Args[i], aApp.Args[i], cur)
			if !matched {
				return nil, false
			}
		}
		return cur, true
	case TTuple:
		return tupleMatch(p, arg, s)
	default:
		if Subtype(arg, param) {
			return s, true
		}
		return nil, false
	}
}

func tupleMatch(p TTuple, arg Type, s Subst) (Subst, bool) {
	at, ok := arg.(TTuple)
	if !ok {
		return nil, false
	}
	i, j := 0, 0
	cur := s
	for i < len(p.Elements) && j < len(at.Elements) {
		if seq, ok := p.Elements[i].(TSeq); ok {
			for j < len(at.Elements) {
				var matched bool
				cur, matched = typeMatch(seq.Elem, at.Elements[j], cur)
				if !matched {
					return nil, false
				}
				j++
			}
			i++
			continue
		}
		var matched bool
		cur, matched = typeMatch(p.Elements[i], at.Elements[j], cur)
		if !matched {
			return nil, false
		}
		i++
		j++
	}
	if i < len(p.Elements) {
		if _, ok := p.Elements[i].(TSeq); !ok || i != len(p.Elements)-1 {
			return nil, false
		}
		i++
	}
	if i != len(p.Elements) || j != len(at.Elements) {
		return nil, false
	}
	return cur, true
}

// TypeMoreSpecific is the per-slot comparator the method-ordering walk
// delegates to for a single pair: a is more specific than b if a is a
// proper subtype of b, or — for TApp/TCon with identical heads — if a's
// argument is more specific in the first differing position.
func TypeMoreSpecific(a, b Type) bool {
	if TypesEqual(a, b) {
		return false
	}
	if Subtype(a, b) {
		return true
	}
	if Subtype(b, a) {
		return false
	}
	aApp, aOk := a.(TApp)
	bApp, bOk := b.(TApp)
	if aOk && bOk && TypesEqual(aApp.Constructor, bApp.Constructor) && len(aApp.Args) == len(bApp.Args) {
		for i := range aApp.Args {
			if TypeMoreSpecific(aApp.Args[i], bApp.Args[i]) {
				return true
			}
			if TypeMoreSpecific(bApp.Args[i], aApp.Args[i]) {
				return false
			}
		}
	}
	return false
}

// InstantiateTypeWith substitutes a TForall's quantified variables with
// concrete types, in order, returning the instantiated body.
func InstantiateTypeWith(f TForall, args []Type) Type {
	s := Subst{}
	for i, v := range f.Vars {
		if i < len(args) {
			s[v.Name] = args[i]
		}
	}
	return f.Type.Apply(s)
}

// WrapType lifts a type value into the Type{T} singleton kind, as used
// when a method parameter is itself a type.
func WrapType(t Type) Type {
	return TType{Type: t}
}

// ExtractTypeConstructorName returns the head constructor name used to key
// the cache_arg1 tier: for TCon it's the type's own name, for TApp it's
// the constructor's name, otherwise ok is false (the type can't anchor a
// by-type cache slot, e.g. a union or tuple).
func ExtractTypeConstructorName(t Type) (string, bool) {
	switch tt := t.(type) {
	case TCon:
		return tt.Name, true
	case TApp:
		return ExtractTypeConstructorName(tt.Constructor)
	default:
		return "", false
	}
}
