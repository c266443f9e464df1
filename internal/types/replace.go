package types

// ReplaceTCon recursively substitutes every occurrence of the named TCon
// with replacement, across type applications, functions, tuples, sequences,
// unions, and foralls. Used when resolving a type alias or specializing a
// generic signature against a concrete constructor.
func ReplaceTCon(t Type, name string, replacement Type) Type {
	switch tt := t.(type) {
	case TCon:
		if tt.Name == name {
			return replacement
		}
		return tt
	case TVar:
		return tt
	case TApp:
		args := make([]Type, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = ReplaceTCon(a, name, replacement)
		}
		return TApp{
			Constructor: ReplaceTCon(tt.Constructor, name, replacement),
			Args:        args,
			KindVal:     tt.KindVal,
		}
	case TTuple:
		elems := make([]Type, len(tt.Elements))
		for i, e := range tt.Elements {
			elems[i] = ReplaceTCon(e, name, replacement)
		}
		return TTuple{Elements: elems}
	case TSeq:
		return TSeq{Elem: ReplaceTCon(tt.Elem, name, replacement)}
	case TUnion:
		members := make([]Type, len(tt.Types))
		for i, m := range tt.Types {
			members[i] = ReplaceTCon(m, name, replacement)
		}
		return NormalizeUnion(members)
	case TFunc:
		params := make([]Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = ReplaceTCon(p, name, replacement)
		}
		return TFunc{
			Params:      params,
			ReturnType:  ReplaceTCon(tt.ReturnType, name, replacement),
			IsVariadic:  tt.IsVariadic,
			Constraints: tt.Constraints,
		}
	case TForall:
		for _, v := range tt.Vars {
			if v.Name == name {
				return tt
			}
		}
		return TForall{
			Vars:        tt.Vars,
			Constraints: tt.Constraints,
			Type:        ReplaceTCon(tt.Type, name, replacement),
		}
	case TType:
		return TType{Type: ReplaceTCon(tt.Type, name, replacement)}
	default:
		return t
	}
}
