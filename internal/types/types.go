// Package types implements the type lattice operated on by the dispatch
// engine: concrete tag types, structural tuples, vararg (sequence) types,
// union types, the Type{T} singleton kind, and type variables with bounds.
//
// The lattice itself sits outside the dispatch engine's named scope (the
// engine is defined in terms of subtype/type_intersection/type_match as
// external predicates) but nothing in the surrounding ecosystem implements
// one in a form the engine could call into, so it is hand-rolled directly
// here.
package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TestMode normalizes auto-generated type-variable names (t1, t2, ...) to
// "t?" in String() output, for deterministic golden-file tests.
var TestMode = false

// Type is the interface implemented by every node of the type lattice.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeTypeVariables() []TVar
	Kind() Kind
}

// TVar is a type variable, e.g. the `T` in a generic method's signature.
type TVar struct {
	Name    string
	Bound   Type // upper bound; nil means Any
	KindVal Kind
}

func (t TVar) String() string {
	if TestMode && strings.HasPrefix(t.Name, "t") {
		if _, err := strconv.Atoi(t.Name[1:]); err == nil {
			return "t?"
		}
	}
	return t.Name
}

func (t TVar) Kind() Kind {
	if t.KindVal == nil {
		return Star
	}
	return t.KindVal
}

func (t TVar) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, map[string]bool{})
}

func (t TVar) FreeTypeVariables() []TVar { return []TVar{t} }

// UpperBound returns the variable's declared bound, defaulting to Any.
func (t TVar) UpperBound() Type {
	if t.Bound == nil {
		return Any
	}
	return t.Bound
}

// TCon is a nominal concrete type: Int, String, a user struct/bits type...
type TCon struct {
	Name           string
	Module         string
	UnderlyingType Type
	TypeParams     []string
	KindVal        Kind
}

func (t TCon) String() string {
	if t.Module != "" {
		return t.Module + "." + t.Name
	}
	return t.Name
}

func (t TCon) Kind() Kind {
	if t.KindVal != nil {
		return t.KindVal
	}
	return Star
}

func (t TCon) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, map[string]bool{})
}

func (t TCon) FreeTypeVariables() []TVar { return nil }

// UnwrapUnderlying follows UnderlyingType chains for type aliases.
func UnwrapUnderlying(t Type) Type {
	for {
		tc, ok := t.(TCon)
		if !ok || tc.UnderlyingType == nil {
			return t
		}
		t = tc.UnderlyingType
	}
}

// TApp is a parametric type application, e.g. List{Int} or Result{A, B}.
type TApp struct {
	Constructor Type
	Args        []Type
	KindVal     Kind
}

func (t TApp) Kind() Kind {
	if t.KindVal != nil {
		return t.KindVal
	}
	k := t.Constructor.Kind()
	for range t.Args {
		if arrow, ok := k.(KArrow); ok {
			k = arrow.Right
		} else {
			return Star
		}
	}
	return k
}

func (t TApp) String() string {
	if len(t.Args) == 0 {
		return t.Constructor.String()
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s{%s}", t.Constructor.String(), strings.Join(args, ", "))
}

func (t TApp) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, map[string]bool{})
}

func (t TApp) FreeTypeVariables() []TVar {
	vars := append([]TVar{}, t.Constructor.FreeTypeVariables()...)
	for _, a := range t.Args {
		vars = append(vars, a.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TTuple is a fixed-arity structural tuple: (τ1, ..., τn). Signatures are
// represented as a TTuple, possibly with a trailing TSeq element.
type TTuple struct {
	Elements []Type
}

func (t TTuple) Kind() Kind { return Star }

func (t TTuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

func (t TTuple) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, map[string]bool{})
}

func (t TTuple) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, e := range t.Elements {
		vars = append(vars, e.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// TSeq is a vararg (sequence) type, the trailing `τ...` element of a
// vararg signature. Only valid as the last element of a TTuple signature.
type TSeq struct {
	Elem Type
}

func (t TSeq) Kind() Kind { return Star }

func (t TSeq) String() string { return t.Elem.String() + "..." }

func (t TSeq) Apply(s Subst) Type { return TSeq{Elem: t.Elem.Apply(s)} }

func (t TSeq) FreeTypeVariables() []TVar { return t.Elem.FreeTypeVariables() }

// TUnion is a normalized (flattened, deduplicated, sorted) union of at
// least two types.
type TUnion struct {
	Types []Type
}

func (t TUnion) Kind() Kind { return Star }

func (t TUnion) String() string {
	parts := make([]string, len(t.Types))
	for i, m := range t.Types {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

func (t TUnion) Apply(s Subst) Type {
	out := make([]Type, len(t.Types))
	for i, m := range t.Types {
		out[i] = m.Apply(s)
	}
	return NormalizeUnion(out)
}

func (t TUnion) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, m := range t.Types {
		vars = append(vars, m.FreeTypeVariables()...)
	}
	return uniqueTVars(vars)
}

// NormalizeUnion flattens nested unions, removes duplicates, sorts
// members for deterministic comparison, and collapses a singleton union
// to its sole member.
func NormalizeUnion(members []Type) Type {
	var flat []Type
	for _, m := range members {
		if u, ok := m.(TUnion); ok {
			flat = append(flat, u.Types...)
		} else {
			flat = append(flat, m)
		}
	}
	seen := map[string]bool{}
	var uniq []Type
	for _, m := range flat {
		s := m.String()
		if !seen[s] {
			seen[s] = true
			uniq = append(uniq, m)
		}
	}
	if len(uniq) == 1 {
		return uniq[0]
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i].String() < uniq[j].String() })
	return TUnion{Types: uniq}
}

// Constraint is a trait/typeclass bound on a method's type variable, e.g.
// `T: Show`.
type Constraint struct {
	TypeVar string
	Trait   string
	Args    []Type
}

// TFunc is a function type, used to describe method bodies (not
// signatures — signatures are TTuple/TSeq).
type TFunc struct {
	Params      []Type
	ReturnType  Type
	IsVariadic  bool
	Constraints []Constraint
}

func (t TFunc) Kind() Kind { return Star }

func (t TFunc) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), t.ReturnType.String())
}

func (t TFunc) Apply(s Subst) Type {
	return applyWithCycleCheck(t, s, map[string]bool{})
}

func (t TFunc) FreeTypeVariables() []TVar {
	var vars []TVar
	for _, p := range t.Params {
		vars = append(vars, p.FreeTypeVariables()...)
	}
	vars = append(vars, t.ReturnType.FreeTypeVariables()...)
	return uniqueTVars(vars)
}

// TForall is a universally quantified signature: `forall T. (T, T) -> T`.
// The quantified Vars are the method's static parameters.
type TForall struct {
	Vars        []TVar
	Constraints []Constraint
	Type        Type
}

func (t TForall) Kind() Kind { return Star }

func (t TForall) String() string {
	names := make([]string, len(t.Vars))
	for i, v := range t.Vars {
		names[i] = v.String()
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(names, " "), t.Type.String())
}

func (t TForall) Apply(s Subst) Type {
	bound := map[string]bool{}
	for _, v := range t.Vars {
		bound[v.Name] = true
	}
	filtered := Subst{}
	for k, v := range s {
		if !bound[k] {
			filtered[k] = v
		}
	}
	return TForall{Vars: t.Vars, Constraints: t.Constraints, Type: t.Type.Apply(filtered)}
}

func (t TForall) FreeTypeVariables() []TVar {
	bound := map[string]bool{}
	for _, v := range t.Vars {
		bound[v.Name] = true
	}
	var free []TVar
	for _, v := range t.Type.FreeTypeVariables() {
		if !bound[v.Name] {
			free = append(free, v)
		}
	}
	return uniqueTVars(free)
}

// TType is the singleton kind Type{T}: the only inhabitant is the type
// value T itself.
type TType struct {
	Type Type
}

func (t TType) Kind() Kind { return Star }

func (t TType) String() string { return fmt.Sprintf("Type{%s}", t.Type.String()) }

func (t TType) Apply(s Subst) Type { return TType{Type: t.Type.Apply(s)} }

func (t TType) FreeTypeVariables() []TVar { return t.Type.FreeTypeVariables() }

// Any is the top of the lattice: every type is a subtype of Any.
var Any Type = TCon{Name: "Any"}

// Bottom is the bottom of the lattice, the type of no values — also the
// result of an empty type intersection.
var Bottom Type = TCon{Name: "Bottom"}

// IsAny reports whether t is exactly the top type.
func IsAny(t Type) bool {
	c, ok := t.(TCon)
	return ok && c.Name == "Any" && c.Module == ""
}

// IsBottom reports whether t is exactly the bottom type.
func IsBottom(t Type) bool {
	c, ok := t.(TCon)
	return ok && c.Name == "Bottom" && c.Module == ""
}

// Subst maps type-variable names to replacement types.
type Subst map[string]Type

// Compose combines two substitutions: applying s1.Compose(s2) equals
// applying s1 then s2.
func (s1 Subst) Compose(s2 Subst) Subst {
	out := Subst{}
	for k, v := range s2 {
		out[k] = v
	}
	for k, v := range s1 {
		out[k] = v.Apply(s2)
	}
	return out
}

func applyWithCycleCheck(t Type, s Subst, visited map[string]bool) Type {
	if t == nil {
		return nil
	}
	switch typ := t.(type) {
	case TVar:
		if visited[typ.Name] {
			return typ
		}
		if repl, ok := s[typ.Name]; ok {
			if tv, ok := repl.(TVar); ok && tv.Name == typ.Name {
				return typ
			}
			nv := copyVisited(visited)
			nv[typ.Name] = true
			return applyWithCycleCheck(repl, s, nv)
		}
		return typ
	case TCon:
		if repl, ok := s[typ.Name]; ok {
			if tc, ok := repl.(TCon); ok && tc.Name == typ.Name {
				return typ
			}
			if visited[typ.Name] {
				return typ
			}
			nv := copyVisited(visited)
			nv[typ.Name] = true
			return applyWithCycleCheck(repl, s, nv)
		}
		return typ
	case TApp:
		args := make([]Type, len(typ.Args))
		for i, a := range typ.Args {
			args[i] = applyWithCycleCheck(a, s, visited)
		}
		ctor := applyWithCycleCheck(typ.Constructor, s, visited)
		if ctorApp, ok := ctor.(TApp); ok {
			merged := append(append([]Type{}, ctorApp.Args...), args...)
			return TApp{Constructor: ctorApp.Constructor, Args: merged}
		}
		return TApp{Constructor: ctor, Args: args}
	case TTuple:
		elems := make([]Type, len(typ.Elements))
		for i, e := range typ.Elements {
			elems[i] = applyWithCycleCheck(e, s, visited)
		}
		return TTuple{Elements: elems}
	case TSeq:
		return TSeq{Elem: applyWithCycleCheck(typ.Elem, s, visited)}
	case TUnion:
		members := make([]Type, len(typ.Types))
		for i, m := range typ.Types {
			members[i] = applyWithCycleCheck(m, s, visited)
		}
		return NormalizeUnion(members)
	case TFunc:
		params := make([]Type, len(typ.Params))
		for i, p := range typ.Params {
			params[i] = applyWithCycleCheck(p, s, visited)
		}
		return TFunc{
			Params:      params,
			ReturnType:  applyWithCycleCheck(typ.ReturnType, s, visited),
			IsVariadic:  typ.IsVariadic,
			Constraints: typ.Constraints,
		}
	case TForall:
		return typ.Apply(s)
	case TType:
		return TType{Type: applyWithCycleCheck(typ.Type, s, visited)}
	default:
		return t.Apply(s)
	}
}

func copyVisited(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func uniqueTVars(vars []TVar) []TVar {
	seen := map[string]bool{}
	var out []TVar
	for _, v := range vars {
		if !seen[v.Name] {
			seen[v.Name] = true
			out = append(out, v)
		}
	}
	return out
}
