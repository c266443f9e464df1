package types

import "fmt"

// KindSubst maps kind-variable names to kinds, the kind-level analogue of
// Subst.
type KindSubst map[string]Kind

// ApplyKindSubst substitutes kind variables in k.
func ApplyKindSubst(k Kind, s KindSubst) Kind {
	switch kk := k.(type) {
	case KVar:
		if repl, ok := s[kk.Name]; ok {
			return repl
		}
		return kk
	case KArrow:
		return KArrow{Left: ApplyKindSubst(kk.Left, s), Right: ApplyKindSubst(kk.Right, s)}
	default:
		return k
	}
}

func composeKindSubst(s1, s2 KindSubst) KindSubst {
	out := KindSubst{}
	for k, v := range s2 {
		out[k] = v
	}
	for k, v := range s1 {
		out[k] = ApplyKindSubst(v, s2)
	}
	return out
}

// UnifyKinds unifies two kinds, returning the substitution that makes them
// equal, or an error if they cannot be unified.
func UnifyKinds(a, b Kind) (KindSubst, error) {
	return unifyKinds(a, b, KindSubst{})
}

func unifyKinds(a, b Kind, s KindSubst) (KindSubst, error) {
	a = ApplyKindSubst(a, s)
	b = ApplyKindSubst(b, s)

	if _, ok := a.(KWildcard); ok {
		return s, nil
	}
	if _, ok := b.(KWildcard); ok {
		return s, nil
	}

	switch av := a.(type) {
	case KVar:
		return bindKind(av.Name, b, s)
	default:
		if bv, ok := b.(KVar); ok {
			return bindKind(bv.Name, a, s)
		}
	}

	switch av := a.(type) {
	case KStar:
		if _, ok := b.(KStar); ok {
			return s, nil
		}
		return nil, fmt.Errorf("kind mismatch: %s vs %s", a, b)
	case KArrow:
		bv, ok := b.(KArrow)
		if !ok {
			return nil, fmt.Errorf("kind mismatch: %s vs %s", a, b)
		}
		s1, err := unifyKinds(av.Left, bv.Left, s)
		if err != nil {
			return nil, err
		}
		s2, err := unifyKinds(av.Right, bv.Right, s1)
		if err != nil {
			return nil, err
		}
		return composeKindSubst(s1, s2), nil
	default:
		return nil, fmt.Errorf("unknown kind %T", a)
	}
}

func bindKind(name string, k Kind, s KindSubst) (KindSubst, error) {
	if kv, ok := k.(KVar); ok && kv.Name == name {
		return s, nil
	}
	if kindOccurs(name, k) {
		return nil, fmt.Errorf("infinite kind: %s occurs in %s", name, k)
	}
	ns := KindSubst{name: k}
	return composeKindSubst(s, ns), nil
}

func kindOccurs(name string, k Kind) bool {
	switch kk := k.(type) {
	case KVar:
		return kk.Name == name
	case KArrow:
		return kindOccurs(name, kk.Left) || kindOccurs(name, kk.Right)
	default:
		return false
	}
}

// KindContext tracks the declared kinds of type constructors in scope
// during kind inference (e.g. a TForall's bound variables).
type KindContext struct {
	vars map[string]Kind
}

// NewKindContext creates an empty kind context.
func NewKindContext() *KindContext {
	return &KindContext{vars: map[string]Kind{}}
}

// Bind records the kind of a type variable or constructor name.
func (c *KindContext) Bind(name string, k Kind) {
	c.vars[name] = k
}

// Lookup returns the previously bound kind for name, if any.
func (c *KindContext) Lookup(name string) (Kind, bool) {
	k, ok := c.vars[name]
	return k, ok
}

// InferKind computes the kind of t under ctx, unifying as it walks
// constructor applications so that partially-applied type constructors
// come out with an arrow kind rather than Star.
func InferKind(t Type, ctx *KindContext) (Kind, error) {
	switch tt := t.(type) {
	case TVar:
		if k, ok := ctx.Lookup(tt.Name); ok {
			return k, nil
		}
		return tt.Kind(), nil
	case TCon:
		if k, ok := ctx.Lookup(tt.Name); ok {
			return k, nil
		}
		return tt.Kind(), nil
	case TApp:
		ctorKind, err := InferKind(tt.Constructor, ctx)
		if err != nil {
			return nil, err
		}
		for _, arg := range tt.Args {
			argKind, err := InferKind(arg, ctx)
			if err != nil {
				return nil, err
			}
			result := KVar{Name: fmt.Sprintf("k%p", &arg)}
			if _, err := unifyKinds(ctorKind, KArrow{Left: argKind, Right: result}, KindSubst{}); err != nil {
				return nil, fmt.Errorf("cannot apply %s to %s: %w", tt.Constructor, arg, err)
			}
			if arrow, ok := ctorKind.(KArrow); ok {
				ctorKind = arrow.Right
			} else {
				return nil, fmt.Errorf("over-applied type constructor %s", tt.Constructor)
			}
		}
		return ctorKind, nil
	case TTuple, TSeq, TUnion, TFunc, TForall, TType:
		return Star, nil
	default:
		return Star, nil
	}
}
