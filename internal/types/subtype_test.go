package types

import "testing"

var (
	tInt    = TCon{Name: "Int"}
	tFloat  = TCon{Name: "Float"}
	tString = TCon{Name: "String"}
)

func TestSubtypeAnyBottom(t *testing.T) {
	if !Subtype(tInt, Any) {
		t.Fatal("everything is a subtype of Any")
	}
	if !Subtype(Bottom, tInt) {
		t.Fatal("Bottom is a subtype of everything")
	}
	if Subtype(Any, tInt) {
		t.Fatal("Any should not be a subtype of Int")
	}
}

func TestSubtypeUnionDistributes(t *testing.T) {
	u := TUnion{Types: []Type{tInt, tFloat}}
	if !Subtype(tInt, u) {
		t.Fatal("Int should be a subtype of Int|Float")
	}
	if Subtype(tString, u) {
		t.Fatal("String should not be a subtype of Int|Float")
	}
	if !Subtype(u, TUnion{Types: []Type{tInt, tFloat, tString}}) {
		t.Fatal("a union should be a subtype of a wider union")
	}
}

func TestSubtypeTApp(t *testing.T) {
	list := TCon{Name: "List"}
	listInt := TApp{Constructor: list, Args: []Type{tInt}}
	listFloat := TApp{Constructor: list, Args: []Type{tFloat}}
	if Subtype(listInt, listFloat) {
		t.Fatal("List{Int} should not be a subtype of List{Float}")
	}
	if !Subtype(listInt, listInt) {
		t.Fatal("a type is a subtype of itself")
	}
}

func TestSubtypeTupleWithTrailingSeq(t *testing.T) {
	sig := TTuple{Elements: []Type{tInt, TSeq{Elem: tString}}}
	arg := TTuple{Elements: []Type{tInt, tString, tString, tString}}
	if !Subtype(arg, sig) {
		t.Fatal("extra trailing String args should match a String... tail")
	}
	bad := TTuple{Elements: []Type{tInt, tString, tInt}}
	if Subtype(bad, sig) {
		t.Fatal("a non-String tail element should not match")
	}
}

func TestTypeIntersectionDisjointIsBottom(t *testing.T) {
	if !IsBottom(TypeIntersection(tInt, tString)) {
		t.Fatal("disjoint concrete types should intersect to Bottom")
	}
	if got := TypeIntersection(tInt, Any); !TypesEqual(got, tInt) {
		t.Fatalf("Int & Any should be Int, got %s", got)
	}
}

func TestTypeMatchBindsVariable(t *testing.T) {
	param := TVar{Name: "T"}
	s, ok := TypeMatch(param, tInt)
	if !ok {
		t.Fatal("expected match")
	}
	if bound, ok := s["T"]; !ok || !TypesEqual(bound, tInt) {
		t.Fatalf("expected T bound to Int, got %v", s)
	}
}

func TestTypeMatchRejectsOutOfBound(t *testing.T) {
	param := TVar{Name: "T", Bound: tInt}
	if _, ok := TypeMatch(param, tString); ok {
		t.Fatal("String should not match a T bound to Int")
	}
}

func TestTypeMatchTupleWithSeq(t *testing.T) {
	param := TTuple{Elements: []Type{TVar{Name: "T"}, TSeq{Elem: TVar{Name: "T"}}}}
	arg := TTuple{Elements: []Type{tInt, tInt, tInt}}
	s, ok := TypeMatch(param, arg)
	if !ok {
		t.Fatal("expected match")
	}
	if bound, ok := s["T"]; !ok || !TypesEqual(bound, tInt) {
		t.Fatalf("expected T bound to Int, got %v", s)
	}
}

func TestTypeMoreSpecificConcreteVsAny(t *testing.T) {
	if !TypeMoreSpecific(tInt, Any) {
		t.Fatal("Int should be more specific than Any")
	}
	if TypeMoreSpecific(Any, tInt) {
		t.Fatal("Any should not be more specific than Int")
	}
	if TypeMoreSpecific(tInt, tInt) {
		t.Fatal("a type is not more specific than itself")
	}
}

func TestTypeMoreSpecificParametricArgs(t *testing.T) {
	list := TCon{Name: "List"}
	listInt := TApp{Constructor: list, Args: []Type{tInt}}
	listAny := TApp{Constructor: list, Args: []Type{Any}}
	if !TypeMoreSpecific(listInt, listAny) {
		t.Fatal("List{Int} should be more specific than List{Any}")
	}
}

func TestExtractTypeConstructorName(t *testing.T) {
	name, ok := ExtractTypeConstructorName(tInt)
	if !ok || name != "Int" {
		t.Fatalf("got %q %v", name, ok)
	}
	list := TApp{Constructor: TCon{Name: "List"}, Args: []Type{tInt}}
	name, ok = ExtractTypeConstructorName(list)
	if !ok || name != "List" {
		t.Fatalf("got %q %v", name, ok)
	}
	if _, ok := ExtractTypeConstructorName(TUnion{Types: []Type{tInt, tString}}); ok {
		t.Fatal("a union has no single head constructor")
	}
}

func TestInstantiateTypeWith(t *testing.T) {
	f := TForall{
		Vars: []TVar{{Name: "T"}},
		Type: TFunc{Params: []Type{TVar{Name: "T"}}, ReturnType: TVar{Name: "T"}},
	}
	got := InstantiateTypeWith(f, []Type{tInt})
	want := TFunc{Params: []Type{tInt}, ReturnType: tInt}
	if got.String() != want.String() {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestWrapType(t *testing.T) {
	wrapped := WrapType(tInt)
	tt, ok := wrapped.(TType)
	if !ok || !TypesEqual(tt.Type, tInt) {
		t.Fatalf("got %v", wrapped)
	}
}
