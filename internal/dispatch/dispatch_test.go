package dispatch

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/multimethod/genfunc/internal/journal"
	"github.com/multimethod/genfunc/internal/types"
	"github.com/stretchr/testify/require"
)

var (
	tInt    = types.TCon{Name: "Int"}
	tFloat  = types.TCon{Name: "Float"}
	tString = types.TCon{Name: "String"}
)

func sig(elems ...types.Type) types.TTuple {
	return types.TTuple{Elements: elems}
}

func newMethod(s types.TTuple, fn Func) *Method {
	return &Method{Sig: s, Func: fn}
}

func TestMethodListSortedMostSpecificFirst(t *testing.T) {
	l := &MethodList{}
	broad := newMethod(sig(types.Any), "broad")
	narrow := newMethod(sig(tInt), "narrow")
	l.Insert(broad)
	l.Insert(narrow)

	require.Equal(t, narrow, l.Head())
	require.Equal(t, 2, l.Len())
}

func TestAddMethodWarnsOnAmbiguity(t *testing.T) {
	var warned [][2]types.TTuple
	warner := warnerFunc(func(a, b types.TTuple) { warned = append(warned, [2]types.TTuple{a, b}) })

	table := NewMethodTable(0, warner)
	table.AddMethod(newMethod(sig(tInt, types.Any), "a"))
	table.AddMethod(newMethod(sig(types.Any, tString), "b"))

	require.Len(t, warned, 1)
}

func TestDispatchExactMatch(t *testing.T) {
	table := NewMethodTable(0, NoopWarner{})
	m := newMethod(sig(tInt, tString), "intString")
	table.AddMethod(m)
	d := NewDispatcher(table, nil)

	got, _, err := d.Dispatch([]types.Type{tInt, tString})
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestDispatchPrefersMoreSpecific(t *testing.T) {
	table := NewMethodTable(0, NoopWarner{})
	broad := newMethod(sig(types.Any), "broad")
	narrow := newMethod(sig(tInt), "narrow")
	table.AddMethod(broad)
	table.AddMethod(narrow)
	d := NewDispatcher(table, nil)

	got, _, err := d.Dispatch([]types.Type{tInt})
	require.NoError(t, err)
	require.Equal(t, narrow, got)

	got, _, err = d.Dispatch([]types.Type{tString})
	require.NoError(t, err)
	require.Equal(t, broad, got)
}

func TestDispatchNoMethod(t *testing.T) {
	table := NewMethodTable(0, NoopWarner{})
	table.AddMethod(newMethod(sig(tInt), "intOnly"))
	d := NewDispatcher(table, nil)

	_, _, err := d.Dispatch([]types.Type{tString})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNoMethod))
}

func TestDispatchAmbiguousStillResolvesDeterministically(t *testing.T) {
	table := NewMethodTable(0, NoopWarner{})
	a := newMethod(sig(tInt, types.Any), "a")
	b := newMethod(sig(types.Any, tString), "b")
	table.AddMethod(a)
	table.AddMethod(b)
	d := NewDispatcher(table, nil)

	got, _, err := d.Dispatch([]types.Type{tInt, tString})
	require.NoError(t, err)
	require.Equal(t, a, got)
}

func TestAddMethodRedefinitionReplacesInPlace(t *testing.T) {
	table := NewMethodTable(0, NoopWarner{})
	original := newMethod(sig(tInt, tInt), "A")
	table.AddMethod(original)
	require.Equal(t, 1, table.Defs().Len())

	redefinition := newMethod(sig(tInt, tInt), "A-prime")
	table.AddMethod(redefinition)

	require.Equal(t, 1, table.Defs().Len())
	d := NewDispatcher(table, nil)
	got, _, err := d.Dispatch([]types.Type{tInt, tInt})
	require.NoError(t, err)
	require.Equal(t, "A-prime", got.Func)
	require.Equal(t, original, got, "redefinition updates the original Method in place, keeping its UID")
}

func TestMaxArgsUsesEffectiveArity(t *testing.T) {
	table := NewMethodTable(0, NoopWarner{})
	table.AddMethod(newMethod(sig(tInt, types.TSeq{Elem: tString}), "variadic"))
	require.Equal(t, 1, table.MaxArgs())
}

func TestDispatchVararg(t *testing.T) {
	table := NewMethodTable(0, NoopWarner{})
	m := newMethod(sig(tInt, types.TSeq{Elem: tString}), "variadic")
	table.AddMethod(m)
	d := NewDispatcher(table, nil)

	got, _, err := d.Dispatch([]types.Type{tInt, tString, tString, tString})
	require.NoError(t, err)
	require.Equal(t, m, got)

	got, _, err = d.Dispatch([]types.Type{tInt})
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestDispatchCacheHitAfterFirstCall(t *testing.T) {
	table := NewMethodTable(0, NoopWarner{})
	m := newMethod(sig(tInt, tFloat), "m")
	table.AddMethod(m)
	d := NewDispatcher(table, nil)

	_, _, err := d.Dispatch([]types.Type{tInt, tFloat})
	require.NoError(t, err)
	require.Greater(t, table.CacheLen(), 0)

	got, _, err := d.Dispatch([]types.Type{tInt, tFloat})
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestMatchingMethods(t *testing.T) {
	table := NewMethodTable(0, NoopWarner{})
	a := newMethod(sig(tInt), "a")
	b := newMethod(sig(tString), "b")
	table.AddMethod(a)
	table.AddMethod(b)
	d := NewDispatcher(table, nil)

	got := d.MatchingMethods(sig(types.Any), 0)
	require.Len(t, got, 2)

	got = d.MatchingMethods(sig(tInt), 0)
	require.Equal(t, []*Method{a}, got)
}

func TestMethodLookupByType(t *testing.T) {
	table := NewMethodTable(0, NoopWarner{})
	m := newMethod(sig(tInt), "a")
	table.AddMethod(m)
	d := NewDispatcher(table, nil)

	got, ok := d.MethodLookupByType(sig(tInt))
	require.True(t, ok)
	require.Equal(t, m, got)

	_, ok = d.MethodLookupByType(sig(tString))
	require.False(t, ok)
}

func TestInvokeOverride(t *testing.T) {
	base := newMethod(sig(types.Any), "base")
	override := newMethod(sig(tInt), "override")
	AddInvoke(base, override)

	got, _ := Invoke(base, []types.Type{tInt})
	require.Equal(t, override, got)

	got, _ = Invoke(base, []types.Type{tString})
	require.Equal(t, base, got)
}

func TestTypeVariableBinding(t *testing.T) {
	table := NewMethodTable(0, NoopWarner{})
	m := &Method{
		Sig:   sig(types.TVar{Name: "T"}, types.TVar{Name: "T"}),
		TVars: []types.TVar{{Name: "T"}},
		Func:  "identityPair",
	}
	table.AddMethod(m)
	d := NewDispatcher(table, nil)

	got, subst, err := d.Dispatch([]types.Type{tInt, tInt})
	require.NoError(t, err)
	require.Equal(t, m, got)
	require.Equal(t, tInt, subst["T"])

	_, _, err = d.Dispatch([]types.Type{tInt, tString})
	require.Error(t, err)
}

type warnerFunc func(a, b types.TTuple)

func (f warnerFunc) Warn(a, b types.TTuple) { f(a, b) }

func TestJournalRecordsAmbiguityAndSpecialization(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	table := NewMethodTable(0, NoopWarner{})
	table.Journal = j
	table.AddMethod(newMethod(sig(tInt, types.Any), "a"))
	table.AddMethod(newMethod(sig(types.Any, tString), "b"))

	ctx := context.Background()
	ambiguities, err := j.Ambiguous(ctx)
	require.NoError(t, err)
	require.Len(t, ambiguities, 1)

	d := NewDispatcher(table, nil)
	_, _, err = d.Dispatch([]types.Type{tInt, tInt})
	require.NoError(t, err)

	specializations, err := j.TailSpecializations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, specializations, 1)
}
