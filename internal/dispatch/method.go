package dispatch

import "github.com/multimethod/genfunc/internal/types"

// Func is the opaque callable a Method carries. The dispatch engine never
// inspects it — it only compares Sig/TVars for specificity and matching,
// then hands Func back to the caller to invoke.
type Func interface{}

// Method is one definition registered against a generic function: a
// signature (a TTuple, possibly containing a trailing TSeq), the static
// type variables it quantifies over, and the callable it dispatches to.
type Method struct {
	// Sig is the method's parameter-type tuple, e.g. (Int, String).
	Sig types.TTuple
	// TVars are the method's static parameters, bound by TypeMatch when
	// this method is selected.
	TVars []types.TVar
	// Constraints restricts how a TVar may bind (trait bounds).
	Constraints []types.Constraint

	Func    Func
	Sources []DispatchSource

	// Invokes is a lazily allocated child MethodTable holding
	// invoke-style overrides registered against this specific method.
	// No back-pointer to the parent table is kept.
	Invokes *MethodTable

	// UID is a stable identifier assigned at insertion, written to the
	// journal's method_uid column with each specialization and reported
	// by the introspection service.
	UID uint64

	// next links this Method into its MethodList, ordered most- to
	// least-specific. Unexported: the list is mutated only through
	// MethodList's own sorted-insert logic.
	next *Method
}

// Arity returns the method's minimum accepted argument count and whether
// it accepts unbounded trailing arguments via a TSeq tail.
func (m *Method) Arity() (min int, vararg bool) {
	elems := m.Sig.Elements
	if len(elems) == 0 {
		return 0, false
	}
	if _, ok := elems[len(elems)-1].(types.TSeq); ok {
		return len(elems) - 1, true
	}
	return len(elems), false
}

// MethodList is a singly-linked chain of Methods kept sorted
// most-specific-first. Mutation always builds a new node and swaps the
// head/predecessor pointer rather than mutating an existing node in
// place, so a reader walking the old head concurrently with an insert
// never observes a partially-linked Method.
type MethodList struct {
	head *Method
}

// Head returns the first (most specific) Method, or nil if empty.
func (l *MethodList) Head() *Method { return l.head }

// Each calls fn for every Method in specificity order, stopping early if
// fn returns false.
func (l *MethodList) Each(fn func(*Method) bool) {
	for m := l.head; m != nil; m = m.next {
		if !fn(m) {
			return
		}
	}
}

// Len returns the number of methods in the list.
func (l *MethodList) Len() int {
	n := 0
	l.Each(func(*Method) bool { n++; return true })
	return n
}

// Insert places m into the list in specificity order (most specific
// first) by splicing it in: m.next is set first, then the head or the
// predecessor's next pointer is switched to m. No other node changes.
func (l *MethodList) Insert(m *Method) {
	if l.head == nil || MoreSpecific(m.Sig, l.head.Sig) {
		m.next = l.head
		l.head = m
		return
	}
	prev := l.head
	for prev.next != nil && !MoreSpecific(m.Sig, prev.next.Sig) {
		prev = prev.next
	}
	m.next = prev.next
	prev.next = m
}
