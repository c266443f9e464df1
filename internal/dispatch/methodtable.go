package dispatch

import (
	"context"
	"sync"

	"github.com/multimethod/genfunc/internal/journal"
	"github.com/multimethod/genfunc/internal/types"
)

// MethodTable is one generic function: its sorted MethodList of
// definitions, its three-tier MethodCache, and the running max_args seen
// across all inserted signatures. Mutation (AddMethod) takes Mu so that a
// concurrent Dispatch never observes a half-linked MethodList or a cache
// entry pointing at a Method that hasn't finished initializing.
type MethodTable struct {
	Mu sync.Mutex
	// Journal, if non-nil, receives a record of every specialization
	// published to the cache and every ambiguity warned about. Nil by
	// default; set directly after NewMethodTable to enable it.
	Journal *journal.Journal

	defs    MethodList
	cache   *MethodCache
	maxArgs int
	nextUID uint64
	warner  Warner
}

// NewMethodTable returns an empty table. maxArgsHint seeds the value
// MaxArgs reports; AddMethod only ever raises it. The cache and
// specialize do not read it.
func NewMethodTable(maxArgsHint int, warner Warner) *MethodTable {
	if warner == nil {
		warner = NoopWarner{}
	}
	return &MethodTable{
		cache:   NewMethodCache(),
		maxArgs: maxArgsHint,
		warner:  warner,
	}
}

// MaxArgs returns the largest effective arity (fixed-prefix length, not
// counting a trailing TSeq) inserted so far, or the seed passed to
// NewMethodTable if that is larger.
func (t *MethodTable) MaxArgs() int {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.maxArgs
}

// AddMethod inserts a new method definition: assign it a UID, insert it
// into the sorted MethodList, check it for ambiguity against every
// existing definition and fire Warner.Warn for each ambiguous pair
// found, update MaxArgs, and invalidate any cache entries a narrower
// definition could now shadow. Insertion never fails on ambiguity — it
// always succeeds.
//
// Redefining an existing signature exactly (types.TypesEqual on Sig)
// doesn't append a second entry: it replaces the existing Method's
// Func/TVars/Constraints/Invokes in place, keeping its UID and position
// in the list, so a later redefinition is the only definition left bound
// to that signature.
func (t *MethodTable) AddMethod(m *Method) {
	t.Mu.Lock()
	defer t.Mu.Unlock()

	var existing *Method
	t.defs.Each(func(other *Method) bool {
		if types.TypesEqual(m.Sig, other.Sig) {
			existing = other
			return false
		}
		return true
	})
	if existing != nil {
		existing.Func = m.Func
		existing.TVars = m.TVars
		existing.Constraints = m.Constraints
		existing.Invokes = m.Invokes
		t.cache = NewMethodCache()
		return
	}

	t.nextUID++
	m.UID = t.nextUID

	t.defs.Each(func(other *Method) bool {
		if ambiguousWith(m.Sig, other.Sig) {
			t.warner.Warn(m.Sig, other.Sig)
			if t.Journal != nil {
				_, _ = t.Journal.RecordAmbiguity(context.Background(), m.Sig.String(), other.Sig.String())
			}
		}
		return true
	})

	t.defs.Insert(m)

	if n, _ := m.Arity(); n > t.maxArgs {
		t.maxArgs = n
	}

	// A new, possibly more specific definition can invalidate
	// generalized cache entries that previously shortcut past it;
	// the safe response is to drop the whole cache and let it
	// repopulate from full search.
	t.cache = NewMethodCache()
}

// Defs returns the table's sorted method list, for full definition search
// and introspection.
func (t *MethodTable) Defs() *MethodList {
	return &t.defs
}

// cacheLookup probes the three-tier cache under Mu: AddMethod replaces
// the cache pointer and publish appends to the live tiers, both under
// the same lock.
func (t *MethodTable) cacheLookup(args []types.Type) *Method {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.cache.Lookup(args)
}

// publish installs the generalized key computed by specialize for m,
// taking Mu only for the swap itself, and records the decision to
// Journal if one is configured.
func (t *MethodTable) publish(key types.TTuple, m *Method) {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	t.cache.Insert(key, m)
	if t.Journal != nil {
		_, _ = t.Journal.RecordSpecialization(context.Background(), m.UID, m.Sig.String(), key.String())
	}
}

// CacheLen reports the cache's total entry count across tiers, used by
// cmd/gfctl's inspect subcommand.
func (t *MethodTable) CacheLen() int {
	t.Mu.Lock()
	defer t.Mu.Unlock()
	return t.cache.Len()
}
