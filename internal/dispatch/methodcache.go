package dispatch

import "github.com/multimethod/genfunc/internal/types"

// cacheEntry is one generalized (key, method) pairing stored in a cache
// tier. A single *Method may be referenced by several entries, one per
// distinct key published for it.
type cacheEntry struct {
	key types.TTuple
	m   *Method
}

// MethodCache is a three-tier lookup structure grown on demand: targ
// holds entries whose first slot is a Type{T} singleton, arg1 holds
// entries keyed by the runtime type-constructor name of the first
// ordinary argument (a string-keyed map standing in for a dense
// type-UID index), and fallback is the linear list everything else falls
// through to.
type MethodCache struct {
	targ     map[string][]*cacheEntry
	arg1     map[string][]*cacheEntry
	fallback []*cacheEntry
}

// NewMethodCache returns an empty three-tier cache.
func NewMethodCache() *MethodCache {
	return &MethodCache{
		targ: map[string][]*cacheEntry{},
		arg1: map[string][]*cacheEntry{},
	}
}

func (c *MethodCache) tierFor(args []types.Type) (tier string, key string, ok bool) {
	if len(args) == 0 {
		return "", "", false
	}
	first := args[0]
	if tt, isType := first.(types.TType); isType {
		if name, ok := types.ExtractTypeConstructorName(tt.Type); ok {
			return "targ", name, true
		}
		return "", "", false
	}
	if name, ok := types.ExtractTypeConstructorName(first); ok {
		return "arg1", name, true
	}
	return "", "", false
}

// Lookup probes the one tier the first argument selects (targ for a
// Type{T} argument, arg1 keyed by the first argument's type otherwise),
// then the fallback list, and returns the first entry whose generalized
// key matches args by type.
func (c *MethodCache) Lookup(args []types.Type) *Method {
	tier, key, ok := c.tierFor(args)
	if ok {
		var bucket []*cacheEntry
		if tier == "targ" {
			bucket = c.targ[key]
		} else {
			bucket = c.arg1[key]
		}
		for _, e := range bucket {
			if cacheMatchByType(e.key, args) {
				return e.m
			}
		}
	}
	for _, e := range c.fallback {
		if cacheMatchByType(e.key, args) {
			return e.m
		}
	}
	return nil
}

// Insert adds a generalized (key, method) entry to the tier the key's
// first slot selects, or to the fallback list when the key can't anchor
// a tiered lookup (e.g. a zero-arity signature, or a first slot that is
// itself a union).
func (c *MethodCache) Insert(key types.TTuple, m *Method) {
	entry := &cacheEntry{key: key, m: m}
	if len(key.Elements) > 0 {
		first := key.Elements[0]
		if tt, isType := first.(types.TType); isType {
			if name, ok := types.ExtractTypeConstructorName(tt.Type); ok {
				c.targ[name] = append(c.targ[name], entry)
				return
			}
		} else if name, ok := types.ExtractTypeConstructorName(first); ok {
			c.arg1[name] = append(c.arg1[name], entry)
			return
		}
	}
	c.fallback = append(c.fallback, entry)
}

// Len returns the total number of entries across all tiers, used by
// cmd/gfctl's inspect subcommand to report cache footprint.
func (c *MethodCache) Len() int {
	n := len(c.fallback)
	for _, b := range c.targ {
		n += len(b)
	}
	for _, b := range c.arg1 {
		n += len(b)
	}
	return n
}
