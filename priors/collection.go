// Package priors implements the prior collection (spec.md C4): a lookup
// of a mutable CDF16 by (prior_kind, key_tuple), lazily materialized on
// first access and otherwise returned in place so the caller's blend
// calls persist across nibbles.
package priors

import (
	"github.com/dchest/siphash"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/brotligo/litcoder/cdf"
)

// hash keys for the siphash digest that indexes the prior table. Fixed
// and arbitrary: this table never needs to resist an adversary, only to
// spread keys evenly.
const (
	hashK0 = 0x6c69746c6974636f
	hashK1 = 0x646572627269746c
)

func digest(kind Kind, key Key) uint64 {
	var buf [11]byte
	buf[0] = byte(kind)
	buf[1] = key.Ctype
	buf[2] = byte(key.Ctx >> 24)
	buf[3] = byte(key.Ctx >> 16)
	buf[4] = byte(key.Ctx >> 8)
	buf[5] = byte(key.Ctx)
	buf[6] = byte(key.Sub >> 24)
	buf[7] = byte(key.Sub >> 16)
	buf[8] = byte(key.Sub >> 8)
	buf[9] = byte(key.Sub)
	buf[10] = key.Truncated
	return siphash.Hash(hashK0, hashK1, buf[:])
}

// entry pairs a table slot with the kind and key that produced it.
// Collisions are not resolved: Get looks slots up by digest alone and
// does not compare the stored key (a 64-bit siphash digest over an
// 11-byte key is not expected to collide within one session).
type entry struct {
	kind Kind
	key  Key
	cdf  *cdf.CDF16
}

// Collection is one CDF16 table — either the stride-indexed collection or
// the context-map-indexed collection described in spec.md S4.5; a
// literal coding session owns one of each.
type Collection struct {
	table map[uint64]*entry
}

// New returns an empty Collection. CDFs are created uniform on first
// lookup (spec.md S6.4's default-construction contract).
func New() *Collection {
	return &Collection{table: make(map[uint64]*entry)}
}

// Get returns the CDF16 for (kind, key), creating it as NewUniform16 the
// first time it is requested.
func (c *Collection) Get(kind Kind, key Key) *cdf.CDF16 {
	h := digest(kind, key)
	if e, ok := c.table[h]; ok {
		return e.cdf
	}
	e := &entry{kind: kind, key: key, cdf: cdf.NewUniform16()}
	c.table[h] = e
	return e.cdf
}

// Reset clears every prior back to empty, as if the Collection were
// freshly constructed. Used between independent literal streams so one
// session's learned models don't leak into the next.
func (c *Collection) Reset() {
	maps.Clear(c.table)
}

// Len reports how many distinct (kind, key) priors have been
// materialized so far.
func (c *Collection) Len() int {
	return len(c.table)
}

// Digests returns every materialized prior's hash digest in ascending
// order. Exported only for test use (collection_test.go), to compare the
// set of priors touched by two coding sessions without depending on Go's
// unordered map iteration.
func (c *Collection) Digests() []uint64 {
	ds := maps.Keys(c.table)
	slices.Sort(ds)
	return ds
}
