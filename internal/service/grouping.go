package service

import (
	"math"
	"sort"
)

// round2 rounds reported figures to two decimals. Accumulation always runs
// at full precision; only output fields pass through here.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// groupAccumulator is an ordered map keyed by a stable identifier. Keys keep
// first-seen order until an explicit sort is applied, so grouped output never
// depends on Go map iteration.
type groupAccumulator[V any] struct {
	keys   []string
	values map[string]*V
}

func newGroupAccumulator[V any]() *groupAccumulator[V] {
	return &groupAccumulator[V]{values: make(map[string]*V)}
}

// Get returns the bucket for key, creating it via init on first use.
func (g *groupAccumulator[V]) Get(key string, init func() *V) *V {
	if v, ok := g.values[key]; ok {
		return v
	}
	v := init()
	g.values[key] = v
	g.keys = append(g.keys, key)
	return v
}

// Values returns buckets in key order.
func (g *groupAccumulator[V]) Values() []V {
	out := make([]V, 0, len(g.keys))
	for _, k := range g.keys {
		out = append(out, *g.values[k])
	}
	return out
}

// SortKeys orders keys by the provided comparison over their buckets.
func (g *groupAccumulator[V]) SortKeys(less func(a, b *V) bool) {
	sort.SliceStable(g.keys, func(i, j int) bool {
		return less(g.values[g.keys[i]], g.values[g.keys[j]])
	})
}

// Len reports the number of buckets.
func (g *groupAccumulator[V]) Len() int {
	return len(g.keys)
}
