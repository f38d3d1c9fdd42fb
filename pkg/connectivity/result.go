package connectivity

import (
	"github.com/dd0wney/cluso-mepflow/pkg/classify"
)

// Side selects the inlet or outlet bucket
type Side int

const (
	In Side = iota
	Out
)

// Result is the frozen per-category, per-side connectivity of one element.
// Identifiers are distinct within a bucket and kept in first-seen order.
type Result struct {
	source  string
	buckets map[classify.Category][2][]string
}

// Source returns the unique id the result was resolved for
func (r *Result) Source() string {
	return r.source
}

// IDs returns a copy of one bucket
func (r *Result) IDs(c classify.Category, side Side) []string {
	b := r.buckets[c][side]
	out := make([]string, len(b))
	copy(out, b)
	return out
}

// In returns the inlet-side identifiers for a category
func (r *Result) In(c classify.Category) []string {
	return r.IDs(c, In)
}

// Out returns the outlet-side identifiers for a category
func (r *Result) Out(c classify.Category) []string {
	return r.IDs(c, Out)
}

// Targets lists every distinct identifier across all buckets, in category
// order and then inlet before outlet
func (r *Result) Targets() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, c := range classify.All {
		for _, side := range []Side{In, Out} {
			for _, id := range r.buckets[c][side] {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// IsEmpty reports whether every bucket is empty
func (r *Result) IsEmpty() bool {
	for _, b := range r.buckets {
		if len(b[In]) > 0 || len(b[Out]) > 0 {
			return false
		}
	}
	return true
}

// Builder accumulates identifiers and produces a Result. A Builder must not
// be reused after Freeze.
type Builder struct {
	source  string
	buckets map[classify.Category]*bucket
}

type bucket struct {
	ids  [2][]string
	seen [2]map[string]struct{}
}

// NewBuilder starts an empty result for source with all categories present
func NewBuilder(source string) *Builder {
	b := &Builder{
		source:  source,
		buckets: make(map[classify.Category]*bucket, len(classify.All)),
	}
	for _, c := range classify.All {
		b.buckets[c] = &bucket{
			seen: [2]map[string]struct{}{{}, {}},
		}
	}
	return b
}

// Add records id on one side of a category. Duplicates are ignored.
func (b *Builder) Add(c classify.Category, side Side, id string) *Builder {
	bk, ok := b.buckets[c]
	if !ok {
		return b
	}
	if _, dup := bk.seen[side][id]; dup {
		return b
	}
	bk.seen[side][id] = struct{}{}
	bk.ids[side] = append(bk.ids[side], id)
	return b
}

// Freeze returns the immutable result
func (b *Builder) Freeze() *Result {
	r := &Result{
		source:  b.source,
		buckets: make(map[classify.Category][2][]string, len(b.buckets)),
	}
	for c, bk := range b.buckets {
		var frozen [2][]string
		for side := range bk.ids {
			frozen[side] = append([]string(nil), bk.ids[side]...)
		}
		r.buckets[c] = frozen
	}
	return r
}
