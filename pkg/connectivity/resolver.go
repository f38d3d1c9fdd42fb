// Package connectivity resolves which tracked equipment an element is
// connected to on its inlet and outlet sides.
package connectivity

import (
	"fmt"

	"github.com/dd0wney/cluso-mepflow/pkg/classify"
	"github.com/dd0wney/cluso-mepflow/pkg/graph"
	"github.com/dd0wney/cluso-mepflow/pkg/metrics"
	"github.com/dd0wney/cluso-mepflow/pkg/model"
)

// Resolver walks the connector graph. It holds no per-call state and can be
// shared by any number of callers.
type Resolver struct {
	graph      *graph.Graph
	classifier *classify.Classifier
	metrics    *metrics.Registry
}

// NewResolver creates a resolver. A nil classifier uses the default rules.
func NewResolver(g *graph.Graph, classifier *classify.Classifier) *Resolver {
	if classifier == nil {
		classifier = classify.NewClassifier()
	}
	return &Resolver{graph: g, classifier: classifier}
}

// WithMetrics records pass-through lookups in reg
func (r *Resolver) WithMetrics(reg *metrics.Registry) *Resolver {
	r.metrics = reg
	return r
}

// Graph returns the graph the resolver walks
func (r *Resolver) Graph() *graph.Graph {
	return r.graph
}

// ResolveThrough returns the first element joined to a fitting or accessory
// that is neither the accessory itself nor source. It looks exactly one hop
// past the accessory; a second fitting in a row is returned as is.
func (r *Resolver) ResolveThrough(accessory, source graph.NodeIndex) (graph.NodeIndex, bool) {
	acc := r.graph.Element(accessory)
	if !classify.IsPassThrough(acc) {
		return graph.NoNode, false
	}
	if acc.Kind != model.KindFamilyInstance {
		return graph.NoNode, false
	}

	next, ok := r.firstBeyond(accessory, source)
	if r.metrics != nil {
		r.metrics.RecordPassThrough(ok)
	}
	return next, ok
}

func (r *Resolver) firstBeyond(accessory, source graph.NodeIndex) (graph.NodeIndex, bool) {
	for _, ci := range r.graph.Connectors(accessory) {
		for _, ref := range r.graph.Connector(ci).Refs {
			owner := r.graph.Connector(ref).Owner
			if owner == accessory || owner == source {
				continue
			}
			return owner, true
		}
	}
	return graph.NoNode, false
}

// Resolve computes the connectivity of the element with the given unique id.
func (r *Resolver) Resolve(uniqueID string, skipAccessories bool) (*Result, error) {
	idx, err := r.graph.Lookup(uniqueID)
	if err != nil {
		return nil, err
	}
	return r.ResolveNode(idx, skipAccessories)
}

// ResolveNode computes the connectivity of one element:
//   - references back to the element itself are ignored
//   - with skipAccessories, a fitting/accessory target is replaced by the
//     element one hop past it, or dropped at a dead end
//   - unclassified targets are dropped
//   - In connectors fill the In bucket, Out connectors the Out bucket, and
//     undirected connectors fill both
func (r *Resolver) ResolveNode(idx graph.NodeIndex, skipAccessories bool) (*Result, error) {
	node := r.graph.Node(idx)
	if node.Fault != nil {
		return nil, graph.NewError("Resolve").Element(node.Element.UniqueID).
			Cause(fmt.Errorf("%w: %w", graph.ErrElementFault, node.Fault))
	}

	b := NewBuilder(node.Element.UniqueID)

	for _, ci := range r.graph.Connectors(idx) {
		conn := r.graph.Connector(ci)
		for _, ref := range conn.Refs {
			target := r.graph.Connector(ref).Owner
			if target == idx {
				continue
			}

			if skipAccessories && classify.IsPassThrough(r.graph.Element(target)) {
				next, ok := r.ResolveThrough(target, idx)
				if !ok {
					continue
				}
				target = next
			}

			el := r.graph.Element(target)
			category, ok := r.classifier.Classify(el)
			if !ok {
				continue
			}

			switch conn.Direction {
			case model.DirectionIn:
				b.Add(category, In, el.UniqueID)
			case model.DirectionOut:
				b.Add(category, Out, el.UniqueID)
			default:
				b.Add(category, In, el.UniqueID)
				b.Add(category, Out, el.UniqueID)
			}
		}
	}

	return b.Freeze(), nil
}

// ConnectedIDs lists every distinct element joined to idx through its
// connectors, without skipping or classification. This is the single
// Connected_UniqueIDs column of the legacy export.
func (r *Resolver) ConnectedIDs(idx graph.NodeIndex) ([]string, error) {
	node := r.graph.Node(idx)
	if node.Fault != nil {
		return nil, graph.NewError("Connected").Element(node.Element.UniqueID).
			Cause(fmt.Errorf("%w: %w", graph.ErrElementFault, node.Fault))
	}

	seen := make(map[graph.NodeIndex]struct{})
	var ids []string
	for _, ci := range r.graph.Connectors(idx) {
		for _, ref := range r.graph.Connector(ci).Refs {
			owner := r.graph.Connector(ref).Owner
			if owner == idx {
				continue
			}
			if _, dup := seen[owner]; dup {
				continue
			}
			seen[owner] = struct{}{}
			ids = append(ids, r.graph.Element(owner).UniqueID)
		}
	}
	return ids, nil
}
