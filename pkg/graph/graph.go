// Package graph holds the connector graph of one model snapshot. Elements
// and connectors live in flat slices and reference each other by index, so
// the resolvers never touch the snapshot types directly.
package graph

import (
	"fmt"

	"github.com/dd0wney/cluso-mepflow/pkg/model"
	"github.com/dd0wney/cluso-mepflow/pkg/validation"
)

// NodeIndex addresses an element in the graph arena
type NodeIndex int

// ConnectorIndex addresses a connector in the graph arena
type ConnectorIndex int

// NoNode is returned where no element applies
const NoNode NodeIndex = -1

// Node is one element plus its connectors
type Node struct {
	Element    model.Element
	Connectors []ConnectorIndex
	// Fault is set when the element could not be fully placed in the graph.
	// Faulted elements are skipped by the exporters.
	Fault error
}

// Connector is a directed attachment point joined to other connectors
type Connector struct {
	ID        string
	Owner     NodeIndex
	Direction model.FlowDirection
	Refs      []ConnectorIndex
}

// Statistics summarizes a built graph
type Statistics struct {
	Elements   int
	Connectors int
	Links      int
	Faulted    int
}

// Graph is an immutable connector graph built once per run
type Graph struct {
	nodes       []Node
	connectors  []Connector
	byUniqueID  map[string]NodeIndex
	byConnector map[string]ConnectorIndex
	stats       Statistics
}

// Build constructs the graph for a document. Problems with individual
// elements are recorded as node faults; only a nil document is an error.
func Build(doc *model.Document) (*Graph, error) {
	if doc == nil {
		return nil, NewError("Build").Cause(ErrNilDocument)
	}

	g := &Graph{
		nodes:       make([]Node, 0, len(doc.Elements)),
		byUniqueID:  make(map[string]NodeIndex, len(doc.Elements)),
		byConnector: make(map[string]ConnectorIndex),
	}

	// Connector ids of rejected elements. References to them are dropped
	// without faulting the referring element.
	quarantined := make(map[string]struct{})
	quarantine := func(el *model.Element) {
		for _, c := range el.Connectors {
			if c.ID != "" {
				quarantined[c.ID] = struct{}{}
			}
		}
	}

	for i := range doc.Elements {
		el := doc.Elements[i]
		idx := NodeIndex(len(g.nodes))
		g.nodes = append(g.nodes, Node{Element: el})
		node := &g.nodes[idx]

		if err := validation.ValidateElement(&el); err != nil {
			node.Fault = NewError("Build").Element(el.UniqueID).
				Cause(fmt.Errorf("%w: %v", ErrInvalidElement, err))
			quarantine(&el)
			continue
		}

		if _, dup := g.byUniqueID[el.UniqueID]; dup {
			node.Fault = NewError("Build").Element(el.UniqueID).Cause(ErrDuplicateElement)
			quarantine(&el)
			continue
		}

		if id, dup := firstRegistered(g.byConnector, el.Connectors); dup {
			node.Fault = NewError("Build").Element(el.UniqueID).Connector(id).Cause(ErrDuplicateConnector)
			quarantine(&el)
			continue
		}

		g.byUniqueID[el.UniqueID] = idx
		for _, c := range el.Connectors {
			ci := ConnectorIndex(len(g.connectors))
			g.connectors = append(g.connectors, Connector{
				ID:        c.ID,
				Owner:     idx,
				Direction: c.Direction.Normalize(),
			})
			g.byConnector[c.ID] = ci
			node.Connectors = append(node.Connectors, ci)
		}
	}

	// Second pass: resolve references now that every connector is known.
	for ni := range g.nodes {
		node := &g.nodes[ni]
		if node.Fault != nil {
			continue
		}
		for k, ci := range node.Connectors {
			src := node.Element.Connectors[k]
			conn := &g.connectors[ci]
			for _, ref := range src.Refs {
				if target, ok := g.byConnector[ref]; ok {
					conn.Refs = append(conn.Refs, target)
					g.stats.Links++
					continue
				}
				if _, ok := quarantined[ref]; ok {
					continue
				}
				if node.Fault == nil {
					node.Fault = NewError("Build").Element(node.Element.UniqueID).
						Connector(src.ID).Context("ref " + ref).Cause(ErrDanglingReference)
				}
			}
		}
	}

	g.stats.Elements = len(g.nodes)
	g.stats.Connectors = len(g.connectors)
	for _, n := range g.nodes {
		if n.Fault != nil {
			g.stats.Faulted++
		}
	}

	return g, nil
}

func firstRegistered(index map[string]ConnectorIndex, conns []model.Connector) (string, bool) {
	for _, c := range conns {
		if _, ok := index[c.ID]; ok {
			return c.ID, true
		}
	}
	return "", false
}

// Len returns the number of elements in the arena, faulted ones included
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node at index i
func (g *Graph) Node(i NodeIndex) *Node {
	return &g.nodes[i]
}

// Element returns the snapshot element at index i
func (g *Graph) Element(i NodeIndex) *model.Element {
	return &g.nodes[i].Element
}

// Connector returns the connector at index ci
func (g *Graph) Connector(ci ConnectorIndex) *Connector {
	return &g.connectors[ci]
}

// Lookup finds an element by unique id
func (g *Graph) Lookup(uniqueID string) (NodeIndex, error) {
	idx, ok := g.byUniqueID[uniqueID]
	if !ok {
		return NoNode, NewError("Lookup").Element(uniqueID).Cause(ErrElementNotFound)
	}
	return idx, nil
}

// Connectors returns the connector set the host exposes for an element:
// pipes always expose theirs, family instances only when they carry an MEP
// model, everything else exposes none.
func (g *Graph) Connectors(i NodeIndex) []ConnectorIndex {
	node := &g.nodes[i]
	switch node.Element.Kind {
	case model.KindPipe:
		return node.Connectors
	case model.KindFamilyInstance:
		if node.Element.HasMEPModel {
			return node.Connectors
		}
	}
	return nil
}

// Statistics returns counts gathered while building
func (g *Graph) Statistics() Statistics {
	return g.stats
}
