package graph

import (
	"errors"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-mepflow/pkg/model"
	"github.com/dd0wney/cluso-mepflow/pkg/model/modeltest"
)

func mustBuild(t *testing.T, doc *model.Document) *Graph {
	t.Helper()
	g, err := Build(doc)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestBuild_NilDocument(t *testing.T) {
	_, err := Build(nil)
	if !errors.Is(err, ErrNilDocument) {
		t.Errorf("Build(nil) error = %v, want ErrNilDocument", err)
	}
}

func TestBuild_LinksConnectors(t *testing.T) {
	doc := modeltest.New().
		Pipe("p1").
		Equipment("pump1", "Inline Pump").
		Connect("p1", model.DirectionOut, "pump1", model.DirectionIn).
		Doc()

	g := mustBuild(t, doc)

	stats := g.Statistics()
	if stats.Elements != 2 || stats.Connectors != 2 || stats.Links != 2 || stats.Faulted != 0 {
		t.Fatalf("Statistics() = %+v", stats)
	}

	p1, err := g.Lookup("p1")
	if err != nil {
		t.Fatalf("Lookup(p1): %v", err)
	}
	conns := g.Connectors(p1)
	if len(conns) != 1 {
		t.Fatalf("expected 1 connector on p1, got %d", len(conns))
	}
	c := g.Connector(conns[0])
	if c.Direction != model.DirectionOut || c.Owner != p1 {
		t.Errorf("connector = %+v", c)
	}
	if len(c.Refs) != 1 || g.Element(g.Connector(c.Refs[0]).Owner).UniqueID != "pump1" {
		t.Errorf("p1 connector should reference pump1")
	}
}

func TestBuild_UnknownDirectionNormalized(t *testing.T) {
	b := modeltest.New().Pipe("p1").Pipe("p2")
	b.Connect("p1", "", "p2", "sideways")
	g := mustBuild(t, b.Doc())

	for _, uid := range []string{"p1", "p2"} {
		idx, _ := g.Lookup(uid)
		for _, ci := range g.Connectors(idx) {
			if d := g.Connector(ci).Direction; d != model.DirectionBidirectional {
				t.Errorf("%s connector direction = %q, want bidirectional", uid, d)
			}
		}
	}
}

func TestBuild_DanglingReferenceFaultsOwnerOnly(t *testing.T) {
	b := modeltest.New().Pipe("p1").Pipe("p2")
	b.Connect("p1", model.DirectionOut, "p2", model.DirectionIn)
	c := b.Connector("p2", model.DirectionOut)
	b.Ref("p2", c, "ghost#0")

	g := mustBuild(t, b.Doc())

	p1, _ := g.Lookup("p1")
	p2, _ := g.Lookup("p2")
	if g.Node(p1).Fault != nil {
		t.Errorf("p1 should not be faulted: %v", g.Node(p1).Fault)
	}
	fault := g.Node(p2).Fault
	if !errors.Is(fault, ErrDanglingReference) {
		t.Fatalf("p2 fault = %v, want ErrDanglingReference", fault)
	}
	if !strings.Contains(fault.Error(), "ghost#0") {
		t.Errorf("fault should name the missing ref: %v", fault)
	}
	if g.Statistics().Faulted != 1 {
		t.Errorf("Faulted = %d, want 1", g.Statistics().Faulted)
	}
}

func TestBuild_InvalidElementQuarantined(t *testing.T) {
	b := modeltest.New().Pipe("p1").Pipe("bad")
	b.Connect("p1", model.DirectionOut, "bad", model.DirectionIn)
	b.Mutate("bad", func(el *model.Element) {
		el.Location.Curve = el.Location.Curve[:1]
	})

	g := mustBuild(t, b.Doc())

	bad := g.Node(1)
	if !errors.Is(bad.Fault, ErrInvalidElement) {
		t.Fatalf("bad fault = %v, want ErrInvalidElement", bad.Fault)
	}
	if _, err := g.Lookup("bad"); !IsNotFound(err) {
		t.Errorf("faulted element should not be indexed, got %v", err)
	}

	// The reference into the quarantined element is dropped, not a fault.
	p1, _ := g.Lookup("p1")
	if g.Node(p1).Fault != nil {
		t.Errorf("p1 should not be faulted: %v", g.Node(p1).Fault)
	}
	if refs := g.Connector(g.Connectors(p1)[0]).Refs; len(refs) != 0 {
		t.Errorf("expected reference into quarantined element to be dropped, got %v", refs)
	}
}

func TestBuild_Duplicates(t *testing.T) {
	b := modeltest.New().Pipe("p1").Pipe("p1")
	g := mustBuild(t, b.Doc())
	if !errors.Is(g.Node(1).Fault, ErrDuplicateElement) {
		t.Errorf("second p1 fault = %v, want ErrDuplicateElement", g.Node(1).Fault)
	}

	b2 := modeltest.New().Pipe("a").Pipe("b")
	b2.Mutate("a", func(el *model.Element) {
		el.Connectors = []model.Connector{{ID: "shared"}}
	})
	b2.Mutate("b", func(el *model.Element) {
		el.Connectors = []model.Connector{{ID: "shared"}}
	})
	g2 := mustBuild(t, b2.Doc())
	if !errors.Is(g2.Node(1).Fault, ErrDuplicateConnector) {
		t.Errorf("b fault = %v, want ErrDuplicateConnector", g2.Node(1).Fault)
	}
}

func TestConnectors_HostVisibility(t *testing.T) {
	b := modeltest.New().
		Pipe("p1").
		Equipment("tank1", "Storage Tank").
		Equipment("dumb", "Storage Tank").
		Element(model.Element{UniqueID: "wall", Kind: model.KindOther})
	b.Mutate("dumb", func(el *model.Element) { el.HasMEPModel = false })
	b.Connect("p1", model.DirectionOut, "tank1", model.DirectionIn)
	b.Connect("p1", model.DirectionOut, "dumb", model.DirectionIn)
	b.Connect("p1", model.DirectionOut, "wall", model.DirectionIn)

	g := mustBuild(t, b.Doc())

	tests := []struct {
		uid  string
		want int
	}{
		{"p1", 3},
		{"tank1", 1},
		{"dumb", 0},
		{"wall", 0},
	}
	for _, tt := range tests {
		idx, err := g.Lookup(tt.uid)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", tt.uid, err)
		}
		if got := len(g.Connectors(idx)); got != tt.want {
			t.Errorf("Connectors(%s) = %d, want %d", tt.uid, got, tt.want)
		}
	}
}

func TestGraphError_Format(t *testing.T) {
	err := NewError("Resolve").Element("e1").Connector("c1").Context("ref x").Cause(ErrDanglingReference)
	want := "Resolve element e1 connector c1 (ref x): connector references unknown connector"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrDanglingReference) {
		t.Error("errors.Is should see the cause")
	}

	plain := NewError("Build").Cause(ErrNilDocument)
	if plain.Error() != "Build: document is nil" {
		t.Errorf("Error() = %q", plain.Error())
	}
}
