package connectivity

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-mepflow/pkg/classify"
	"github.com/dd0wney/cluso-mepflow/pkg/graph"
	"github.com/dd0wney/cluso-mepflow/pkg/model"
	"github.com/dd0wney/cluso-mepflow/pkg/model/modeltest"
)

var (
	randomFamilies = []string{"Gate Valve", "Inline Pump", "Storage Tank", "Flow Meter", "Chiller", "Junction Box"}
	randomDirs     = []model.FlowDirection{model.DirectionIn, model.DirectionOut, model.DirectionBidirectional}
)

// randomNetwork builds a random MEP network from a seed. When bidirOnly is
// set every connector is undirected.
func randomNetwork(seed int64, bidirOnly bool) (*graph.Graph, []string) {
	rng := rand.New(rand.NewSource(seed))
	b := modeltest.New()

	n := 2 + rng.Intn(10)
	uids := make([]string, n)
	for i := 0; i < n; i++ {
		uid := fmt.Sprintf("e%d", i)
		uids[i] = uid
		switch rng.Intn(4) {
		case 0:
			b.Pipe(uid)
		case 1:
			b.Fitting(uid)
		case 2:
			b.Accessory(uid)
		default:
			b.Equipment(uid, randomFamilies[rng.Intn(len(randomFamilies))])
		}
	}

	links := rng.Intn(3 * n)
	for i := 0; i < links; i++ {
		a := uids[rng.Intn(n)]
		c := uids[rng.Intn(n)]
		da := randomDirs[rng.Intn(len(randomDirs))]
		dc := randomDirs[rng.Intn(len(randomDirs))]
		if bidirOnly {
			da, dc = model.DirectionBidirectional, model.DirectionBidirectional
		}
		b.Connect(a, da, c, dc)
	}

	g, err := graph.Build(b.Doc())
	if err != nil {
		panic(err)
	}
	return g, uids
}

func TestResolverInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("resolved targets never include the source", prop.ForAll(
		func(seed int64, skip bool) bool {
			g, uids := randomNetwork(seed, false)
			r := NewResolver(g, nil)
			for _, uid := range uids {
				res, err := r.Resolve(uid, skip)
				if err != nil {
					return false
				}
				for _, c := range classify.All {
					for _, id := range append(res.In(c), res.Out(c)...) {
						if id == uid {
							return false
						}
					}
				}
			}
			return true
		},
		gen.Int64(),
		gen.Bool(),
	))

	properties.Property("buckets never hold duplicates", prop.ForAll(
		func(seed int64, skip bool) bool {
			g, uids := randomNetwork(seed, false)
			r := NewResolver(g, nil)
			for _, uid := range uids {
				res, err := r.Resolve(uid, skip)
				if err != nil {
					return false
				}
				for _, c := range classify.All {
					for _, side := range []Side{In, Out} {
						seen := make(map[string]bool)
						for _, id := range res.IDs(c, side) {
							if seen[id] {
								return false
							}
							seen[id] = true
						}
					}
				}
			}
			return true
		},
		gen.Int64(),
		gen.Bool(),
	))

	properties.Property("undirected networks have identical In and Out buckets", prop.ForAll(
		func(seed int64, skip bool) bool {
			g, uids := randomNetwork(seed, true)
			r := NewResolver(g, nil)
			for _, uid := range uids {
				res, err := r.Resolve(uid, skip)
				if err != nil {
					return false
				}
				for _, c := range classify.All {
					in, out := res.In(c), res.Out(c)
					if len(in) != len(out) {
						return false
					}
					for i := range in {
						if in[i] != out[i] {
							return false
						}
					}
				}
			}
			return true
		},
		gen.Int64(),
		gen.Bool(),
	))

	properties.Property("every bucketed id belongs to an element of that category", prop.ForAll(
		func(seed int64, skip bool) bool {
			g, uids := randomNetwork(seed, false)
			r := NewResolver(g, nil)
			classifier := classify.NewClassifier()
			for _, uid := range uids {
				res, err := r.Resolve(uid, skip)
				if err != nil {
					return false
				}
				for _, c := range classify.All {
					for _, id := range append(res.In(c), res.Out(c)...) {
						idx, err := g.Lookup(id)
						if err != nil {
							return false
						}
						if got, _ := classifier.Classify(g.Element(idx)); got != c {
							return false
						}
					}
				}
			}
			return true
		},
		gen.Int64(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
