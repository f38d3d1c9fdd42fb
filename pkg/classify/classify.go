// Package classify maps model elements to the equipment categories tracked
// by the flow export.
package classify

import (
	"strings"

	"github.com/dd0wney/cluso-mepflow/pkg/model"
)

// Category is an equipment class. The zero value is None.
type Category int

const (
	None Category = iota
	Pipe
	Valve
	Pump
	Tank
	FlowMeter
	Chiller
)

// All lists the tracked categories in export column order
var All = []Category{Pipe, Valve, Pump, Tank, FlowMeter, Chiller}

// String returns the column prefix used for the category
func (c Category) String() string {
	switch c {
	case Pipe:
		return "Pipe"
	case Valve:
		return "Valve"
	case Pump:
		return "Pump"
	case Tank:
		return "Tank"
	case FlowMeter:
		return "FlowMeter"
	case Chiller:
		return "Chiller"
	default:
		return "None"
	}
}

// ParseCategory looks up a tracked category by name, case-insensitively
func ParseCategory(name string) (Category, bool) {
	for _, c := range All {
		if strings.EqualFold(c.String(), strings.TrimSpace(name)) {
			return c, true
		}
	}
	return None, false
}

// Rule maps a lower-case family name keyword to a category
type Rule struct {
	Keyword  string
	Category Category
}

// DefaultRules returns the keyword table in match order. Order matters: a
// family called "Pump Valve Assembly" is a Valve.
func DefaultRules() []Rule {
	return []Rule{
		{Keyword: "valve", Category: Valve},
		{Keyword: "pump", Category: Pump},
		{Keyword: "tank", Category: Tank},
		{Keyword: "flow", Category: FlowMeter},
		{Keyword: "chiller", Category: Chiller},
	}
}

// Classifier assigns categories using an ordered keyword table
type Classifier struct {
	rules []Rule
}

// NewClassifier creates a classifier. With no rules it uses DefaultRules.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Keyword == "" || r.Category == None {
			continue
		}
		normalized = append(normalized, Rule{Keyword: strings.ToLower(r.Keyword), Category: r.Category})
	}
	return &Classifier{rules: normalized}
}

// Rules returns a copy of the classifier's table
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Classify returns the element's category. Pipes are always Pipe; family
// instances are matched by family name, first rule wins.
func (c *Classifier) Classify(el *model.Element) (Category, bool) {
	if el == nil {
		return None, false
	}

	switch el.Kind {
	case model.KindPipe:
		return Pipe, true
	case model.KindFamilyInstance:
		if el.FamilyName == "" {
			return None, false
		}
		name := strings.ToLower(el.FamilyName)
		for _, r := range c.rules {
			if strings.Contains(name, r.Keyword) {
				return r.Category, true
			}
		}
	}
	return None, false
}

// IsPassThrough reports whether the element is a pipe fitting or pipe
// accessory, the parts the resolver may look through.
func IsPassThrough(el *model.Element) bool {
	if el == nil || !el.HasCategory() {
		return false
	}
	return el.Category == model.CategoryPipeFitting || el.Category == model.CategoryPipeAccessory
}
