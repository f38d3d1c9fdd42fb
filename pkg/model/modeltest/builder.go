// Package modeltest builds small model snapshots for tests.
package modeltest

import (
	"fmt"

	"github.com/dd0wney/cluso-mepflow/pkg/model"
)

// Builder assembles a Document element by element
type Builder struct {
	doc   model.Document
	index map[string]int
}

// New returns a builder with an identity shared transform and a zero site
func New() *Builder {
	t := model.Identity()
	return &Builder{
		doc: model.Document{
			Project:         "test",
			LengthUnit:      "ft",
			SharedTransform: &t,
		},
		index: make(map[string]int),
	}
}

// Element adds an arbitrary element
func (b *Builder) Element(el model.Element) *Builder {
	b.index[el.UniqueID] = len(b.doc.Elements)
	b.doc.Elements = append(b.doc.Elements, el)
	return b
}

// Pipe adds a pipe running from (0,0,0) to (10,0,0)
func (b *Builder) Pipe(uid string) *Builder {
	return b.Element(model.Element{
		ID:           int64(len(b.doc.Elements) + 1),
		UniqueID:     uid,
		Category:     model.CategoryPipeCurves,
		CategoryName: "Pipes",
		CategoryType: model.CategoryTypeModel,
		Name:         "Pipe " + uid,
		Kind:         model.KindPipe,
		Location:     &model.Location{Curve: []model.XYZ{{}, {X: 10}}},
	})
}

// Family adds a family instance with an MEP model at the origin
func (b *Builder) Family(uid, category, familyName string) *Builder {
	return b.Element(model.Element{
		ID:           int64(len(b.doc.Elements) + 1),
		UniqueID:     uid,
		Category:     category,
		CategoryName: category,
		CategoryType: model.CategoryTypeModel,
		Name:         familyName + " " + uid,
		Kind:         model.KindFamilyInstance,
		FamilyName:   familyName,
		HasMEPModel:  true,
		Location:     &model.Location{Point: &model.XYZ{}},
	})
}

// Fitting adds a pipe fitting
func (b *Builder) Fitting(uid string) *Builder {
	return b.Family(uid, model.CategoryPipeFitting, "Elbow - Generic")
}

// Accessory adds a pipe accessory
func (b *Builder) Accessory(uid string) *Builder {
	return b.Family(uid, model.CategoryPipeAccessory, "Strainer")
}

// Equipment adds a mechanical equipment family instance
func (b *Builder) Equipment(uid, familyName string) *Builder {
	return b.Family(uid, model.CategoryMechanicalEquipment, familyName)
}

// Connector adds a connector to an element and returns its id
func (b *Builder) Connector(uid string, dir model.FlowDirection) string {
	el := b.mustElement(uid)
	id := fmt.Sprintf("%s#%d", uid, len(el.Connectors))
	el.Connectors = append(el.Connectors, model.Connector{ID: id, Direction: dir})
	return id
}

// Ref adds a one-way reference from connector fromID on element uid
func (b *Builder) Ref(uid, fromID, toID string) *Builder {
	el := b.mustElement(uid)
	for i := range el.Connectors {
		if el.Connectors[i].ID == fromID {
			el.Connectors[i].Refs = append(el.Connectors[i].Refs, toID)
			return b
		}
	}
	panic("modeltest: unknown connector " + fromID)
}

// Connect joins a new connector on a (direction da) with a new connector on
// c (direction dc), referencing each other.
func (b *Builder) Connect(a string, da model.FlowDirection, c string, dc model.FlowDirection) *Builder {
	ca := b.Connector(a, da)
	cc := b.Connector(c, dc)
	b.Ref(a, ca, cc)
	b.Ref(c, cc, ca)
	return b
}

// Mutate applies fn to an already added element
func (b *Builder) Mutate(uid string, fn func(el *model.Element)) *Builder {
	fn(b.mustElement(uid))
	return b
}

// Site sets the site anchor
func (b *Builder) Site(latRad, lonRad float64) *Builder {
	b.doc.Site = model.Site{LatitudeRad: latRad, LongitudeRad: lonRad}
	return b
}

// Doc returns the assembled document
func (b *Builder) Doc() *model.Document {
	doc := b.doc
	return &doc
}

func (b *Builder) mustElement(uid string) *model.Element {
	i, ok := b.index[uid]
	if !ok {
		panic("modeltest: unknown element " + uid)
	}
	return &b.doc.Elements[i]
}
