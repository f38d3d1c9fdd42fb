package model

// ElementKind is the structural class of an element in the host model
type ElementKind string

const (
	// KindPipe is a pipe curve primitive
	KindPipe ElementKind = "pipe"
	// KindFamilyInstance is a placed family (equipment, fitting, accessory, fixture)
	KindFamilyInstance ElementKind = "family_instance"
	// KindOther covers every element that is neither a pipe nor a family instance
	KindOther ElementKind = "other"
)

// FlowDirection is the declared flow direction of a connector
type FlowDirection string

const (
	DirectionIn            FlowDirection = "in"
	DirectionOut           FlowDirection = "out"
	DirectionBidirectional FlowDirection = "bidirectional"
)

// Normalize maps any unrecognized direction to DirectionBidirectional
func (d FlowDirection) Normalize() FlowDirection {
	switch d {
	case DirectionIn, DirectionOut:
		return d
	default:
		return DirectionBidirectional
	}
}

// Built-in category tags used by the exporters
const (
	CategoryPipeCurves          = "OST_PipeCurves"
	CategoryPipeFitting         = "OST_PipeFitting"
	CategoryPipeAccessory       = "OST_PipeAccessory"
	CategoryMechanicalEquipment = "OST_MechanicalEquipment"
	CategoryPlumbingFixtures    = "OST_PlumbingFixtures"
)

// CategoryTypeModel marks categories that hold physical model elements
const CategoryTypeModel = "model"

// Parameter storage types
const (
	StorageString    = "string"
	StorageDouble    = "double"
	StorageInteger   = "integer"
	StorageElementID = "element_id"
	StorageNone      = "none"
)

// Document is a snapshot of a host model
type Document struct {
	Project         string     `json:"project,omitempty" yaml:"project,omitempty"`
	LengthUnit      string     `json:"length_unit,omitempty" yaml:"length_unit,omitempty"`
	Site            Site       `json:"site" yaml:"site"`
	SharedTransform *Transform `json:"shared_transform,omitempty" yaml:"shared_transform,omitempty"`
	BasePoint       *XYZ       `json:"base_point,omitempty" yaml:"base_point,omitempty"`
	Elements        []Element  `json:"elements" yaml:"elements"`
}

// Site is the geographic anchor of the project origin, in radians
type Site struct {
	LatitudeRad  float64 `json:"latitude_rad" yaml:"latitude_rad"`
	LongitudeRad float64 `json:"longitude_rad" yaml:"longitude_rad"`
}

// Element is one host-model entity
type Element struct {
	ID            int64       `json:"id" yaml:"id"`
	UniqueID      string      `json:"unique_id" yaml:"unique_id" validate:"required"`
	Category      string      `json:"category,omitempty" yaml:"category,omitempty"`
	CategoryName  string      `json:"category_name,omitempty" yaml:"category_name,omitempty"`
	CategoryType  string      `json:"category_type,omitempty" yaml:"category_type,omitempty"`
	Name          string      `json:"name" yaml:"name"`
	Kind          ElementKind `json:"kind" yaml:"kind" validate:"omitempty,oneof=pipe family_instance other"`
	FamilyName    string      `json:"family_name,omitempty" yaml:"family_name,omitempty"`
	HasMEPModel   bool        `json:"has_mep_model,omitempty" yaml:"has_mep_model,omitempty"`
	IsElementType bool        `json:"is_element_type,omitempty" yaml:"is_element_type,omitempty"`
	VisibleInView bool        `json:"visible_in_view,omitempty" yaml:"visible_in_view,omitempty"`
	Location      *Location   `json:"location,omitempty" yaml:"location,omitempty"`
	Connectors    []Connector `json:"connectors,omitempty" yaml:"connectors,omitempty" validate:"dive"`
	Parameters    []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty" validate:"dive"`
}

// HasCategory reports whether the element carries a category at all
func (e *Element) HasCategory() bool {
	return e.Category != ""
}

// Location is either a curve with two endpoints or a single point
type Location struct {
	Curve []XYZ `json:"curve,omitempty" yaml:"curve,omitempty"`
	Point *XYZ  `json:"point,omitempty" yaml:"point,omitempty"`
}

// Connector is an attachment point on an element
type Connector struct {
	ID        string        `json:"id" yaml:"id" validate:"required"`
	Direction FlowDirection `json:"direction,omitempty" yaml:"direction,omitempty"`
	Refs      []string      `json:"refs,omitempty" yaml:"refs,omitempty" validate:"dive,required"`
}

// Parameter is one named element property
type Parameter struct {
	Name    string `json:"name" yaml:"name" validate:"required"`
	Storage string `json:"storage,omitempty" yaml:"storage,omitempty"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	Display string `json:"display,omitempty" yaml:"display,omitempty"`
}

// FormattedValue returns the value exported for the parameter's storage type
func (p Parameter) FormattedValue() string {
	switch p.Storage {
	case StorageString, StorageInteger, StorageElementID:
		return p.Value
	case StorageDouble:
		return p.Display
	default:
		return ""
	}
}
