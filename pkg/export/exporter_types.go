package export

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-mepflow/pkg/connectivity"
	"github.com/dd0wney/cluso-mepflow/pkg/geo"
	"github.com/dd0wney/cluso-mepflow/pkg/logging"
	"github.com/dd0wney/cluso-mepflow/pkg/metrics"
	"github.com/dd0wney/cluso-mepflow/pkg/model"
)

// Variant selects the connectivity columns of an export
type Variant string

const (
	// VariantFlow writes per-category inlet/outlet columns
	VariantFlow Variant = "flow"
	// VariantLegacy writes the single Connected_UniqueIDs column
	VariantLegacy Variant = "legacy"
)

// ParseVariant validates a variant name
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantFlow, VariantLegacy:
		return Variant(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// Skip reasons
const (
	ReasonElementFault = "element_fault"
	ReasonGeometry     = "geometry"
	ReasonConnectivity = "connectivity"
)

// Options controls one export run
type Options struct {
	Variant Variant
	// SkipAccessories resolves through fittings and accessories and drops
	// them from the exported element set. Ignored by the legacy variant.
	SkipAccessories bool
}

// Outcome is the result of one element that was dropped from the export
type Outcome struct {
	UniqueID string
	Reason   string
	Err      error
}

func (o Outcome) String() string {
	return fmt.Sprintf("%s skipped (%s): %v", o.UniqueID, o.Reason, o.Err)
}

// Summary describes a finished export run
type Summary struct {
	RunID    string
	Variant  Variant
	Location string
	Started  time.Time
	Duration time.Duration
	// Visited counts elements that passed the category filter
	Visited int
	// Exported counts visited elements that were not skipped, including
	// those without a location and therefore without rows
	Exported int
	Rows     int
	Skipped  []Outcome
}

// SkipCount returns the number of skipped elements
func (s *Summary) SkipCount() int {
	return len(s.Skipped)
}

// Exporter runs CSV exports over one connector graph
type Exporter struct {
	resolver   *connectivity.Resolver
	projection geo.Projection
	logger     logging.Logger
	metrics    *metrics.Registry
	now        func() time.Time
}

// NewExporter creates an exporter. A nil logger discards logs and a nil
// registry disables metrics.
func NewExporter(resolver *connectivity.Resolver, projection geo.Projection, logger logging.Logger, reg *metrics.Registry) *Exporter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Exporter{
		resolver:   resolver,
		projection: projection,
		logger:     logger.With(logging.Component("export")),
		metrics:    reg,
		now:        time.Now,
	}
}

// Categories returns the element categories exported with opts
func Categories(opts Options) []string {
	cats := []string{
		model.CategoryPipeCurves,
		model.CategoryMechanicalEquipment,
		model.CategoryPlumbingFixtures,
	}
	if opts.Variant == VariantLegacy || !opts.SkipAccessories {
		cats = append(cats, model.CategoryPipeFitting, model.CategoryPipeAccessory)
	}
	return cats
}
