package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-mepflow/pkg/model"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxUniqueIDLength bounds host unique ids (GUID + hex suffix is 45 chars)
	MaxUniqueIDLength = 128
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "yaml"} {
			name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// ValidateStruct checks the validate tags of any struct
func ValidateStruct(v any) error {
	return formatValidationError(validate.Struct(v))
}

// ValidateElement checks that a snapshot element is well formed enough to be
// placed in the connector graph and exported.
func ValidateElement(el *model.Element) error {
	if el == nil {
		return errors.New("element cannot be nil")
	}

	if err := validate.Struct(el); err != nil {
		return formatValidationError(err)
	}

	if len(el.UniqueID) > MaxUniqueIDLength {
		return fmt.Errorf("unique_id: exceeds maximum length of %d characters", MaxUniqueIDLength)
	}

	seen := make(map[string]struct{}, len(el.Connectors))
	for i, c := range el.Connectors {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("connectors[%d]: duplicate connector id %q", i, c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	return ValidateLocation(el.Location)
}

// ValidateLocation checks a location. A nil location is valid: the element
// simply produces no points.
func ValidateLocation(loc *model.Location) error {
	if loc == nil {
		return nil
	}

	if loc.Point != nil && len(loc.Curve) > 0 {
		return errors.New("location: has both a point and a curve")
	}

	if loc.Point != nil {
		if !loc.Point.IsFinite() {
			return errors.New("location.point: coordinates must be finite")
		}
		return nil
	}

	if len(loc.Curve) == 0 {
		return nil
	}
	if len(loc.Curve) != 2 {
		return fmt.Errorf("location.curve: expected 2 endpoints, got %d", len(loc.Curve))
	}
	for i, p := range loc.Curve {
		if !p.IsFinite() {
			return fmt.Errorf("location.curve[%d]: coordinates must be finite", i)
		}
	}
	return nil
}

// ValidateSite checks that the site anchor is a plausible latitude/longitude
// pair in radians.
func ValidateSite(site model.Site) error {
	return NewConfigValidator("site").
		RangeFloat("latitude_rad", site.LatitudeRad, -math.Pi/2, math.Pi/2).
		RangeFloat("longitude_rad", site.LongitudeRad, -math.Pi, math.Pi).
		Validate()
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "oneof":
			return fmt.Errorf("%s: %q must be one of [%s]", field, e.Value(), param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "required_if":
			return fmt.Errorf("%s: field is required when %s", field, param)
		case "required_with":
			return fmt.Errorf("%s: field is required with %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
