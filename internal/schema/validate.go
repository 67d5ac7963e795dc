package schema

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// maxGroupDepth bounds group recursion during validation. Real documents
// stay well under this; anything deeper is treated as malformed.
const maxGroupDepth = 32

// ValidatePresentation checks the presentation-level invariants and every
// slide. It returns the first violation found.
func ValidatePresentation(p *UniversalPresentation) error {
	if p == nil {
		return fmt.Errorf("presentation is nil")
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("presentation failed schema validation: %w", err)
	}
	if p.Version == "" {
		return fmt.Errorf("presentation version is empty")
	}
	if p.Metadata.SlideCount != len(p.Slides) {
		return fmt.Errorf("metadata.slideCount %d does not match %d slides",
			p.Metadata.SlideCount, len(p.Slides))
	}
	for i := range p.Slides {
		if err := ValidateSlide(&p.Slides[i]); err != nil {
			return fmt.Errorf("slide %d: %w", i, err)
		}
	}
	return nil
}

// ValidateSlide checks one slide's invariants: positive slide id and
// well-formed shapes.
func ValidateSlide(s *UniversalSlide) error {
	if s == nil {
		return fmt.Errorf("slide is nil")
	}
	if s.SlideID <= 0 {
		return fmt.Errorf("slideId must be a positive integer, got %d", s.SlideID)
	}
	for i := range s.Shapes {
		if err := validateShape(&s.Shapes[i], 0); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
	}
	return nil
}

func validateShape(sh *UniversalShape, depth int) error {
	if depth > maxGroupDepth {
		return fmt.Errorf("group nesting exceeds %d levels", maxGroupDepth)
	}
	if !sh.ShapeType.Valid() {
		return fmt.Errorf("unknown shapeType %q", sh.ShapeType)
	}
	if err := validatePayload(sh); err != nil {
		return err
	}
	// Degenerate lines and connectors may legitimately collapse to zero
	// width or height; everything else must have a positive extent.
	switch sh.ShapeType {
	case ShapeLine, ShapeConnector:
	default:
		if sh.Geometry.Width < 0 || sh.Geometry.Height < 0 {
			return fmt.Errorf("negative geometry %gx%g", sh.Geometry.Width, sh.Geometry.Height)
		}
	}
	for i := range sh.Shapes {
		if err := validateShape(&sh.Shapes[i], depth+1); err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
	}
	return nil
}

// validatePayload enforces agreement between ShapeType and the single
// type-specific payload carried by the shape.
func validatePayload(sh *UniversalShape) error {
	set := 0
	if sh.Chart != nil {
		set++
		if sh.ShapeType != ShapeChart {
			return fmt.Errorf("chart payload on %q shape", sh.ShapeType)
		}
	}
	if sh.Table != nil {
		set++
		if sh.ShapeType != ShapeTable {
			return fmt.Errorf("table payload on %q shape", sh.ShapeType)
		}
	}
	if sh.SmartArt != nil {
		set++
		if sh.ShapeType != ShapeSmartArt {
			return fmt.Errorf("smartArt payload on %q shape", sh.ShapeType)
		}
	}
	if sh.Media != nil {
		set++
		switch sh.ShapeType {
		case ShapePicture, ShapeVideo, ShapeAudio:
		default:
			return fmt.Errorf("media payload on %q shape", sh.ShapeType)
		}
	}
	if sh.Ole != nil {
		set++
		if sh.ShapeType != ShapeOleObject {
			return fmt.Errorf("ole payload on %q shape", sh.ShapeType)
		}
	}
	if len(sh.Shapes) > 0 {
		set++
		if sh.ShapeType != ShapeGroup {
			return fmt.Errorf("nested shapes on %q shape", sh.ShapeType)
		}
	}
	if set > 1 {
		return fmt.Errorf("shape carries %d type-specific payloads, want at most one", set)
	}
	return nil
}

// ValidateMetadata reports whether an asset metadata document satisfies
// its invariants. It returns a boolean rather than an error so callers
// can choose between rejecting and flagging.
func ValidateMetadata(m *AssetMetadata) bool {
	if m == nil {
		return false
	}
	if m.ExtractedAt.IsZero() {
		return false
	}
	if err := validate.Struct(m); err != nil {
		return false
	}
	if m.Quality != nil && m.Quality.Quality != "" {
		switch m.Quality.Quality {
		case "low", "medium", "high", "lossless":
		default:
			return false
		}
	}
	return true
}
