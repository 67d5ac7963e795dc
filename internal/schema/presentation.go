// Package schema defines the engine-independent Universal Schema for
// presentations, slides, shapes and extracted assets.
package schema

import (
	"time"
)

// SchemaVersion is the version tag written into every UniversalPresentation.
const SchemaVersion = "1.0"

// UniversalPresentation is the top-level engine-independent representation
// of a presentation document.
type UniversalPresentation struct {
	Version    string               `json:"version"`
	Slides     []UniversalSlide     `json:"slides" validate:"min=1"`
	Properties DocumentProperties   `json:"properties"`
	Security   SecurityInfo         `json:"security"`
	Masters    []MasterSlide        `json:"masters,omitempty"`
	SlideSize  SlideSize            `json:"slideSize"`
	Metadata   PresentationMetadata `json:"metadata"`
}

// DocumentProperties carries the document-level property block.
type DocumentProperties struct {
	Title          string     `json:"title,omitempty"`
	Author         string     `json:"author,omitempty"`
	Subject        string     `json:"subject,omitempty"`
	Keywords       string     `json:"keywords,omitempty"`
	Comments       string     `json:"comments,omitempty"`
	LastModifiedBy string     `json:"lastModifiedBy,omitempty"`
	RevisionNumber int        `json:"revisionNumber,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	ModifiedAt     *time.Time `json:"modifiedAt,omitempty"`
}

// SecurityInfo carries the document security flags.
type SecurityInfo struct {
	Encrypted         bool `json:"encrypted"`
	PasswordProtected bool `json:"passwordProtected"`
	WriteProtected    bool `json:"writeProtected"`
}

// MasterSlide names a master slide and its layout sequence.
type MasterSlide struct {
	Name    string   `json:"name"`
	Layouts []string `json:"layouts,omitempty"`
}

// SlideSize describes the slide canvas.
type SlideSize struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Orientation string  `json:"orientation,omitempty"`
	Type        string  `json:"type,omitempty"`
}

// PresentationMetadata holds aggregate counts computed during extraction.
// SlideCount must equal len(Slides) once the presentation is finalized.
type PresentationMetadata struct {
	SlideCount     int   `json:"slideCount"`
	ShapeCount     int   `json:"shapeCount"`
	ImageCount     int   `json:"imageCount"`
	AnimationCount int   `json:"animationCount"`
	TotalFileSize  int64 `json:"totalFileSize,omitempty"`
}

// UniversalSlide is one slide in presentation order. Shapes are ordered by
// z-order ascending and that order must survive reconstruction.
type UniversalSlide struct {
	SlideID      int              `json:"slideId" validate:"gt=0"`
	SlideIndex   int              `json:"slideIndex" validate:"gte=0"`
	Name         string           `json:"name,omitempty"`
	Shapes       []UniversalShape `json:"shapes"`
	Background   *FillFormat      `json:"background,omitempty"`
	Transition   *Transition      `json:"transition,omitempty"`
	Timing       *SlideTiming     `json:"timing,omitempty"`
	Animations   []Animation      `json:"animations,omitempty"`
	Comments     []SlideComment   `json:"comments,omitempty"`
	Placeholders []Placeholder    `json:"placeholders,omitempty"`
	NotesText    string           `json:"notesText,omitempty"`
	Hidden       bool             `json:"hidden"`

	// Warnings collects non-fatal degradations recorded while this slide
	// was extracted (missing accessors, skipped shapes).
	Warnings []string `json:"warnings,omitempty"`
}

// Transition describes the slide transition effect.
type Transition struct {
	Type           string  `json:"type"`
	Speed          string  `json:"speed,omitempty"`
	AdvanceOnClick bool    `json:"advanceOnClick"`
	AdvanceAfter   float64 `json:"advanceAfterSeconds,omitempty"`
}

// SlideTiming describes automatic slide timing.
type SlideTiming struct {
	Duration float64 `json:"durationSeconds,omitempty"`
	Repeat   bool    `json:"repeat,omitempty"`
}

// Animation is one entry in a slide's animation sequence.
type Animation struct {
	ShapeID     int     `json:"shapeId,omitempty"`
	Effect      string  `json:"effect"`
	TriggerType string  `json:"triggerType,omitempty"`
	Duration    float64 `json:"durationSeconds,omitempty"`
	Delay       float64 `json:"delaySeconds,omitempty"`
}

// SlideComment is an authored comment attached to a slide.
type SlideComment struct {
	Author    string     `json:"author,omitempty"`
	Text      string     `json:"text"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// Placeholder describes a layout placeholder on the slide.
type Placeholder struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}
