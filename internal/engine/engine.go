// Package engine defines the narrow, capability-style surface this service
// consumes from a native presentation engine. Every accessor is optional:
// implementations may return ErrUnsupported (or any error, or panic) for
// capabilities they do not carry, and callers must degrade to defaults.
package engine

import (
	"errors"
	"time"
)

// ErrUnsupported marks a capability the underlying engine does not expose
// for this document or shape kind.
var ErrUnsupported = errors.New("engine: capability not supported")

// ErrDisposed is returned by handles used after the document was disposed.
var ErrDisposed = errors.New("engine: document disposed")

// Document is the top-level handle to a parsed presentation. Exactly one
// component disposes it, and only after all extraction has completed.
type Document interface {
	SlideCount() (int, error)
	Slide(index int) (Slide, error)
	Properties() (Properties, error)
	Security() (Security, error)
	Masters() ([]Master, error)
	SlideSize() (Size, error)
	FileSize() (int64, error)

	// AddSlide inserts a new slide at the given index using the named
	// layout and returns a builder for it. Used by reconstruction only.
	AddSlide(index int, layout string) (SlideBuilder, error)

	Dispose() error
}

// Properties is the raw document property block.
type Properties struct {
	Title          string
	Author         string
	Subject        string
	Keywords       string
	Comments       string
	LastModifiedBy string
	Revision       int
	Created        time.Time
	Modified       time.Time
}

// Security is the raw document security block.
type Security struct {
	Encrypted         bool
	PasswordProtected bool
	WriteProtected    bool
}

// Master names a master slide and its layouts.
type Master struct {
	Name    string
	Layouts []string
}

// Size is the slide canvas dimensions in document units.
type Size struct {
	Width       float64
	Height      float64
	Orientation string
	Type        string
}

// Slide is a handle to one slide of the document graph.
type Slide interface {
	ID() (int, error)
	Name() (string, error)
	Hidden() (bool, error)
	Shapes() ([]Shape, error)
	Background() (Fill, error)
	NotesText() (string, error)
	Transition() (Transition, error)
	Animations() ([]Animation, error)
	Comments() ([]Comment, error)
	Placeholders() ([]Placeholder, error)
}

// Transition is the raw slide transition block.
type Transition struct {
	Type           string
	Speed          string
	AdvanceOnClick bool
	AdvanceAfter   float64
}

// Animation is one raw animation sequence entry.
type Animation struct {
	ShapeID     int
	Effect      string
	TriggerType string
	Duration    float64
	Delay       float64
}

// Comment is one raw authored slide comment.
type Comment struct {
	Author  string
	Text    string
	Created time.Time
}

// Placeholder is one raw layout placeholder.
type Placeholder struct {
	Type  string
	Index int
}

// Shape is a handle to one shape. Accessors for format blocks and
// type-specific payloads return ErrUnsupported when the shape kind does
// not carry them.
type Shape interface {
	ID() (int, error)
	Name() (string, error)
	Kind() (string, error)
	Geometry() (Geometry, error)

	Fill() (Fill, error)
	Line() (Line, error)
	Effects() (Effects, error)
	ThreeD() (ThreeD, error)

	TextFrame() (TextFrame, error)
	Hyperlink() (Hyperlink, error)

	Chart() (Chart, error)
	Table() (Table, error)
	SmartArt() (SmartArt, error)
	Media() (Media, error)
	Ole() (Ole, error)
	Children() ([]Shape, error)
}

// Geometry is the raw shape transform.
type Geometry struct {
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64
}

// Hyperlink is the raw click action of a shape or portion.
type Hyperlink struct {
	URL         string
	TargetSlide int
	Tooltip     string
}

// Ole is the raw embedded-object block.
type Ole struct {
	ProgID     string
	ObjectName string
	IsLinked   bool
	Data       []byte
}

// Fill is a handle to a fill format block.
type Fill interface {
	Type() (string, error)
	Color() (string, error)
	Opacity() (float64, error)
	GradientStops() ([]string, error)
	GradientAngle() (float64, error)
	PatternStyle() (string, error)
	ImageRef() (string, error)
}

// Line is a handle to a line format block.
type Line interface {
	Width() (float64, error)
	Color() (string, error)
	DashStyle() (string, error)
	CapStyle() (string, error)
	JoinStyle() (string, error)
}

// Effects is a handle to an effect format block.
type Effects interface {
	ShadowColor() (string, error)
	ShadowBlur() (float64, error)
	GlowColor() (string, error)
	GlowRadius() (float64, error)
	HasReflection() (bool, error)
	HasSoftEdge() (bool, error)
}

// ThreeD is a handle to a 3-D format block.
type ThreeD interface {
	Depth() (float64, error)
	ContourWidth() (float64, error)
	ExtrusionColor() (string, error)
	Material() (string, error)
	Lighting() (string, error)
	CameraType() (string, error)
}

// TextFrame is a handle to a shape's text body.
type TextFrame interface {
	Paragraphs() ([]Paragraph, error)
	WordWrap() (bool, error)
	Anchor() (string, error)
	Autofit() (string, error)
}

// Paragraph is a handle to one paragraph.
type Paragraph interface {
	Portions() ([]Portion, error)
	Alignment() (string, error)
	IndentLevel() (int, error)
	BulletType() (string, error)
	BulletChar() (string, error)
}

// Portion is a handle to one uniformly formatted text run.
type Portion interface {
	Text() (string, error)
	FontName() (string, error)
	FontSize() (float64, error)
	Bold() (bool, error)
	Italic() (bool, error)
	Underline() (bool, error)
	Color() (string, error)
}

// Chart is a handle to a chart payload.
type Chart interface {
	Type() (string, error)
	Title() (string, error)
	Categories() ([]string, error)
	Series() ([]Series, error)
	HasLegend() (bool, error)
}

// Series is a handle to one chart series.
type Series interface {
	Name() (string, error)
	Values() ([]float64, error)
}

// Table is a handle to a table payload.
type Table interface {
	Rows() ([]Row, error)
	ColumnWidths() ([]float64, error)
	RowHeights() ([]float64, error)
}

// Row is a handle to one table row.
type Row interface {
	Cells() ([]Cell, error)
}

// Cell is a handle to one table cell.
type Cell interface {
	Text() (string, error)
	ColSpan() (int, error)
	RowSpan() (int, error)
}

// SmartArt is a handle to a smartArt payload.
type SmartArt interface {
	Layout() (string, error)
	Nodes() ([]SmartArtNode, error)
}

// SmartArtNode is one flattened diagram node.
type SmartArtNode struct {
	Text  string
	Level int
}

// Media is a handle to an embedded or linked media payload.
type Media interface {
	ContentType() (string, error)
	Filename() (string, error)
	Embedded() (bool, error)
	LinkURL() (string, error)
	Data() ([]byte, error)
}
