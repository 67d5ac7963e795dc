package engine

// SlideBuilder assembles a native slide during reconstruction.
type SlideBuilder interface {
	SetName(name string) error
	SetHidden(hidden bool) error
	SetNotesText(text string) error

	// AddShape appends a shape of the given native kind at the end of the
	// slide's z-order and returns a builder for it.
	AddShape(kind string, geom Geometry) (ShapeBuilder, error)
}

// ShapeBuilder assembles a native shape during reconstruction.
type ShapeBuilder interface {
	SetName(name string) error
	SetFill(spec FillSpec) error
	SetLine(spec LineSpec) error
	SetHyperlink(link Hyperlink) error
	AddParagraph(spec ParagraphSpec) error
	SetChart(spec ChartSpec) error
	SetTable(spec TableSpec) error

	// AddChild appends a nested shape; valid only on group shapes.
	AddChild(kind string, geom Geometry) (ShapeBuilder, error)
}

// FillSpec is the fill state applied during reconstruction.
type FillSpec struct {
	Type    string
	Color   string
	Opacity float64
}

// LineSpec is the outline state applied during reconstruction.
type LineSpec struct {
	Width     float64
	Color     string
	DashStyle string
}

// ParagraphSpec is one paragraph written during reconstruction.
type ParagraphSpec struct {
	Alignment   string
	IndentLevel int
	Portions    []PortionSpec
}

// PortionSpec is one text run written during reconstruction.
type PortionSpec struct {
	Text      string
	FontName  string
	FontSize  float64
	Bold      bool
	Italic    bool
	Underline bool
	Color     string
}

// ChartSpec is the chart payload written during reconstruction.
type ChartSpec struct {
	Type       string
	Title      string
	Categories []string
	Series     []SeriesSpec
}

// SeriesSpec is one chart series written during reconstruction.
type SeriesSpec struct {
	Name   string
	Values []float64
}

// TableSpec is the table payload written during reconstruction.
type TableSpec struct {
	Rows         [][]CellSpec
	ColumnWidths []float64
}

// CellSpec is one table cell written during reconstruction.
type CellSpec struct {
	Text    string
	ColSpan int
	RowSpan int
}
