package schema

// ShapeType tags a UniversalShape with its concrete kind. Exactly one
// type-specific payload field on the shape must match the tag.
type ShapeType string

// Supported shape kinds.
const (
	ShapeRectangle ShapeType = "rectangle"
	ShapeEllipse   ShapeType = "ellipse"
	ShapeLine      ShapeType = "line"
	ShapeTextBox   ShapeType = "textbox"
	ShapePicture   ShapeType = "picture"
	ShapeVideo     ShapeType = "video"
	ShapeAudio     ShapeType = "audio"
	ShapeChart     ShapeType = "chart"
	ShapeTable     ShapeType = "table"
	ShapeSmartArt  ShapeType = "smartArt"
	ShapeOleObject ShapeType = "oleObject"
	ShapeGroup     ShapeType = "group"
	ShapeConnector ShapeType = "connector"
	ShapeAuto      ShapeType = "autoShape"
	ShapeUnknown   ShapeType = "unknown"
)

// Valid reports whether t is one of the supported shape kinds.
func (t ShapeType) Valid() bool {
	switch t {
	case ShapeRectangle, ShapeEllipse, ShapeLine, ShapeTextBox, ShapePicture,
		ShapeVideo, ShapeAudio, ShapeChart, ShapeTable, ShapeSmartArt,
		ShapeOleObject, ShapeGroup, ShapeConnector, ShapeAuto, ShapeUnknown:
		return true
	}
	return false
}

// UniversalShape is one shape on a slide. Geometry is always present;
// format blocks are nil when the source shape does not carry them or the
// engine could not surface them.
type UniversalShape struct {
	ShapeID   int       `json:"shapeId,omitempty"`
	Name      string    `json:"name,omitempty"`
	ShapeType ShapeType `json:"shapeType"`
	Geometry  Geometry  `json:"geometry"`

	Fill    *FillFormat   `json:"fill,omitempty"`
	Line    *LineFormat   `json:"line,omitempty"`
	Effects *EffectFormat `json:"effects,omitempty"`
	ThreeD  *ThreeDFormat `json:"threeD,omitempty"`

	TextFrame *TextFrame `json:"textFrame,omitempty"`
	Hyperlink *Hyperlink `json:"hyperlink,omitempty"`

	// Type-specific payloads. At most one is set, and it must agree with
	// ShapeType; Validate enforces this.
	Chart    *ChartData       `json:"chart,omitempty"`
	Table    *TableData       `json:"table,omitempty"`
	SmartArt *SmartArtData    `json:"smartArt,omitempty"`
	Media    *MediaReference  `json:"media,omitempty"`
	Ole      *OleObjectData   `json:"ole,omitempty"`
	Shapes   []UniversalShape `json:"shapes,omitempty"` // group children
}

// Geometry is the shape transform in document units.
type Geometry struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation,omitempty"`
}

// FillFormat describes a solid, gradient, pattern or picture fill.
type FillFormat struct {
	Type          string   `json:"type"`
	Color         string   `json:"color,omitempty"`
	Opacity       float64  `json:"opacity,omitempty"`
	GradientStops []string `json:"gradientStops,omitempty"`
	GradientAngle float64  `json:"gradientAngle,omitempty"`
	PatternStyle  string   `json:"patternStyle,omitempty"`
	ImageRef      string   `json:"imageRef,omitempty"`
}

// LineFormat describes the shape outline.
type LineFormat struct {
	Width     float64 `json:"width,omitempty"`
	Color     string  `json:"color,omitempty"`
	DashStyle string  `json:"dashStyle,omitempty"`
	CapStyle  string  `json:"capStyle,omitempty"`
	JoinStyle string  `json:"joinStyle,omitempty"`
}

// EffectFormat enumerates visible effects applied to the shape.
type EffectFormat struct {
	HasShadow     bool    `json:"hasShadow,omitempty"`
	ShadowColor   string  `json:"shadowColor,omitempty"`
	ShadowBlur    float64 `json:"shadowBlur,omitempty"`
	HasGlow       bool    `json:"hasGlow,omitempty"`
	GlowColor     string  `json:"glowColor,omitempty"`
	GlowRadius    float64 `json:"glowRadius,omitempty"`
	HasReflection bool    `json:"hasReflection,omitempty"`
	HasSoftEdge   bool    `json:"hasSoftEdge,omitempty"`
}

// ThreeDFormat describes 3-D rendering attributes.
type ThreeDFormat struct {
	Depth          float64 `json:"depth,omitempty"`
	ContourWidth   float64 `json:"contourWidth,omitempty"`
	ExtrusionColor string  `json:"extrusionColor,omitempty"`
	Material       string  `json:"material,omitempty"`
	Lighting       string  `json:"lighting,omitempty"`
	CameraType     string  `json:"cameraType,omitempty"`
}

// TextFrame holds the shape's text as ordered paragraphs.
type TextFrame struct {
	Paragraphs  []Paragraph `json:"paragraphs"`
	WordWrap    bool        `json:"wordWrap,omitempty"`
	AnchorType  string      `json:"anchorType,omitempty"`
	AutofitType string      `json:"autofitType,omitempty"`
}

// PlainText concatenates every portion's text, one line per paragraph.
func (f *TextFrame) PlainText() string {
	if f == nil {
		return ""
	}
	var out string
	for i, p := range f.Paragraphs {
		if i > 0 {
			out += "\n"
		}
		for _, r := range p.Portions {
			out += r.Text
		}
	}
	return out
}

// Paragraph is one paragraph with its run sequence.
type Paragraph struct {
	Portions    []Portion `json:"portions"`
	Alignment   string    `json:"alignment,omitempty"`
	IndentLevel int       `json:"indentLevel,omitempty"`
	BulletType  string    `json:"bulletType,omitempty"`
	BulletChar  string    `json:"bulletChar,omitempty"`
}

// Portion is a run of uniformly formatted text.
type Portion struct {
	Text string      `json:"text"`
	Font *FontFormat `json:"font,omitempty"`
}

// FontFormat is the character formatting for one portion.
type FontFormat struct {
	Name      string  `json:"name,omitempty"`
	Size      float64 `json:"size,omitempty"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Underline bool    `json:"underline,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// Hyperlink is a click action attached to a shape or portion.
type Hyperlink struct {
	URL         string `json:"url,omitempty"`
	TargetSlide int    `json:"targetSlide,omitempty"`
	Tooltip     string `json:"tooltip,omitempty"`
}

// ChartData is the payload for chart shapes.
type ChartData struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title,omitempty"`
	Categories []string      `json:"categories,omitempty"`
	Series     []ChartSeries `json:"series,omitempty"`
	HasLegend  bool          `json:"hasLegend,omitempty"`
}

// ChartSeries is one data series within a chart.
type ChartSeries struct {
	Name   string    `json:"name,omitempty"`
	Values []float64 `json:"values"`
}

// TableData is the payload for table shapes.
type TableData struct {
	Rows             [][]TableCell `json:"rows"`
	ColumnWidths     []float64     `json:"columnWidths,omitempty"`
	RowHeights       []float64     `json:"rowHeights,omitempty"`
	FirstRowIsHeader bool          `json:"firstRowIsHeader,omitempty"`
}

// TableCell is one cell in a table row.
type TableCell struct {
	Text    string `json:"text"`
	ColSpan int    `json:"colSpan,omitempty"`
	RowSpan int    `json:"rowSpan,omitempty"`
}

// SmartArtData is the payload for smartArt shapes.
type SmartArtData struct {
	Layout string         `json:"layout,omitempty"`
	Nodes  []SmartArtNode `json:"nodes,omitempty"`
}

// SmartArtNode is one node in a smartArt diagram, flattened with a level.
type SmartArtNode struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// MediaReference is the payload for picture, video and audio shapes. It
// points at the extracted asset rather than embedding bytes in the schema.
type MediaReference struct {
	AssetID     string `json:"assetId,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Embedded    bool   `json:"embedded"`
	LinkURL     string `json:"linkUrl,omitempty"`
}

// OleObjectData is the payload for embedded OLE objects.
type OleObjectData struct {
	ProgID       string `json:"progId,omitempty"`
	ObjectName   string `json:"objectName,omitempty"`
	IsLinked     bool   `json:"isLinked,omitempty"`
	SizeBytes    int64  `json:"sizeBytes,omitempty"`
}
