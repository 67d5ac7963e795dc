package enginetest

import (
	"github.com/example/slideconv/internal/engine"
)

// FakeFill is an in-memory fill format handle.
type FakeFill struct {
	Faults

	FillType string
	Hex      string
	Alpha    float64
	Stops    []string
	Angle    float64
	Pattern  string
	Image    string
}

var _ engine.Fill = (*FakeFill)(nil)

func (f *FakeFill) Type() (string, error) {
	if err := f.check("Type"); err != nil {
		return "", err
	}
	return f.FillType, nil
}

func (f *FakeFill) Color() (string, error) {
	if err := f.check("Color"); err != nil {
		return "", err
	}
	return f.Hex, nil
}

func (f *FakeFill) Opacity() (float64, error) {
	if err := f.check("Opacity"); err != nil {
		return 0, err
	}
	return f.Alpha, nil
}

func (f *FakeFill) GradientStops() ([]string, error) {
	if err := f.check("GradientStops"); err != nil {
		return nil, err
	}
	if f.Stops == nil {
		return nil, engine.ErrUnsupported
	}
	return f.Stops, nil
}

func (f *FakeFill) GradientAngle() (float64, error) {
	if err := f.check("GradientAngle"); err != nil {
		return 0, err
	}
	return f.Angle, nil
}

func (f *FakeFill) PatternStyle() (string, error) {
	if err := f.check("PatternStyle"); err != nil {
		return "", err
	}
	return f.Pattern, nil
}

func (f *FakeFill) ImageRef() (string, error) {
	if err := f.check("ImageRef"); err != nil {
		return "", err
	}
	return f.Image, nil
}

// FakeLine is an in-memory line format handle.
type FakeLine struct {
	Faults

	W    float64
	Hex  string
	Dash string
	Cap  string
	Join string
}

var _ engine.Line = (*FakeLine)(nil)

func (l *FakeLine) Width() (float64, error) {
	if err := l.check("Width"); err != nil {
		return 0, err
	}
	return l.W, nil
}

func (l *FakeLine) Color() (string, error) {
	if err := l.check("Color"); err != nil {
		return "", err
	}
	return l.Hex, nil
}

func (l *FakeLine) DashStyle() (string, error) {
	if err := l.check("DashStyle"); err != nil {
		return "", err
	}
	return l.Dash, nil
}

func (l *FakeLine) CapStyle() (string, error) {
	if err := l.check("CapStyle"); err != nil {
		return "", err
	}
	return l.Cap, nil
}

func (l *FakeLine) JoinStyle() (string, error) {
	if err := l.check("JoinStyle"); err != nil {
		return "", err
	}
	return l.Join, nil
}

// FakeEffects is an in-memory effect format handle.
type FakeEffects struct {
	Faults

	Shadow     string
	Blur       float64
	Glow       string
	Radius     float64
	Reflection bool
	SoftEdge   bool
}

var _ engine.Effects = (*FakeEffects)(nil)

func (e *FakeEffects) ShadowColor() (string, error) {
	if err := e.check("ShadowColor"); err != nil {
		return "", err
	}
	if e.Shadow == "" {
		return "", engine.ErrUnsupported
	}
	return e.Shadow, nil
}

func (e *FakeEffects) ShadowBlur() (float64, error) {
	if err := e.check("ShadowBlur"); err != nil {
		return 0, err
	}
	return e.Blur, nil
}

func (e *FakeEffects) GlowColor() (string, error) {
	if err := e.check("GlowColor"); err != nil {
		return "", err
	}
	if e.Glow == "" {
		return "", engine.ErrUnsupported
	}
	return e.Glow, nil
}

func (e *FakeEffects) GlowRadius() (float64, error) {
	if err := e.check("GlowRadius"); err != nil {
		return 0, err
	}
	return e.Radius, nil
}

func (e *FakeEffects) HasReflection() (bool, error) {
	if err := e.check("HasReflection"); err != nil {
		return false, err
	}
	return e.Reflection, nil
}

func (e *FakeEffects) HasSoftEdge() (bool, error) {
	if err := e.check("HasSoftEdge"); err != nil {
		return false, err
	}
	return e.SoftEdge, nil
}

// FakeThreeD is an in-memory 3-D format handle.
type FakeThreeD struct {
	Faults

	D       float64
	Contour float64
	Color   string
	Mat     string
	Light   string
	Camera  string
}

var _ engine.ThreeD = (*FakeThreeD)(nil)

func (t *FakeThreeD) Depth() (float64, error) {
	if err := t.check("Depth"); err != nil {
		return 0, err
	}
	return t.D, nil
}

func (t *FakeThreeD) ContourWidth() (float64, error) {
	if err := t.check("ContourWidth"); err != nil {
		return 0, err
	}
	return t.Contour, nil
}

func (t *FakeThreeD) ExtrusionColor() (string, error) {
	if err := t.check("ExtrusionColor"); err != nil {
		return "", err
	}
	return t.Color, nil
}

func (t *FakeThreeD) Material() (string, error) {
	if err := t.check("Material"); err != nil {
		return "", err
	}
	return t.Mat, nil
}

func (t *FakeThreeD) Lighting() (string, error) {
	if err := t.check("Lighting"); err != nil {
		return "", err
	}
	return t.Light, nil
}

func (t *FakeThreeD) CameraType() (string, error) {
	if err := t.check("CameraType"); err != nil {
		return "", err
	}
	return t.Camera, nil
}

// FakeTextFrame is an in-memory text body handle.
type FakeTextFrame struct {
	Faults

	Paras   []*FakeParagraph
	Wrap    bool
	AnchorT string
	Fit     string
}

var _ engine.TextFrame = (*FakeTextFrame)(nil)

func (f *FakeTextFrame) Paragraphs() ([]engine.Paragraph, error) {
	if err := f.check("Paragraphs"); err != nil {
		return nil, err
	}
	out := make([]engine.Paragraph, len(f.Paras))
	for i, p := range f.Paras {
		out[i] = p
	}
	return out, nil
}

func (f *FakeTextFrame) WordWrap() (bool, error) {
	if err := f.check("WordWrap"); err != nil {
		return false, err
	}
	return f.Wrap, nil
}

func (f *FakeTextFrame) Anchor() (string, error) {
	if err := f.check("Anchor"); err != nil {
		return "", err
	}
	return f.AnchorT, nil
}

func (f *FakeTextFrame) Autofit() (string, error) {
	if err := f.check("Autofit"); err != nil {
		return "", err
	}
	return f.Fit, nil
}

// FakeParagraph is an in-memory paragraph handle.
type FakeParagraph struct {
	Faults

	Runs   []*FakePortion
	Align  string
	Indent int
	Bullet string
	Char   string
}

var _ engine.Paragraph = (*FakeParagraph)(nil)

func (p *FakeParagraph) Portions() ([]engine.Portion, error) {
	if err := p.check("Portions"); err != nil {
		return nil, err
	}
	out := make([]engine.Portion, len(p.Runs))
	for i, r := range p.Runs {
		out[i] = r
	}
	return out, nil
}

func (p *FakeParagraph) Alignment() (string, error) {
	if err := p.check("Alignment"); err != nil {
		return "", err
	}
	return p.Align, nil
}

func (p *FakeParagraph) IndentLevel() (int, error) {
	if err := p.check("IndentLevel"); err != nil {
		return 0, err
	}
	return p.Indent, nil
}

func (p *FakeParagraph) BulletType() (string, error) {
	if err := p.check("BulletType"); err != nil {
		return "", err
	}
	return p.Bullet, nil
}

func (p *FakeParagraph) BulletChar() (string, error) {
	if err := p.check("BulletChar"); err != nil {
		return "", err
	}
	return p.Char, nil
}

// FakePortion is an in-memory text run handle.
type FakePortion struct {
	Faults

	Txt  string
	Font string
	Sz   float64
	B    bool
	I    bool
	U    bool
	Hex  string
}

var _ engine.Portion = (*FakePortion)(nil)

func (p *FakePortion) Text() (string, error) {
	if err := p.check("Text"); err != nil {
		return "", err
	}
	return p.Txt, nil
}

func (p *FakePortion) FontName() (string, error) {
	if err := p.check("FontName"); err != nil {
		return "", err
	}
	return p.Font, nil
}

func (p *FakePortion) FontSize() (float64, error) {
	if err := p.check("FontSize"); err != nil {
		return 0, err
	}
	return p.Sz, nil
}

func (p *FakePortion) Bold() (bool, error) {
	if err := p.check("Bold"); err != nil {
		return false, err
	}
	return p.B, nil
}

func (p *FakePortion) Italic() (bool, error) {
	if err := p.check("Italic"); err != nil {
		return false, err
	}
	return p.I, nil
}

func (p *FakePortion) Underline() (bool, error) {
	if err := p.check("Underline"); err != nil {
		return false, err
	}
	return p.U, nil
}

func (p *FakePortion) Color() (string, error) {
	if err := p.check("Color"); err != nil {
		return "", err
	}
	return p.Hex, nil
}

// FakeChart is an in-memory chart payload handle.
type FakeChart struct {
	Faults

	Kind   string
	T      string
	Cats   []string
	Ser    []*FakeSeries
	Legend bool
}

var _ engine.Chart = (*FakeChart)(nil)

func (c *FakeChart) Type() (string, error) {
	if err := c.check("Type"); err != nil {
		return "", err
	}
	return c.Kind, nil
}

func (c *FakeChart) Title() (string, error) {
	if err := c.check("Title"); err != nil {
		return "", err
	}
	return c.T, nil
}

func (c *FakeChart) Categories() ([]string, error) {
	if err := c.check("Categories"); err != nil {
		return nil, err
	}
	return c.Cats, nil
}

func (c *FakeChart) Series() ([]engine.Series, error) {
	if err := c.check("Series"); err != nil {
		return nil, err
	}
	out := make([]engine.Series, len(c.Ser))
	for i, s := range c.Ser {
		out[i] = s
	}
	return out, nil
}

func (c *FakeChart) HasLegend() (bool, error) {
	if err := c.check("HasLegend"); err != nil {
		return false, err
	}
	return c.Legend, nil
}

// FakeSeries is one in-memory chart series.
type FakeSeries struct {
	Faults

	SeriesName string
	Vals       []float64
}

var _ engine.Series = (*FakeSeries)(nil)

func (s *FakeSeries) Name() (string, error) {
	if err := s.check("Name"); err != nil {
		return "", err
	}
	return s.SeriesName, nil
}

func (s *FakeSeries) Values() ([]float64, error) {
	if err := s.check("Values"); err != nil {
		return nil, err
	}
	return s.Vals, nil
}

// FakeTable is an in-memory table payload handle.
type FakeTable struct {
	Faults

	RowList []*FakeRow
	Widths  []float64
	Heights []float64
}

var _ engine.Table = (*FakeTable)(nil)

func (t *FakeTable) Rows() ([]engine.Row, error) {
	if err := t.check("Rows"); err != nil {
		return nil, err
	}
	out := make([]engine.Row, len(t.RowList))
	for i, r := range t.RowList {
		out[i] = r
	}
	return out, nil
}

func (t *FakeTable) ColumnWidths() ([]float64, error) {
	if err := t.check("ColumnWidths"); err != nil {
		return nil, err
	}
	return t.Widths, nil
}

func (t *FakeTable) RowHeights() ([]float64, error) {
	if err := t.check("RowHeights"); err != nil {
		return nil, err
	}
	return t.Heights, nil
}

// FakeRow is one in-memory table row.
type FakeRow struct {
	Faults

	CellList []*FakeCell
}

var _ engine.Row = (*FakeRow)(nil)

func (r *FakeRow) Cells() ([]engine.Cell, error) {
	if err := r.check("Cells"); err != nil {
		return nil, err
	}
	out := make([]engine.Cell, len(r.CellList))
	for i, c := range r.CellList {
		out[i] = c
	}
	return out, nil
}

// FakeCell is one in-memory table cell.
type FakeCell struct {
	Faults

	Txt  string
	CSp  int
	RSp  int
}

var _ engine.Cell = (*FakeCell)(nil)

func (c *FakeCell) Text() (string, error) {
	if err := c.check("Text"); err != nil {
		return "", err
	}
	return c.Txt, nil
}

func (c *FakeCell) ColSpan() (int, error) {
	if err := c.check("ColSpan"); err != nil {
		return 0, err
	}
	return c.CSp, nil
}

func (c *FakeCell) RowSpan() (int, error) {
	if err := c.check("RowSpan"); err != nil {
		return 0, err
	}
	return c.RSp, nil
}

// FakeSmartArt is an in-memory smartArt payload handle.
type FakeSmartArt struct {
	Faults

	LayoutName string
	NodeList   []engine.SmartArtNode
}

var _ engine.SmartArt = (*FakeSmartArt)(nil)

func (a *FakeSmartArt) Layout() (string, error) {
	if err := a.check("Layout"); err != nil {
		return "", err
	}
	return a.LayoutName, nil
}

func (a *FakeSmartArt) Nodes() ([]engine.SmartArtNode, error) {
	if err := a.check("Nodes"); err != nil {
		return nil, err
	}
	return a.NodeList, nil
}

// FakeMedia is an in-memory media payload handle.
type FakeMedia struct {
	Faults

	CType    string
	FName    string
	Embed    bool
	Link     string
	Bytes    []byte
}

var _ engine.Media = (*FakeMedia)(nil)

func (m *FakeMedia) ContentType() (string, error) {
	if err := m.check("ContentType"); err != nil {
		return "", err
	}
	return m.CType, nil
}

func (m *FakeMedia) Filename() (string, error) {
	if err := m.check("Filename"); err != nil {
		return "", err
	}
	return m.FName, nil
}

func (m *FakeMedia) Embedded() (bool, error) {
	if err := m.check("Embedded"); err != nil {
		return false, err
	}
	return m.Embed, nil
}

func (m *FakeMedia) LinkURL() (string, error) {
	if err := m.check("LinkURL"); err != nil {
		return "", err
	}
	return m.Link, nil
}

func (m *FakeMedia) Data() ([]byte, error) {
	if err := m.check("Data"); err != nil {
		return nil, err
	}
	return m.Bytes, nil
}
