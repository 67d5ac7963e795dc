package enginetest

import (
	"fmt"

	"github.com/example/slideconv/internal/engine"
)

// slideBuilder implements engine.SlideBuilder over a FakeSlide, so
// reconstructed slides can be re-extracted by tests.
type slideBuilder struct {
	slide *FakeSlide
}

var _ engine.SlideBuilder = (*slideBuilder)(nil)

func (b *slideBuilder) SetName(name string) error {
	b.slide.SlideName = name
	return nil
}

func (b *slideBuilder) SetHidden(hidden bool) error {
	b.slide.IsHidden = hidden
	return nil
}

func (b *slideBuilder) SetNotesText(text string) error {
	b.slide.Notes = text
	return nil
}

func (b *slideBuilder) AddShape(kind string, geom engine.Geometry) (engine.ShapeBuilder, error) {
	sh := &FakeShape{
		ShapeID:   len(b.slide.ShapeList) + 1,
		ShapeKind: kind,
		Geom:      geom,
	}
	b.slide.ShapeList = append(b.slide.ShapeList, sh)
	return &shapeBuilder{shape: sh}, nil
}

type shapeBuilder struct {
	shape *FakeShape
}

var _ engine.ShapeBuilder = (*shapeBuilder)(nil)

func (b *shapeBuilder) SetName(name string) error {
	b.shape.ShapeName = name
	return nil
}

func (b *shapeBuilder) SetFill(spec engine.FillSpec) error {
	b.shape.FillF = &FakeFill{
		FillType: spec.Type,
		Hex:      spec.Color,
		Alpha:    spec.Opacity,
	}
	return nil
}

func (b *shapeBuilder) SetLine(spec engine.LineSpec) error {
	b.shape.LineF = &FakeLine{
		W:    spec.Width,
		Hex:  spec.Color,
		Dash: spec.DashStyle,
	}
	return nil
}

func (b *shapeBuilder) SetHyperlink(link engine.Hyperlink) error {
	l := link
	b.shape.Link = &l
	return nil
}

func (b *shapeBuilder) AddParagraph(spec engine.ParagraphSpec) error {
	if b.shape.Text == nil {
		b.shape.Text = &FakeTextFrame{}
	}
	para := &FakeParagraph{
		Align:  spec.Alignment,
		Indent: spec.IndentLevel,
	}
	for _, r := range spec.Portions {
		para.Runs = append(para.Runs, &FakePortion{
			Txt:  r.Text,
			Font: r.FontName,
			Sz:   r.FontSize,
			B:    r.Bold,
			I:    r.Italic,
			U:    r.Underline,
			Hex:  r.Color,
		})
	}
	b.shape.Text.Paras = append(b.shape.Text.Paras, para)
	return nil
}

func (b *shapeBuilder) SetChart(spec engine.ChartSpec) error {
	chart := &FakeChart{
		Kind: spec.Type,
		T:    spec.Title,
		Cats: spec.Categories,
	}
	for _, s := range spec.Series {
		chart.Ser = append(chart.Ser, &FakeSeries{SeriesName: s.Name, Vals: s.Values})
	}
	b.shape.ChartD = chart
	return nil
}

func (b *shapeBuilder) SetTable(spec engine.TableSpec) error {
	table := &FakeTable{Widths: spec.ColumnWidths}
	for _, row := range spec.Rows {
		fr := &FakeRow{}
		for _, c := range row {
			fr.CellList = append(fr.CellList, &FakeCell{Txt: c.Text, CSp: c.ColSpan, RSp: c.RowSpan})
		}
		table.RowList = append(table.RowList, fr)
	}
	b.shape.TableD = table
	return nil
}

func (b *shapeBuilder) AddChild(kind string, geom engine.Geometry) (engine.ShapeBuilder, error) {
	if b.shape.ShapeKind != "group" {
		return nil, fmt.Errorf("enginetest: AddChild on non-group shape %q", b.shape.ShapeKind)
	}
	child := &FakeShape{
		ShapeID:   len(b.shape.Kids) + 1,
		ShapeKind: kind,
		Geom:      geom,
	}
	if b.shape.Kids == nil {
		b.shape.Kids = []*FakeShape{}
	}
	b.shape.Kids = append(b.shape.Kids, child)
	return &shapeBuilder{shape: child}, nil
}
