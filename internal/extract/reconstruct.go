package extract

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/schema"
)

// Reconstructor builds native slide structures from Universal Schema
// slides, inverting the extraction walk. A failure is fatal to the slide
// being reconstructed but leaves previously reconstructed slides intact:
// nothing is written to the destination before the source slide validates.
type Reconstructor struct {
	log zerolog.Logger
}

// NewReconstructor creates a reconstruction mapper.
func NewReconstructor(log zerolog.Logger) *Reconstructor {
	return &Reconstructor{log: log}
}

// Reconstruct adds a new slide at index using the named layout and
// rebuilds the slide's name, hidden flag, shapes (in z-order) and notes.
func (r *Reconstructor) Reconstruct(slide *schema.UniversalSlide, doc engine.Document, index int, layout string) error {
	if slide == nil {
		return fmt.Errorf("slide is nil")
	}
	if doc == nil {
		return fmt.Errorf("document handle is nil")
	}
	if err := schema.ValidateSlide(slide); err != nil {
		return fmt.Errorf("refusing to reconstruct invalid slide: %w", err)
	}

	builder, err := doc.AddSlide(index, layout)
	if err != nil {
		return fmt.Errorf("failed to add slide at index %d: %w", index, err)
	}
	if slide.Name != "" {
		if err := builder.SetName(slide.Name); err != nil {
			return fmt.Errorf("failed to set slide name: %w", err)
		}
	}
	if err := builder.SetHidden(slide.Hidden); err != nil {
		return fmt.Errorf("failed to set hidden flag: %w", err)
	}

	for i := range slide.Shapes {
		sb, err := builder.AddShape(kindString(slide.Shapes[i].ShapeType), nativeGeometry(slide.Shapes[i].Geometry))
		if err != nil {
			return fmt.Errorf("failed to add shape %d: %w", i, err)
		}
		if err := r.buildShape(sb, &slide.Shapes[i]); err != nil {
			return fmt.Errorf("failed to build shape %d: %w", i, err)
		}
	}

	if slide.NotesText != "" {
		if err := builder.SetNotesText(slide.NotesText); err != nil {
			return fmt.Errorf("failed to set notes: %w", err)
		}
	}

	r.log.Debug().Int("index", index).Int("shapes", len(slide.Shapes)).Msg("slide reconstructed")
	return nil
}

func (r *Reconstructor) buildShape(b engine.ShapeBuilder, sh *schema.UniversalShape) error {
	if sh.Name != "" {
		if err := b.SetName(sh.Name); err != nil {
			return err
		}
	}
	if sh.Fill != nil {
		if err := b.SetFill(engine.FillSpec{
			Type:    sh.Fill.Type,
			Color:   sh.Fill.Color,
			Opacity: sh.Fill.Opacity,
		}); err != nil {
			return err
		}
	}
	if sh.Line != nil {
		if err := b.SetLine(engine.LineSpec{
			Width:     sh.Line.Width,
			Color:     sh.Line.Color,
			DashStyle: sh.Line.DashStyle,
		}); err != nil {
			return err
		}
	}
	if sh.Hyperlink != nil {
		if err := b.SetHyperlink(engine.Hyperlink{
			URL:         sh.Hyperlink.URL,
			TargetSlide: sh.Hyperlink.TargetSlide,
			Tooltip:     sh.Hyperlink.Tooltip,
		}); err != nil {
			return err
		}
	}
	if sh.TextFrame != nil {
		for _, p := range sh.TextFrame.Paragraphs {
			spec := engine.ParagraphSpec{
				Alignment:   p.Alignment,
				IndentLevel: p.IndentLevel,
			}
			for _, run := range p.Portions {
				ps := engine.PortionSpec{Text: run.Text}
				if run.Font != nil {
					ps.FontName = run.Font.Name
					ps.FontSize = run.Font.Size
					ps.Bold = run.Font.Bold
					ps.Italic = run.Font.Italic
					ps.Underline = run.Font.Underline
					ps.Color = run.Font.Color
				}
				spec.Portions = append(spec.Portions, ps)
			}
			if err := b.AddParagraph(spec); err != nil {
				return err
			}
		}
	}
	if sh.Chart != nil {
		spec := engine.ChartSpec{
			Type:       sh.Chart.ChartType,
			Title:      sh.Chart.Title,
			Categories: sh.Chart.Categories,
		}
		for _, s := range sh.Chart.Series {
			spec.Series = append(spec.Series, engine.SeriesSpec{Name: s.Name, Values: s.Values})
		}
		if err := b.SetChart(spec); err != nil {
			return err
		}
	}
	if sh.Table != nil {
		spec := engine.TableSpec{ColumnWidths: sh.Table.ColumnWidths}
		for _, row := range sh.Table.Rows {
			var cells []engine.CellSpec
			for _, c := range row {
				cells = append(cells, engine.CellSpec{Text: c.Text, ColSpan: c.ColSpan, RowSpan: c.RowSpan})
			}
			spec.Rows = append(spec.Rows, cells)
		}
		if err := b.SetTable(spec); err != nil {
			return err
		}
	}
	for i := range sh.Shapes {
		cb, err := b.AddChild(kindString(sh.Shapes[i].ShapeType), nativeGeometry(sh.Shapes[i].Geometry))
		if err != nil {
			return err
		}
		if err := r.buildShape(cb, &sh.Shapes[i]); err != nil {
			return err
		}
	}
	return nil
}

// kindString maps a schema shape type back to the engine-native kind
// string understood by AddShape.
func kindString(t schema.ShapeType) string {
	if t == "" || t == schema.ShapeUnknown {
		return "autoShape"
	}
	return string(t)
}

func nativeGeometry(g schema.Geometry) engine.Geometry {
	return engine.Geometry{
		X:        g.X,
		Y:        g.Y,
		Width:    g.Width,
		Height:   g.Height,
		Rotation: g.Rotation,
	}
}
