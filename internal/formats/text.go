package formats

import (
	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/schema"
)

// ExtractGeometry reads the shape transform. A failed geometry accessor
// yields the zero transform rather than an error; the surrounding shape
// extraction decides whether that is acceptable.
func ExtractGeometry(sh engine.Shape) schema.Geometry {
	if sh == nil {
		return schema.Geometry{}
	}
	g := engine.Probe(sh.Geometry, engine.Geometry{})
	return schema.Geometry{
		X:        g.X,
		Y:        g.Y,
		Width:    g.Width,
		Height:   g.Height,
		Rotation: g.Rotation,
	}
}

// ExtractTextFrame maps a text body handle to a schema text frame, or nil
// when the shape has no text. One broken paragraph or portion never
// suppresses its siblings.
func ExtractTextFrame(h engine.TextFrame) *schema.TextFrame {
	if h == nil {
		return nil
	}
	paras := engine.Probe(h.Paragraphs, nil)
	out := &schema.TextFrame{
		WordWrap:    engine.Probe(h.WordWrap, false),
		AnchorType:  engine.Probe(h.Anchor, ""),
		AutofitType: engine.Probe(h.Autofit, ""),
	}
	for _, p := range paras {
		if p == nil {
			continue
		}
		out.Paragraphs = append(out.Paragraphs, extractParagraph(p))
	}
	if len(out.Paragraphs) == 0 {
		return nil
	}
	return out
}

func extractParagraph(p engine.Paragraph) schema.Paragraph {
	out := schema.Paragraph{
		Alignment:   engine.Probe(p.Alignment, ""),
		IndentLevel: engine.Probe(p.IndentLevel, 0),
		BulletType:  engine.Probe(p.BulletType, ""),
		BulletChar:  engine.Probe(p.BulletChar, ""),
	}
	for _, r := range engine.Probe(p.Portions, nil) {
		if r == nil {
			continue
		}
		out.Portions = append(out.Portions, extractPortion(r))
	}
	return out
}

func extractPortion(r engine.Portion) schema.Portion {
	out := schema.Portion{
		Text: engine.Probe(r.Text, ""),
	}
	font := &schema.FontFormat{
		Name:      engine.Probe(r.FontName, ""),
		Size:      engine.Probe(r.FontSize, 0),
		Bold:      engine.Probe(r.Bold, false),
		Italic:    engine.Probe(r.Italic, false),
		Underline: engine.Probe(r.Underline, false),
	}
	if c, ok := engine.ProbeOK(r.Color); ok && c != "" {
		font.Color = NormalizeColor(c)
	}
	if font.Name != "" || font.Size != 0 || font.Bold || font.Italic ||
		font.Underline || font.Color != "" {
		out.Font = font
	}
	return out
}

// ExtractHyperlink reads the shape's click action, or nil when absent.
func ExtractHyperlink(sh engine.Shape) *schema.Hyperlink {
	if sh == nil {
		return nil
	}
	link, ok := engine.ProbeOK(sh.Hyperlink)
	if !ok {
		return nil
	}
	if link.URL == "" && link.TargetSlide == 0 {
		return nil
	}
	return &schema.Hyperlink{
		URL:         link.URL,
		TargetSlide: link.TargetSlide,
		Tooltip:     link.Tooltip,
	}
}
