package formats

import (
	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/schema"
)

// ExtractFill maps a fill handle to a schema fill block, or nil when the
// capability is entirely absent.
func ExtractFill(h engine.Fill) *schema.FillFormat {
	if h == nil {
		return nil
	}
	fillType := engine.Probe(h.Type, "")
	if fillType == "" {
		return nil
	}
	out := &schema.FillFormat{
		Type:    fillType,
		Opacity: engine.Probe(h.Opacity, 0),
	}
	switch fillType {
	case "solid":
		out.Color = NormalizeColor(engine.Probe(h.Color, ""))
	case "gradient":
		stops := engine.Probe(h.GradientStops, nil)
		for _, s := range stops {
			out.GradientStops = append(out.GradientStops, NormalizeColor(s))
		}
		out.GradientAngle = engine.Probe(h.GradientAngle, 0)
	case "pattern":
		out.PatternStyle = engine.Probe(h.PatternStyle, "")
		out.Color = NormalizeColor(engine.Probe(h.Color, ""))
	case "picture":
		out.ImageRef = engine.Probe(h.ImageRef, "")
	}
	return out
}

// ExtractLine maps a line handle to a schema line block, or nil.
func ExtractLine(h engine.Line) *schema.LineFormat {
	if h == nil {
		return nil
	}
	out := &schema.LineFormat{
		Width:     engine.Probe(h.Width, 0),
		DashStyle: engine.Probe(h.DashStyle, ""),
		CapStyle:  engine.Probe(h.CapStyle, ""),
		JoinStyle: engine.Probe(h.JoinStyle, ""),
	}
	if c, ok := engine.ProbeOK(h.Color); ok && c != "" {
		out.Color = NormalizeColor(c)
	}
	if out.Width == 0 && out.Color == "" && out.DashStyle == "" {
		return nil
	}
	return out
}

// ExtractEffects maps an effect handle to a schema effect block, or nil
// when no effect is applied. Presence of shadow and glow is inferred from
// whether their color accessors resolve.
func ExtractEffects(h engine.Effects) *schema.EffectFormat {
	if h == nil {
		return nil
	}
	out := &schema.EffectFormat{}
	if c, ok := engine.ProbeOK(h.ShadowColor); ok && c != "" {
		out.HasShadow = true
		out.ShadowColor = NormalizeColor(c)
		out.ShadowBlur = engine.Probe(h.ShadowBlur, 0)
	}
	if c, ok := engine.ProbeOK(h.GlowColor); ok && c != "" {
		out.HasGlow = true
		out.GlowColor = NormalizeColor(c)
		out.GlowRadius = engine.Probe(h.GlowRadius, 0)
	}
	out.HasReflection = engine.Probe(h.HasReflection, false)
	out.HasSoftEdge = engine.Probe(h.HasSoftEdge, false)
	if !out.HasShadow && !out.HasGlow && !out.HasReflection && !out.HasSoftEdge {
		return nil
	}
	return out
}

// ExtractThreeD maps a 3-D handle to a schema 3-D block, or nil when the
// shape carries no 3-D attributes.
func ExtractThreeD(h engine.ThreeD) *schema.ThreeDFormat {
	if h == nil {
		return nil
	}
	out := &schema.ThreeDFormat{
		Depth:        engine.Probe(h.Depth, 0),
		ContourWidth: engine.Probe(h.ContourWidth, 0),
		Material:     engine.Probe(h.Material, ""),
		Lighting:     engine.Probe(h.Lighting, ""),
		CameraType:   engine.Probe(h.CameraType, ""),
	}
	if c, ok := engine.ProbeOK(h.ExtrusionColor); ok && c != "" {
		out.ExtrusionColor = NormalizeColor(c)
	}
	if out.Depth == 0 && out.ContourWidth == 0 && out.Material == "" &&
		out.Lighting == "" && out.CameraType == "" && out.ExtrusionColor == "" {
		return nil
	}
	return out
}
