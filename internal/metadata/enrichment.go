// Package metadata derives and enriches per-asset metadata. Nothing in
// this package fails the asset it is enriching: internal errors degrade
// to a metadata document carrying a warnings entry.
package metadata

import (
	"fmt"
	"time"

	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/formats"
	"github.com/example/slideconv/internal/schema"
)

// Service derives transform/style/quality metadata from shape handles
// and raw asset bytes.
type Service struct{}

// NewService creates an enrichment service.
func NewService() *Service {
	return &Service{}
}

// GenerateComprehensiveMetadata derives metadata purely from the shape
// handle, with every accessor individually guarded.
func (s *Service) GenerateComprehensiveMetadata(sh engine.Shape, slideIndex int, method string) (out schema.AssetMetadata) {
	defer func() {
		if r := recover(); r != nil {
			out = schema.AssetMetadata{
				ExtractedAt:      time.Now().UTC(),
				ExtractionMethod: method,
				ErrorCount:       1,
				Warnings:         []string{fmt.Sprintf("metadata generation failed: %v", r)},
			}
		}
	}()

	out = schema.AssetMetadata{
		ExtractedAt:      time.Now().UTC(),
		ExtractionMethod: method,
	}
	if sh == nil {
		out.Warnings = append(out.Warnings, "no shape handle available")
		return out
	}

	out.ShapeID = engine.Probe(sh.ID, 0)
	out.ShapeType = engine.Probe(sh.Kind, "")

	g, ok := engine.ProbeOK(sh.Geometry)
	if ok {
		out.Transform = &schema.AssetTransform{
			X:        g.X,
			Y:        g.Y,
			Width:    g.Width,
			Height:   g.Height,
			Rotation: g.Rotation,
		}
	} else {
		out.Warnings = append(out.Warnings, "geometry unavailable")
	}

	out.Style = styleFrom(sh)
	out.Quality = qualityFrom(g, ok)
	return out
}

func styleFrom(sh engine.Shape) *schema.AssetStyle {
	style := &schema.AssetStyle{}
	if fill := engine.ProbeHandle(sh.Fill); fill != nil {
		style.Opacity = engine.Probe(fill.Opacity, 0)
	}
	if eff := formats.ExtractEffects(engine.ProbeHandle(sh.Effects)); eff != nil {
		if eff.HasShadow {
			style.Effects = append(style.Effects, "shadow")
		}
		if eff.HasGlow {
			style.Effects = append(style.Effects, "glow")
		}
		if eff.HasReflection {
			style.Effects = append(style.Effects, "reflection")
		}
		if eff.HasSoftEdge {
			style.Effects = append(style.Effects, "softEdge")
		}
	}
	if style.Opacity == 0 && len(style.Effects) == 0 {
		return nil
	}
	return style
}

// qualityFrom maps the rendered extent to a coarse quality tier. Larger
// placements imply the source must hold more detail to render cleanly.
func qualityFrom(g engine.Geometry, ok bool) *schema.AssetQuality {
	if !ok || g.Width <= 0 || g.Height <= 0 {
		return nil
	}
	q := &schema.AssetQuality{
		Resolution: fmt.Sprintf("%.0fx%.0f", g.Width, g.Height),
	}
	area := g.Width * g.Height
	switch {
	case area < 10000:
		q.Quality = "low"
	case area < 250000:
		q.Quality = "medium"
	default:
		q.Quality = "high"
	}
	return q
}

// EnrichMetadata augments existing metadata with byte-level signals:
// signature-based MIME detection, an entropy-based compression estimate
// and a size-bucket classification. A nil or empty payload returns the
// input with a warning rather than an error.
func (s *Service) EnrichMetadata(existing schema.AssetMetadata, data []byte) (out schema.AssetMetadata) {
	out = existing
	defer func() {
		if r := recover(); r != nil {
			out.ErrorCount++
			out.Warnings = append(out.Warnings, fmt.Sprintf("byte enrichment failed: %v", r))
		}
	}()

	if len(data) == 0 {
		out.Warnings = append(out.Warnings, "no raw bytes available for enrichment")
		return out
	}

	if mime := SniffMIME(data); mime != "" {
		out.MimeType = mime
	}
	out.Compression = CompressionEstimate(data)
	out.SizeClass = SizeClass(int64(len(data)))
	if out.Quality == nil {
		out.Quality = &schema.AssetQuality{}
	}
	if out.Quality.Compression == "" {
		out.Quality.Compression = out.Compression
	}
	return out
}

// ValidateMetadata reports whether the metadata document satisfies the
// schema invariants. It never panics or returns an error; callers decide
// whether to reject or just flag.
func (s *Service) ValidateMetadata(m *schema.AssetMetadata) bool {
	return schema.ValidateMetadata(m)
}
