package assets

import (
	"context"

	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/schema"
)

// maxWalkDepth bounds group recursion during the asset walk.
const maxWalkDepth = 16

// shapeVisitor receives every shape in the requested slide range, in
// slide order then z-order. parentGroupID is the shape id of the
// enclosing group, or zero at slide level.
type shapeVisitor func(slideIndex int, sh engine.Shape, parentGroupID int)

// walkShapes traverses the document's shape tree defensively: a slide or
// shape whose accessors fail is skipped without failing the walk. The
// context is checked between slides so cancelled runs stop promptly.
func walkShapes(ctx context.Context, doc engine.Document, opts schema.AssetExtractionOptions, visit shapeVisitor) error {
	count, err := doc.SlideCount()
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !opts.InRange(i) {
			continue
		}
		slide, err := doc.Slide(i)
		if err != nil || slide == nil {
			continue
		}
		for _, sh := range engine.Probe(slide.Shapes, nil) {
			if sh == nil {
				continue
			}
			walkShape(i, sh, 0, 0, visit)
		}
	}
	return nil
}

func walkShape(slideIndex int, sh engine.Shape, parentGroupID, depth int, visit shapeVisitor) {
	if depth > maxWalkDepth {
		return
	}
	visit(slideIndex, sh, parentGroupID)
	// Engines report groups as "group" or the raw "grpSp" element name.
	switch engine.Probe(sh.Kind, "") {
	case "group", "grpSp":
	default:
		return
	}
	groupID := engine.Probe(sh.ID, 0)
	for _, child := range engine.Probe(sh.Children, nil) {
		if child == nil {
			continue
		}
		walkShape(slideIndex, child, groupID, depth+1, visit)
	}
}

// mediaFrom resolves a shape's media handle and payload bytes, returning
// ok=false when the shape carries no readable media.
func mediaFrom(sh engine.Shape) (meta mediaInfo, data []byte, ok bool) {
	media := engine.ProbeHandle(sh.Media)
	if media == nil {
		return mediaInfo{}, nil, false
	}
	meta = mediaInfo{
		ContentType: engine.Probe(media.ContentType, ""),
		Filename:    engine.Probe(media.Filename, ""),
		Embedded:    engine.Probe(media.Embedded, false),
	}
	data = engine.Probe(media.Data, nil)
	return meta, data, true
}

type mediaInfo struct {
	ContentType string
	Filename    string
	Embedded    bool
}
