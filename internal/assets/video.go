package assets

import (
	"context"
	"strings"

	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/schema"
)

// VideoExtractor pulls embedded and linked video assets.
type VideoExtractor struct{}

// NewVideoExtractor creates a new video asset extractor.
func NewVideoExtractor() *VideoExtractor {
	return &VideoExtractor{}
}

// Type implements Extractor.
func (e *VideoExtractor) Type() schema.AssetType {
	return schema.AssetVideo
}

// ExtractAssets implements Extractor.
func (e *VideoExtractor) ExtractAssets(ctx context.Context, doc engine.Document, opts schema.AssetExtractionOptions) ([]schema.AssetResult, error) {
	if doc == nil {
		return nil, ErrEngineUnavailable
	}
	var out []schema.AssetResult
	err := walkShapes(ctx, doc, opts, func(slideIndex int, sh engine.Shape, parentGroupID int) {
		kind := engine.Probe(sh.Kind, "")
		if kind != "video" && kind != "videoFrame" {
			return
		}
		media, data, ok := mediaFrom(sh)
		if !ok {
			return
		}
		if media.ContentType != "" && !strings.HasPrefix(media.ContentType, "video/") {
			return
		}
		out = append(out, newAssetResult(schema.AssetVideo, media, data, slideIndex, sh, parentGroupID, "shape-media"))
	})
	if err != nil {
		return out, err
	}
	return out, nil
}

func init() {
	Register(NewVideoExtractor())
}
