package assets

import (
	"context"
	"strings"

	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/schema"
)

// AudioExtractor pulls embedded audio assets.
type AudioExtractor struct{}

// NewAudioExtractor creates a new audio asset extractor.
func NewAudioExtractor() *AudioExtractor {
	return &AudioExtractor{}
}

// Type implements Extractor.
func (e *AudioExtractor) Type() schema.AssetType {
	return schema.AssetAudio
}

// ExtractAssets implements Extractor.
func (e *AudioExtractor) ExtractAssets(ctx context.Context, doc engine.Document, opts schema.AssetExtractionOptions) ([]schema.AssetResult, error) {
	if doc == nil {
		return nil, ErrEngineUnavailable
	}
	var out []schema.AssetResult
	err := walkShapes(ctx, doc, opts, func(slideIndex int, sh engine.Shape, parentGroupID int) {
		kind := engine.Probe(sh.Kind, "")
		if kind != "audio" && kind != "audioFrame" {
			return
		}
		media, data, ok := mediaFrom(sh)
		if !ok {
			return
		}
		if media.ContentType != "" && !strings.HasPrefix(media.ContentType, "audio/") {
			return
		}
		out = append(out, newAssetResult(schema.AssetAudio, media, data, slideIndex, sh, parentGroupID, "shape-media"))
	})
	if err != nil {
		return out, err
	}
	return out, nil
}

func init() {
	Register(NewAudioExtractor())
}
