package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/metadata"
	"github.com/example/slideconv/internal/schema"
)

// enricher builds the shape-derived metadata while the live shape
// handle is still in scope.
var enricher = metadata.NewService()

// ImageExtractor pulls embedded picture assets.
type ImageExtractor struct{}

// NewImageExtractor creates a new image asset extractor.
func NewImageExtractor() *ImageExtractor {
	return &ImageExtractor{}
}

// Type implements Extractor.
func (e *ImageExtractor) Type() schema.AssetType {
	return schema.AssetImage
}

// ExtractAssets implements Extractor.
func (e *ImageExtractor) ExtractAssets(ctx context.Context, doc engine.Document, opts schema.AssetExtractionOptions) ([]schema.AssetResult, error) {
	if doc == nil {
		return nil, ErrEngineUnavailable
	}
	var out []schema.AssetResult
	err := walkShapes(ctx, doc, opts, func(slideIndex int, sh engine.Shape, parentGroupID int) {
		kind := engine.Probe(sh.Kind, "")
		if kind != "picture" && kind != "pic" && kind != "image" {
			return
		}
		media, data, ok := mediaFrom(sh)
		if !ok {
			return
		}
		out = append(out, newAssetResult(schema.AssetImage, media, data, slideIndex, sh, parentGroupID, "shape-media"))
	})
	if err != nil {
		return out, err
	}
	return out, nil
}

// newAssetResult assembles the common AssetResult fields shared by every
// type extractor. Presentation id is stamped downstream by the
// orchestrator, which owns the run context.
func newAssetResult(t schema.AssetType, media mediaInfo, data []byte, slideIndex int, sh engine.Shape, parentGroupID int, method string) schema.AssetResult {
	id := uuid.NewString()
	format := formatFor(media.ContentType, media.Filename)
	filename := media.Filename
	if filename == "" {
		filename = fmt.Sprintf("%s-%s.%s", t, id[:8], format)
	}
	meta := enricher.GenerateComprehensiveMetadata(sh, slideIndex, method)
	meta.HasData = len(data) > 0
	meta.ParentGroupID = parentGroupID
	meta.MimeType = media.ContentType

	return schema.AssetResult{
		ID:           id,
		Type:         t,
		Format:       format,
		Filename:     filename,
		OriginalName: media.Filename,
		Size:         int64(len(data)),
		SlideIndex:   slideIndex,
		Data:         data,
		Metadata:     meta,
	}
}

// formatFor derives a concrete encoding name from the content type, or
// the filename extension when the content type is missing.
func formatFor(contentType, filename string) string {
	if i := strings.Index(contentType, "/"); i >= 0 && i+1 < len(contentType) {
		sub := contentType[i+1:]
		if j := strings.Index(sub, ";"); j >= 0 {
			sub = sub[:j]
		}
		if sub != "" && sub != "octet-stream" {
			return strings.ToLower(sub)
		}
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."); ext != "" {
		return ext
	}
	return "bin"
}

func init() {
	Register(NewImageExtractor())
}
