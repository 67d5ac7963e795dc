package assets

import (
	"bytes"
	"context"
	"strings"

	"github.com/unidoc/unioffice/document"

	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/schema"
)

// docContentTypes are the embedded-document content types the extractor
// recognizes on media shapes.
var docContentTypes = []string{
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"application/vnd.ms-excel",
	"text/plain",
	"text/csv",
}

// DocumentExtractor pulls embedded document assets: OLE-embedded files
// and media shapes carrying document content types.
type DocumentExtractor struct{}

// NewDocumentExtractor creates a new document asset extractor.
func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

// Type implements Extractor.
func (e *DocumentExtractor) Type() schema.AssetType {
	return schema.AssetDocument
}

// ExtractAssets implements Extractor.
func (e *DocumentExtractor) ExtractAssets(ctx context.Context, doc engine.Document, opts schema.AssetExtractionOptions) ([]schema.AssetResult, error) {
	if doc == nil {
		return nil, ErrEngineUnavailable
	}
	var out []schema.AssetResult
	err := walkShapes(ctx, doc, opts, func(slideIndex int, sh engine.Shape, parentGroupID int) {
		kind := engine.Probe(sh.Kind, "")
		switch kind {
		case "oleObject", "ole":
			ole, ok := engine.ProbeOK(sh.Ole)
			if !ok || len(ole.Data) == 0 {
				return
			}
			media := mediaInfo{
				ContentType: contentTypeForProgID(ole.ProgID),
				Filename:    ole.ObjectName,
				Embedded:    !ole.IsLinked,
			}
			res := newAssetResult(schema.AssetDocument, media, ole.Data, slideIndex, sh, parentGroupID, "ole-object")
			annotateWordDocument(&res)
			out = append(out, res)
		default:
			media, data, ok := mediaFrom(sh)
			if !ok || !isDocumentContentType(media.ContentType) {
				return
			}
			res := newAssetResult(schema.AssetDocument, media, data, slideIndex, sh, parentGroupID, "shape-media")
			annotateWordDocument(&res)
			out = append(out, res)
		}
	})
	if err != nil {
		return out, err
	}
	return out, nil
}

func isDocumentContentType(contentType string) bool {
	for _, t := range docContentTypes {
		if contentType == t {
			return true
		}
	}
	return false
}

// contentTypeForProgID maps well-known OLE prog ids to content types.
func contentTypeForProgID(progID string) string {
	id := strings.ToLower(progID)
	switch {
	case strings.HasPrefix(id, "word.document"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case strings.HasPrefix(id, "excel.sheet"):
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case strings.HasPrefix(id, "acroexch"):
		return "application/pdf"
	}
	return "application/octet-stream"
}

// annotateWordDocument parses embedded Word documents for page and word
// counts. Parse failures leave the asset untouched; the bytes are still
// returned as-is.
func annotateWordDocument(res *schema.AssetResult) {
	if res.Metadata.MimeType != "application/vnd.openxmlformats-officedocument.wordprocessingml.document" {
		return
	}
	if len(res.Data) == 0 {
		return
	}
	d, err := document.Read(bytes.NewReader(res.Data), int64(len(res.Data)))
	if err != nil {
		res.Metadata.Warnings = append(res.Metadata.Warnings, "embedded word document could not be parsed")
		return
	}

	var textBuilder strings.Builder
	for _, para := range d.Paragraphs() {
		for _, run := range para.Runs() {
			textBuilder.WriteString(run.Text())
		}
		textBuilder.WriteString("\n")
	}
	text := textBuilder.String()
	res.Metadata.WordCount = len(strings.Fields(text))
	// No page table in the wordprocessing part itself; estimate from
	// content volume so the field is at least ordinally useful.
	res.Metadata.Pages = len(text)/3000 + 1
}

func init() {
	Register(NewDocumentExtractor())
}
