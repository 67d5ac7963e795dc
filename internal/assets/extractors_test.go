package assets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/engine/enginetest"
	"github.com/example/slideconv/internal/schema"
)

func pictureShape(id int, filename string, data []byte) *enginetest.FakeShape {
	return &enginetest.FakeShape{
		ShapeID:   id,
		ShapeKind: "picture",
		Geom:      engine.Geometry{Width: 640, Height: 480},
		MediaD: &enginetest.FakeMedia{
			CType: "image/png",
			FName: filename,
			Embed: true,
			Bytes: data,
		},
	}
}

func videoShape(id int) *enginetest.FakeShape {
	return &enginetest.FakeShape{
		ShapeID:   id,
		ShapeKind: "videoFrame",
		MediaD: &enginetest.FakeMedia{
			CType: "video/mp4",
			FName: "clip.mp4",
			Bytes: []byte("mp4-bytes"),
		},
	}
}

func TestImageExtractor(t *testing.T) {
	doc := &enginetest.FakeDocument{
		SlideList: []*enginetest.FakeSlide{
			{SlideID: 1, ShapeList: []*enginetest.FakeShape{
				pictureShape(1, "logo.png", []byte("png-bytes")),
				{ShapeID: 2, ShapeKind: "rectangle"},
				videoShape(3),
			}},
			{SlideID: 2, ShapeList: []*enginetest.FakeShape{
				pictureShape(4, "photo.png", []byte("more-png")),
			}},
		},
	}

	out, err := NewImageExtractor().ExtractAssets(context.Background(), doc, schema.AssetExtractionOptions{})
	require.NoError(t, err)
	require.Len(t, out, 2)

	first := out[0]
	assert.Equal(t, schema.AssetImage, first.Type)
	assert.Equal(t, "png", first.Format)
	assert.Equal(t, "logo.png", first.Filename)
	assert.Equal(t, int64(9), first.Size)
	assert.Equal(t, 0, first.SlideIndex)
	assert.NotEmpty(t, first.ID)
	assert.True(t, first.Metadata.HasData)
	assert.Equal(t, "image/png", first.Metadata.MimeType)
	assert.Equal(t, 1, out[1].SlideIndex)
}

func TestImageExtractorSlideRange(t *testing.T) {
	doc := &enginetest.FakeDocument{
		SlideList: []*enginetest.FakeSlide{
			{SlideID: 1, ShapeList: []*enginetest.FakeShape{pictureShape(1, "a.png", []byte("a"))}},
			{SlideID: 2, ShapeList: []*enginetest.FakeShape{pictureShape(2, "b.png", []byte("b"))}},
			{SlideID: 3, ShapeList: []*enginetest.FakeShape{pictureShape(3, "c.png", []byte("c"))}},
		},
	}
	opts := schema.AssetExtractionOptions{SlideRange: &schema.SlideRange{Start: 1, End: 1}}

	out, err := NewImageExtractor().ExtractAssets(context.Background(), doc, opts)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "b.png", out[0].Filename)
}

func TestImageExtractorGroupRecursion(t *testing.T) {
	group := &enginetest.FakeShape{
		ShapeID:   10,
		ShapeKind: "group",
		Kids: []*enginetest.FakeShape{
			pictureShape(11, "nested.png", []byte("nested")),
		},
	}
	doc := &enginetest.FakeDocument{
		SlideList: []*enginetest.FakeSlide{{SlideID: 1, ShapeList: []*enginetest.FakeShape{group}}},
	}

	out, err := NewImageExtractor().ExtractAssets(context.Background(), doc, schema.AssetExtractionOptions{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 10, out[0].Metadata.ParentGroupID)
}

func TestImageExtractorRawGroupKind(t *testing.T) {
	// Some engines surface groups under the raw element name rather
	// than the normalized kind; their children must still be walked.
	group := &enginetest.FakeShape{
		ShapeID:   20,
		ShapeKind: "grpSp",
		Kids: []*enginetest.FakeShape{
			pictureShape(21, "nested.png", []byte("nested")),
		},
	}
	doc := &enginetest.FakeDocument{
		SlideList: []*enginetest.FakeSlide{{SlideID: 1, ShapeList: []*enginetest.FakeShape{group}}},
	}

	out, err := NewImageExtractor().ExtractAssets(context.Background(), doc, schema.AssetExtractionOptions{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "nested.png", out[0].Filename)
	assert.Equal(t, 20, out[0].Metadata.ParentGroupID)
}

func TestImageExtractorNilDocument(t *testing.T) {
	_, err := NewImageExtractor().ExtractAssets(context.Background(), nil, schema.AssetExtractionOptions{})
	assert.ErrorIs(t, err, ErrEngineUnavailable)
}

func TestImageExtractorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc := &enginetest.FakeDocument{
		SlideList: []*enginetest.FakeSlide{{SlideID: 1, ShapeList: []*enginetest.FakeShape{pictureShape(1, "a.png", []byte("a"))}}},
	}
	_, err := NewImageExtractor().ExtractAssets(ctx, doc, schema.AssetExtractionOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImageExtractorSkipsBrokenShape(t *testing.T) {
	broken := pictureShape(1, "broken.png", []byte("x"))
	broken.PanicOn("Media")
	doc := &enginetest.FakeDocument{
		SlideList: []*enginetest.FakeSlide{{SlideID: 1, ShapeList: []*enginetest.FakeShape{
			broken,
			pictureShape(2, "ok.png", []byte("y")),
		}}},
	}

	out, err := NewImageExtractor().ExtractAssets(context.Background(), doc, schema.AssetExtractionOptions{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "ok.png", out[0].Filename)
}

func TestVideoExtractorContentTypeFilter(t *testing.T) {
	mislabeled := &enginetest.FakeShape{
		ShapeID:   2,
		ShapeKind: "video",
		MediaD:    &enginetest.FakeMedia{CType: "image/png", Bytes: []byte("not video")},
	}
	doc := &enginetest.FakeDocument{
		SlideList: []*enginetest.FakeSlide{{SlideID: 1, ShapeList: []*enginetest.FakeShape{
			videoShape(1),
			mislabeled,
		}}},
	}

	out, err := NewVideoExtractor().ExtractAssets(context.Background(), doc, schema.AssetExtractionOptions{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "clip.mp4", out[0].Filename)
	assert.Equal(t, "mp4", out[0].Format)
}

func TestAudioExtractor(t *testing.T) {
	doc := &enginetest.FakeDocument{
		SlideList: []*enginetest.FakeSlide{{SlideID: 1, ShapeList: []*enginetest.FakeShape{
			{
				ShapeID:   1,
				ShapeKind: "audioFrame",
				MediaD:    &enginetest.FakeMedia{CType: "audio/wav", FName: "narration.wav", Bytes: []byte("wav")},
			},
		}}},
	}

	out, err := NewAudioExtractor().ExtractAssets(context.Background(), doc, schema.AssetExtractionOptions{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, schema.AssetAudio, out[0].Type)
	assert.Equal(t, "wav", out[0].Format)
}

func TestDocumentExtractorOleObject(t *testing.T) {
	doc := &enginetest.FakeDocument{
		SlideList: []*enginetest.FakeSlide{{SlideID: 1, ShapeList: []*enginetest.FakeShape{
			{
				ShapeID:   1,
				ShapeKind: "oleObject",
				OleD: &engine.Ole{
					ProgID:     "Excel.Sheet.12",
					ObjectName: "budget.xlsx",
					Data:       []byte("xlsx-bytes"),
				},
			},
			{
				ShapeID:   2,
				ShapeKind: "oleObject",
				OleD:      &engine.Ole{ProgID: "Excel.Sheet.12"},
			},
		}}},
	}

	out, err := NewDocumentExtractor().ExtractAssets(context.Background(), doc, schema.AssetExtractionOptions{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, schema.AssetDocument, out[0].Type)
	assert.Equal(t, "budget.xlsx", out[0].Filename)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out[0].Metadata.MimeType)
	assert.Equal(t, "ole-object", out[0].Metadata.ExtractionMethod)
}

func TestDocumentExtractorMediaContentType(t *testing.T) {
	doc := &enginetest.FakeDocument{
		SlideList: []*enginetest.FakeSlide{{SlideID: 1, ShapeList: []*enginetest.FakeShape{
			{
				ShapeID:   1,
				ShapeKind: "picture",
				MediaD:    &enginetest.FakeMedia{CType: "application/pdf", FName: "spec.pdf", Bytes: []byte("%PDF-1.7")},
			},
			{
				ShapeID:   2,
				ShapeKind: "picture",
				MediaD:    &enginetest.FakeMedia{CType: "image/png", FName: "x.png", Bytes: []byte("png")},
			},
		}}},
	}

	out, err := NewDocumentExtractor().ExtractAssets(context.Background(), doc, schema.AssetExtractionOptions{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "spec.pdf", out[0].Filename)
	assert.Equal(t, "pdf", out[0].Format)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, "png", formatFor("image/png", ""))
	assert.Equal(t, "mp4", formatFor("video/mp4; codecs=avc1", ""))
	assert.Equal(t, "jpg", formatFor("application/octet-stream", "photo.JPG"))
	assert.Equal(t, "wav", formatFor("", "sound.wav"))
	assert.Equal(t, "bin", formatFor("", ""))
}

func TestRegistryDefaults(t *testing.T) {
	for _, typ := range []schema.AssetType{schema.AssetImage, schema.AssetVideo, schema.AssetAudio, schema.AssetDocument} {
		e, ok := DefaultRegistry.Get(typ)
		require.True(t, ok, "missing extractor for %s", typ)
		assert.Equal(t, typ, e.Type())
	}
	assert.Equal(t, 4, DefaultRegistry.Len())
}

func TestRegistryReplace(t *testing.T) {
	r := NewRegistry()
	a := NewImageExtractor()
	b := NewImageExtractor()
	r.Register(a)
	r.Register(b)
	assert.Equal(t, 1, r.Len())
	got, ok := r.Get(schema.AssetImage)
	require.True(t, ok)
	assert.Same(t, b, got)
}
