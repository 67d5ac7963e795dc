package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/slideconv/internal/schema"
)

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(zerolog.Nop(), localProvider(t), "local")
}

func TestAssetAndThumbnailKeys(t *testing.T) {
	assert.Equal(t, "presentations/p1/assets/a1-logo.png", AssetKey("p1", "a1", "logo.png"))
	assert.Equal(t, "presentations/p1/thumbnails/a1", ThumbnailKey("p1", "a1"))
}

func TestUploadAsset(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	meta := schema.AssetMetadata{ShapeID: 3, MimeType: "image/png"}

	res, err := svc.UploadAsset(ctx, []byte("png-bytes"), "logo.png", meta, UploadOptions{
		PresentationID:      "p1",
		AssetID:             "a1",
		GenerateDownloadURL: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "local://presentations/p1/assets/a1-logo.png", res.StorageURL)
	assert.Equal(t, "presentations/p1/assets/a1-logo.png", res.StoragePath)
	assert.True(t, strings.HasPrefix(res.DownloadURL, "file://"))

	objects, err := svc.ListPresentation(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "logo.png", objects[0].Name)
	assert.Equal(t, "image/png", objects[0].ContentType)
	assert.Equal(t, "3", objects[0].Metadata["shapeId"])
}

func TestUploadAssetWithoutDownloadURL(t *testing.T) {
	svc := testService(t)
	res, err := svc.UploadAsset(context.Background(), []byte("x"), "a.png", schema.AssetMetadata{}, UploadOptions{
		PresentationID: "p1",
		AssetID:        "a1",
	})
	require.NoError(t, err)
	assert.Empty(t, res.DownloadURL)
}

func TestUploadThumbnail(t *testing.T) {
	l := localProvider(t)
	svc := NewService(zerolog.Nop(), l, "local")
	ctx := context.Background()

	key, err := svc.UploadThumbnail(ctx, []byte("thumb"), "p1", "a1", schema.AssetMetadata{MimeType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "presentations/p1/thumbnails/a1", key)

	rc, _, err := l.Retrieve(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "thumb", string(data))
}

func TestDeleteAsset(t *testing.T) {
	l := localProvider(t)
	svc := NewService(zerolog.Nop(), l, "local")
	ctx := context.Background()

	res, err := svc.UploadAsset(ctx, []byte("x"), "a.png", schema.AssetMetadata{}, UploadOptions{PresentationID: "p1", AssetID: "a1"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAsset(ctx, res.StoragePath))
	_, _, err = l.Retrieve(ctx, res.StoragePath)
	assert.Error(t, err)

	assert.NoError(t, svc.DeleteAsset(ctx, ""), "empty path is a no-op")
}

func TestFactory(t *testing.T) {
	f := NewFactory(zerolog.Nop())

	provider, err := f.CreateProvider("local", map[string]string{"basePath": t.TempDir()})
	require.NoError(t, err)
	assert.NotNil(t, provider)
	available, _ := f.IsProviderAvailable("local")
	assert.True(t, available)

	_, err = f.CreateProvider("carrier-pigeon", nil)
	assert.Error(t, err)

	f.MarkProviderUnavailable("s3", "missing credentials")
	available, reason := f.IsProviderAvailable("s3")
	assert.False(t, available)
	assert.Equal(t, "missing credentials", reason)
}
