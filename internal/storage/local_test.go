package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localProvider(t *testing.T) *LocalStorage {
	t.Helper()
	l := NewLocalStorage()
	require.NoError(t, l.Initialize(map[string]string{"basePath": t.TempDir()}))
	return l
}

func TestLocalStoreRetrieveDelete(t *testing.T) {
	l := localProvider(t)
	ctx := context.Background()

	key := "presentations/p1/assets/a1-logo.png"
	meta := map[string]string{"filename": "logo.png", "contentType": "image/png"}
	require.NoError(t, l.Store(ctx, key, strings.NewReader("png-bytes"), 9, meta))

	rc, gotMeta, err := l.Retrieve(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "logo.png", gotMeta["filename"])
	assert.Equal(t, "image/png", gotMeta["contentType"])

	require.NoError(t, l.Delete(ctx, key))
	_, _, err = l.Retrieve(ctx, key)
	assert.Error(t, err)
}

func TestLocalDeleteMissing(t *testing.T) {
	l := localProvider(t)
	assert.Error(t, l.Delete(context.Background(), "nope"))
}

func TestLocalList(t *testing.T) {
	l := localProvider(t)
	ctx := context.Background()

	require.NoError(t, l.Store(ctx, "presentations/p1/assets/a1-x.png", strings.NewReader("one"), 3,
		map[string]string{"filename": "x.png"}))
	require.NoError(t, l.Store(ctx, "presentations/p1/assets/a2-y.png", strings.NewReader("two"), 3, nil))
	require.NoError(t, l.Store(ctx, "presentations/p2/assets/b1-z.png", strings.NewReader("three"), 5, nil))

	objects, err := l.List(ctx, "presentations/p1/")
	require.NoError(t, err)
	require.Len(t, objects, 2)

	names := []string{objects[0].Name, objects[1].Name}
	assert.Contains(t, names, "x.png")
	for _, o := range objects {
		assert.True(t, strings.HasPrefix(o.Key, "presentations/p1/"))
		assert.NotZero(t, o.Size)
	}
}

func TestLocalSignedURL(t *testing.T) {
	l := localProvider(t)
	ctx := context.Background()
	require.NoError(t, l.Store(ctx, "presentations/p1/assets/a1-x.png", strings.NewReader("one"), 3, nil))

	url, err := l.SignedURL(ctx, "presentations/p1/assets/a1-x.png", 60, "read")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"))
	assert.True(t, strings.HasSuffix(url, "a1-x.png"))
}
