package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/slideconv/internal/assets"
	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/engine/enginetest"
	"github.com/example/slideconv/internal/schema"
	"github.com/example/slideconv/internal/storage"
)

func testDoc() *enginetest.FakeDocument {
	picture := func(id int, name string) *enginetest.FakeShape {
		return &enginetest.FakeShape{
			ShapeID:   id,
			ShapeKind: "picture",
			Geom:      engine.Geometry{Width: 640, Height: 480},
			MediaD:    &enginetest.FakeMedia{CType: "image/png", FName: name, Bytes: []byte("png-bytes")},
		}
	}
	video := &enginetest.FakeShape{
		ShapeID:   3,
		ShapeKind: "videoFrame",
		MediaD:    &enginetest.FakeMedia{CType: "video/mp4", FName: "clip.mp4", Bytes: []byte("mp4-bytes")},
	}
	return &enginetest.FakeDocument{
		SlideList: []*enginetest.FakeSlide{
			{SlideID: 1, ShapeList: []*enginetest.FakeShape{picture(1, "a.png"), picture(2, "b.png")}},
			{SlideID: 2, ShapeList: []*enginetest.FakeShape{video}},
		},
	}
}

func mediaRegistry() *assets.Registry {
	r := assets.NewRegistry()
	r.Register(assets.NewImageExtractor())
	r.Register(assets.NewVideoExtractor())
	return r
}

// stubExtractor wraps a function as an Extractor for failure injection.
type stubExtractor struct {
	typ schema.AssetType
	fn  func(ctx context.Context) ([]schema.AssetResult, error)
}

func (s *stubExtractor) Type() schema.AssetType { return s.typ }

func (s *stubExtractor) ExtractAssets(ctx context.Context, _ engine.Document, _ schema.AssetExtractionOptions) ([]schema.AssetResult, error) {
	return s.fn(ctx)
}

// fakeUploader records uploads and optionally fails them.
type fakeUploader struct {
	mu         sync.Mutex
	uploads    []string
	thumbnails []string
	failWith   error
}

func (f *fakeUploader) UploadAsset(_ context.Context, _ []byte, filename string, _ schema.AssetMetadata, opts storage.UploadOptions) (storage.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return storage.UploadResult{}, f.failWith
	}
	f.uploads = append(f.uploads, filename)
	key := storage.AssetKey(opts.PresentationID, opts.AssetID, filename)
	res := storage.UploadResult{StorageURL: "local://" + key, StoragePath: key}
	if opts.GenerateDownloadURL {
		res.DownloadURL = "https://example.test/" + key
	}
	return res, nil
}

func (f *fakeUploader) UploadThumbnail(_ context.Context, _ []byte, presentationID, assetID string, _ schema.AssetMetadata) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return "", f.failWith
	}
	f.thumbnails = append(f.thumbnails, assetID)
	return "local://" + storage.ThumbnailKey(presentationID, assetID), nil
}

// fakeRepo records saved assets.
type fakeRepo struct {
	mu       sync.Mutex
	saved    []string
	failWith error
}

func (f *fakeRepo) SaveAsset(_ context.Context, asset *schema.AssetResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.saved = append(f.saved, asset.ID)
	return nil
}

// fakeNotifier collects events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (f *fakeNotifier) Notify(e ProgressEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeNotifier) stages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Stage
	}
	return out
}

func newTestOrchestrator(t *testing.T, reg *assets.Registry, cfg Config) *Orchestrator {
	t.Helper()
	o := New(zerolog.Nop(), reg, cfg)
	t.Cleanup(o.Close)
	return o
}

func TestExtractAssetsNilDocument(t *testing.T) {
	o := newTestOrchestrator(t, mediaRegistry(), Config{})
	_, err := o.ExtractAssets(context.Background(), nil, "p1", schema.AssetExtractionOptions{})
	assert.ErrorIs(t, err, assets.ErrEngineUnavailable)
}

func TestExtractAssetsEmptyRegistry(t *testing.T) {
	o := newTestOrchestrator(t, assets.NewRegistry(), Config{})
	_, err := o.ExtractAssets(context.Background(), testDoc(), "p1", schema.AssetExtractionOptions{})
	assert.ErrorIs(t, err, assets.ErrNoExtractors)
}

func TestExtractAssetsSequential(t *testing.T) {
	o := newTestOrchestrator(t, mediaRegistry(), Config{EnableParallel: false})
	notifier := &fakeNotifier{}
	o.WithNotifier(notifier)

	res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
		AssetTypes:      []schema.AssetType{schema.AssetImage, schema.AssetVideo},
		ReturnFormat:    schema.ReturnMetadataOnly,
		IncludeMetadata: true,
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, schema.StatusCompleted, res.Status)
	assert.Equal(t, 3, res.TotalAssets)
	assert.Empty(t, res.Errors)
	for _, a := range res.Assets {
		assert.Equal(t, "pres-1", a.PresentationID)
		assert.Nil(t, a.Data)
		assert.Empty(t, a.Base64)
		assert.True(t, a.Metadata.HasData)
		assert.NotEmpty(t, a.Metadata.SizeClass)
	}

	stages := notifier.stages()
	assert.Equal(t, "started", stages[0])
	assert.Equal(t, "finished", stages[len(stages)-1])
	assert.Contains(t, stages, "extractor-finished")
}

func TestExtractAssetsParallel(t *testing.T) {
	o := newTestOrchestrator(t, mediaRegistry(), Config{EnableParallel: true})

	res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
		AssetTypes:   []schema.AssetType{schema.AssetImage, schema.AssetVideo},
		ReturnFormat: schema.ReturnMetadataOnly,
	})
	require.NoError(t, err)
	assert.Equal(t, schema.StatusCompleted, res.Status)
	assert.Equal(t, 3, res.TotalAssets)
}

func TestExtractAssetsBase64(t *testing.T) {
	o := newTestOrchestrator(t, mediaRegistry(), Config{})

	res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
		AssetTypes:   []schema.AssetType{schema.AssetImage},
		ReturnFormat: schema.ReturnBase64,
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.TotalAssets)
	for _, a := range res.Assets {
		assert.Nil(t, a.Data)
		assert.Equal(t, "cG5nLWJ5dGVz", a.Base64)
	}
}

func TestExtractAssetsTypeFilter(t *testing.T) {
	o := newTestOrchestrator(t, mediaRegistry(), Config{})

	res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
		AssetTypes:   []schema.AssetType{schema.AssetVideo},
		ReturnFormat: schema.ReturnMetadataOnly,
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.TotalAssets)
	assert.Equal(t, schema.AssetVideo, res.Assets[0].Type)
}

func TestExtractAssetsPerTypeTimeout(t *testing.T) {
	reg := assets.NewRegistry()
	reg.Register(&stubExtractor{typ: schema.AssetImage, fn: func(context.Context) ([]schema.AssetResult, error) {
		// Deliberately ignores cancellation so the per-type deadline,
		// not the extractor, decides the outcome.
		time.Sleep(300 * time.Millisecond)
		return nil, nil
	}})
	reg.Register(assets.NewVideoExtractor())

	o := newTestOrchestrator(t, reg, Config{
		EnableParallel:      true,
		PerExtractorTimeout: 50 * time.Millisecond,
		OverallTimeout:      5 * time.Second,
	})

	res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
		AssetTypes:   []schema.AssetType{schema.AssetImage, schema.AssetVideo},
		ReturnFormat: schema.ReturnMetadataOnly,
	})
	require.NoError(t, err)

	assert.Equal(t, schema.StatusPartiallyCompleted, res.Status)
	assert.Equal(t, 1, res.TotalAssets)
	assert.Equal(t, schema.AssetVideo, res.Assets[0].Type)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "timed out")
	assert.Contains(t, res.Warnings[0], "image")
}

func TestExtractAssetsOverallTimeout(t *testing.T) {
	reg := assets.NewRegistry()
	reg.Register(&stubExtractor{typ: schema.AssetImage, fn: func(ctx context.Context) ([]schema.AssetResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}})
	reg.Register(&stubExtractor{typ: schema.AssetVideo, fn: func(context.Context) ([]schema.AssetResult, error) {
		return nil, nil
	}})

	o := newTestOrchestrator(t, reg, Config{
		EnableParallel:      false,
		PerExtractorTimeout: 5 * time.Second,
		OverallTimeout:      50 * time.Millisecond,
	})

	res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
		AssetTypes: []schema.AssetType{schema.AssetImage, schema.AssetVideo},
	})
	require.NoError(t, err)
	assert.Equal(t, schema.StatusTimedOut, res.Status)
	assert.Equal(t, 0, res.TotalAssets)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[len(res.Warnings)-1], "overall timeout reached")
}

func TestExtractAssetsExtractorError(t *testing.T) {
	reg := assets.NewRegistry()
	reg.Register(&stubExtractor{typ: schema.AssetImage, fn: func(context.Context) ([]schema.AssetResult, error) {
		return nil, fmt.Errorf("corrupt media part")
	}})

	o := newTestOrchestrator(t, reg, Config{})
	res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
		AssetTypes: []schema.AssetType{schema.AssetImage},
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, schema.StatusFailed, res.Status)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "image extractor failed")
	assert.Contains(t, res.Errors[0], "corrupt media part")
}

func TestExtractAssetsPanicIsolation(t *testing.T) {
	reg := mediaRegistry()
	reg.Register(&stubExtractor{typ: schema.AssetAudio, fn: func(context.Context) ([]schema.AssetResult, error) {
		panic("engine object disposed")
	}})

	o := newTestOrchestrator(t, reg, Config{EnableParallel: false})
	res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
		AssetTypes:   []schema.AssetType{schema.AssetImage, schema.AssetVideo, schema.AssetAudio},
		ReturnFormat: schema.ReturnMetadataOnly,
	})
	require.NoError(t, err)

	assert.Equal(t, schema.StatusPartiallyCompleted, res.Status)
	assert.Equal(t, 3, res.TotalAssets)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "panicked")
	assert.Contains(t, res.Errors[0], "engine object disposed")
}

func TestExtractAssetsUploadsToStorage(t *testing.T) {
	o := newTestOrchestrator(t, mediaRegistry(), Config{})
	up := &fakeUploader{}
	repo := &fakeRepo{}
	o.WithUploader(up).WithRepository(repo)

	res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
		AssetTypes:           []schema.AssetType{schema.AssetImage},
		ReturnFormat:         schema.ReturnURLs,
		SaveToStorage:        true,
		GenerateDownloadURLs: true,
		ExtractThumbnails:    true,
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.TotalAssets)

	for _, a := range res.Assets {
		assert.Nil(t, a.Data, "payload should be dropped once stored")
		assert.NotEmpty(t, a.StorageURL)
		assert.NotEmpty(t, a.StoragePath)
		assert.NotEmpty(t, a.DownloadURL)
	}
	assert.Len(t, up.uploads, 2)
	assert.Len(t, up.thumbnails, 2)
	assert.Len(t, repo.saved, 2)
}

func TestExtractAssetsUploadFailureKeepsBytes(t *testing.T) {
	o := newTestOrchestrator(t, mediaRegistry(), Config{})
	o.WithUploader(&fakeUploader{failWith: errors.New("bucket unreachable")})

	res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
		AssetTypes:    []schema.AssetType{schema.AssetImage},
		ReturnFormat:  schema.ReturnURLs,
		SaveToStorage: true,
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.TotalAssets)

	assert.Equal(t, schema.StatusPartiallyCompleted, res.Status)
	for _, a := range res.Assets {
		assert.NotNil(t, a.Data, "failed upload must keep the in-memory payload")
		assert.Empty(t, a.StorageURL)
	}
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "storage upload failed")
}

func TestExtractAssetsRepoFailureIsWarning(t *testing.T) {
	o := newTestOrchestrator(t, mediaRegistry(), Config{})
	o.WithRepository(&fakeRepo{failWith: errors.New("database locked")})

	res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
		AssetTypes:   []schema.AssetType{schema.AssetImage},
		ReturnFormat: schema.ReturnMetadataOnly,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.TotalAssets)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "metadata persistence failed")
}

func TestExtractAssetsAllCollaboratorsDown(t *testing.T) {
	// Storage and the repository failing together produce three warnings
	// per image asset; the run must still finish and report all of them.
	o := newTestOrchestrator(t, mediaRegistry(), Config{PostWorkers: 2})
	o.WithUploader(&fakeUploader{failWith: errors.New("bucket unreachable")})
	o.WithRepository(&fakeRepo{failWith: errors.New("database locked")})

	type outcome struct {
		res *schema.ExtractionResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
			AssetTypes:        []schema.AssetType{schema.AssetImage},
			ReturnFormat:      schema.ReturnURLs,
			SaveToStorage:     true,
			ExtractThumbnails: true,
		})
		done <- outcome{res, err}
	}()

	var res *schema.ExtractionResult
	select {
	case got := <-done:
		require.NoError(t, got.err)
		res = got.res
	case <-time.After(5 * time.Second):
		t.Fatal("extraction did not finish with storage and repository both failing")
	}

	require.Equal(t, 2, res.TotalAssets)
	assert.Len(t, res.Warnings, 6)
	joined := fmt.Sprint(res.Warnings)
	assert.Contains(t, joined, "storage upload failed")
	assert.Contains(t, joined, "thumbnail upload failed")
	assert.Contains(t, joined, "metadata persistence failed")
}

func TestExtractAssetsRepeatable(t *testing.T) {
	o := newTestOrchestrator(t, mediaRegistry(), Config{})
	doc := testDoc()
	opts := schema.AssetExtractionOptions{
		AssetTypes:   []schema.AssetType{schema.AssetImage, schema.AssetVideo},
		ReturnFormat: schema.ReturnMetadataOnly,
	}

	key := func(a schema.AssetResult) string {
		return fmt.Sprintf("%s/%s/%d/%d", a.Type, a.Format, a.Size, a.SlideIndex)
	}

	first, err := o.ExtractAssets(context.Background(), doc, "pres-1", opts)
	require.NoError(t, err)
	second, err := o.ExtractAssets(context.Background(), doc, "pres-1", opts)
	require.NoError(t, err)

	require.Equal(t, first.TotalAssets, second.TotalAssets)
	keys1 := make([]string, 0, len(first.Assets))
	keys2 := make([]string, 0, len(second.Assets))
	for _, a := range first.Assets {
		keys1 = append(keys1, key(a))
	}
	for _, a := range second.Assets {
		keys2 = append(keys2, key(a))
	}
	assert.ElementsMatch(t, keys1, keys2, "re-running on the same document must yield the same asset set")
}

func TestExtractAssetsStripsTransformsAndStyles(t *testing.T) {
	o := newTestOrchestrator(t, mediaRegistry(), Config{})

	res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
		AssetTypes:        []schema.AssetType{schema.AssetImage},
		ReturnFormat:      schema.ReturnMetadataOnly,
		IncludeTransforms: false,
		IncludeStyles:     false,
	})
	require.NoError(t, err)
	for _, a := range res.Assets {
		assert.Nil(t, a.Metadata.Transform)
		assert.Nil(t, a.Metadata.Style)
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	assert.Equal(t, DefaultPerExtractorTimeout, c.PerExtractorTimeout)
	assert.Equal(t, DefaultOverallTimeout, c.OverallTimeout)
	assert.Equal(t, DefaultPostWorkers, c.PostWorkers)
}

func TestBudgetFor(t *testing.T) {
	c := Config{PerExtractorTimeout: 10 * time.Second, OverallTimeout: 60 * time.Second}
	assert.Equal(t, 10*time.Second, c.budgetFor(0))
	assert.Equal(t, 10*time.Second, c.budgetFor(10<<20))
	assert.Equal(t, 30*time.Second, c.budgetFor(120<<20))
	assert.Equal(t, 60*time.Second, c.budgetFor(1<<40), "budget is capped at the overall timeout")
}

func TestResolveOptions(t *testing.T) {
	opts := resolveOptions(schema.AssetExtractionOptions{})
	assert.Equal(t, schema.AllAssetTypes, opts.AssetTypes)
	assert.Equal(t, schema.ReturnURLs, opts.ReturnFormat)

	narrow := resolveOptions(schema.AssetExtractionOptions{AssetTypes: []schema.AssetType{schema.AssetAudio}})
	assert.Equal(t, []schema.AssetType{schema.AssetAudio}, narrow.AssetTypes)

	all := resolveOptions(schema.AssetExtractionOptions{AssetTypes: []schema.AssetType{schema.AssetAll}})
	assert.Equal(t, schema.AllAssetTypes, all.AssetTypes)

	mixed := resolveOptions(schema.AssetExtractionOptions{AssetTypes: []schema.AssetType{schema.AssetAll, schema.AssetImage}})
	assert.Subset(t, mixed.AssetTypes, schema.AllAssetTypes)

	unknown := resolveOptions(schema.AssetExtractionOptions{AssetTypes: []schema.AssetType{"bogus"}})
	assert.Equal(t, schema.AllAssetTypes, unknown.AssetTypes, "a list of only unknown types falls back to the defaults")
}

func TestExtractAssetsAllKeyword(t *testing.T) {
	reg := assets.NewRegistry()
	reg.Register(assets.NewImageExtractor())
	reg.Register(assets.NewVideoExtractor())
	reg.Register(assets.NewAudioExtractor())
	reg.Register(assets.NewDocumentExtractor())
	o := newTestOrchestrator(t, reg, Config{})

	res, err := o.ExtractAssets(context.Background(), testDoc(), "pres-1", schema.AssetExtractionOptions{
		AssetTypes:   []schema.AssetType{schema.AssetAll},
		ReturnFormat: schema.ReturnMetadataOnly,
	})
	require.NoError(t, err)
	assert.Equal(t, schema.StatusCompleted, res.Status)
	assert.Equal(t, 3, res.TotalAssets, "the all keyword must run the default extractors")
	assert.Empty(t, res.Errors)
}

func TestOrderedTypes(t *testing.T) {
	got := orderedTypes([]schema.AssetType{schema.AssetDocument, schema.AssetImage, schema.AssetImage, "bogus"})
	assert.Equal(t, []schema.AssetType{schema.AssetImage, schema.AssetDocument}, got)
}

func TestPoolRunsTasks(t *testing.T) {
	p := NewPool(2, 8, zerolog.Nop())
	defer p.Stop()

	var mu sync.Mutex
	ran := 0
	tasks := make([]*Task, 0, 5)
	for i := 0; i < 5; i++ {
		task := NewTask(fmt.Sprintf("t%d", i), func() error {
			mu.Lock()
			ran++
			mu.Unlock()
			return nil
		})
		require.NoError(t, p.Submit(task))
		tasks = append(tasks, task)
	}
	for _, task := range tasks {
		assert.NoError(t, <-task.Err)
	}
	mu.Lock()
	assert.Equal(t, 5, ran)
	mu.Unlock()
	assert.Equal(t, 0, p.ActiveTasks())
}

func TestPoolQueueFull(t *testing.T) {
	p := NewPool(1, 1, zerolog.Nop())
	defer p.Stop()

	release := make(chan struct{})
	blocker := NewTask("blocker", func() error {
		<-release
		return nil
	})
	require.NoError(t, p.Submit(blocker))

	// Fill the queue behind the busy worker, then expect rejection.
	var queued *Task
	overflowed := false
	for i := 0; i < 4; i++ {
		task := NewTask(fmt.Sprintf("q%d", i), func() error { return nil })
		if err := p.Submit(task); err != nil {
			assert.ErrorIs(t, err, ErrQueueFull)
			overflowed = true
			break
		}
		queued = task
	}
	assert.True(t, overflowed)

	close(release)
	<-blocker.Err
	if queued != nil {
		<-queued.Err
	}
}
