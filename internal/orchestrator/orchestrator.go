// Package orchestrator coordinates asset and structural extraction runs:
// option resolution, parallel or sequential execution, the two-tier
// timeout model, per-asset post-processing and result aggregation.
package orchestrator

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/example/slideconv/internal/assets"
	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/extract"
	"github.com/example/slideconv/internal/metadata"
	"github.com/example/slideconv/internal/schema"
	"github.com/example/slideconv/internal/storage"
)

// Uploader pushes asset bytes to external object storage.
type Uploader interface {
	UploadAsset(ctx context.Context, data []byte, filename string, meta schema.AssetMetadata, opts storage.UploadOptions) (storage.UploadResult, error)
	UploadThumbnail(ctx context.Context, data []byte, presentationID, assetID string, meta schema.AssetMetadata) (string, error)
}

// Repository persists asset metadata documents.
type Repository interface {
	SaveAsset(ctx context.Context, asset *schema.AssetResult) error
}

// ProgressNotifier receives run lifecycle events. Implementations must
// not block.
type ProgressNotifier interface {
	Notify(event ProgressEvent)
}

// ProgressEvent is one run lifecycle notification.
type ProgressEvent struct {
	ExtractionID   string    `json:"extractionId"`
	PresentationID string    `json:"presentationId"`
	Stage          string    `json:"stage"`
	AssetType      string    `json:"assetType,omitempty"`
	Count          int       `json:"count,omitempty"`
	Message        string    `json:"message,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Orchestrator runs extraction against one registry and optional
// downstream collaborators. Storage and repository may be nil, in which
// case those stages are skipped.
type Orchestrator struct {
	log      zerolog.Logger
	registry *assets.Registry
	slides   *extract.Extractor
	enricher *metadata.Service
	uploader Uploader
	repo     Repository
	notifier ProgressNotifier
	cfg      Config
	pool     *Pool
}

// New creates an orchestrator. The registry must hold at least one
// extractor before ExtractAssets is called.
func New(log zerolog.Logger, registry *assets.Registry, cfg Config) *Orchestrator {
	cfg = cfg.withDefaults()
	return &Orchestrator{
		log:      log,
		registry: registry,
		slides:   extract.New(log),
		enricher: metadata.NewService(),
		cfg:      cfg,
		pool:     NewPool(cfg.PostWorkers, cfg.PostQueueSize, log),
	}
}

// WithUploader attaches a storage service.
func (o *Orchestrator) WithUploader(u Uploader) *Orchestrator {
	o.uploader = u
	return o
}

// WithRepository attaches a metadata repository.
func (o *Orchestrator) WithRepository(r Repository) *Orchestrator {
	o.repo = r
	return o
}

// WithNotifier attaches a progress notifier.
func (o *Orchestrator) WithNotifier(n ProgressNotifier) *Orchestrator {
	o.notifier = n
	return o
}

// Close stops the post-processing pool.
func (o *Orchestrator) Close() {
	o.pool.Stop()
}

// ExtractStructure converts the document graph into a
// UniversalPresentation via the slide extractor.
func (o *Orchestrator) ExtractStructure(doc engine.Document, opts extract.Options) (*schema.UniversalPresentation, error) {
	return o.slides.ExtractPresentation(doc, opts)
}

// typeResult is one extractor task's outcome.
type typeResult struct {
	assetType schema.AssetType
	assets    []schema.AssetResult
	err       error
	timedOut  bool
	elapsed   time.Duration
}

// ExtractAssets runs one asset extraction. Only configuration failures
// (nil document, empty registry) return an error; everything else is
// absorbed into the result's errors and warnings.
func (o *Orchestrator) ExtractAssets(ctx context.Context, doc engine.Document, presentationID string, opts schema.AssetExtractionOptions) (*schema.ExtractionResult, error) {
	if doc == nil {
		return nil, assets.ErrEngineUnavailable
	}
	if o.registry == nil || o.registry.Len() == 0 {
		return nil, assets.ErrNoExtractors
	}

	opts = resolveOptions(opts)
	runCtx := schema.ExtractionContext{
		PresentationID: presentationID,
		ExtractionID:   uuid.NewString(),
		StartTime:      time.Now(),
		Options:        opts,
	}
	o.notify(runCtx, "started", "", 0, "")

	result := &schema.ExtractionResult{
		Status:   schema.StatusRunning,
		Assets:   []schema.AssetResult{},
		Errors:   []string{},
		Warnings: []string{},
		Context:  &runCtx,
	}

	types := orderedTypes(opts.AssetTypes)
	docSize := engine.Probe(doc.FileSize, 0)
	budget := o.cfg.budgetFor(docSize)

	octx, cancel := context.WithTimeout(ctx, o.cfg.OverallTimeout)
	defer cancel()

	var overallTimedOut bool
	if o.cfg.EnableParallel {
		overallTimedOut = o.runParallel(octx, doc, opts, types, budget, runCtx, result)
	} else {
		overallTimedOut = o.runSequential(octx, doc, opts, types, runCtx, result)
	}

	o.postProcess(ctx, presentationID, opts, result)

	result.TotalAssets = len(result.Assets)
	result.ProcessingTimeMs = time.Since(runCtx.StartTime).Milliseconds()
	result.Success = result.TotalAssets > 0 || len(result.Errors) == 0
	switch {
	case overallTimedOut:
		result.Status = schema.StatusTimedOut
	case len(result.Errors) > 0 || len(result.Warnings) > 0:
		if result.TotalAssets > 0 {
			result.Status = schema.StatusPartiallyCompleted
		} else if len(result.Errors) > 0 {
			result.Status = schema.StatusFailed
		} else {
			result.Status = schema.StatusCompleted
		}
	default:
		result.Status = schema.StatusCompleted
	}

	o.notify(runCtx, "finished", "", result.TotalAssets, string(result.Status))
	o.log.Info().
		Str("extraction", runCtx.ExtractionID).
		Str("status", string(result.Status)).
		Int("assets", result.TotalAssets).
		Int64("ms", result.ProcessingTimeMs).
		Msg("asset extraction finished")
	return result, nil
}

// runParallel launches one task per requested type. Each task races its
// extractor against a per-type deadline; the supervising loop collects
// whichever results are ready when the overall deadline fires. A timed
// out extractor's underlying call may still complete in the background;
// its result is discarded.
func (o *Orchestrator) runParallel(octx context.Context, doc engine.Document, opts schema.AssetExtractionOptions, types []schema.AssetType, budget time.Duration, runCtx schema.ExtractionContext, result *schema.ExtractionResult) bool {
	results := make(chan typeResult, len(types))
	var g errgroup.Group
	for _, t := range types {
		t := t
		g.Go(func() error {
			results <- o.runOne(octx, doc, opts, t, budget)
			return nil
		})
	}
	done := make(chan struct{})
	go func() {
		g.Wait() //nolint:errcheck // tasks never return errors
		close(done)
	}()

	collected := 0
	for collected < len(types) {
		select {
		case r := <-results:
			collected++
			o.recordTypeResult(r, runCtx, result)
		case <-octx.Done():
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("overall timeout reached with %d of %d extractors finished", collected, len(types)))
			return true
		}
	}
	<-done
	return false
}

// runOne executes a single type extractor under its own deadline.
func (o *Orchestrator) runOne(octx context.Context, doc engine.Document, opts schema.AssetExtractionOptions, t schema.AssetType, budget time.Duration) typeResult {
	ex, ok := o.registry.Get(t)
	if !ok {
		return typeResult{assetType: t, err: fmt.Errorf("%w: %s", assets.ErrUnsupportedAssetType, t)}
	}
	tctx, cancel := context.WithTimeout(octx, budget)
	defer cancel()

	inner := make(chan typeResult, 1)
	start := time.Now()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				inner <- typeResult{assetType: t, err: fmt.Errorf("extractor panicked: %v", r), elapsed: time.Since(start)}
			}
		}()
		as, err := ex.ExtractAssets(tctx, doc, opts)
		inner <- typeResult{assetType: t, assets: as, err: err, elapsed: time.Since(start)}
	}()

	select {
	case r := <-inner:
		return r
	case <-tctx.Done():
		return typeResult{assetType: t, timedOut: true, elapsed: time.Since(start)}
	}
}

// runSequential executes extractors in the fixed order, logging timing
// per extractor. Only the overall deadline applies.
func (o *Orchestrator) runSequential(octx context.Context, doc engine.Document, opts schema.AssetExtractionOptions, types []schema.AssetType, runCtx schema.ExtractionContext, result *schema.ExtractionResult) bool {
	for i, t := range types {
		if octx.Err() != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("overall timeout reached with %d of %d extractors finished", i, len(types)))
			return true
		}
		ex, ok := o.registry.Get(t)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("no extractor registered for type %q", t))
			continue
		}
		start := time.Now()
		as, err := func() (out []schema.AssetResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("extractor panicked: %v", r)
				}
			}()
			return ex.ExtractAssets(octx, doc, opts)
		}()
		elapsed := time.Since(start)
		o.log.Debug().Str("type", string(t)).Dur("elapsed", elapsed).Int("assets", len(as)).Msg("extractor finished")
		o.recordTypeResult(typeResult{assetType: t, assets: as, err: err, elapsed: elapsed}, runCtx, result)
	}
	return false
}

func (o *Orchestrator) recordTypeResult(r typeResult, runCtx schema.ExtractionContext, result *schema.ExtractionResult) {
	switch {
	case r.timedOut:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s extractor timed out after %s and contributed no assets", r.assetType, r.elapsed.Round(time.Millisecond)))
	case r.err != nil:
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s extractor failed: %v", r.assetType, r.err))
	default:
		result.Assets = append(result.Assets, r.assets...)
	}
	o.notify(runCtx, "extractor-finished", string(r.assetType), len(r.assets), "")
}

// postProcess runs per-asset enrichment, storage upload and repository
// persistence on the worker pool. Every stage is isolated per asset:
// a storage failure leaves that asset's storage references unset and
// appends a warning, never failing the run.
func (o *Orchestrator) postProcess(ctx context.Context, presentationID string, opts schema.AssetExtractionOptions, result *schema.ExtractionResult) {
	warnings := &warningSink{}
	tasks := make([]*Task, 0, len(result.Assets))

	for i := range result.Assets {
		asset := &result.Assets[i]
		asset.PresentationID = presentationID
		task := NewTask(asset.ID, func() error {
			o.processAsset(ctx, asset, opts, warnings)
			return nil
		})
		if err := o.pool.Submit(task); err != nil {
			// Queue full: process inline rather than dropping the asset.
			o.processAsset(ctx, asset, opts, warnings)
			continue
		}
		tasks = append(tasks, task)
	}
	for _, t := range tasks {
		<-t.Err
	}
	result.Warnings = append(result.Warnings, warnings.list...)
}

// warningSink accumulates warnings from pool workers. Workers append
// without any bound so they never block behind the collecting goroutine.
type warningSink struct {
	mu   sync.Mutex
	list []string
}

func (s *warningSink) addf(format string, args ...interface{}) {
	s.mu.Lock()
	s.list = append(s.list, fmt.Sprintf(format, args...))
	s.mu.Unlock()
}

func (o *Orchestrator) processAsset(ctx context.Context, asset *schema.AssetResult, opts schema.AssetExtractionOptions, warnings *warningSink) {
	start := time.Now()
	if opts.IncludeMetadata {
		asset.Metadata = o.enricher.EnrichMetadata(asset.Metadata, asset.Data)
	}
	if !opts.IncludeTransforms {
		asset.Metadata.Transform = nil
	}
	if !opts.IncludeStyles {
		asset.Metadata.Style = nil
	}

	uploaded := false
	if opts.SaveToStorage && o.uploader != nil && len(asset.Data) > 0 {
		res, err := o.uploader.UploadAsset(ctx, asset.Data, asset.Filename, asset.Metadata, storage.UploadOptions{
			PresentationID:      asset.PresentationID,
			AssetID:             asset.ID,
			GenerateDownloadURL: opts.GenerateDownloadURLs,
		})
		if err != nil {
			warnings.addf("asset %s: storage upload failed: %v", asset.ID, err)
		} else {
			asset.StorageURL = res.StorageURL
			asset.StoragePath = res.StoragePath
			asset.DownloadURL = res.DownloadURL
			uploaded = true
		}
		if opts.ExtractThumbnails && asset.Type == schema.AssetImage {
			// Thumbnail rendering is a collaborator concern; store the
			// source image under the thumbnail path so a renderer can
			// replace it later.
			if _, err := o.uploader.UploadThumbnail(ctx, asset.Data, asset.PresentationID, asset.ID, asset.Metadata); err != nil {
				warnings.addf("asset %s: thumbnail upload failed: %v", asset.ID, err)
			}
		}
	}

	switch opts.ReturnFormat {
	case schema.ReturnMetadataOnly:
		asset.Data = nil
		asset.Base64 = ""
	case schema.ReturnBase64:
		if len(asset.Data) > 0 {
			asset.Base64 = base64.StdEncoding.EncodeToString(asset.Data)
		}
		asset.Data = nil
	default:
		// URL formats drop the payload once it is safely in storage; a
		// failed upload keeps the in-memory bytes for the caller.
		if uploaded {
			asset.Data = nil
		}
	}

	asset.Metadata.ProcessingTimeMs = time.Since(start).Milliseconds()

	if o.repo != nil {
		if err := o.repo.SaveAsset(ctx, asset); err != nil {
			warnings.addf("asset %s: metadata persistence failed: %v", asset.ID, err)
		}
	}
}

func (o *Orchestrator) notify(runCtx schema.ExtractionContext, stage, assetType string, count int, message string) {
	if o.notifier == nil {
		return
	}
	o.notifier.Notify(ProgressEvent{
		ExtractionID:   runCtx.ExtractionID,
		PresentationID: runCtx.PresentationID,
		Stage:          stage,
		AssetType:      assetType,
		Count:          count,
		Message:        message,
		Timestamp:      time.Now(),
	})
}
