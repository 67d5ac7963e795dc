package orchestrator

import (
	"time"

	"github.com/example/slideconv/internal/schema"
)

// Config tunes one orchestrator instance. Zero values fall back to the
// defaults below.
type Config struct {
	// EnableParallel runs one task per requested asset type concurrently.
	EnableParallel bool

	// PerExtractorTimeout is the base per-type budget; it grows with
	// document size (see budgetFor) and never exceeds OverallTimeout.
	PerExtractorTimeout time.Duration

	// OverallTimeout caps the whole run; on expiry the run completes
	// with whatever partial results have resolved.
	OverallTimeout time.Duration

	// PostWorkers sizes the per-asset post-processing pool.
	PostWorkers int

	// PostQueueSize sizes the post-processing queue.
	PostQueueSize int
}

// Defaults
const (
	DefaultPerExtractorTimeout = 30 * time.Second
	DefaultOverallTimeout      = 2 * time.Minute
	DefaultPostWorkers         = 4
)

func (c Config) withDefaults() Config {
	if c.PerExtractorTimeout <= 0 {
		c.PerExtractorTimeout = DefaultPerExtractorTimeout
	}
	if c.OverallTimeout <= 0 {
		c.OverallTimeout = DefaultOverallTimeout
	}
	if c.PostWorkers <= 0 {
		c.PostWorkers = DefaultPostWorkers
	}
	if c.PostQueueSize <= 0 {
		c.PostQueueSize = 64
	}
	return c
}

// budgetFor scales the per-extractor budget with document size: one
// extra base allowance per 50 MB, capped at the overall budget so a
// single extractor can never starve the run.
func (c Config) budgetFor(docSize int64) time.Duration {
	budget := c.PerExtractorTimeout
	if docSize > 0 {
		extra := time.Duration(docSize/(50<<20)) * c.PerExtractorTimeout
		budget += extra
	}
	if budget > c.OverallTimeout {
		budget = c.OverallTimeout
	}
	return budget
}

// resolveOptions fills the option defaults: all four asset types, URL
// return format. The "all" keyword expands to the default set, and a
// request left empty after dropping unknown types falls back to it too,
// so a malformed type list never yields a silent empty run.
func resolveOptions(opts schema.AssetExtractionOptions) schema.AssetExtractionOptions {
	var types []schema.AssetType
	for _, t := range opts.AssetTypes {
		if t == schema.AssetAll {
			types = append(types, schema.AllAssetTypes...)
			continue
		}
		types = append(types, t)
	}
	opts.AssetTypes = types
	if len(orderedTypes(opts.AssetTypes)) == 0 {
		opts.AssetTypes = append([]schema.AssetType(nil), schema.AllAssetTypes...)
	}
	if opts.ReturnFormat == "" {
		opts.ReturnFormat = schema.ReturnURLs
	}
	return opts
}

// sequentialOrder is the fixed execution order when parallel processing
// is disabled.
var sequentialOrder = []schema.AssetType{
	schema.AssetImage,
	schema.AssetVideo,
	schema.AssetAudio,
	schema.AssetDocument,
	schema.AssetShape,
	schema.AssetChart,
}

// orderedTypes returns the requested types in the fixed sequential
// order, dropping duplicates and unknown types.
func orderedTypes(requested []schema.AssetType) []schema.AssetType {
	want := make(map[schema.AssetType]bool, len(requested))
	for _, t := range requested {
		want[t] = true
	}
	var out []schema.AssetType
	for _, t := range sequentialOrder {
		if want[t] {
			out = append(out, t)
		}
	}
	return out
}
