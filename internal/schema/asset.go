package schema

import (
	"time"
)

// AssetType classifies an extracted binary asset.
type AssetType string

// Supported asset types.
const (
	AssetImage    AssetType = "image"
	AssetVideo    AssetType = "video"
	AssetAudio    AssetType = "audio"
	AssetDocument AssetType = "document"
	AssetShape    AssetType = "shape"
	AssetChart    AssetType = "chart"
)

// AssetAll is the request keyword expanding to every default asset
// type. It is only valid inside AssetExtractionOptions.AssetTypes and
// never appears on an extracted asset.
const AssetAll AssetType = "all"

// AllAssetTypes is the default extraction set when the caller does not
// narrow the request.
var AllAssetTypes = []AssetType{AssetImage, AssetVideo, AssetAudio, AssetDocument}

// Valid reports whether t is a known asset type.
func (t AssetType) Valid() bool {
	switch t {
	case AssetImage, AssetVideo, AssetAudio, AssetDocument, AssetShape, AssetChart:
		return true
	}
	return false
}

// AssetResult is one extracted asset. Data is only populated transiently
// between extraction and storage upload; it is never serialized.
type AssetResult struct {
	ID             string    `json:"id"`
	Type           AssetType `json:"type"`
	Format         string    `json:"format,omitempty"`
	Filename       string    `json:"filename,omitempty"`
	OriginalName   string    `json:"originalName,omitempty"`
	Size           int64     `json:"size"`
	PresentationID string    `json:"presentationId"`
	SlideIndex     int       `json:"slideIndex"`

	Data   []byte `json:"-"`
	Base64 string `json:"base64,omitempty"`

	StorageURL  string `json:"storageUrl,omitempty"`
	StoragePath string `json:"storagePath,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`

	Metadata AssetMetadata `json:"metadata"`
}

// AssetMetadata is the enriched per-asset metadata document.
type AssetMetadata struct {
	ExtractedAt      time.Time `json:"extractedAt"`
	ExtractionMethod string    `json:"extractionMethod,omitempty"`
	HasData          bool      `json:"hasData"`

	Transform *AssetTransform `json:"transform,omitempty"`
	Style     *AssetStyle     `json:"style,omitempty"`
	Quality   *AssetQuality   `json:"quality,omitempty"`

	// Media-specific fields, present for audio/video assets.
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
	FrameRate       float64 `json:"frameRate,omitempty"`
	Channels        int     `json:"channels,omitempty"`
	SampleRate      int     `json:"sampleRate,omitempty"`

	// Document-specific fields.
	Pages     int `json:"pages,omitempty"`
	WordCount int `json:"wordCount,omitempty"`

	// Engine hints tying the asset back to its source shape.
	ShapeID       int    `json:"shapeId,omitempty"`
	ShapeType     string `json:"shapeType,omitempty"`
	ParentGroupID int    `json:"parentGroupId,omitempty"`

	MimeType    string `json:"mimeType,omitempty"`
	Compression string `json:"compression,omitempty"`
	SizeClass   string `json:"sizeClass,omitempty"`

	LinkedAssets []string `json:"linkedAssets,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`

	ProcessingTimeMs int64    `json:"processingTimeMs,omitempty"`
	ErrorCount       int      `json:"errorCount,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
}

// AssetTransform is the source shape placement of an asset.
type AssetTransform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation,omitempty"`
	ScaleX   float64 `json:"scaleX,omitempty"`
	ScaleY   float64 `json:"scaleY,omitempty"`
}

// AssetStyle carries visual style hints derived from the source shape.
type AssetStyle struct {
	Opacity float64  `json:"opacity,omitempty"`
	Effects []string `json:"effects,omitempty"`
}

// AssetQuality carries quality hints. Quality, when set, is one of
// "low", "medium", "high" or "lossless".
type AssetQuality struct {
	Resolution  string `json:"resolution,omitempty"`
	Compression string `json:"compression,omitempty"`
	Quality     string `json:"quality,omitempty" validate:"omitempty,oneof=low medium high lossless"`
}

// PresentationAssetIndex is the denormalized per-presentation summary of
// registered assets. It is maintained incrementally on every add/remove,
// never recomputed on the hot path.
type PresentationAssetIndex struct {
	PresentationID string         `json:"presentationId"`
	TotalAssets    int            `json:"totalAssets"`
	AssetsByType   map[string]int `json:"assetsByType"`
	TotalSize      int64          `json:"totalSize"`
	LastUpdated    time.Time      `json:"lastUpdated"`
}

// ReturnFormat selects how asset payloads are surfaced to the caller.
type ReturnFormat string

// Supported return formats.
const (
	ReturnURLs         ReturnFormat = "urls"
	ReturnBase64       ReturnFormat = "base64"
	ReturnFirebaseURLs ReturnFormat = "firebase-urls"
	ReturnMetadataOnly ReturnFormat = "metadata-only"
)

// SlideRange limits extraction to a contiguous run of slide indices.
type SlideRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// AssetExtractionOptions is the caller-facing option surface for one
// asset extraction run.
type AssetExtractionOptions struct {
	AssetTypes           []AssetType  `json:"assetTypes,omitempty"`
	ReturnFormat         ReturnFormat `json:"returnFormat,omitempty"`
	ExtractThumbnails    bool         `json:"extractThumbnails,omitempty"`
	SaveToStorage        bool         `json:"saveToStorage,omitempty"`
	GenerateDownloadURLs bool         `json:"generateDownloadUrls,omitempty"`
	IncludeMetadata      bool         `json:"includeMetadata,omitempty"`
	IncludeTransforms    bool         `json:"includeTransforms,omitempty"`
	IncludeStyles        bool         `json:"includeStyles,omitempty"`
	SlideRange           *SlideRange  `json:"slideRange,omitempty"`
}

// InRange reports whether a slide index is covered by the requested range.
// A nil range covers every slide.
func (o *AssetExtractionOptions) InRange(slideIndex int) bool {
	if o == nil || o.SlideRange == nil {
		return true
	}
	return slideIndex >= o.SlideRange.Start && slideIndex <= o.SlideRange.End
}

// ExtractionContext is the ephemeral per-run context. It is owned by one
// extraction run and never persisted.
type ExtractionContext struct {
	PresentationID string                 `json:"presentationId"`
	ExtractionID   string                 `json:"extractionId"`
	StartTime      time.Time              `json:"startTime"`
	Options        AssetExtractionOptions `json:"options"`
}

// RunStatus is the terminal state of an extraction run.
type RunStatus string

// Extraction run states.
const (
	StatusIdle               RunStatus = "idle"
	StatusRunning            RunStatus = "running"
	StatusCompleted          RunStatus = "completed"
	StatusPartiallyCompleted RunStatus = "partiallyCompleted"
	StatusTimedOut           RunStatus = "timedOut"
	StatusFailed             RunStatus = "failed"
)

// ExtractionResult is the aggregate outcome of one extraction run.
// Success is true iff at least one asset was extracted or the request was
// asset-free; a fully empty result with errors reports Success false.
type ExtractionResult struct {
	Success          bool               `json:"success"`
	Status           RunStatus          `json:"status"`
	Assets           []AssetResult      `json:"assets"`
	TotalAssets      int                `json:"totalAssets"`
	ProcessingTimeMs int64              `json:"processingTimeMs"`
	Errors           []string           `json:"errors"`
	Warnings         []string           `json:"warnings"`
	Context          *ExtractionContext `json:"context,omitempty"`
}
