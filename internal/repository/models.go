// Package repository persists asset metadata documents and maintains a
// denormalized per-presentation asset index in the same transaction as
// every asset write.
package repository

import (
	"time"
)

// AssetRow is the stored form of one extracted asset. Hot query fields
// are flattened into columns; the full metadata document rides along as
// JSON.
type AssetRow struct {
	ID             string `gorm:"primaryKey;size:64"`
	PresentationID string `gorm:"index;size:64"`
	Type           string `gorm:"index;size:16"`
	Format         string `gorm:"size:16"`
	Filename       string
	OriginalName   string
	Size           int64
	SlideIndex     int

	StorageURL  string
	StoragePath string
	DownloadURL string

	Metadata string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps the table name stable across gorm naming strategies.
func (AssetRow) TableName() string { return "assets" }

// IndexRow is the denormalized per-presentation rollup. Counters are
// only ever adjusted inside the transaction that touches the asset
// rows, so the rollup stays consistent with the store.
type IndexRow struct {
	PresentationID string `gorm:"primaryKey;size:64"`
	TotalAssets    int
	ImageCount     int
	VideoCount     int
	AudioCount     int
	DocumentCount  int
	TotalSize      int64
	UpdatedAt      time.Time
}

// TableName keeps the table name stable across gorm naming strategies.
func (IndexRow) TableName() string { return "presentation_asset_index" }

// countColumn maps an asset type to its counter column.
func countColumn(assetType string) string {
	switch assetType {
	case "image":
		return "image_count"
	case "video":
		return "video_count"
	case "audio":
		return "audio_count"
	case "document":
		return "document_count"
	}
	return ""
}
