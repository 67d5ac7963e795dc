package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/slideconv/internal/schema"
)

// ErrAssetNotFound is returned when no asset row exists for an id.
var ErrAssetNotFound = errors.New("asset not found")

// SearchQuery filters asset lookups. Zero fields match everything.
type SearchQuery struct {
	PresentationID string             `json:"presentationId"`
	Types          []schema.AssetType `json:"types,omitempty"`
	Formats        []string           `json:"formats,omitempty"`
	SlideIndex     *int               `json:"slideIndex,omitempty"`
	MinSize        int64              `json:"minSize,omitempty"`
	MaxSize        int64              `json:"maxSize,omitempty"`
	NamePattern    string             `json:"namePattern,omitempty"`
	Limit          int                `json:"limit,omitempty"`
	Offset         int                `json:"offset,omitempty"`
}

// DeleteFailure records one asset that could not be deleted during a
// bulk delete.
type DeleteFailure struct {
	AssetID string `json:"assetId"`
	Error   string `json:"error"`
}

// Repository stores asset metadata documents in a relational database.
type Repository struct {
	db  *gorm.DB
	log zerolog.Logger
}

// New creates a repository on an already migrated database handle.
func New(db *gorm.DB, log zerolog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// SaveAsset upserts one asset row. For new assets the presentation
// index is incremented in the same transaction; re-saves only adjust
// the size rollup. An index failure is logged and never fails the
// asset write itself.
func (r *Repository) SaveAsset(ctx context.Context, asset *schema.AssetResult) error {
	if asset == nil || asset.ID == "" {
		return fmt.Errorf("asset id is required")
	}
	row, err := toRow(asset)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing AssetRow
		err := tx.Select("id", "size").Where("id = ?", row.ID).First(&existing).Error
		isNew := errors.Is(err, gorm.ErrRecordNotFound)
		if err != nil && !isNew {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&row).Error; err != nil {
			return err
		}

		if isNew {
			r.noteIndexError(row.ID, bumpIndex(tx, row.PresentationID, row.Type, 1, row.Size))
		} else if delta := row.Size - existing.Size; delta != 0 {
			r.noteIndexError(row.ID, bumpIndex(tx, row.PresentationID, "", 0, delta))
		}
		return nil
	})
}

// GetAsset loads one asset by id.
func (r *Repository) GetAsset(ctx context.Context, id string) (*schema.AssetResult, error) {
	var row AssetRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return fromRow(&row)
}

// GetAssetsByPresentation loads every asset of a presentation ordered
// by slide position.
func (r *Repository) GetAssetsByPresentation(ctx context.Context, presentationID string) ([]schema.AssetResult, error) {
	var rows []AssetRow
	err := r.db.WithContext(ctx).
		Where("presentation_id = ?", presentationID).
		Order("slide_index, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

// GetAssetsByType loads a presentation's assets of one type.
func (r *Repository) GetAssetsByType(ctx context.Context, presentationID string, assetType schema.AssetType) ([]schema.AssetResult, error) {
	var rows []AssetRow
	err := r.db.WithContext(ctx).
		Where("presentation_id = ? AND type = ?", presentationID, string(assetType)).
		Order("slide_index, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return fromRows(rows)
}

// SearchAssets applies the query's store-side filters in SQL and the
// filename pattern in memory, since pattern dialects vary per backend.
func (r *Repository) SearchAssets(ctx context.Context, q SearchQuery) ([]schema.AssetResult, error) {
	tx := r.db.WithContext(ctx).Model(&AssetRow{})
	if q.PresentationID != "" {
		tx = tx.Where("presentation_id = ?", q.PresentationID)
	}
	if len(q.Types) > 0 {
		types := make([]string, len(q.Types))
		for i, t := range q.Types {
			types[i] = string(t)
		}
		tx = tx.Where("type IN ?", types)
	}
	if len(q.Formats) > 0 {
		tx = tx.Where("format IN ?", q.Formats)
	}
	if q.SlideIndex != nil {
		tx = tx.Where("slide_index = ?", *q.SlideIndex)
	}
	if q.MinSize > 0 {
		tx = tx.Where("size >= ?", q.MinSize)
	}
	if q.MaxSize > 0 {
		tx = tx.Where("size <= ?", q.MaxSize)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []AssetRow
	if err := tx.Order("slide_index, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	if q.NamePattern != "" {
		pattern := strings.ToLower(q.NamePattern)
		filtered := rows[:0]
		for _, row := range rows {
			name := strings.ToLower(row.Filename)
			if ok, _ := path.Match(pattern, name); ok || strings.Contains(name, pattern) {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}
	return fromRows(rows)
}

// GetAssetStatistics returns the denormalized rollup for a
// presentation. A missing index row yields empty statistics, not an
// error.
func (r *Repository) GetAssetStatistics(ctx context.Context, presentationID string) (*schema.PresentationAssetIndex, error) {
	var row IndexRow
	err := r.db.WithContext(ctx).Where("presentation_id = ?", presentationID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &schema.PresentationAssetIndex{
			PresentationID: presentationID,
			AssetsByType:   map[string]int{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &schema.PresentationAssetIndex{
		PresentationID: row.PresentationID,
		TotalAssets:    row.TotalAssets,
		AssetsByType: map[string]int{
			string(schema.AssetImage):    row.ImageCount,
			string(schema.AssetVideo):    row.VideoCount,
			string(schema.AssetAudio):    row.AudioCount,
			string(schema.AssetDocument): row.DocumentCount,
		},
		TotalSize:   row.TotalSize,
		LastUpdated: row.UpdatedAt,
	}, nil
}

// DeleteAsset removes one asset and decrements the index by exactly
// that asset's size and type count. As with SaveAsset, an index
// failure is logged and the delete still commits.
func (r *Repository) DeleteAsset(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row AssetRow
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssetNotFound
			}
			return err
		}
		if err := tx.Delete(&AssetRow{}, "id = ?", id).Error; err != nil {
			return err
		}
		r.noteIndexError(id, bumpIndex(tx, row.PresentationID, row.Type, -1, -row.Size))
		return nil
	})
}

// noteIndexError logs a failed index adjustment. The rollup is derived
// data and must not block the primary asset write.
func (r *Repository) noteIndexError(assetID string, err error) {
	if err == nil {
		return
	}
	r.log.Warn().Err(err).Str("asset", assetID).Msg("index update failed")
}

// BulkDeleteAssets deletes each asset in isolation: one failure never
// aborts the rest. It returns the per-asset failures and the number of
// successful deletes.
func (r *Repository) BulkDeleteAssets(ctx context.Context, ids []string) ([]DeleteFailure, int) {
	var failures []DeleteFailure
	deleted := 0
	for _, id := range ids {
		if err := r.DeleteAsset(ctx, id); err != nil {
			failures = append(failures, DeleteFailure{AssetID: id, Error: err.Error()})
			continue
		}
		deleted++
	}
	return failures, deleted
}

// bumpIndex adjusts the per-presentation rollup inside the caller's
// transaction. countDelta of zero means a size-only adjustment.
func bumpIndex(tx *gorm.DB, presentationID, assetType string, countDelta int, sizeDelta int64) error {
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&IndexRow{PresentationID: presentationID, UpdatedAt: time.Now()}).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"total_size": gorm.Expr("total_size + ?", sizeDelta),
		"updated_at": time.Now(),
	}
	if countDelta != 0 {
		updates["total_assets"] = gorm.Expr("total_assets + ?", countDelta)
		if col := countColumn(assetType); col != "" {
			updates[col] = gorm.Expr(col+" + ?", countDelta)
		}
	}
	return tx.Model(&IndexRow{}).
		Where("presentation_id = ?", presentationID).
		Updates(updates).Error
}

func toRow(asset *schema.AssetResult) (AssetRow, error) {
	meta, err := json.Marshal(asset.Metadata)
	if err != nil {
		return AssetRow{}, fmt.Errorf("failed to encode asset metadata: %w", err)
	}
	return AssetRow{
		ID:             asset.ID,
		PresentationID: asset.PresentationID,
		Type:           string(asset.Type),
		Format:         asset.Format,
		Filename:       asset.Filename,
		OriginalName:   asset.OriginalName,
		Size:           asset.Size,
		SlideIndex:     asset.SlideIndex,
		StorageURL:     asset.StorageURL,
		StoragePath:    asset.StoragePath,
		DownloadURL:    asset.DownloadURL,
		Metadata:       string(meta),
	}, nil
}

func fromRow(row *AssetRow) (*schema.AssetResult, error) {
	asset := &schema.AssetResult{
		ID:             row.ID,
		PresentationID: row.PresentationID,
		Type:           schema.AssetType(row.Type),
		Format:         row.Format,
		Filename:       row.Filename,
		OriginalName:   row.OriginalName,
		Size:           row.Size,
		SlideIndex:     row.SlideIndex,
		StorageURL:     row.StorageURL,
		StoragePath:    row.StoragePath,
		DownloadURL:    row.DownloadURL,
	}
	if row.Metadata != "" {
		if err := json.Unmarshal([]byte(row.Metadata), &asset.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode asset metadata: %w", err)
		}
	}
	return asset, nil
}

func fromRows(rows []AssetRow) ([]schema.AssetResult, error) {
	out := make([]schema.AssetResult, 0, len(rows))
	for i := range rows {
		asset, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *asset)
	}
	return out, nil
}
