// Package models provides request and response structures for the HTTP API.
package models

import (
	"github.com/example/slideconv/internal/repository"
	"github.com/example/slideconv/internal/schema"
)

// APIResponse is a generic API response structure.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ExtractRequest carries the options for an asset extraction run. The
// presentation itself arrives as the uploaded document.
type ExtractRequest struct {
	PresentationID string                        `json:"presentationId"`
	Options        schema.AssetExtractionOptions `json:"options"`
}

// SearchRequest wraps a repository search query.
type SearchRequest struct {
	Query repository.SearchQuery `json:"query"`
}

// BulkDeleteRequest names the assets to delete.
type BulkDeleteRequest struct {
	AssetIDs []string `json:"assetIds"`
}

// BulkDeleteResponse reports the per-asset outcome of a bulk delete.
type BulkDeleteResponse struct {
	Deleted  int                        `json:"deleted"`
	Failures []repository.DeleteFailure `json:"failures,omitempty"`
}

// ProviderStatus describes one storage backend's availability.
type ProviderStatus struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}
