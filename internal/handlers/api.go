// Package handlers provides the HTTP API over extraction, the asset
// catalog and storage.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/example/slideconv/internal/engine"
	"github.com/example/slideconv/internal/extract"
	"github.com/example/slideconv/internal/models"
	"github.com/example/slideconv/internal/orchestrator"
	"github.com/example/slideconv/internal/repository"
	"github.com/example/slideconv/internal/schema"
	"github.com/example/slideconv/internal/storage"
)

// maxUploadBytes caps multipart parsing memory, not document size.
const maxUploadBytes = 32 << 20

// DocumentOpener parses an uploaded presentation into a live document
// graph. The server is engine-agnostic; deployments inject an opener
// backed by their rendering engine.
type DocumentOpener func(ctx context.Context, r io.Reader, size int64) (engine.Document, error)

// APIHandler exposes extraction and catalog operations over HTTP.
type APIHandler struct {
	log     zerolog.Logger
	orch    *orchestrator.Orchestrator
	repo    *repository.Repository
	store   *storage.Service
	factory *storage.Factory
	opener  DocumentOpener
	hub     *ProgressHub
}

// NewAPIHandler wires the handler. Repository, storage service, factory,
// opener and hub are all optional; endpoints depending on an absent
// collaborator report that instead of panicking.
func NewAPIHandler(log zerolog.Logger, orch *orchestrator.Orchestrator) *APIHandler {
	return &APIHandler{log: log, orch: orch}
}

// WithRepository attaches the asset catalog.
func (h *APIHandler) WithRepository(repo *repository.Repository) *APIHandler {
	h.repo = repo
	return h
}

// WithStorage attaches the storage service and factory.
func (h *APIHandler) WithStorage(store *storage.Service, factory *storage.Factory) *APIHandler {
	h.store = store
	h.factory = factory
	return h
}

// WithOpener attaches the engine document opener.
func (h *APIHandler) WithOpener(opener DocumentOpener) *APIHandler {
	h.opener = opener
	return h
}

// WithHub attaches the progress hub.
func (h *APIHandler) WithHub(hub *ProgressHub) *APIHandler {
	h.hub = hub
	return h
}

// RegisterRoutes mounts every endpoint on the router.
func (h *APIHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/presentations/{id}/extract", h.ExtractAssets).Methods(http.MethodPost)
	api.HandleFunc("/presentations/{id}/structure", h.ExtractStructure).Methods(http.MethodPost)
	api.HandleFunc("/presentations/{id}/assets", h.ListAssets).Methods(http.MethodGet)
	api.HandleFunc("/presentations/{id}/assets/{type}", h.ListAssetsByType).Methods(http.MethodGet)
	api.HandleFunc("/presentations/{id}/statistics", h.Statistics).Methods(http.MethodGet)
	api.HandleFunc("/assets/search", h.SearchAssets).Methods(http.MethodPost)
	api.HandleFunc("/assets/bulk-delete", h.BulkDeleteAssets).Methods(http.MethodPost)
	api.HandleFunc("/assets/{id}", h.GetAsset).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id}", h.DeleteAsset).Methods(http.MethodDelete)
	api.HandleFunc("/storage/status", h.StorageStatus).Methods(http.MethodGet)

	if h.hub != nil {
		r.HandleFunc("/ws/progress", h.hub.ServeWS)
	}
}

// Health reports liveness.
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, models.APIResponse{Success: true, Message: "ok"}, http.StatusOK)
}

// ExtractAssets runs a full asset extraction over an uploaded document.
func (h *APIHandler) ExtractAssets(w http.ResponseWriter, r *http.Request) {
	doc, presentationID, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer doc.Dispose()

	var opts schema.AssetExtractionOptions
	if raw := r.FormValue("options"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts); err != nil {
			sendJSONError(w, fmt.Sprintf("invalid options: %v", err), http.StatusBadRequest)
			return
		}
	}

	result, err := h.orch.ExtractAssets(r.Context(), doc, presentationID, opts)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSONResponse(w, models.APIResponse{Success: result.Success, Data: result}, http.StatusOK)
}

// ExtractStructure converts an uploaded document into the normalized
// presentation form.
func (h *APIHandler) ExtractStructure(w http.ResponseWriter, r *http.Request) {
	doc, _, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer doc.Dispose()

	opts := extract.Options{
		ProcessShapes:     true,
		IncludeNotes:      true,
		IncludeBackground: true,
	}
	pres, err := h.orch.ExtractStructure(doc, opts)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sendJSONResponse(w, models.APIResponse{Success: true, Data: pres}, http.StatusOK)
}

// openUpload parses the multipart upload and opens the document graph.
func (h *APIHandler) openUpload(w http.ResponseWriter, r *http.Request) (engine.Document, string, bool) {
	if h.opener == nil {
		sendJSONError(w, "no document engine configured", http.StatusServiceUnavailable)
		return nil, "", false
	}
	presentationID := mux.Vars(r)["id"]
	if presentationID == "" {
		sendJSONError(w, "presentation id is required", http.StatusBadRequest)
		return nil, "", false
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		sendJSONError(w, "failed to parse form", http.StatusBadRequest)
		return nil, "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		sendJSONError(w, "no file provided", http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	doc, err := h.opener(r.Context(), file, header.Size)
	if err != nil {
		sendJSONError(w, fmt.Sprintf("failed to open document: %v", err), http.StatusUnprocessableEntity)
		return nil, "", false
	}
	return doc, presentationID, true
}

// requireRepo reports whether the asset catalog is attached, answering
// the request with 503 when it is not.
func (h *APIHandler) requireRepo(w http.ResponseWriter) bool {
	if h.repo == nil {
		sendJSONError(w, "no repository configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// ListAssets returns every stored asset of a presentation.
func (h *APIHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	assets, err := h.repo.GetAssetsByPresentation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSONResponse(w, models.APIResponse{Success: true, Data: assets}, http.StatusOK)
}

// ListAssetsByType returns a presentation's assets of one type.
func (h *APIHandler) ListAssetsByType(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	vars := mux.Vars(r)
	assetType := schema.AssetType(vars["type"])
	if !assetType.Valid() {
		sendJSONError(w, fmt.Sprintf("unknown asset type %q", vars["type"]), http.StatusBadRequest)
		return
	}
	assets, err := h.repo.GetAssetsByType(r.Context(), vars["id"], assetType)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSONResponse(w, models.APIResponse{Success: true, Data: assets}, http.StatusOK)
}

// Statistics returns the denormalized per-presentation rollup.
func (h *APIHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	stats, err := h.repo.GetAssetStatistics(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSONResponse(w, models.APIResponse{Success: true, Data: stats}, http.StatusOK)
}

// SearchAssets filters the asset catalog.
func (h *APIHandler) SearchAssets(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	var req models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "invalid search request", http.StatusBadRequest)
		return
	}
	assets, err := h.repo.SearchAssets(r.Context(), req.Query)
	if err != nil {
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSONResponse(w, models.APIResponse{Success: true, Data: assets}, http.StatusOK)
}

// GetAsset loads one asset by id.
func (h *APIHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	asset, err := h.repo.GetAsset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			sendJSONError(w, "asset not found", http.StatusNotFound)
			return
		}
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSONResponse(w, models.APIResponse{Success: true, Data: asset}, http.StatusOK)
}

// DeleteAsset removes one asset from the catalog and, when present,
// its stored object.
func (h *APIHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	id := mux.Vars(r)["id"]
	asset, err := h.repo.GetAsset(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAssetNotFound) {
			sendJSONError(w, "asset not found", http.StatusNotFound)
			return
		}
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := h.repo.DeleteAsset(r.Context(), id); err != nil {
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if h.store != nil && asset.StoragePath != "" {
		if err := h.store.DeleteAsset(r.Context(), asset.StoragePath); err != nil {
			h.log.Warn().Str("asset", id).Err(err).Msg("stored object cleanup failed")
		}
	}
	sendJSONResponse(w, models.APIResponse{Success: true, Message: "asset deleted"}, http.StatusOK)
}

// BulkDeleteAssets deletes a batch of assets with per-asset isolation.
func (h *APIHandler) BulkDeleteAssets(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	var req models.BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "invalid bulk delete request", http.StatusBadRequest)
		return
	}
	if len(req.AssetIDs) == 0 {
		sendJSONError(w, "no asset ids provided", http.StatusBadRequest)
		return
	}
	failures, deleted := h.repo.BulkDeleteAssets(r.Context(), req.AssetIDs)
	sendJSONResponse(w, models.APIResponse{
		Success: len(failures) == 0,
		Data:    models.BulkDeleteResponse{Deleted: deleted, Failures: failures},
	}, http.StatusOK)
}

// StorageStatus reports the availability of each storage backend.
func (h *APIHandler) StorageStatus(w http.ResponseWriter, r *http.Request) {
	if h.factory == nil {
		sendJSONError(w, "storage is not configured", http.StatusServiceUnavailable)
		return
	}
	status := map[string]models.ProviderStatus{}
	for _, providerType := range []string{"local", "s3", "google"} {
		available, reason := h.factory.IsProviderAvailable(providerType)
		status[providerType] = models.ProviderStatus{Available: available, Reason: reason}
	}
	sendJSONResponse(w, models.APIResponse{Success: true, Data: status}, http.StatusOK)
}

// sendJSONResponse writes a JSON response with the given status.
func sendJSONResponse(w http.ResponseWriter, response interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// sendJSONError sends a JSON error response to the client.
func sendJSONError(w http.ResponseWriter, message string, status int) {
	sendJSONResponse(w, models.APIResponse{Success: false, Error: message}, status)
}
