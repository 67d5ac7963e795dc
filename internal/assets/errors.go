package assets

import "errors"

// Common errors
var (
	ErrNoExtractors         = errors.New("no asset extractors registered")
	ErrEngineUnavailable    = errors.New("document engine unavailable")
	ErrUnsupportedAssetType = errors.New("unsupported asset type")
)
