package storage

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Factory creates storage providers and tracks backends that failed to
// initialize so callers can surface availability without retry storms.
type Factory struct {
	log       zerolog.Logger
	providers map[string]Provider
	mu        sync.RWMutex

	unavailableProviders map[string]string
}

// NewFactory creates a storage factory.
func NewFactory(log zerolog.Logger) *Factory {
	return &Factory{
		log:                  log,
		providers:            make(map[string]Provider),
		unavailableProviders: make(map[string]string),
	}
}

// RegisterProvider registers a custom provider under a name.
func (f *Factory) RegisterProvider(name string, provider Provider) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.providers[name] = provider
}

// MarkProviderUnavailable records that a provider type cannot be used.
func (f *Factory) MarkProviderUnavailable(providerType, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unavailableProviders[providerType] = reason
	f.log.Warn().Str("provider", providerType).Str("reason", reason).Msg("storage provider marked unavailable")
}

// IsProviderAvailable reports availability and, when unavailable, the
// recorded reason.
func (f *Factory) IsProviderAvailable(providerType string) (bool, string) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	reason, unavailable := f.unavailableProviders[providerType]
	return !unavailable, reason
}

// CreateProvider builds and initializes a provider of the given type.
func (f *Factory) CreateProvider(providerType string, config map[string]string) (Provider, error) {
	f.mu.RLock()
	if reason, unavailable := f.unavailableProviders[providerType]; unavailable {
		f.mu.RUnlock()
		return nil, fmt.Errorf("%s provider is currently unavailable: %s", providerType, reason)
	}
	f.mu.RUnlock()

	var provider Provider
	switch providerType {
	case "local":
		provider = NewLocalStorage()
	case "s3", "amazon", "aws":
		provider = NewAmazonS3Storage()
	case "gcs", "google":
		provider = NewGoogleCloudStorage()
	default:
		f.mu.RLock()
		p, ok := f.providers[providerType]
		f.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("unsupported storage provider type: %s", providerType)
		}
		provider = p
	}

	if err := provider.Initialize(config); err != nil {
		f.MarkProviderUnavailable(providerType, err.Error())
		return nil, fmt.Errorf("failed to initialize %s storage provider: %w", providerType, err)
	}
	return provider, nil
}
