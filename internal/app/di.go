package app

import (
	"github.com/olane/telraam-analyser/internal/cache"
	"github.com/olane/telraam-analyser/internal/presets"
	"github.com/olane/telraam-analyser/internal/telraam"
)

// ProvideConfig loads config from the environment (for Wire).
func ProvideConfig() (*Config, error) {
	return LoadConfig()
}

// ProvideClient creates the API client from config (for Wire).
func ProvideClient(cfg *Config) *telraam.Client {
	return telraam.NewClient(cfg.APIKey, telraam.WithMinInterval(cfg.MinInterval))
}

// ProvideStore creates the cache store from config (for Wire).
func ProvideStore(cfg *Config) (*cache.Store, error) {
	return cache.NewStore(cfg.CacheDir)
}

// ProvidePresetStore creates the preset store from config (for Wire).
func ProvidePresetStore(cfg *Config) *presets.Store {
	return presets.NewStore(cfg.PresetsDir)
}
