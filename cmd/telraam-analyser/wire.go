//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/olane/telraam-analyser/internal/app"
)

// InitializeApp builds the App (config, client, cache store, preset store)
// via Wire.
func InitializeApp() (*app.App, error) {
	wire.Build(
		app.ProvideConfig,
		app.ProvideClient,
		app.ProvideStore,
		app.ProvidePresetStore,
		wire.Struct(new(app.App), "Config", "Client", "Store", "Presets"),
	)
	return nil, nil
}
