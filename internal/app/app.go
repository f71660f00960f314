package app

import (
	"github.com/olane/telraam-analyser/internal/cache"
	"github.com/olane/telraam-analyser/internal/presets"
	"github.com/olane/telraam-analyser/internal/telraam"
)

// App holds the application dependencies built by Wire.
type App struct {
	Config  *Config
	Client  *telraam.Client
	Store   *cache.Store
	Presets *presets.Store
}
