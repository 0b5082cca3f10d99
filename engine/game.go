package engine

import (
	"github.com/spaghettifunk/anima-g3d/engine/assets"
	"github.com/spaghettifunk/anima-g3d/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	SystemManager     *systems.SystemManager
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnOnAssetChanged  OnAssetChanged
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(batch *systems.ModelBatch, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type OnAssetChanged func(info assets.AssetInfo) error
type Shutdown func() error
