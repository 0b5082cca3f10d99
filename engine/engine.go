package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/anima-g3d/engine/assets"
	"github.com/spaghettifunk/anima-g3d/engine/containers"
	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/platform"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu/opengl"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-g3d/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine released every resource
	EngineStageShutdown
)

const headlessTextureUnits int = 16

type Engine struct {
	currentStage  Stage
	gameInstance  *Game
	isRunning     atomic.Bool
	isSuspended   bool
	platform      *platform.Platform
	backend       gpu.Backend
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	metrics       *core.RenderMetrics
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      float64
	frameCount    uint64
	listeners     map[core.EventCode]uint64
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	if err := g.ApplicationConfig.Validate(); err != nil {
		return nil, err
	}
	core.SetLogLevel(g.ApplicationConfig.LogLevel)

	var p *platform.Platform
	if !g.ApplicationConfig.Headless {
		p = platform.New()
	}

	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		clock:        core.NewClock(),
		platform:     p,
		metrics:      core.NewRenderMetrics(containers.NewRingQueue[float64](core.AVG_COUNT)),
		isSuspended:  false,
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
		lastTime:     0,
		listeners:    make(map[core.EventCode]uint64),
	}
	e.isRunning.Store(true)
	return e, nil
}

// Backend returns the GPU backend, nil before Initialize.
func (e *Engine) Backend() gpu.Backend {
	return e.backend
}

func (e *Engine) Metrics() *core.RenderMetrics {
	return e.metrics
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) FrameCount() uint64 {
	return e.frameCount
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	cfg := e.gameInstance.ApplicationConfig

	if err := core.InputInitialize(); err != nil {
		return err
	}
	if !core.EventSystemInitialize() {
		return fmt.Errorf("failed to initialize the event system")
	}
	e.listeners[core.EVENT_CODE_APPLICATION_QUIT] = core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e.onEvent)
	e.listeners[core.EVENT_CODE_KEY_PRESSED] = core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e.onKey)
	e.listeners[core.EVENT_CODE_RESIZED] = core.EventRegister(core.EVENT_CODE_RESIZED, e.onResized)
	e.listeners[core.EVENT_CODE_ASSET_CHANGED] = core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, e.onAssetChanged)

	if e.platform != nil {
		if err := e.platform.Startup(cfg.Name, cfg.StartPosX, cfg.StartPosY, cfg.StartWidth, cfg.StartHeight, cfg.VSync); err != nil {
			return err
		}
		e.width, e.height = e.platform.FramebufferSize()
		b, err := opengl.NewBackend()
		if err != nil {
			return err
		}
		e.backend = b
	} else {
		core.LogInfo("running headless")
		e.backend = gpu.NewRecorder(headlessTextureUnits)
	}

	var loader systems.AssetLoader
	if dir := cfg.Renderer.AssetsDir; dir != "" {
		am, err := e.startAssets(dir)
		if err != nil {
			return err
		}
		if am != nil {
			e.assetManager = am
			loader = am
		}
	}

	sm, err := systems.NewSystemManager(cfg.Renderer, e.backend, loader, e.metrics, cfg.AspectRatio())
	if err != nil {
		return err
	}
	if err := sm.Initialize(); err != nil {
		return err
	}
	e.systemManager = sm
	e.gameInstance.SystemManager = sm

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) startAssets(dir string) (*assets.AssetManager, error) {
	if !filepath.IsAbs(dir) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(wd, dir)
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		core.LogWarn("assets directory %s does not exist, asset loading disabled", dir)
		return nil, nil
	}
	am, err := assets.NewAssetManager()
	if err != nil {
		return nil, err
	}
	if err := am.Initialize(dir); err != nil {
		return nil, err
	}
	return am, nil
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	const targetFrameSeconds float64 = 1.0 / 60.0
	cfg := e.gameInstance.ApplicationConfig

	for e.isRunning.Load() {
		if e.platform != nil && !e.platform.PumpMessages() {
			e.isRunning.Store(false)
			break
		}
		e.pumpAssetChanges()

		if e.isSuspended {
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStart := time.Now()

		if err := e.frame(delta); err != nil {
			core.LogError("frame %d failed, shutting down: %s", e.frameCount, err.Error())
			e.isRunning.Store(false)
			return err
		}

		// Give the remaining frame time back to the OS when vsync is off.
		frameElapsed := time.Since(frameStart).Seconds()
		e.metrics.Update(frameElapsed)
		if e.platform != nil && !cfg.VSync {
			if remaining := targetFrameSeconds - frameElapsed; remaining > 0 {
				e.platform.Sleep(time.Duration(remaining * float64(time.Second)))
			}
		}

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		core.InputUpdate(delta)

		e.lastTime = currentTime
		e.frameCount++
		if cfg.MaxFrames > 0 && e.frameCount >= cfg.MaxFrames {
			e.isRunning.Store(false)
		}
		if e.frameCount%uint64(core.AVG_COUNT*10) == 0 {
			fps, ms := e.metrics.Frame()
			core.LogDebug("%.0f fps (%.2f ms), %d draw calls, %d shader switches, %d texture binds",
				fps, ms, e.metrics.LastDrawCalls, e.metrics.LastShaderSwitches, e.metrics.LastTextureBinds)
		}
	}
	return nil
}

// frame runs the game update and render routines for a single frame.
func (e *Engine) frame(delta float64) error {
	if e.gameInstance.FnUpdate != nil {
		if err := e.gameInstance.FnUpdate(delta); err != nil {
			return err
		}
	}

	c := e.gameInstance.ApplicationConfig.ClearColor
	e.backend.Viewport(0, 0, int(e.width), int(e.height))
	e.backend.Clear(mgl32.Vec4{c[0], c[1], c[2], c[3]})

	var err error
	e.systemManager.BeginFrame()
	if e.gameInstance.FnRender != nil {
		err = e.gameInstance.FnRender(e.systemManager.ModelBatch, delta)
	}
	e.systemManager.EndFrame()
	if err != nil {
		return err
	}
	if e.platform != nil {
		e.platform.SwapBuffers()
	}
	return nil
}

// pumpAssetChanges forwards every pending asset change to the event system.
func (e *Engine) pumpAssetChanges() {
	if e.assetManager == nil {
		return
	}
	for {
		select {
		case info, ok := <-e.assetManager.Changes():
			if !ok {
				e.assetManager = nil
				return
			}
			core.EventFire(core.EventContext{
				Type: core.EVENT_CODE_ASSET_CHANGED,
				Data: &core.AssetEvent{
					Name: info.Name,
					Path: info.Path,
					Type: info.Type.String(),
				},
			})
		default:
			return
		}
	}
}

// Quit stops the main loop after the current frame. Safe to call from any goroutine.
func (e *Engine) Quit() {
	e.isRunning.Store(false)
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShutdown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("%s", err)
		}
	}
	for code, id := range e.listeners {
		core.EventUnregister(code, id)
	}
	if e.systemManager != nil {
		if err := e.systemManager.Shutdown(); err != nil {
			return err
		}
	}
	if e.assetManager != nil {
		if err := e.assetManager.Shutdown(); err != nil {
			return err
		}
	}
	if err := core.EventSystemShutdown(); err != nil {
		return err
	}
	if err := core.InputShutdown(); err != nil {
		return err
	}
	if e.platform != nil {
		if err := e.platform.Shutdown(); err != nil {
			return err
		}
	}
	e.currentStage = EngineStageShutdown
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) bool {
	if context.Type == core.EVENT_CODE_APPLICATION_QUIT {
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning.Store(false)
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	if ke.KeyCode == core.KEY_ESCAPE {
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_APPLICATION_QUIT,
		})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	width, height := se.WindowWidth, se.WindowHeight
	if width == e.width && height == e.height {
		return false
	}
	e.width, e.height = width, height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.systemManager != nil {
		e.systemManager.CameraSystem.SetAspect(float32(width) / float32(height))
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError("%s", err)
		}
	}
	return false
}

// onAssetChanged reloads materials edited on disk and lets the game rebuild what depends on them.
func (e *Engine) onAssetChanged(context core.EventContext) bool {
	ae, ok := context.Data.(*core.AssetEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}
	core.LogDebug("asset changed: %s (%s)", ae.Path, ae.Type)
	if ae.Type == metadata.ResourceTypeMaterial.String() && e.systemManager != nil {
		if err := e.systemManager.MaterialSystem.Reload(ae.Name); err != nil {
			core.LogError("failed to reload material '%s': %s", ae.Name, err.Error())
			return false
		}
	}
	if e.gameInstance.FnOnAssetChanged != nil {
		info := assets.AssetInfo{Name: ae.Name, Path: ae.Path}
		for _, t := range []metadata.ResourceType{metadata.ResourceTypeMaterial, metadata.ResourceTypeImage, metadata.ResourceTypeShader} {
			if t.String() == ae.Type {
				info.Type = t
			}
		}
		if err := e.gameInstance.FnOnAssetChanged(info); err != nil {
			core.LogError("%s", err)
		}
	}
	return false
}
