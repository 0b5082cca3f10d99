package testbed

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/rand"

	"github.com/spaghettifunk/anima-g3d/engine"
	"github.com/spaghettifunk/anima-g3d/engine/assets"
	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/math"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/attributes"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/components"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/gpu"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
	"github.com/spaghettifunk/anima-g3d/engine/systems"
)

const (
	tempMoveSpeed float32 = 10.0
	gridSize      int     = 16
	gridSpacing   float32 = 2.0
	spinnerCount  int     = 6
	// Material asset picked up from the assets directory when present.
	crateMaterialName string = "crate"
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	WorldCamera *components.Camera

	width  uint32
	height uint32

	environment *metadata.Environment
	palette     []*metadata.Material
	glass       *metadata.Material
	crate       *metadata.Material

	ground   *metadata.StaticModel
	grid     []*metadata.StaticModel
	spinners []*metadata.StaticModel

	cache  *systems.ModelCache
	rng    *rand.Rand
	orbit  float32
	jitter float64
}

func NewTestGame(config *engine.ApplicationConfig) *TestGame {
	if config == nil {
		config = engine.DefaultApplicationConfig()
		config.Name = "Anima G3D Testbed"
	}
	tg := &TestGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State: &gameState{
				rng: rand.New(rand.NewSource(42)),
			},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnOnAssetChanged = tg.OnAssetChanged
	tg.FnShutdown = tg.Shutdown

	return tg
}

func (g *TestGame) Initialize() error {
	core.LogDebug("TestGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}
	sm := g.SystemManager
	state := g.State.(*gameState)

	state.WorldCamera = sm.CameraSystem.GetDefault()
	state.WorldCamera.SetPosition(mgl32.Vec3{0, 14, 34})
	state.WorldCamera.LookAt(mgl32.Vec3{0, 0, 0})

	state.environment = metadata.NewEnvironment(
		attributes.NewAmbientLightColor(mgl32.Vec4{0.35, 0.35, 0.4, 1}),
	)

	state.palette = []*metadata.Material{
		metadata.NewMaterial("red", attributes.NewDiffuseColor(mgl32.Vec4{0.85, 0.2, 0.2, 1})),
		metadata.NewMaterial("green", attributes.NewDiffuseColor(mgl32.Vec4{0.2, 0.8, 0.3, 1})),
		metadata.NewMaterial("blue", attributes.NewDiffuseColor(mgl32.Vec4{0.2, 0.35, 0.9, 1})),
	}
	state.glass = metadata.NewMaterial("glass",
		attributes.NewDiffuseColor(mgl32.Vec4{0.9, 0.9, 1, 1}),
		attributes.NewAlphaBlending(0.5),
		attributes.NewCullFace(gpu.FaceNone),
	)
	if m, err := sm.MaterialSystem.Acquire(crateMaterialName); err == nil {
		state.crate = m
		state.palette = append(state.palette, m)
	} else {
		core.LogWarn("material '%s' not available, using built-in colors only", crateMaterialName)
	}

	cube, err := sm.GeometrySystem.GenerateCube("testbed_cube", 1, 1, 1)
	if err != nil {
		return err
	}
	plane, err := sm.GeometrySystem.GeneratePlane("testbed_ground", 48, 48, 8, 8, 6, 6)
	if err != nil {
		return err
	}
	cubePart := metadata.NewMeshPart("cube", cube, 0, cube.NumIndices(), gpu.PrimitiveTriangles)
	planePart := metadata.NewMeshPart("ground", plane, 0, plane.NumIndices(), gpu.PrimitiveTriangles)

	state.ground = metadata.NewStaticModel("ground", mgl32.Translate3D(0, -0.5, 0),
		metadata.NewModelPart(planePart, sm.MaterialSystem.GetDefaultMaterial()))
	state.ground.Environment = state.environment

	half := float32(gridSize-1) * gridSpacing * 0.5
	for z := 0; z < gridSize; z++ {
		for x := 0; x < gridSize; x++ {
			material := state.palette[(x+z)%len(state.palette)]
			world := mgl32.Translate3D(float32(x)*gridSpacing-half, 0, float32(z)*gridSpacing-half)
			m := metadata.NewStaticModel(fmt.Sprintf("grid_%d_%d", x, z), world, metadata.NewModelPart(cubePart, material))
			m.Environment = state.environment
			state.grid = append(state.grid, m)
		}
	}

	for i := 0; i < spinnerCount; i++ {
		m := metadata.NewStaticModel(fmt.Sprintf("spinner_%d", i), mgl32.Ident4(), metadata.NewModelPart(cubePart, state.glass))
		m.Environment = state.environment
		state.spinners = append(state.spinners, m)
	}

	state.cache, err = sm.NewModelCache()
	if err != nil {
		return err
	}
	return g.buildCache()
}

// buildCache merges the ground and the cube grid into as few meshes as possible.
func (g *TestGame) buildCache() error {
	state := g.State.(*gameState)
	if err := state.cache.Begin(state.WorldCamera); err != nil {
		return err
	}
	if err := state.cache.AddProvider(state.ground); err != nil {
		return err
	}
	for _, m := range state.grid {
		if err := state.cache.AddProvider(m); err != nil {
			return err
		}
	}
	if err := state.cache.End(); err != nil {
		return err
	}
	core.LogInfo("cached %d static models into %d renderables", len(state.grid)+1, state.cache.Len())
	return nil
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.State.(*gameState)
	dt := float32(deltaTime)

	if core.InputIsKeyDown(core.KEY_A) || core.InputIsKeyDown(core.KEY_LEFT) {
		state.WorldCamera.Yaw(1.0 * dt)
	}
	if core.InputIsKeyDown(core.KEY_D) || core.InputIsKeyDown(core.KEY_RIGHT) {
		state.WorldCamera.Yaw(-1.0 * dt)
	}
	if core.InputIsKeyDown(core.KEY_UP) {
		state.WorldCamera.Pitch(1.0 * dt)
	}
	if core.InputIsKeyDown(core.KEY_DOWN) {
		state.WorldCamera.Pitch(-1.0 * dt)
	}
	if core.InputIsKeyDown(core.KEY_W) {
		state.WorldCamera.MoveForward(tempMoveSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_S) {
		state.WorldCamera.MoveBackward(tempMoveSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_Q) {
		state.WorldCamera.MoveLeft(tempMoveSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_E) {
		state.WorldCamera.MoveRight(tempMoveSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_SPACE) {
		state.WorldCamera.MoveUp(tempMoveSpeed * dt)
	}
	if core.InputIsKeyDown(core.KEY_X) {
		state.WorldCamera.MoveDown(tempMoveSpeed * dt)
	}
	if core.InputIsKeyUp(core.KEY_R) && core.InputWasKeyDown(core.KEY_R) {
		if err := g.buildCache(); err != nil {
			return err
		}
	}
	if core.InputIsKeyUp(core.KEY_P) && core.InputWasKeyDown(core.KEY_P) {
		pos := state.WorldCamera.Position
		core.LogDebug("Pos:[%.2f, %.2f, %.2f]", pos.X(), pos.Y(), pos.Z())
	}

	// Spinners orbit the grid center.
	state.orbit += dt
	state.jitter += deltaTime
	for i, m := range state.spinners {
		angle := state.orbit*0.5 + float32(i)*2*math.Pi/float32(spinnerCount)
		m.WorldTransform = mgl32.Translate3D(12*math.Cos(angle), 4, 12*math.Sin(angle)).Mul4(mgl32.HomogRotate3DY(angle * 2))
	}

	// Give the glass a new tint a few times per second.
	if state.jitter > 0.25 {
		state.jitter = 0
		state.glass.Set(attributes.NewDiffuseColor(mgl32.Vec4{
			0.5 + 0.5*state.rng.Float32(),
			0.5 + 0.5*state.rng.Float32(),
			0.5 + 0.5*state.rng.Float32(),
			1,
		}))
	}
	return nil
}

func (g *TestGame) Render(batch *systems.ModelBatch, deltaTime float64) error {
	state := g.State.(*gameState)

	if err := batch.Begin(state.WorldCamera); err != nil {
		return err
	}
	if err := batch.RenderProvider(state.cache); err != nil {
		return err
	}
	for _, m := range state.spinners {
		if err := batch.RenderProvider(m); err != nil {
			return err
		}
	}
	return batch.End()
}

func (g *TestGame) OnResize(width uint32, height uint32) error {
	state := g.State.(*gameState)
	state.width = width
	state.height = height
	return nil
}

// OnAssetChanged rebuilds the cache so merged meshes follow materials edited on disk.
func (g *TestGame) OnAssetChanged(info assets.AssetInfo) error {
	state := g.State.(*gameState)
	if info.Type != metadata.ResourceTypeMaterial || state.crate == nil || info.Name != crateMaterialName {
		return nil
	}
	return g.buildCache()
}

func (g *TestGame) Shutdown() error {
	state := g.State.(*gameState)
	if g.SystemManager == nil {
		return nil
	}
	if state.crate != nil {
		g.SystemManager.MaterialSystem.Release(crateMaterialName)
	}
	g.SystemManager.GeometrySystem.Release("testbed_cube")
	g.SystemManager.GeometrySystem.Release("testbed_ground")
	return nil
}
