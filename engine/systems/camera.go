package systems

import (
	"fmt"

	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/components"
)

type cameraReference struct {
	camera         *components.Camera
	referenceCount uint16
}

type CameraSystem struct {
	Config  *CameraSystemConfig
	cameras map[string]*cameraReference
	// A default, non-registered camera that always exists as a fallback.
	DefaultCamera *components.Camera
}

/** @brief The camera system configuration. */
type CameraSystemConfig struct {
	/**
	 * @brief NOTE: The maximum number of cameras that can be managed by
	 * the system.
	 */
	MaxCameraCount uint16
	/** @brief Vertical field of view of new cameras, in radians. */
	FOV float32
	/** @brief Viewport width divided by height. */
	Aspect float32
	Near   float32
	Far    float32
}

func NewCameraSystem(config *CameraSystemConfig) (*CameraSystem, error) {
	if config.MaxCameraCount == 0 {
		err := fmt.Errorf("func NewCameraSystem - config.MaxCameraCount must be > 0")
		core.LogError("%s", err)
		return nil, err
	}
	return &CameraSystem{
		Config:        config,
		cameras:       make(map[string]*cameraReference, config.MaxCameraCount),
		DefaultCamera: components.NewCamera(config.FOV, config.Aspect, config.Near, config.Far),
	}, nil
}

func (cs *CameraSystem) Shutdown() error {
	clear(cs.cameras)
	return nil
}

/**
 * @brief Acquires a camera by name. If one is not found, a new one is
 * created. Internal reference counter is incremented.
 */
func (cs *CameraSystem) Acquire(name string) (*components.Camera, error) {
	if name == components.DEFAULT_CAMERA_NAME {
		return cs.DefaultCamera, nil
	}
	ref, ok := cs.cameras[name]
	if !ok {
		if len(cs.cameras) >= int(cs.Config.MaxCameraCount) {
			err := fmt.Errorf("func CameraSystemAcquire failed to acquire new slot. Adjust camera system config to allow more")
			core.LogError("%s", err)
			return nil, err
		}
		core.LogDebug("Creating new camera named '%s'...", name)
		ref = &cameraReference{
			camera: components.NewCamera(cs.Config.FOV, cs.Config.Aspect, cs.Config.Near, cs.Config.Far),
		}
		cs.cameras[name] = ref
	}
	ref.referenceCount++
	return ref.camera, nil
}

/**
 * @brief Releases a camera with the given name. Internal reference
 * counter is decremented. If this reaches 0, the camera is dropped.
 */
func (cs *CameraSystem) Release(name string) {
	if name == components.DEFAULT_CAMERA_NAME {
		core.LogDebug("Cannot release default camera. Nothing was done.")
		return
	}
	ref, ok := cs.cameras[name]
	if !ok {
		core.LogWarn("CameraSystemRelease failed lookup. Nothing was done.")
		return
	}
	ref.referenceCount--
	if ref.referenceCount < 1 {
		delete(cs.cameras, name)
	}
}

// SetAspect updates the aspect ratio of every camera, used when the window is resized.
func (cs *CameraSystem) SetAspect(aspect float32) {
	cs.Config.Aspect = aspect
	cs.DefaultCamera.Aspect = aspect
	for _, ref := range cs.cameras {
		ref.camera.Aspect = aspect
	}
}

func (cs *CameraSystem) GetDefault() *components.Camera {
	return cs.DefaultCamera
}
