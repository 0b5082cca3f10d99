package loaders

import "github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"

/** @brief An "interface" for a resource loader. All registered loaders use this. */
type Loader interface {
	Load(path string, params interface{}) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}
