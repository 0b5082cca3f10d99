package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/anima-g3d/engine/assets/loaders"
	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/engine/renderer/metadata"
)

type AssetInfo struct {
	Name       string
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

/**
 * @brief Indexes the asset directory, loads assets through the
 * registered loaders and reports files that change on disk.
 */
type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	started  bool
	isClosed bool
	changes  chan AssetInfo
	errors   chan error
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		core.LogError("%s", err)
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		fsnotify: fsWatch,
		changes:  make(chan AssetInfo, 64),
		errors:   make(chan error, 8),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	// Register loaders
	am.registerLoader(metadata.ResourceTypeShader, &loaders.ShaderLoader{})
	am.registerLoader(metadata.ResourceTypeImage, &loaders.TextureLoader{})
	am.registerLoader(metadata.ResourceTypeMaterial, &loaders.MaterialLoader{})
	return am, nil
}

// Initialize indexes assetsDir and starts watching it for changes.
func (am *AssetManager) Initialize(assetsDir string) error {
	if err := am.watchRecursive(assetsDir, false); err != nil {
		core.LogError("failed to index assets in %s: %s", assetsDir, err.Error())
		return err
	}
	am.mutex.Lock()
	am.started = true
	am.mutex.Unlock()
	go am.start()
	core.LogInfo("indexed %d assets in %s", am.Len(), assetsDir)
	return nil
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Len returns the number of indexed assets.
func (am *AssetManager) Len() int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.assets)
}

// Assets lists the indexed assets of the given type ordered by path.
func (am *AssetManager) Assets(resourceType metadata.ResourceType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	out := make([]AssetInfo, 0, len(am.assets))
	for _, a := range am.assets {
		if a.Type == resourceType {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// LoadAsset loads the asset of the given type registered under name.
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	am.mutex.Lock()
	var found *AssetInfo
	for path, a := range am.assets {
		if a.Type == resourceType && a.Name == name {
			a.LastLoaded = time.Now()
			am.assets[path] = a
			found = &a
			break
		}
	}
	am.mutex.Unlock()
	if found == nil {
		err := fmt.Errorf("%s asset not found: %s", resourceType, name)
		core.LogError("%s", err)
		return nil, err
	}
	return am.LoadPath(found.Path, params)
}

// LoadPath loads a file with the loader matching its extension.
func (am *AssetManager) LoadPath(path string, params interface{}) (*metadata.Resource, error) {
	assetType := determineAssetType(path)
	loader, loaderExists := am.loaders[assetType]
	if !loaderExists {
		err := fmt.Errorf("no loader registered for asset %s", path)
		core.LogError("%s", err)
		return nil, err
	}
	return loader.Load(path, params)
}

func (am *AssetManager) UnloadAsset(resource *metadata.Resource) error {
	loader, ok := am.loaders[resource.Type]
	if !ok {
		return fmt.Errorf("no loader registered for asset type: %s", resource.Type)
	}
	return loader.Unload(resource)
}

// Changes reports assets created or modified after Initialize.
func (am *AssetManager) Changes() <-chan AssetInfo {
	return am.changes
}

// Errors reports watcher failures.
func (am *AssetManager) Errors() <-chan error {
	return am.errors
}

// Shutdown stops watching and closes the Changes and Errors channels.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return errors.New("asset manager already closed")
	}
	am.isClosed = true
	started := am.started
	am.mutex.Unlock()
	if !started {
		close(am.changes)
		close(am.errors)
		return am.fsnotify.Close()
	}
	close(am.done)
	<-am.stopped
	return nil
}

func (am *AssetManager) start() {
	defer func() {
		close(am.changes)
		close(am.errors)
		close(am.stopped)
	}()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name, false); err != nil {
						core.LogWarn("failed to watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if info, ok := am.handleFileEvent(e.Name); ok {
					select {
					case am.changes <- info:
					default:
						core.LogWarn("dropping change notification for %s", e.Name)
					}
				}
			}
			// Can't stat a deleted path, so just try to remove it from the index and the watch list.
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(e.Name)
				am.fsnotify.Remove(e.Name)
			}

		case e, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("%s", e)
			select {
			case am.errors <- e:
			default:
			}

		case <-am.done:
			if err := am.fsnotify.Close(); err != nil {
				core.LogWarn("failed to close the asset watcher: %s", err)
			}
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files found.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				return am.fsnotify.Remove(walkPath)
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) (AssetInfo, bool) {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return AssetInfo{}, false
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()

	info := AssetInfo{
		Name: assetName(path),
		Path: path,
		Type: assetType,
	}
	am.assets[path] = info
	return info, true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}
