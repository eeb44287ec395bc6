package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/exp/slices"

	"github.com/spaghettifunk/rx-engine/engine/assets/loaders"
	"github.com/spaghettifunk/rx-engine/engine/core"
)

type AssetType uint8

const (
	AssetTypeNone AssetType = iota
	AssetTypeShader
)

type AssetInfo struct {
	Path       string
	Type       AssetType
	LastLoaded time.Time
}

/**
 * @brief Indexes the asset directory and watches it for changes. Changed
 * assets are collected until the engine drains them with Changes.
 */
type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[AssetType]Loader
	changed map[string]struct{}

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[AssetType]Loader),
		changed:  make(map[string]struct{}),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}, nil
}

// Initialize indexes assetsDir. When watch is set, changes below it are
// tracked until Shutdown.
func (am *AssetManager) Initialize(assetsDir string, watch bool) error {
	root, err := filepath.Abs(assetsDir)
	if err != nil {
		return err
	}
	am.root = root

	am.registerLoader(AssetTypeShader, &loaders.ShaderLoader{})

	if err := am.watchRecursive(root, watch); err != nil {
		return err
	}
	if watch {
		go am.start()
	} else {
		close(am.stopped)
	}
	core.LogInfo("asset manager indexed %d assets under %s (watch: %t)", len(am.assets), root, watch)
	return nil
}

func (am *AssetManager) registerLoader(assetType AssetType, loader Loader) {
	am.loaders[assetType] = loader
}

// LoadShader reads the shader called name, relative to the asset root.
func (am *AssetManager) LoadShader(name string) (*loaders.Resource, error) {
	path := am.key(filepath.Join(am.root, name))

	am.mutex.Lock()
	asset, exists := am.assets[path]
	if exists {
		asset.LastLoaded = time.Now()
		am.assets[path] = asset
	}
	am.mutex.Unlock()
	if !exists {
		return nil, fmt.Errorf("asset not found: %s", path)
	}
	if asset.Type != AssetTypeShader {
		return nil, fmt.Errorf("asset %s is not a shader", path)
	}

	loader, loaderExists := am.loaders[asset.Type]
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %d", asset.Type)
	}
	return loader.Load(filepath.Join(am.root, path))
}

// Changes returns the assets modified since the previous call, sorted.
func (am *AssetManager) Changes() []string {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	if len(am.changed) == 0 {
		return nil
	}
	out := make([]string, 0, len(am.changed))
	for p := range am.changed {
		out = append(out, p)
	}
	clear(am.changed)
	slices.Sort(out)
	return out
}

func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	<-am.stopped
	return am.fsnotify.Close()
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleEvent(e)
		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)
		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) handleEvent(e fsnotify.Event) {
	if s, err := os.Stat(e.Name); err == nil && s.IsDir() {
		if e.Has(fsnotify.Create) {
			if err := am.watchRecursive(e.Name, true); err != nil {
				core.LogWarn("failed to watch %s: %s", e.Name, err)
			}
		}
		return
	}
	if e.Has(fsnotify.Create) || e.Has(fsnotify.Write) {
		if am.index(e.Name) {
			am.markChanged(e.Name)
		}
	}
	if e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
		am.removeAsset(e.Name)
	}
}

// watchRecursive indexes every asset below path and, when watch is set,
// adds each directory to the watcher.
func (am *AssetManager) watchRecursive(path string, watch bool) error {
	return filepath.WalkDir(path, func(walkPath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !watch {
				return nil
			}
			if err := am.fsnotify.Add(walkPath); err != nil && !errors.Is(err, fsnotify.ErrClosed) {
				return err
			}
			return nil
		}
		am.index(walkPath)
		return nil
	})
}

// key turns an absolute path into the index key, relative to the root.
func (am *AssetManager) key(path string) string {
	rel, err := filepath.Rel(am.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// index records the file at path and reports whether it is a known asset.
func (am *AssetManager) index(path string) bool {
	assetType := determineAssetType(path)
	if assetType == AssetTypeNone {
		return false
	}
	key := am.key(path)

	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.assets[key] = AssetInfo{
		Path:       key,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
	return true
}

func (am *AssetManager) markChanged(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.changed[am.key(path)] = struct{}{}
}

func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, am.key(path))
}

func determineAssetType(path string) AssetType {
	if _, ok := loaders.ShaderStageFromPath(path); ok {
		return AssetTypeShader
	}
	return AssetTypeNone
}
