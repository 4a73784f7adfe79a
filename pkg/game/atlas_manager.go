package game

import (
	"fmt"
	"io/fs"
	"log"

	"github.com/ImXico/Cyberpunk/pkg/graphics"
)

// AtlasManager keeps loaded texture atlases by key.
//
// Projects often use a single atlas; loading it with setAsDefault lets Take be called
// without a key.
type AtlasManager struct {
	fsys       fs.FS
	atlases    map[string]*Atlas
	defaultKey string
}

// NewAtlasManager creates an atlas manager reading from fsys.
func NewAtlasManager(fsys fs.FS) *AtlasManager {
	return &AtlasManager{
		fsys:    fsys,
		atlases: make(map[string]*Atlas),
	}
}

// Load reads the atlas at path and stores it under key, disposing any atlas previously
// stored there.
//
// Parameters:
//   - key: identifies the atlas in Atlas, Take and DisposeAtlas
//   - path: atlas description path inside the manager's file system
//   - setAsDefault: make key the default for Take
func (am *AtlasManager) Load(key, path string, setAsDefault bool) error {
	atlas, err := LoadAtlas(am.fsys, path)
	if err != nil {
		return err
	}
	if old, ok := am.atlases[key]; ok {
		old.Dispose()
	}
	am.atlases[key] = atlas
	if setAsDefault {
		am.defaultKey = key
	}
	log.Printf("[AtlasManager] Loaded atlas %s from %s (%d regions)", key, path, len(atlas.regions))
	return nil
}

// Atlas returns the atlas stored under key, or nil.
func (am *AtlasManager) Atlas(key string) *Atlas {
	return am.atlases[key]
}

// DisposeAtlas releases the atlas stored under key. Unknown keys are ignored.
// Regions taken from it must not be used afterwards.
func (am *AtlasManager) DisposeAtlas(key string) {
	atlas, ok := am.atlases[key]
	if !ok {
		return
	}
	atlas.Dispose()
	delete(am.atlases, key)
	if am.defaultKey == key {
		am.defaultKey = ""
	}
}

// DisposeAll releases every atlas.
func (am *AtlasManager) DisposeAll() {
	for key := range am.atlases {
		am.DisposeAtlas(key)
	}
}

// Take returns the named region from the atlas identified by key, or from the default
// atlas when no key is given.
func (am *AtlasManager) Take(region string, key ...string) (graphics.Region, bool) {
	k := am.defaultKey
	if len(key) > 0 {
		k = key[0]
	}
	atlas, ok := am.atlases[k]
	if !ok {
		return graphics.Region{}, false
	}
	return atlas.Region(region)
}

// Find is Take returning an error that names the missing region.
func (am *AtlasManager) Find(region string, key ...string) (graphics.Region, error) {
	r, ok := am.Take(region, key...)
	if !ok {
		return graphics.Region{}, fmt.Errorf("region %s: %w", region, ErrAssetNotFound)
	}
	return r, nil
}

// DefaultKey returns the key used by Take when none is given, or "".
func (am *AtlasManager) DefaultKey() string {
	return am.defaultKey
}
