package game

import (
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"

	"gopkg.in/yaml.v3"
)

// AssetManifest is the top-level asset configuration loaded from YAML.
// It defines the structure of assets/config/manifest.yaml.
//
// Structure:
//
//	version: "1.0"
//	base_path: assets
//	groups:
//	  group_name:
//	    atlases: [...]
//	    sounds: [...]
//	    music: [...]
type AssetManifest struct {
	Version  string                `yaml:"version"`   // Configuration file version
	BasePath string                `yaml:"base_path"` // Prefix for every asset path (may be empty)
	Groups   map[string]AssetGroup `yaml:"groups"`    // Asset groups keyed by group name
}

// AssetGroup is a collection of assets loaded together, typically one per screen.
//
// Example:
//
//	menu:
//	  atlases:
//	    - id: ui
//	      path: atlas/ui.yaml
//	      default: true
//	  sounds:
//	    - id: click
//	      path: audio/click.wav
//	  music:
//	    - id: theme
//	      path: audio/theme.ogg
//	      loop: true
type AssetGroup struct {
	Atlases []AtlasAsset `yaml:"atlases"`
	Sounds  []AudioAsset `yaml:"sounds"`
	Music   []AudioAsset `yaml:"music"`
}

// AtlasAsset is one atlas entry of a group.
type AtlasAsset struct {
	ID      string `yaml:"id"`                // Key in the AtlasManager
	Path    string `yaml:"path"`              // Relative file path from base_path
	Default bool   `yaml:"default,omitempty"` // Becomes the AtlasManager default
}

// AudioAsset is one sound or music entry of a group.
type AudioAsset struct {
	ID   string `yaml:"id"`             // Name in the SoundManager or MusicManager
	Path string `yaml:"path"`           // Relative file path from base_path
	Loop bool   `yaml:"loop,omitempty"` // Music only: loop after loading
}

// ParseAssetManifest decodes and validates a manifest.
func ParseAssetManifest(data []byte) (*AssetManifest, error) {
	var m AssetManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse asset manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadAssetManifest reads and parses the manifest at name from fsys.
func LoadAssetManifest(fsys fs.FS, name string) (*AssetManifest, error) {
	data, err := readAsset(fsys, name)
	if err != nil {
		return nil, err
	}
	m, err := ParseAssetManifest(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset manifest %s: %w", name, err)
	}
	return m, nil
}

// Validate checks every entry has an id and a path, ids are unique per kind within a
// group, and at most one atlas per group is marked default.
func (m *AssetManifest) Validate() error {
	if len(m.Groups) == 0 {
		return fmt.Errorf("asset manifest has no groups")
	}
	for _, name := range m.GroupNames() {
		g := m.Groups[name]

		defaults := 0
		ids := make(map[string]bool)
		for _, a := range g.Atlases {
			if err := checkAssetEntry(name, "atlas", a.ID, a.Path, ids); err != nil {
				return err
			}
			if a.Default {
				defaults++
			}
		}
		if defaults > 1 {
			return fmt.Errorf("group %s: %d atlases marked default", name, defaults)
		}

		ids = make(map[string]bool)
		for _, s := range g.Sounds {
			if err := checkAssetEntry(name, "sound", s.ID, s.Path, ids); err != nil {
				return err
			}
		}

		ids = make(map[string]bool)
		for _, t := range g.Music {
			if err := checkAssetEntry(name, "music", t.ID, t.Path, ids); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkAssetEntry(group, kind, id, p string, seen map[string]bool) error {
	if id == "" {
		return fmt.Errorf("group %s: %s entry without id", group, kind)
	}
	if p == "" {
		return fmt.Errorf("group %s: %s %s has no path", group, kind, id)
	}
	if seen[id] {
		return fmt.Errorf("group %s: duplicate %s %s", group, kind, id)
	}
	seen[id] = true
	return nil
}

// GroupNames returns the group names in sorted order.
func (m *AssetManifest) GroupNames() []string {
	names := make([]string, 0, len(m.Groups))
	for n := range m.Groups {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Path returns the full path of a manifest-relative asset path.
func (m *AssetManifest) Path(relativePath string) string {
	return buildFullPath(m.BasePath, relativePath)
}

// LoadGroup loads every asset of a group into the given managers. A nil manager skips
// its kind of asset.
//
// Returns:
//   - An error if the group is not found or any asset fails to load
func (m *AssetManifest) LoadGroup(groupName string, atlases *AtlasManager, sounds *SoundManager, music *MusicManager) error {
	group, exists := m.Groups[groupName]
	if !exists {
		return fmt.Errorf("asset group not found: %s", groupName)
	}

	if atlases != nil {
		for _, a := range group.Atlases {
			if err := atlases.Load(a.ID, m.Path(a.Path), a.Default); err != nil {
				return fmt.Errorf("failed to load atlas %s in group %s: %w", a.ID, groupName, err)
			}
		}
	}

	if sounds != nil {
		for _, s := range group.Sounds {
			if err := sounds.Load(s.ID, m.Path(s.Path)); err != nil {
				return fmt.Errorf("failed to load sound %s in group %s: %w", s.ID, groupName, err)
			}
		}
	}

	if music != nil {
		for _, t := range group.Music {
			if err := music.Load(t.ID, m.Path(t.Path)); err != nil {
				return fmt.Errorf("failed to load music %s in group %s: %w", t.ID, groupName, err)
			}
			music.SetLooping(t.ID, t.Loop)
		}
	}

	log.Printf("[AssetManifest] Loaded group %s (%d atlases, %d sounds, %d tracks)",
		groupName, len(group.Atlases), len(group.Sounds), len(group.Music))
	return nil
}

// buildFullPath joins the base path and a relative path into an fs.FS path.
//
// Parameters:
//   - basePath: The manifest base path (e.g., "assets")
//   - relativePath: The asset's relative path (e.g., "audio/click.wav")
//
// Returns:
//   - The full path (e.g., "assets/audio/click.wav"); fs.FS paths never start with "/"
func buildFullPath(basePath, relativePath string) string {
	if basePath == "" {
		return path.Clean("/" + relativePath)[1:]
	}
	return path.Join(basePath, relativePath)
}
