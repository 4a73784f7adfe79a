// cmd/check_assets/main.go
// Validates an asset manifest and every atlas and audio file it references.
//
// Usage:
//
//	go run ./cmd/check_assets --root=assets --manifest=config/manifest.yaml
//	go run ./cmd/check_assets --atlas=atlas/ui.yaml
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ImXico/Cyberpunk/pkg/config"
	"github.com/ImXico/Cyberpunk/pkg/game"
)

var (
	root       = flag.String("root", "assets", "assets directory")
	manifest   = flag.String("manifest", config.DefaultManifestPath, "manifest path relative to --root")
	atlas      = flag.String("atlas", "", "check a single atlas file (relative to --root) instead of the manifest")
	sampleRate = flag.Int("sample-rate", config.DefaultSampleRate, "sample rate used to decode audio")
)

func main() {
	flag.Parse()
	fsys := os.DirFS(*root)

	if *atlas != "" {
		if err := game.CheckAtlas(fsys, *atlas); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ %s\n", *atlas)
		return
	}

	m, err := game.LoadAssetManifest(fsys, *manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}

	total := 0
	for _, name := range m.GroupNames() {
		g := m.Groups[name]
		n := len(g.Atlases) + len(g.Sounds) + len(g.Music)
		total += n
		fmt.Printf("group %s: %d atlases, %d sounds, %d tracks\n", name, len(g.Atlases), len(g.Sounds), len(g.Music))
	}

	errs := m.Check(fsys, *sampleRate)
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
	}
	if len(errs) > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d assets failed\n", len(errs), total)
		os.Exit(1)
	}
	fmt.Printf("✓ all %d assets ok\n", total)
}
