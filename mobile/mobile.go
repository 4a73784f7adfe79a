//go:build mobile

// Package mobile is the ebitenmobile binding entry.
//
// It is used to build Android (.aar) and iOS (.xcframework) packages and is only
// compiled with -tags mobile:
//
//	# Android
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg io.github.imxico.cyberpunk -o build/android/cyberpunk.aar -v ./mobile
//
//	# iOS (macOS only)
//	ebitenmobile bind -target ios -tags mobile -o build/ios/Cyberpunk.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/ImXico/Cyberpunk/pkg/app"
	"github.com/ImXico/Cyberpunk/pkg/embedded"
)

func init() {
	// assetsFS is declared in embed.go.
	embedded.Init(assetsFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose: true,
		AppName: "cyberpunk",
	})
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	mobile.SetGame(gameApp)
}

// Dummy is an exported no-op so that ebitenmobile recognizes the package.
func Dummy() {}
