package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ImXico/Cyberpunk/pkg/app"
	"github.com/ImXico/Cyberpunk/pkg/embedded"
)

var (
	verbose    = flag.Bool("verbose", false, "enable verbose logging")
	configPath = flag.String("config", app.DefaultConfigPath, "application config path inside assets/")
	appName    = flag.String("app-name", "cyberpunk", "settings storage name (empty keeps settings in memory)")
)

func main() {
	flag.Parse()

	// assetsFS is declared in embed.go.
	embedded.Init(assetsFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		AppName:    *appName,
	})
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	cfg := gameApp.Config()
	ebiten.SetWindowSize(cfg.World.Width, cfg.World.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetFullscreen(gameApp.Settings().GetSettings().Fullscreen)

	if err := ebiten.RunGame(gameApp); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}
