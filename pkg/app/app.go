// Package app wraps the demo into an ebiten.Game.
//
// It holds the initialization that desktop (main.go) and mobile (mobile/mobile.go)
// builds share.
package app

import (
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/ImXico/Cyberpunk/internal/platform"
	"github.com/ImXico/Cyberpunk/pkg/camera"
	"github.com/ImXico/Cyberpunk/pkg/config"
	"github.com/ImXico/Cyberpunk/pkg/demo"
	"github.com/ImXico/Cyberpunk/pkg/embedded"
	"github.com/ImXico/Cyberpunk/pkg/game"
	"github.com/ImXico/Cyberpunk/pkg/graphics"
)

// DefaultConfigPath is the application config path inside the assets directory.
const DefaultConfigPath = "config/app.yaml"

// Config holds the startup options.
type Config struct {
	// Verbose enables logging. The app config's verbose flag also enables it.
	Verbose bool
	// ConfigPath is the application config path relative to the assets root.
	// Empty uses DefaultConfigPath.
	ConfigPath string
	// AppName names the settings storage. Empty keeps settings in memory only.
	AppName string
	// Assets overrides the embedded assets, rooted at the assets directory.
	Assets fs.FS
}

// App implements ebiten.Game on top of a StateManager.
type App struct {
	config   *config.AppConfig
	manager  *game.StateManager
	settings *game.SettingsManager
	audio    *game.AudioManager
	atlases  *game.AtlasManager
	verbose  bool
	mobile   bool

	focused                  bool
	screenWidth              int
	screenHeight             int
	pendingWindowSizeReset   bool
	windowSizeResetCountdown int
	disposed                 bool
}

// NewApp loads the configuration and assets and shows the demo menu.
//
// Unless cfg.Assets is set, embedded.Init must be called first.
func NewApp(cfg Config) (*App, error) {
	assets := cfg.Assets
	if assets == nil {
		var err error
		if assets, err = embedded.FS(); err != nil {
			return nil, fmt.Errorf("failed to open assets: %w", err)
		}
	}

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	appConfig, err := config.LoadAppConfig(assets, configPath)
	if err != nil {
		return nil, err
	}

	verbose := cfg.Verbose || appConfig.Verbose
	if !verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}
	log.Printf("[App] Loaded config %s (world %dx%d, viewport %s)",
		configPath, appConfig.World.Width, appConfig.World.Height, appConfig.ViewportMode())

	var gdataManager *gdata.Manager
	if cfg.AppName != "" {
		if err := platform.EnsureStorageDir(); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
		gdataManager, err = gdata.Open(gdata.Config{AppName: cfg.AppName})
		if err != nil {
			log.Printf("[App] Warning: Failed to open settings storage: %v (settings will not be saved)", err)
			gdataManager = nil
		}
	}
	settings, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create settings manager: %w", err)
	}

	audioContext := audio.CurrentContext()
	if audioContext == nil {
		audioContext = audio.NewContext(appConfig.Audio.SampleRate)
	}
	audioManager := game.NewAudioManager(audioContext, assets, settings)
	atlases := game.NewAtlasManager(assets)

	manifest, err := game.LoadAssetManifest(assets, appConfig.Manifest)
	if err != nil {
		return nil, err
	}
	for _, group := range manifest.GroupNames() {
		if err := manifest.LoadGroup(group, atlases, audioManager.Sounds(), audioManager.Music()); err != nil {
			return nil, err
		}
	}

	manager := game.NewStateManager()
	env, err := demo.NewEnv(manager, appConfig, audioManager, atlases)
	if err != nil {
		return nil, err
	}
	env.Settings = settings

	w, h := appConfig.World.Width, appConfig.World.Height
	cam := camera.NewCamera(float64(w), float64(h))
	mode := settings.ViewportMode(appConfig.ViewportMode())
	viewport := camera.NewViewport(mode, float64(w), float64(h), cam)
	viewport.Update(w, h)
	if err := manager.Initialize(cam, viewport, demo.NewMenu(env)); err != nil {
		return nil, fmt.Errorf("failed to initialize state manager: %w", err)
	}

	return &App{
		config:       appConfig,
		manager:      manager,
		settings:     settings,
		audio:        audioManager,
		atlases:      atlases,
		verbose:      verbose,
		mobile:       platform.IsMobile(),
		focused:      true,
		screenWidth:  w,
		screenHeight: h,
	}, nil
}

// Update polls input and advances the active screen.
// It is called once per tick (usually 60 times per second).
func (a *App) Update() error {
	if a.disposed {
		return ebiten.Termination
	}
	if ebiten.IsWindowBeingClosed() {
		a.Dispose()
		return ebiten.Termination
	}

	a.setFocused(ebiten.IsFocused())
	if !a.focused {
		return nil
	}

	// Leaving fullscreen needs a few frames before the window size sticks.
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.config.World.Width, a.config.World.Height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.config.World.Width, a.config.World.Height)
			a.pendingWindowSizeReset = false
		}
	}

	if !a.mobile {
		if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
			a.cycleViewport()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
			a.toggleFullscreen()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
			a.screenshot()
		}
	}

	a.manager.Input().Poll()
	a.manager.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// setFocused pauses or resumes the screens and audio when focus changes.
func (a *App) setFocused(focused bool) {
	if focused == a.focused {
		return
	}
	a.focused = focused
	if focused {
		log.Printf("[App] Focus gained, resuming")
		a.manager.Resume()
		a.audio.ResumeAll()
	} else {
		log.Printf("[App] Focus lost, pausing")
		a.manager.Pause()
		a.audio.PauseAll()
	}
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(fullscreen)
	if !fullscreen {
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	}
	a.settings.SetFullscreen(fullscreen)
}

// cycleViewport switches stretch, fit and extend in turn and remembers the choice.
func (a *App) cycleViewport() {
	vp := a.manager.Viewport()
	next := (vp.Mode() + 1) % (camera.Extend + 1)
	vp.SetMode(next)
	a.manager.Resize(a.screenWidth, a.screenHeight)
	a.settings.SetViewportMode(next)
	log.Printf("[App] Viewport mode: %s", next)
}

func (a *App) screenshot() {
	name := fmt.Sprintf("screenshot-%s.png", time.Now().Format("20060102-150405"))
	f, err := os.Create(name)
	if err != nil {
		log.Printf("[App] Warning: Failed to create %s: %v", name, err)
		return
	}
	a.manager.RequestScreenshot(f, func(err error) {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			log.Printf("[App] Warning: Failed to save %s: %v", name, err)
			return
		}
		log.Printf("[App] Saved %s", name)
	})
}

// Draw clears the screen and renders the current frame.
func (a *App) Draw(screen *ebiten.Image) {
	graphics.ClearScreen(screen, 0, 0, 0, 1)
	a.manager.Render(screen)
}

// DrawFinalScreen implements ebiten.FinalScreenDrawer: it letterboxes in black and
// scales with linear filtering.
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout uses the window size as the screen size, so the viewport decides how the
// world is scaled. Size changes are forwarded to the state manager.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return a.screenWidth, a.screenHeight
	}
	if outsideWidth != a.screenWidth || outsideHeight != a.screenHeight {
		a.screenWidth, a.screenHeight = outsideWidth, outsideHeight
		a.manager.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Dispose disposes the screens and assets and saves the settings. Further calls are no-ops.
func (a *App) Dispose() {
	if a.disposed {
		return
	}
	a.disposed = true
	a.manager.Dispose()
	a.audio.Dispose()
	a.atlases.DisposeAll()
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Warning: Failed to save settings: %v", err)
	}
	log.Printf("[App] Disposed")
}

// StateManager returns the state manager driving the screens.
func (a *App) StateManager() *game.StateManager {
	return a.manager
}

// Settings returns the user settings manager.
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// Config returns the loaded application configuration.
func (a *App) Config() *config.AppConfig {
	return a.config
}

// IsMobile reports whether the desktop-only shortcuts are disabled.
func (a *App) IsMobile() bool {
	return a.mobile
}

// IsVerbose reports whether logging is enabled.
func (a *App) IsVerbose() bool {
	return a.verbose
}
