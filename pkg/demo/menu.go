package demo

import (
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ImXico/Cyberpunk/pkg/game"
	"github.com/ImXico/Cyberpunk/pkg/graphics"
	"github.com/ImXico/Cyberpunk/pkg/layout"
	"github.com/ImXico/Cyberpunk/pkg/transition"
)

const (
	menuTitle  = "CYBERPUNK"
	menuPrompt = "SPACE or tap: start    RIGHT: slide in    T: change transition"

	// promptBlinkPeriod is the prompt's on/off cycle in seconds.
	promptBlinkPeriod = 1.2
	logoSize          = 96
)

var menuBackground = color.RGBA{R: 0x14, G: 0x0a, B: 0x2a, A: 0xff}

// Menu is the title screen. It starts the menu music and switches to the
// playground on input.
type Menu struct {
	game.ScreenAdapter
	env     *Env
	elapsed float64
	leaving bool
}

// NewMenu creates the title screen.
func NewMenu(env *Env) *Menu {
	env.PlayMusic(env.Config.Audio.MenuMusic)
	log.Printf("[Menu] Created")
	return &Menu{env: env}
}

// Update advances the prompt animation.
func (m *Menu) Update(delta float64) {
	m.elapsed += delta
}

// PromptVisible reports whether the blinking prompt is currently shown.
func (m *Menu) PromptVisible() bool {
	return math.Mod(m.elapsed, promptBlinkPeriod) < promptBlinkPeriod*2/3
}

// Draw draws the logo, the title and the prompt, centered in the world.
func (m *Menu) Draw(batch *graphics.Batch) {
	batch.Fill(menuBackground)
	w, h := m.env.WorldSize()
	ww, wh := int(w), int(h)

	if logo, ok := m.env.Region("logo"); ok {
		pos := layout.CenterX(logoSize, ww, h/8)
		batch.DrawRegion(logo, pos.X, pos.Y, logoSize, logoSize)
	}

	title := m.env.Text.Center(m.env.TitleFace, menuTitle, ww, wh)
	batch.SetColor(0.0, 0.95, 1.0, 1)
	batch.DrawText(menuTitle, m.env.TitleFace, title.X, title.Y)
	batch.ResetColor()

	if m.PromptVisible() {
		prompt := m.env.Text.CenterX(m.env.BodyFace, menuPrompt, ww, h*3/4)
		batch.SetColor(1.0, 0.2, 0.6, 1)
		batch.DrawText(menuPrompt, m.env.BodyFace, prompt.X, prompt.Y)
		batch.ResetColor()
	}

	status := "transition: " + m.env.PreferredName()
	pos := m.env.Text.CenterX(m.env.BodyFace, status, ww, h*7/8)
	batch.DrawText(status, m.env.BodyFace, pos.X, pos.Y)
}

// KeyDown starts the playground: space and enter use the preferred transition, the
// right arrow slides. T cycles the preferred transition.
func (m *Menu) KeyDown(key ebiten.Key) bool {
	switch key {
	case ebiten.KeySpace, ebiten.KeyEnter:
		m.start(m.env.Preferred())
	case ebiten.KeyArrowRight:
		m.start(m.env.Slide(transition.RightLeft))
	case ebiten.KeyT:
		m.env.CycleTransition()
	default:
		return false
	}
	return true
}

// TouchDown enters the playground with the preferred transition.
func (m *Menu) TouchDown(x, y, pointer int, button ebiten.MouseButton) bool {
	m.start(m.env.Preferred())
	return true
}

func (m *Menu) start(t transition.Transition) {
	if m.leaving {
		return
	}
	play, err := NewPlay(m.env)
	if err != nil {
		log.Printf("[Menu] Warning: Failed to create playground: %v", err)
		return
	}
	m.leaving = true
	m.env.PlaySound(m.env.Config.Audio.ClickSound)
	m.env.GoTo(play, t)
}

// Dispose releases nothing; the music keeps playing across screens.
func (m *Menu) Dispose() {
	log.Printf("[Menu] Disposed")
}
