package layout

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMeasureCacheSize is the number of measurements a TextMeasurer keeps.
const DefaultMeasureCacheSize = 256

type measureKey struct {
	face text.Face
	text string
}

type measurement struct {
	width, height float64
}

// TextMeasurer measures strings with ebiten text faces and remembers recent results,
// since screens usually re-center the same labels every frame.
//
// Faces are cached by identity: pass the same face value each time.
type TextMeasurer struct {
	cache        *lru.Cache[measureKey, measurement]
	hits, misses int
}

// NewTextMeasurer creates a measurer keeping up to size measurements.
// A non-positive size uses DefaultMeasureCacheSize.
func NewTextMeasurer(size int) (*TextMeasurer, error) {
	if size <= 0 {
		size = DefaultMeasureCacheSize
	}
	cache, err := lru.New[measureKey, measurement](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create text measure cache: %w", err)
	}
	return &TextMeasurer{cache: cache}, nil
}

// Measure returns the size of s drawn with face. Multi-line strings use the face's
// line height. A nil face measures as zero.
func (m *TextMeasurer) Measure(face text.Face, s string) (float64, float64) {
	if face == nil || s == "" {
		return 0, 0
	}
	key := measureKey{face: face, text: s}
	if v, ok := m.cache.Get(key); ok {
		m.hits++
		return v.width, v.height
	}
	m.misses++

	metrics := face.Metrics()
	lineSpacing := metrics.HAscent + metrics.HDescent + metrics.HLineGap
	w, h := text.Measure(s, face, lineSpacing)
	m.cache.Add(key, measurement{width: w, height: h})
	return w, h
}

// Stats returns the cache hit and miss counts.
func (m *TextMeasurer) Stats() (hits, misses int) {
	return m.hits, m.misses
}

// Len returns the number of cached measurements.
func (m *TextMeasurer) Len() int {
	return m.cache.Len()
}

// Purge drops every cached measurement, e.g. after a face's size changes.
func (m *TextMeasurer) Purge() {
	m.cache.Purge()
}

// Center returns the top-left position that centers s in the world.
func (m *TextMeasurer) Center(face text.Face, s string, worldWidth, worldHeight int) Vec2 {
	w, h := m.Measure(face, s)
	return Center(w, h, worldWidth, worldHeight)
}

// CenterX centers s horizontally, keeping y.
func (m *TextMeasurer) CenterX(face text.Face, s string, worldWidth int, y float64) Vec2 {
	w, _ := m.Measure(face, s)
	return CenterX(w, worldWidth, y)
}

// CenterY centers s vertically, keeping x.
func (m *TextMeasurer) CenterY(face text.Face, s string, worldHeight int, x float64) Vec2 {
	_, h := m.Measure(face, s)
	return CenterY(h, worldHeight, x)
}

// CenterOnImage centers s inside a width x height box located at position.
func (m *TextMeasurer) CenterOnImage(face text.Face, s string, width, height float64, position Vec2) Vec2 {
	w, h := m.Measure(face, s)
	return CenterOnImage(w, h, width, height, position)
}
