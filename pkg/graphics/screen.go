package graphics

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// ClearScreen replaces every pixel of dst with the given color. Components are in [0, 1].
func ClearScreen(dst *ebiten.Image, r, g, b, a float32) {
	dst.Fill(color.NRGBA{
		R: unitToByte(r),
		G: unitToByte(g),
		B: unitToByte(b),
		A: unitToByte(a),
	})
}

// Screenshot encodes the contents of img as an opaque PNG.
//
// Pixels are read back from the GPU, so this must run inside the game's Draw call
// (or after the game loop has started).
func Screenshot(img *ebiten.Image, w io.Writer) error {
	bounds := img.Bounds()
	pixels := make([]byte, 4*bounds.Dx()*bounds.Dy())
	img.ReadPixels(pixels)

	// The framebuffer may hold translucent pixels; a screenshot should not.
	for i := 3; i < len(pixels); i += 4 {
		pixels[i] = 0xff
	}

	rgba := &image.RGBA{
		Pix:    pixels,
		Stride: 4 * bounds.Dx(),
		Rect:   image.Rect(0, 0, bounds.Dx(), bounds.Dy()),
	}
	if err := png.Encode(w, rgba); err != nil {
		return fmt.Errorf("failed to encode screenshot: %w", err)
	}
	return nil
}

// SaveScreenshot writes a PNG screenshot of img to path.
func SaveScreenshot(img *ebiten.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create screenshot file %s: %w", path, err)
	}
	if err := Screenshot(img, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func unitToByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*255 + 0.5)
}
