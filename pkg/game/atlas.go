package game

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"gopkg.in/yaml.v3"

	"github.com/ImXico/Cyberpunk/pkg/graphics"
)

// ErrInvalidAtlas is returned when an atlas file fails validation.
var ErrInvalidAtlas = errors.New("invalid atlas")

// AtlasFile is the YAML description of a texture atlas.
//
// Structure:
//
//	pages:
//	  - name: ui
//	    image: ../images/ui.svg   # relative to the atlas file
//	    width: 256                # raster size for .svg, scale target for bitmaps (optional)
//	    height: 128
//	    cols: 4                   # optional grid, used by regions with an index
//	    rows: 2
//	regions:
//	  - name: button
//	    page: ui
//	    x: 0
//	    y: 0
//	    w: 128
//	    h: 64
//	  - name: icon_3
//	    page: ui
//	    index: 3                  # grid cell, row-major
//	    flipX: true
type AtlasFile struct {
	Pages   []AtlasPage   `yaml:"pages"`
	Regions []AtlasRegion `yaml:"regions"`
}

// AtlasPage is one image of an atlas.
type AtlasPage struct {
	Name   string `yaml:"name"`
	Image  string `yaml:"image"`
	Width  int    `yaml:"width,omitempty"`
	Height int    `yaml:"height,omitempty"`
	Cols   int    `yaml:"cols,omitempty"`
	Rows   int    `yaml:"rows,omitempty"`
}

// AtlasRegion names a rectangle of a page, either explicitly (x, y, w, h) or as a grid
// cell (index). A set index overrides the rectangle.
type AtlasRegion struct {
	Name  string `yaml:"name"`
	Page  string `yaml:"page"`
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	W     int    `yaml:"w"`
	H     int    `yaml:"h"`
	Index *int   `yaml:"index,omitempty"`
	FlipX bool   `yaml:"flipX,omitempty"`
	FlipY bool   `yaml:"flipY,omitempty"`
}

// ParseAtlasFile decodes and validates an atlas description.
func ParseAtlasFile(data []byte) (*AtlasFile, error) {
	var af AtlasFile
	if err := yaml.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("failed to parse atlas: %w", err)
	}
	if err := af.Validate(); err != nil {
		return nil, err
	}
	return &af, nil
}

// Validate checks that pages and regions are named uniquely and that every region
// refers to an existing page with a usable rectangle or grid cell.
func (af *AtlasFile) Validate() error {
	if len(af.Pages) == 0 {
		return fmt.Errorf("%w: no pages", ErrInvalidAtlas)
	}

	pages := make(map[string]AtlasPage, len(af.Pages))
	for i, p := range af.Pages {
		if p.Name == "" {
			return fmt.Errorf("%w: page %d has no name", ErrInvalidAtlas, i)
		}
		if p.Image == "" {
			return fmt.Errorf("%w: page %s has no image", ErrInvalidAtlas, p.Name)
		}
		if _, dup := pages[p.Name]; dup {
			return fmt.Errorf("%w: duplicate page %s", ErrInvalidAtlas, p.Name)
		}
		if p.Width < 0 || p.Height < 0 || p.Cols < 0 || p.Rows < 0 {
			return fmt.Errorf("%w: page %s has negative dimensions", ErrInvalidAtlas, p.Name)
		}
		pages[p.Name] = p
	}

	seen := make(map[string]bool, len(af.Regions))
	for i, r := range af.Regions {
		if r.Name == "" {
			return fmt.Errorf("%w: region %d has no name", ErrInvalidAtlas, i)
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: duplicate region %s", ErrInvalidAtlas, r.Name)
		}
		seen[r.Name] = true

		page, ok := pages[r.Page]
		if !ok {
			return fmt.Errorf("%w: region %s refers to unknown page %q", ErrInvalidAtlas, r.Name, r.Page)
		}
		if r.Index != nil {
			if page.Cols == 0 || page.Rows == 0 {
				return fmt.Errorf("%w: region %s uses an index but page %s has no grid", ErrInvalidAtlas, r.Name, page.Name)
			}
			if *r.Index < 0 || *r.Index >= page.Cols*page.Rows {
				return fmt.Errorf("%w: region %s index %d out of range [0, %d)", ErrInvalidAtlas, r.Name, *r.Index, page.Cols*page.Rows)
			}
			continue
		}
		if r.W <= 0 || r.H <= 0 || r.X < 0 || r.Y < 0 {
			return fmt.Errorf("%w: region %s has an invalid rectangle", ErrInvalidAtlas, r.Name)
		}
	}
	return nil
}

// cellRect returns the rectangle of grid cell index on a page of size w x h.
func cellRect(w, h, cols, rows, index int) image.Rectangle {
	cw, ch := w/cols, h/rows
	x := (index % cols) * cw
	y := (index / cols) * ch
	return image.Rect(x, y, x+cw, y+ch)
}

// Atlas is a loaded texture atlas: page images and the named regions cut from them.
type Atlas struct {
	pages   map[string]*ebiten.Image
	regions map[string]graphics.Region
}

// LoadAtlas reads the atlas description at name from fsys, decodes its pages and cuts
// the regions. Page image paths are relative to the atlas file.
func LoadAtlas(fsys fs.FS, name string) (*Atlas, error) {
	data, err := readAsset(fsys, name)
	if err != nil {
		return nil, err
	}
	af, err := ParseAtlasFile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load atlas %s: %w", name, err)
	}

	dir := path.Dir(name)
	images := make(map[string]image.Image, len(af.Pages))
	for _, p := range af.Pages {
		imgPath := path.Join(dir, p.Image)
		imgData, err := readAsset(fsys, imgPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load atlas %s page %s: %w", name, p.Name, err)
		}
		img, err := decodePage(imgPath, imgData, p.Width, p.Height)
		if err != nil {
			return nil, fmt.Errorf("failed to load atlas %s page %s: %w", name, p.Name, err)
		}
		images[p.Name] = img
	}

	return newAtlas(af, images), nil
}

// newAtlas uploads decoded pages and builds the region table.
func newAtlas(af *AtlasFile, images map[string]image.Image) *Atlas {
	a := &Atlas{
		pages:   make(map[string]*ebiten.Image, len(af.Pages)),
		regions: make(map[string]graphics.Region, len(af.Regions)),
	}
	grids := make(map[string]AtlasPage, len(af.Pages))
	for _, p := range af.Pages {
		a.pages[p.Name] = ebiten.NewImageFromImage(images[p.Name])
		grids[p.Name] = p
	}

	for _, r := range af.Regions {
		page := a.pages[r.Page]
		rect := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
		if r.Index != nil {
			g := grids[r.Page]
			b := page.Bounds()
			rect = cellRect(b.Dx(), b.Dy(), g.Cols, g.Rows, *r.Index)
		}
		region := graphics.NewRegion(page).SubRegion(rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy())
		a.regions[r.Name] = region.Flip(r.FlipX, r.FlipY)
	}
	return a
}

// Region returns the named region.
func (a *Atlas) Region(name string) (graphics.Region, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Page returns the named page image, or nil.
func (a *Atlas) Page(name string) *ebiten.Image {
	return a.pages[name]
}

// Names returns the region names in sorted order.
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.regions))
	for n := range a.regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dispose releases the page images. Regions taken from the atlas must not be used afterwards.
func (a *Atlas) Dispose() {
	for _, img := range a.pages {
		img.Deallocate()
	}
	a.pages = map[string]*ebiten.Image{}
	a.regions = map[string]graphics.Region{}
}

// decodePage turns encoded page data into an image. SVG documents are rasterized at
// width x height (or their view box when zero); bitmaps are decoded and, when a size is
// given, rescaled to it.
func decodePage(name string, data []byte, width, height int) (image.Image, error) {
	if strings.EqualFold(path.Ext(name), ".svg") {
		return rasterizeSVG(data, width, height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
	}
	return scaleImage(img, width, height), nil
}

// rasterizeSVG renders an SVG document into an RGBA image.
func rasterizeSVG(data []byte, width, height int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	if width <= 0 || height <= 0 {
		width, height = int(icon.ViewBox.W), int(icon.ViewBox.H)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("failed to rasterize SVG: no size given and no view box")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	icon.SetTarget(0, 0, float64(width), float64(height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

// scaleImage resamples img to width x height. Zero sizes or an unchanged size return img.
func scaleImage(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if width <= 0 || height <= 0 || (b.Dx() == width && b.Dy() == height) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
