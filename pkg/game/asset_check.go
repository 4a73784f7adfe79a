package game

import (
	"fmt"
	"image"
	"io/fs"
	"path"
)

// CheckAtlas loads the atlas description at name, decodes its pages and checks that
// every region lies inside its page. It needs no graphics context.
func CheckAtlas(fsys fs.FS, name string) error {
	data, err := readAsset(fsys, name)
	if err != nil {
		return err
	}
	af, err := ParseAtlasFile(data)
	if err != nil {
		return fmt.Errorf("atlas %s: %w", name, err)
	}

	bounds := make(map[string]image.Rectangle, len(af.Pages))
	for _, p := range af.Pages {
		imgPath := path.Join(path.Dir(name), p.Image)
		imgData, err := readAsset(fsys, imgPath)
		if err != nil {
			return fmt.Errorf("atlas %s page %s: %w", name, p.Name, err)
		}
		img, err := decodePage(imgPath, imgData, p.Width, p.Height)
		if err != nil {
			return fmt.Errorf("atlas %s page %s: %w", name, p.Name, err)
		}
		bounds[p.Name] = img.Bounds()
	}

	for _, r := range af.Regions {
		b := bounds[r.Page]
		rect := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
		if r.Index != nil {
			page := pageByName(af, r.Page)
			rect = cellRect(b.Dx(), b.Dy(), page.Cols, page.Rows, *r.Index)
		}
		if rect.Empty() || !rect.In(b) {
			return fmt.Errorf("atlas %s: %w: region %s %v outside page %s %v",
				name, ErrInvalidAtlas, r.Name, rect, r.Page, b)
		}
	}
	return nil
}

func pageByName(af *AtlasFile, name string) AtlasPage {
	for _, p := range af.Pages {
		if p.Name == name {
			return p
		}
	}
	return AtlasPage{}
}

// CheckAudio reads and decodes the audio file at name at sampleRate.
func CheckAudio(fsys fs.FS, name string, sampleRate int) error {
	data, err := readAsset(fsys, name)
	if err != nil {
		return err
	}
	if _, err := decodeAudio(sampleRate, audioExt(name), data); err != nil {
		return fmt.Errorf("audio %s: %w", name, err)
	}
	return nil
}

// Check verifies every asset of every group without loading it into managers:
// atlases are parsed and their pages decoded, audio files are decoded at sampleRate.
//
// Returns:
//   - []error: one error per broken asset, in group order; empty when all are usable
func (m *AssetManifest) Check(fsys fs.FS, sampleRate int) []error {
	var errs []error
	for _, name := range m.GroupNames() {
		group := m.Groups[name]
		for _, a := range group.Atlases {
			if err := CheckAtlas(fsys, m.Path(a.Path)); err != nil {
				errs = append(errs, fmt.Errorf("group %s atlas %s: %w", name, a.ID, err))
			}
		}
		for _, s := range group.Sounds {
			if err := CheckAudio(fsys, m.Path(s.Path), sampleRate); err != nil {
				errs = append(errs, fmt.Errorf("group %s sound %s: %w", name, s.ID, err))
			}
		}
		for _, t := range group.Music {
			if err := CheckAudio(fsys, m.Path(t.Path), sampleRate); err != nil {
				errs = append(errs, fmt.Errorf("group %s music %s: %w", name, t.ID, err))
			}
		}
	}
	return errs
}
