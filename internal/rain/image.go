package rain

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Image is a raster Surface that reproduces the canvas look: a translucent
// dark rectangle per frame and bright green monospace glyphs.
type Image struct {
	dc       *gg.Context
	face     font.Face
	width    int
	height   int
	fontSize float64
}

// NewImage allocates a width x height canvas using Go Mono at fontSize points.
func NewImage(width, height int, fontSize float64) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("rain: invalid image size %dx%d", width, height)
	}
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("rain: parse font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	img := &Image{face: face, fontSize: fontSize}
	img.SetSize(width, height)
	return img, nil
}

// SetSize replaces the canvas with a blank one of the new size.
func (i *Image) SetSize(width, height int) {
	i.width = width
	i.height = height
	i.dc = gg.NewContext(width, height)
	i.dc.SetFontFace(i.face)
	i.dc.SetHexColor("#0a0a0a")
	i.dc.Clear()
}

// Size implements Surface.
func (i *Image) Size() (int, int) {
	return i.width, i.height
}

// Fade implements Surface.
func (i *Image) Fade() {
	i.dc.SetRGBA(10.0/255, 10.0/255, 10.0/255, 0.04)
	i.dc.DrawRectangle(0, 0, float64(i.width), float64(i.height))
	i.dc.Fill()
}

// DrawGlyph implements Surface.
func (i *Image) DrawGlyph(x, y int, glyph rune) {
	i.dc.SetHexColor("#00ff41")
	i.dc.DrawString(string(glyph), float64(x), float64(y))
}

// SavePNG writes the current canvas to path.
func (i *Image) SavePNG(path string) error {
	if err := i.dc.SavePNG(path); err != nil {
		return fmt.Errorf("rain: save %s: %w", path, err)
	}
	return nil
}
