package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/piwi3910/PalletCut/internal/model"
)

// DefaultPNGSize is the target size in pixels of the longer pallet side.
const DefaultPNGSize = 1024

func nrgba(c boxColor) color.NRGBA {
	return color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 255}
}

// RenderImage draws the layout with the pallet origin at the bottom left.
// The longer pallet side spans size pixels.
func RenderImage(r model.Result, size int) (*image.NRGBA, error) {
	p := r.Problem
	if p.Length <= 0 || p.Width <= 0 {
		return nil, fmt.Errorf("invalid pallet %dx%d", p.Length, p.Width)
	}
	if size <= 0 {
		size = DefaultPNGSize
	}
	scale := float64(size) / float64(max(p.Length, p.Width))
	px := func(v int) int { return int(float64(v)*scale + 0.5) }

	img := imaging.New(px(p.Length), px(p.Width), nrgba(palletColor))
	outline := image.NewUniform(color.NRGBA{R: 30, G: 30, B: 30, A: 255})

	for _, b := range r.Boxes {
		rect := image.Rect(px(b.X1), px(b.Y1), px(b.X2), px(b.Y2))
		draw.Draw(img, rect, outline, image.Point{}, draw.Src)
		inner := rect.Inset(1)
		if !inner.Empty() {
			draw.Draw(img, inner, image.NewUniform(nrgba(colorOf(b))), image.Point{}, draw.Src)
		}
	}
	// Image rows grow downwards; pallet Y grows upwards.
	return imaging.FlipV(img), nil
}

// ExportPNG renders the layout of a single result to a PNG file.
func ExportPNG(path string, r model.Result, size int) error {
	img, err := RenderImage(r, size)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
