package stage

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/rm-hull/imgpipe/internal/raster"
)

type RoundedCornersStage struct {
	Radius int
}

// Process makes everything outside a rounded rectangle covering the image
// fully transparent. The radius is clamped to half the shorter side
func (s *RoundedCornersStage) Process(p *raster.Image) error {
	if s.Radius <= 0 {
		return nil
	}
	w, h := p.Width(), p.Height()
	r := float64(min(s.Radius, w/2, h/2))

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if insideRoundedRect(float64(x)+0.5, float64(y)+0.5, float64(w), float64(h), r) {
				mask.SetAlpha(x, y, color.Alpha{A: 255})
			}
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = 255, 255, 255
	}
	draw.DrawMask(out, out.Bounds(), p.Img, p.Bounds.Min, mask, image.Point{}, draw.Over)

	p.Set(out)
	p.Alpha = true
	return nil
}

func insideRoundedRect(px, py, w, h, r float64) bool {
	dx := max(r-px, px-(w-r), 0)
	dy := max(r-py, py-(h-r), 0)
	return dx*dx+dy*dy <= r*r
}
