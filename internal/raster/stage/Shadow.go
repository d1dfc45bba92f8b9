package stage

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type ShadowStage struct {
	Offset int
	Blur   float64
	Color  color.NRGBA
}

// Process grows the canvas by Offset on every side and lays the image, anchored
// at the top-left, over a half-transparent silhouette shifted by Offset and
// softened with a Gaussian blur
func (s *ShadowStage) Process(p *raster.Image) error {
	w, h := p.Width(), p.Height()
	o := max(0, s.Offset)

	canvas := image.NewNRGBA(image.Rect(0, 0, w+2*o, h+2*o))
	silhouette := imaging.New(w, h, color.NRGBA{s.Color.R, s.Color.G, s.Color.B, 128})

	var shadow image.Image = imaging.Paste(canvas, silhouette, image.Pt(o, o))
	if s.Blur > 0 {
		shadow = blur.Gaussian(shadow, s.Blur)
	}

	p.Set(imaging.Overlay(shadow, p.Img, image.Pt(0, 0), 1.0))
	p.Alpha = true
	return nil
}
