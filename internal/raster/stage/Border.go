package stage

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type BorderStage struct {
	Width int
	Color color.NRGBA
}

// Process pads the image on every side by Width pixels of a solid colour
func (s *BorderStage) Process(p *raster.Image) error {
	if s.Width <= 0 {
		return nil
	}
	bg := imaging.New(p.Width()+2*s.Width, p.Height()+2*s.Width, s.Color)
	p.Set(imaging.Paste(bg, p.Img, image.Pt(s.Width, s.Width)))
	return nil
}
