package stage

import (
	"fmt"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type SaturationStage struct {
	Factor float64
}

// Process blends each pixel with its own grey level: 0 removes all colour,
// values above 1 exaggerate it
func (s *SaturationStage) Process(p *raster.Image) error {
	if s.Factor < 0 {
		return fmt.Errorf("%w: saturation factor %v must not be negative", raster.ErrInvalidParameter, s.Factor)
	}
	if s.Factor == 1.0 {
		return nil
	}
	p.Set(adjust.Apply(p.Img, func(c color.RGBA) color.RGBA {
		l := luma(c.R, c.G, c.B)
		return color.RGBA{blend(l, c.R, s.Factor), blend(l, c.G, s.Factor), blend(l, c.B, s.Factor), c.A}
	}))
	return nil
}
