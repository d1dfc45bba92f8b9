package stage

import (
	"fmt"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type ContrastStage struct {
	Factor float64
}

// Process pushes channels away from (or towards) the mean grey level of the
// image. A factor of 0 yields a flat grey image of that mean
func (s *ContrastStage) Process(p *raster.Image) error {
	if s.Factor < 0 {
		return fmt.Errorf("%w: contrast factor %v must not be negative", raster.ErrInvalidParameter, s.Factor)
	}
	if s.Factor == 1.0 {
		return nil
	}
	mean := clampRound(meanLuma(p.Img))
	p.Set(adjust.Apply(p.Img, func(c color.RGBA) color.RGBA {
		return color.RGBA{
			blend(mean, c.R, s.Factor),
			blend(mean, c.G, s.Factor),
			blend(mean, c.B, s.Factor),
			c.A,
		}
	}))
	return nil
}
