package stage

import (
	"fmt"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type BrightnessStage struct {
	Factor float64
}

// Process scales every channel by Factor: 0 is black, 1 leaves the image unchanged
func (s *BrightnessStage) Process(p *raster.Image) error {
	if s.Factor < 0 {
		return fmt.Errorf("%w: brightness factor %v must not be negative", raster.ErrInvalidParameter, s.Factor)
	}
	if s.Factor == 1.0 {
		return nil
	}
	p.Set(adjust.Apply(p.Img, func(c color.RGBA) color.RGBA {
		return color.RGBA{scale(c.R, s.Factor), scale(c.G, s.Factor), scale(c.B, s.Factor), c.A}
	}))
	return nil
}
