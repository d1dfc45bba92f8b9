package stage

import (
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type TemperatureStage struct {
	Factor float64
}

// Process warms the image when Factor is above 1 by boosting red fully and
// green by half as much, and cools it below 1 by boosting blue by (2 - Factor).
// Channels are truncated, not rounded
func (s *TemperatureStage) Process(p *raster.Image) error {
	f := s.Factor
	switch {
	case f > 1.0:
		green := 1.0 + (f-1.0)*0.5
		p.Set(adjust.Apply(p.Img, func(c color.RGBA) color.RGBA {
			return color.RGBA{truncScale(c.R, f), truncScale(c.G, green), c.B, c.A}
		}))
	case f < 1.0:
		blue := 2.0 - f
		p.Set(adjust.Apply(p.Img, func(c color.RGBA) color.RGBA {
			return color.RGBA{c.R, c.G, truncScale(c.B, blue), c.A}
		}))
	}
	return nil
}
