package stage

import (
	"github.com/anthonynsimon/bild/effect"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type SharpenStage struct{}

// Process applies a 3x3 sharpening kernel
func (s *SharpenStage) Process(p *raster.Image) error {
	p.Set(effect.Sharpen(p.Img))
	return nil
}
