package stage

import (
	"github.com/anthonynsimon/bild/effect"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type InvertStage struct{}

// Process replaces each colour channel c with 255 - c
func (s *InvertStage) Process(p *raster.Image) error {
	p.Set(effect.Invert(p.Img))
	return nil
}
