package stage

import (
	"github.com/anthonynsimon/bild/effect"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type EmbossStage struct{}

func (s *EmbossStage) Process(p *raster.Image) error {
	p.Set(effect.Emboss(p.Img))
	return nil
}
