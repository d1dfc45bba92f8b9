package stage

import (
	"github.com/disintegration/imaging"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type MirrorStage struct {
	Horizontal bool
	Vertical   bool
}

// Process flips left-right when Horizontal is set, then top-bottom when Vertical is set
func (s *MirrorStage) Process(p *raster.Image) error {
	if s.Horizontal {
		p.Set(imaging.FlipH(p.Img))
	}
	if s.Vertical {
		p.Set(imaging.FlipV(p.Img))
	}
	return nil
}
