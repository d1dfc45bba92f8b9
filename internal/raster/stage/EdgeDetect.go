package stage

import (
	"github.com/anthonynsimon/bild/effect"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type EdgeDetectStage struct{}

// Process highlights edges using a Laplacian style kernel of radius 1
func (s *EdgeDetectStage) Process(p *raster.Image) error {
	p.Set(effect.EdgeDetection(p.Img, 1.0))
	return nil
}
