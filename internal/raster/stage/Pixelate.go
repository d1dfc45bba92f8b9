package stage

import (
	"github.com/disintegration/imaging"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type PixelateStage struct {
	BlockSize int
}

// Process shrinks the image by BlockSize with nearest neighbour sampling and
// scales it back up, so each block shows a single colour. Block sizes below 2
// leave the image untouched
func (s *PixelateStage) Process(p *raster.Image) error {
	if s.BlockSize < 2 {
		return nil
	}
	w, h := p.Width(), p.Height()
	small := imaging.Resize(p.Img, max(1, w/s.BlockSize), max(1, h/s.BlockSize), imaging.NearestNeighbor)
	p.Set(imaging.Resize(small, w, h, imaging.NearestNeighbor))
	return nil
}
