package stage

import (
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type ResizeStage struct {
	Width  int
	Height int
}

// Process resamples to exactly Width x Height with a Lanczos filter, without
// preserving aspect ratio
func (s *ResizeStage) Process(p *raster.Image) error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: resize to %dx%d", raster.ErrInvalidParameter, s.Width, s.Height)
	}
	p.Set(imaging.Resize(p.Img, s.Width, s.Height, imaging.Lanczos))
	return nil
}
