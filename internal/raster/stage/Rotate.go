package stage

import (
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type RotateStage struct {
	Degrees int
}

// Process rotates clockwise by a multiple of 90 degrees. The canvas grows to
// fit, so 90 and 270 swap width and height
func (s *RotateStage) Process(p *raster.Image) error {
	switch s.Degrees {
	case 90:
		p.Set(imaging.Rotate270(p.Img))
	case 180:
		p.Set(imaging.Rotate180(p.Img))
	case 270:
		p.Set(imaging.Rotate90(p.Img))
	case 0, 360:
	default:
		return fmt.Errorf("%w: rotation of %d degrees", raster.ErrInvalidParameter, s.Degrees)
	}
	return nil
}
