package stage

import (
	"github.com/anthonynsimon/bild/blur"
	"github.com/rm-hull/imgpipe/internal/raster"
)

type GaussianBlurStage struct {
	Sigma float64
}

// Process applies a Gaussian blur to the image using the specified Sigma value
// Higher Sigma values result in a more pronounced blur effect
func (s *GaussianBlurStage) Process(p *raster.Image) error {
	if s.Sigma <= 0 {
		return nil
	}
	p.Set(blur.Gaussian(p.Img, s.Sigma))
	return nil
}
