package stage

import (
	"errors"

	"github.com/anthonynsimon/bild/effect"
	"github.com/rm-hull/imgpipe/internal/raster"
	"github.com/rs/zerolog/log"
)

const DefaultOilPaintRadius = 4

type OilPaintStage struct {
	Radius int
}

// Process renders an oil painting effect when the binary was built with
// ImageMagick support, otherwise it degrades to a 3x3 median filter
func (s *OilPaintStage) Process(p *raster.Image) error {
	radius := s.Radius
	if radius <= 0 {
		radius = DefaultOilPaintRadius
	}

	out, err := oilPaint(p.Img, float64(radius))
	if errors.Is(err, raster.ErrUnsupportedFeature) {
		log.Warn().Err(err).Msg("oil painting unavailable, falling back to median filter")
		p.Set(effect.Median(p.Img, 1))
		return nil
	}
	if err != nil {
		return err
	}
	p.Set(out)
	return nil
}
