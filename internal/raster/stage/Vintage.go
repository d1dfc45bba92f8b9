package stage

import (
	"github.com/rm-hull/imgpipe/internal/raster"
)

type VintageStage struct{}

// Process tones the image sepia, then flattens contrast and dims it slightly
func (s *VintageStage) Process(p *raster.Image) error {
	return p.Pipeline(
		&SepiaStage{},
		&ContrastStage{Factor: 0.8},
		&BrightnessStage{Factor: 0.9},
	)
}
