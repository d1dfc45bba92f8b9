package stage

import (
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/rm-hull/imgpipe/internal/raster"
)

var sepiaMatrix = [3][3]float64{
	{0.393, 0.769, 0.189},
	{0.349, 0.686, 0.168},
	{0.272, 0.534, 0.131},
}

type SepiaStage struct{}

// Process maps each pixel through the classic sepia tone matrix
func (s *SepiaStage) Process(p *raster.Image) error {
	p.Set(adjust.Apply(p.Img, func(c color.RGBA) color.RGBA {
		r, g, b := float64(c.R), float64(c.G), float64(c.B)
		var out [3]uint8
		for i, row := range sepiaMatrix {
			out[i] = clampRound(row[0]*r + row[1]*g + row[2]*b)
		}
		return color.RGBA{out[0], out[1], out[2], c.A}
	}))
	return nil
}
