package stage

import (
	"image"
	"image/color"

	"github.com/rm-hull/imgpipe/internal/raster"
)

type GreyscaleStage struct{}

// Process converts the image to greyscale using luminance calculation
// Each pixel keeps its alpha, and the three colour channels are set to the luma value
// Reference: https://en.wikipedia.org/wiki/Grayscale#Luma_coding_in_video_systems
func (s *GreyscaleStage) Process(p *raster.Image) error {
	gs := image.NewNRGBA(p.Bounds)
	for y := p.Bounds.Min.Y; y < p.Bounds.Max.Y; y++ {
		for x := p.Bounds.Min.X; x < p.Bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(p.Img.At(x, y)).(color.NRGBA)
			lum := luma(c.R, c.G, c.B)
			gs.SetNRGBA(x, y, color.NRGBA{lum, lum, lum, c.A})
		}
	}
	p.Set(gs)
	return nil
}
