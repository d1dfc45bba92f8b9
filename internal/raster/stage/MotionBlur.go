package stage

import (
	"math"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/rm-hull/imgpipe/internal/raster"
)

const DefaultMotionBlurSize = 15

type MotionBlurStage struct {
	Size  int
	Angle float64
}

// Process smears the image along a line at Angle degrees (counter-clockwise
// from horizontal), Size pixels long
func (s *MotionBlurStage) Process(p *raster.Image) error {
	kernel := MotionKernel(s.Size, s.Angle)
	p.Set(convolution.Convolve(p.Img, kernel, &convolution.Options{KeepAlpha: true}))
	return nil
}

// MotionKernel builds a size x size kernel holding a horizontal line through
// the centre, rotated about the centre with bilinear sampling. Rotation
// spreads and clips the line, so the result is renormalised to sum to 1
func MotionKernel(size int, angle float64) *convolution.Kernel {
	if size < 1 {
		size = DefaultMotionBlurSize
	}

	base := make([]float64, size*size)
	mid := (size - 1) / 2
	for x := range size {
		base[mid*size+x] = 1.0 / float64(size)
	}

	centre := float64(size-1) / 2
	rad := angle * math.Pi / 180
	sin, cos := math.Sincos(rad)

	at := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= size || y >= size {
			return 0
		}
		return base[y*size+x]
	}

	kernel := convolution.NewKernel(size, size)
	sum := 0.0
	for r := range size {
		for c := range size {
			dx, dy := float64(c)-centre, float64(r)-centre
			sx := centre + dx*cos - dy*sin
			sy := centre + dx*sin + dy*cos

			x0, y0 := math.Floor(sx), math.Floor(sy)
			fx, fy := sx-x0, sy-y0
			ix, iy := int(x0), int(y0)
			v := at(ix, iy)*(1-fx)*(1-fy) +
				at(ix+1, iy)*fx*(1-fy) +
				at(ix, iy+1)*(1-fx)*fy +
				at(ix+1, iy+1)*fx*fy

			kernel.Matrix[r*size+c] = v
			sum += v
		}
	}

	if sum > 0 {
		for i := range kernel.Matrix {
			kernel.Matrix[i] /= sum
		}
	}
	return kernel
}
