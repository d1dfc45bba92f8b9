package stage

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

func clampRound(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

func scale(c uint8, factor float64) uint8 {
	return clampRound(float64(c) * factor)
}

// truncScale multiplies in single precision and drops the fraction
func truncScale(c uint8, factor float64) uint8 {
	v := float32(c) * float32(factor)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// luma is the ITU-R 601-2 transform in 16-bit fixed point, rounded
func luma(r, g, b uint8) uint8 {
	return uint8((uint32(r)*19595 + uint32(g)*38470 + uint32(b)*7471 + 0x8000) >> 16)
}

// meanLuma is the average luma across the whole image, rounded to an integer
func meanLuma(img image.Image) float64 {
	src := imaging.Clone(img)
	n := len(src.Pix) / 4
	if n == 0 {
		return 0
	}
	var sum uint64
	for i := 0; i < len(src.Pix); i += 4 {
		sum += uint64(luma(src.Pix[i], src.Pix[i+1], src.Pix[i+2]))
	}
	return math.Floor(float64(sum)/float64(n) + 0.5)
}

// blend interpolates from degenerate towards c by factor, extrapolating when
// factor is above one
func blend(degenerate, c uint8, factor float64) uint8 {
	d := float64(degenerate)
	return clampRound(d + (float64(c)-d)*factor)
}
