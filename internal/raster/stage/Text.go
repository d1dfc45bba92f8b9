package stage

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// textBox holds the ink bounds of a measured string
type textBox struct {
	bounds fixed.Rectangle26_6
	Width  int
	Height int
}

func measure(face font.Face, text string) textBox {
	b, _ := font.BoundString(face, text)
	return textBox{
		bounds: b,
		Width:  (b.Max.X - b.Min.X).Ceil(),
		Height: (b.Max.Y - b.Min.Y).Ceil(),
	}
}

// drawText renders text so the top-left of its ink box lands on at
func drawText(dst draw.Image, face font.Face, text string, box textBox, at image.Point, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(at.X) - box.bounds.Min.X,
			Y: fixed.I(at.Y) - box.bounds.Min.Y,
		},
	}
	d.DrawString(text)
}

// rotateLayer turns the layer counter-clockwise by degrees about (cx, cy),
// keeping its size; corners that fall off the canvas are lost
func rotateLayer(layer *image.NRGBA, degrees, cx, cy float64) *image.NRGBA {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	s2d := f64.Aff3{
		cos, sin, cx - cx*cos - cy*sin,
		-sin, cos, cy + cx*sin - cy*cos,
	}
	out := image.NewNRGBA(layer.Bounds())
	draw.BiLinear.Transform(out, s2d, layer, layer.Bounds(), draw.Src, nil)
	return out
}
